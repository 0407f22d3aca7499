package model

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Slug        string         `json:"slug" gorm:"not null;uniqueIndex"` // "data-structures"
	Name        string         `json:"name" gorm:"not null"`
	Icon        string         `json:"icon"`
	Color       string         `json:"color"`
	Description string         `json:"description"`
	Courses     []Course       `json:"courses,omitempty" gorm:"foreignKey:CategoryID"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
