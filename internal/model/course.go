package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Course struct {
	ID          uint                        `gorm:"primarykey" json:"id"`
	CategoryID  *uint                       `json:"category_id,omitempty" gorm:"index"`
	Title       string                      `json:"title" gorm:"not null"`
	Description string                      `json:"description,omitempty"`
	Duration    string                      `json:"duration,omitempty"`
	Level       string                      `json:"level,omitempty"` // Beginner, Intermediate, Advanced
	Topics      datatypes.JSONSlice[string] `json:"topics,omitempty"`
	Questions   []Question                  `json:"questions,omitempty" gorm:"foreignKey:CourseID"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
	DeletedAt   gorm.DeletedAt              `gorm:"index" json:"-"`
}
