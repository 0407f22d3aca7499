package model

import (
	"time"

	"github.com/lshigami/mockprep/internal/scoring"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Question struct {
	ID            uint                        `gorm:"primarykey" json:"id"`
	CourseID      uint                        `json:"course_id" gorm:"not null;index:idx_question_lookup"`
	Difficulty    scoring.Difficulty          `json:"difficulty" gorm:"type:varchar(10);not null;index:idx_question_lookup"`
	Type          scoring.TestType            `json:"type" gorm:"type:varchar(10);not null;index:idx_question_lookup"`
	Prompt        string                      `json:"prompt" gorm:"type:text;not null"`
	Options       datatypes.JSONSlice[string] `json:"options,omitempty"`
	CorrectAnswer string                      `json:"correct_answer,omitempty"`
	Keywords      datatypes.JSONSlice[string] `json:"keywords,omitempty"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
	DeletedAt     gorm.DeletedAt              `gorm:"index" json:"-"`
}
