package dto

import "time"

// QuestionResponseDTO is the student view of a question. The answer key and
// keywords are never included.
type QuestionResponseDTO struct {
	ID         uint     `json:"id"`
	CourseID   uint     `json:"course_id"`
	Type       string   `json:"type"`
	Difficulty string   `json:"difficulty"`
	Prompt     string   `json:"prompt"`
	Options    []string `json:"options,omitempty"`
}

// QuestionAdminDTO is the full question including grading data.
type QuestionAdminDTO struct {
	QuestionResponseDTO
	CorrectAnswer string   `json:"correct_answer,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
}

type CourseResponseDTO struct {
	ID            uint      `json:"id"`
	CategoryID    *uint     `json:"category_id,omitempty"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Duration      string    `json:"duration,omitempty"`
	Level         string    `json:"level,omitempty"`
	Topics        []string  `json:"topics,omitempty"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type CategoryResponseDTO struct {
	ID          uint   `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}
