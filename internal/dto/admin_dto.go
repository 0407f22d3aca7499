package dto

// QuestionCreateDTO is used by admins to add a question to a course.
type QuestionCreateDTO struct {
	CourseID      uint     `json:"course_id" binding:"required"`
	Type          string   `json:"type" binding:"required,oneof=mcq text voice video"`
	Difficulty    string   `json:"difficulty" binding:"required"`
	Prompt        string   `json:"prompt" binding:"required"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Keywords      []string `json:"keywords"`
}

// QuestionUpdateDTO replaces the editable fields of a question.
type QuestionUpdateDTO struct {
	Type          string   `json:"type" binding:"required,oneof=mcq text voice video"`
	Difficulty    string   `json:"difficulty" binding:"required"`
	Prompt        string   `json:"prompt" binding:"required"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Keywords      []string `json:"keywords"`
}

type CourseCreateDTO struct {
	CategoryID  *uint    `json:"category_id"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Duration    string   `json:"duration"`
	Level       string   `json:"level" binding:"omitempty,oneof=Beginner Intermediate Advanced"`
	Topics      []string `json:"topics"`
}

type CategoryCreateDTO struct {
	Slug        string `json:"slug" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Description string `json:"description"`
}
