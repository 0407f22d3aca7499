package dto

import "time"

// MCQAnswerDTO is the user's choice for one multiple-choice question.
type MCQAnswerDTO struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	Response   string `json:"response"`
}

// SubmitMCQRequest grades a whole MCQ set for a course and difficulty.
type SubmitMCQRequest struct {
	CourseID   uint           `json:"course_id" binding:"required"`
	Difficulty string         `json:"difficulty" binding:"required"`
	Answers    []MCQAnswerDTO `json:"answers" binding:"required,min=1,dive"`
}

// SubmitTextRequest carries a free-text answer. Without QuestionID the answer
// is scored against the keywords of every text question of the course and
// difficulty.
type SubmitTextRequest struct {
	CourseID   uint   `json:"course_id" binding:"required"`
	Difficulty string `json:"difficulty" binding:"required"`
	QuestionID *uint  `json:"question_id"`
	Answer     string `json:"answer"`
}

// SubmitMediaRequest holds the multipart form fields sent alongside a voice
// or video upload.
type SubmitMediaRequest struct {
	CourseID   uint   `form:"course_id" binding:"required"`
	Difficulty string `form:"difficulty" binding:"required"`
	QuestionID *uint  `form:"question_id"`
}

type SessionAnswerDTO struct {
	QuestionID     *uint   `json:"question_id,omitempty"`
	QuestionNumber int     `json:"question_number"`
	Response       string  `json:"response"`
	Score          float64 `json:"score"`
}

type ArtifactsDTO struct {
	AudioURL       string   `json:"audio_url,omitempty"`
	VideoURL       string   `json:"video_url,omitempty"`
	FrameImageURLs []string `json:"frame_image_urls,omitempty"`
	Transcript     string   `json:"transcript,omitempty"`
}

type TestSessionDTO struct {
	ID           uint               `json:"id"`
	UserID       uint               `json:"user_id"`
	CourseID     uint               `json:"course_id"`
	TestType     string             `json:"test_type"`
	Difficulty   string             `json:"difficulty"`
	Score        float64            `json:"score"`
	ScorePercent float64            `json:"score_percent"`
	Matched      int                `json:"matched"`
	Total        int                `json:"total"`
	Status       string             `json:"status"`
	Answers      []SessionAnswerDTO `json:"answers,omitempty"`
	Artifacts    ArtifactsDTO       `json:"artifacts"`
	CreatedAt    time.Time          `json:"created_at"`
}

// SubmissionResultDTO is returned by every submit endpoint.
type SubmissionResultDTO struct {
	Session         TestSessionDTO `json:"session"`
	Score           float64        `json:"score"`
	ScorePercent    float64        `json:"score_percent"`
	CorrectAnswers  *int           `json:"correct_answers,omitempty"`
	TotalQuestions  *int           `json:"total_questions,omitempty"`
	MatchedKeywords *int           `json:"matched_keywords,omitempty"`
	TotalKeywords   *int           `json:"total_keywords,omitempty"`
	Transcript      string         `json:"transcript,omitempty"`
}

type ResultsDTO struct {
	UserID         uint             `json:"user_id"`
	Sessions       []TestSessionDTO `json:"sessions"`
	AverageScore   float64          `json:"average_score"`
	AveragePercent float64          `json:"average_percent"`
}

type NextDifficultyDTO struct {
	UserID         uint    `json:"user_id"`
	AverageScore   float64 `json:"average_score"`
	SessionCount   int     `json:"session_count"`
	NextDifficulty string  `json:"next_difficulty"`
}
