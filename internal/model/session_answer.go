package model

import "time"

// SessionAnswer is one scored response inside a TestSession.
type SessionAnswer struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	TestSessionID  uint      `json:"test_session_id" gorm:"not null;index"`
	QuestionID     *uint     `json:"question_id,omitempty" gorm:"index"`
	QuestionNumber int       `json:"question_number"`
	Response       string    `json:"response" gorm:"type:text"`
	Score          float64   `json:"score"`
	CreatedAt      time.Time `json:"created_at"`
}
