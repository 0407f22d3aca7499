package model

import (
	"time"

	"github.com/lshigami/mockprep/internal/scoring"
	"gorm.io/datatypes"
)

const SessionStatusCompleted = "completed"

// TestSession is the immutable record of one graded submission. There is no
// DeletedAt: sessions are only ever inserted.
type TestSession struct {
	ID         uint               `gorm:"primarykey" json:"id"`
	UserID     uint               `json:"user_id" gorm:"not null;index:idx_session_user_created"`
	CourseID   uint               `json:"course_id" gorm:"not null;index"`
	TestType   scoring.TestType   `json:"test_type" gorm:"type:varchar(10);not null"`
	Difficulty scoring.Difficulty `json:"difficulty" gorm:"type:varchar(10);not null;default:'easy'"`
	Score      float64            `json:"score" gorm:"not null;default:0"`
	// Matched and Total are correct/asked for mcq, matched/expected keywords otherwise.
	Matched   int              `json:"matched"`
	Total     int              `json:"total"`
	Status    string           `json:"status" gorm:"type:varchar(20);default:'completed'"`
	Answers   []SessionAnswer  `json:"answers,omitempty" gorm:"foreignKey:TestSessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Artifacts SessionArtifacts `json:"artifacts" gorm:"embedded;embeddedPrefix:artifact_"`
	CreatedAt time.Time        `json:"created_at" gorm:"index:idx_session_user_created"`
}

type SessionArtifacts struct {
	AudioURL       string                      `json:"audio_url,omitempty"`
	VideoURL       string                      `json:"video_url,omitempty"`
	FrameImageURLs datatypes.JSONSlice[string] `json:"frame_image_urls,omitempty"`
	Transcript     string                      `json:"transcript,omitempty" gorm:"type:text"`
}

func (s TestSession) SessionScore() float64 { return s.Score }
