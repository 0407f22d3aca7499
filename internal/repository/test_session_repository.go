package repository

import (
	"context"

	"github.com/lshigami/mockprep/internal/model"
	"gorm.io/gorm"
)

// TestSessionRepository is append-only: there is no Update or Delete.
type TestSessionRepository interface {
	Create(ctx context.Context, session *model.TestSession) error
	FindByID(ctx context.Context, id uint) (*model.TestSession, error)
	FindByUser(ctx context.Context, userID uint) ([]model.TestSession, error)
}

type testSessionRepository struct {
	db *gorm.DB
}

func NewTestSessionRepository(db *gorm.DB) TestSessionRepository {
	return &testSessionRepository{db: db}
}

// Create inserts the session and its answers in one transaction.
func (r *testSessionRepository) Create(ctx context.Context, session *model.TestSession) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(session).Error
	})
	return translate(err, "test session", session.UserID)
}

func (r *testSessionRepository) FindByID(ctx context.Context, id uint) (*model.TestSession, error) {
	var session model.TestSession
	err := r.db.WithContext(ctx).
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("session_answers.question_number ASC")
		}).
		First(&session, id).Error
	if err != nil {
		return nil, translate(err, "test session", id)
	}
	return &session, nil
}

// FindByUser returns every session of the user, newest first.
func (r *testSessionRepository) FindByUser(ctx context.Context, userID uint) ([]model.TestSession, error) {
	var sessions []model.TestSession
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("session_answers.question_number ASC")
		}).
		Order("created_at DESC").Order("id DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, translate(err, "test sessions", userID)
	}
	return sessions, nil
}
