package repository

import (
	"context"

	"github.com/lshigami/mockprep/internal/model"
	"github.com/lshigami/mockprep/internal/scoring"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(ctx context.Context, question *model.Question) error
	FindByID(ctx context.Context, id uint) (*model.Question, error)
	FindByCourseDifficultyType(ctx context.Context, courseID uint, difficulty scoring.Difficulty, types ...scoring.TestType) ([]model.Question, error)
	Update(ctx context.Context, question *model.Question) error
	Delete(ctx context.Context, id uint) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(ctx context.Context, question *model.Question) error {
	return translate(r.db.WithContext(ctx).Create(question).Error, "question", question.ID)
}

func (r *questionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, translate(err, "question", id)
	}
	return &question, nil
}

// FindByCourseDifficultyType returns questions in id order so MCQ question
// numbering is stable. With no types every type matches.
func (r *questionRepository) FindByCourseDifficultyType(ctx context.Context, courseID uint, difficulty scoring.Difficulty, types ...scoring.TestType) ([]model.Question, error) {
	var questions []model.Question
	query := r.db.WithContext(ctx).Where("course_id = ? AND difficulty = ?", courseID, difficulty)
	if len(types) > 0 {
		query = query.Where("type IN ?", types)
	}
	if err := query.Order("id ASC").Find(&questions).Error; err != nil {
		return nil, translate(err, "questions", courseID)
	}
	return questions, nil
}

func (r *questionRepository) Update(ctx context.Context, question *model.Question) error {
	return translate(r.db.WithContext(ctx).Save(question).Error, "question", question.ID)
}

func (r *questionRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Question{}, id)
	if res.Error != nil {
		return translate(res.Error, "question", id)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "question", id)
	}
	return nil
}
