package service

import (
	"context"

	"github.com/lshigami/mockprep/internal/cache"
	"github.com/lshigami/mockprep/internal/model"
	"github.com/lshigami/mockprep/internal/repository"
	"github.com/lshigami/mockprep/internal/scoring"
	"github.com/rs/zerolog/log"
)

// QuestionFinder reads questions through the cache. Cache failures are logged
// and the database answers instead.
type QuestionFinder struct {
	repo  repository.QuestionRepository
	cache cache.QuestionCache
}

func NewQuestionFinder(repo repository.QuestionRepository, c cache.QuestionCache) *QuestionFinder {
	return &QuestionFinder{repo: repo, cache: c}
}

func (f *QuestionFinder) Find(ctx context.Context, courseID uint, difficulty scoring.Difficulty, types ...scoring.TestType) ([]model.Question, error) {
	if f.cache != nil {
		cached, ok, err := f.cache.Get(ctx, courseID, difficulty, types)
		if err != nil {
			log.Warn().Err(err).Uint("courseID", courseID).Msg("QuestionFinder: cache read failed")
		} else if ok {
			return cached, nil
		}
	}

	questions, err := f.repo.FindByCourseDifficultyType(ctx, courseID, difficulty, types...)
	if err != nil {
		return nil, err
	}

	if f.cache != nil && len(questions) > 0 {
		if err := f.cache.Set(ctx, courseID, difficulty, types, questions); err != nil {
			log.Warn().Err(err).Uint("courseID", courseID).Msg("QuestionFinder: cache write failed")
		}
	}
	return questions, nil
}

func (f *QuestionFinder) Invalidate(ctx context.Context, courseID uint) {
	if f.cache == nil {
		return
	}
	if err := f.cache.InvalidateCourse(ctx, courseID); err != nil {
		log.Warn().Err(err).Uint("courseID", courseID).Msg("QuestionFinder: cache invalidation failed")
	}
}
