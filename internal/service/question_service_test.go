package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lshigami/mockprep/internal/apperr"
	"github.com/lshigami/mockprep/internal/dto"
	"github.com/lshigami/mockprep/internal/model"
	"github.com/lshigami/mockprep/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuestionService(t *testing.T) (QuestionService, *fakeQuestionRepo, *fakeCache) {
	t.Helper()
	repo := &fakeQuestionRepo{questions: seedQuestions()}
	courses := &fakeCourseRepo{courses: map[uint]*model.Course{testCourseID: {ID: testCourseID, Title: "Data Structures"}}}
	c := newFakeCache()
	return NewQuestionService(repo, courses, NewQuestionFinder(repo, c)), repo, c
}

func TestListForPractice_HidesAnswerKeys(t *testing.T) {
	svc, _, _ := newQuestionService(t)

	qs, err := svc.ListForPractice(context.Background(), testCourseID, "easy")
	require.NoError(t, err)
	require.Len(t, qs, 6)
	assert.Equal(t, uint(1), qs[0].ID)
	assert.Equal(t, []string{"A", "B"}, qs[0].Options)

	_, err = svc.ListForPractice(context.Background(), testCourseID, "impossible")
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = svc.ListForPractice(context.Background(), 404, "easy")
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestCreateQuestion_Validates(t *testing.T) {
	cases := []struct {
		name string
		req  dto.QuestionCreateDTO
	}{
		{"mcq with one option", dto.QuestionCreateDTO{CourseID: testCourseID, Type: "mcq", Difficulty: "easy", Prompt: "p", Options: []string{"A"}, CorrectAnswer: "A"}},
		{"mcq answer not an option", dto.QuestionCreateDTO{CourseID: testCourseID, Type: "mcq", Difficulty: "easy", Prompt: "p", Options: []string{"A", "B"}, CorrectAnswer: "C"}},
		{"mcq without answer", dto.QuestionCreateDTO{CourseID: testCourseID, Type: "mcq", Difficulty: "easy", Prompt: "p", Options: []string{"A", "B"}}},
		{"text without keywords", dto.QuestionCreateDTO{CourseID: testCourseID, Type: "text", Difficulty: "easy", Prompt: "p"}},
		{"bad difficulty", dto.QuestionCreateDTO{CourseID: testCourseID, Type: "voice", Difficulty: "expert", Prompt: "p", Keywords: []string{"k"}}},
		{"bad type", dto.QuestionCreateDTO{CourseID: testCourseID, Type: "essay", Difficulty: "easy", Prompt: "p", Keywords: []string{"k"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, _ := newQuestionService(t)
			before := len(repo.questions)
			_, err := svc.CreateQuestion(context.Background(), tc.req)
			assert.Equal(t, apperr.Validation, apperr.KindOf(err))
			assert.Len(t, repo.questions, before)
		})
	}
}

func TestCreateQuestion_InvalidatesCachedPool(t *testing.T) {
	svc, _, c := newQuestionService(t)
	ctx := context.Background()

	medium, err := svc.ListForPractice(ctx, testCourseID, "medium")
	require.NoError(t, err)
	assert.Empty(t, medium)

	easy, err := svc.ListForPractice(ctx, testCourseID, "easy")
	require.NoError(t, err)
	require.NotEmpty(t, c.entries)

	created, err := svc.CreateQuestion(ctx, dto.QuestionCreateDTO{
		CourseID: testCourseID, Type: "mcq", Difficulty: "easy", Prompt: "New",
		Options: []string{"yes", "no"}, CorrectAnswer: "Yes",
	})
	require.NoError(t, err)
	assert.Equal(t, "Yes", created.CorrectAnswer)
	assert.Contains(t, c.invalidated, testCourseID)
	assert.Empty(t, c.entries)

	after, err := svc.ListForPractice(ctx, testCourseID, "easy")
	require.NoError(t, err)
	assert.Len(t, after, len(easy)+1)
}

func TestUpdateAndDeleteQuestion(t *testing.T) {
	svc, repo, c := newQuestionService(t)
	ctx := context.Background()

	updated, err := svc.UpdateQuestion(ctx, 10, dto.QuestionUpdateDTO{
		Type: "text", Difficulty: "hard", Prompt: "Reworded", Keywords: []string{"tree"},
	})
	require.NoError(t, err)
	assert.Equal(t, "hard", updated.Difficulty)
	assert.Equal(t, []string{"tree"}, updated.Keywords)

	require.NoError(t, svc.DeleteQuestion(ctx, 10))
	_, err = repo.FindByID(ctx, 10)
	assert.True(t, apperr.Is(err, apperr.NotFound))
	assert.Len(t, c.invalidated, 2)

	err = svc.DeleteQuestion(ctx, 10)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestQuestionFinder_CacheAside(t *testing.T) {
	repo := &fakeQuestionRepo{questions: seedQuestions()}
	c := newFakeCache()
	finder := NewQuestionFinder(repo, c)
	ctx := context.Background()

	first, err := finder.Find(ctx, testCourseID, scoring.Easy, scoring.MCQ)
	require.NoError(t, err)
	second, err := finder.Find(ctx, testCourseID, scoring.Easy, scoring.MCQ)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.findCalls)

	finder.Invalidate(ctx, testCourseID)
	_, err = finder.Find(ctx, testCourseID, scoring.Easy, scoring.MCQ)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.findCalls)
}

func TestQuestionFinder_CacheErrorsFallBackToStore(t *testing.T) {
	repo := &fakeQuestionRepo{questions: seedQuestions()}
	c := newFakeCache()
	c.getErr = errors.New("redis down")
	finder := NewQuestionFinder(repo, c)

	qs, err := finder.Find(context.Background(), testCourseID, scoring.Easy, scoring.Text)
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, uint(10), qs[0].ID)
}

func TestQuestionFinder_WithoutCache(t *testing.T) {
	repo := &fakeQuestionRepo{questions: seedQuestions()}
	finder := NewQuestionFinder(repo, nil)

	qs, err := finder.Find(context.Background(), testCourseID, scoring.Hard)
	require.NoError(t, err)
	assert.Len(t, qs, 1)
	finder.Invalidate(context.Background(), testCourseID)
}
