package service

import (
	"context"
	"strings"

	"github.com/lshigami/mockprep/internal/apperr"
	"github.com/lshigami/mockprep/internal/dto"
	"github.com/lshigami/mockprep/internal/model"
	"github.com/lshigami/mockprep/internal/repository"
	"github.com/lshigami/mockprep/internal/scoring"
	"github.com/rs/zerolog/log"
)

type QuestionService interface {
	ListForPractice(ctx context.Context, courseID uint, difficulty string) ([]dto.QuestionResponseDTO, error)
	GetQuestion(ctx context.Context, id uint) (*dto.QuestionAdminDTO, error)
	CreateQuestion(ctx context.Context, req dto.QuestionCreateDTO) (*dto.QuestionAdminDTO, error)
	UpdateQuestion(ctx context.Context, id uint, req dto.QuestionUpdateDTO) (*dto.QuestionAdminDTO, error)
	DeleteQuestion(ctx context.Context, id uint) error
}

type questionService struct {
	repo       repository.QuestionRepository
	courseRepo repository.CourseRepository
	finder     *QuestionFinder
}

func NewQuestionService(repo repository.QuestionRepository, courseRepo repository.CourseRepository, finder *QuestionFinder) QuestionService {
	return &questionService{repo: repo, courseRepo: courseRepo, finder: finder}
}

// ListForPractice returns every question of the course at the given
// difficulty, without answer keys.
func (s *questionService) ListForPractice(ctx context.Context, courseID uint, difficulty string) ([]dto.QuestionResponseDTO, error) {
	d, err := scoring.ParseDifficulty(difficulty)
	if err != nil {
		return nil, apperr.Wrap(apperr.Validation, err, "invalid difficulty")
	}
	if _, err := s.courseRepo.FindByID(ctx, courseID); err != nil {
		return nil, err
	}
	questions, err := s.finder.Find(ctx, courseID, d)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.QuestionResponseDTO, 0, len(questions))
	for i := range questions {
		resp = append(resp, toQuestionDTO(&questions[i]))
	}
	return resp, nil
}

func (s *questionService) GetQuestion(ctx context.Context, id uint) (*dto.QuestionAdminDTO, error) {
	q, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toQuestionAdminDTO(q)
	return &resp, nil
}

func (s *questionService) CreateQuestion(ctx context.Context, req dto.QuestionCreateDTO) (*dto.QuestionAdminDTO, error) {
	if _, err := s.courseRepo.FindByID(ctx, req.CourseID); err != nil {
		log.Warn().Err(err).Uint("courseID", req.CourseID).Msg("Invalid CourseID provided for question creation")
		return nil, err
	}
	q := model.Question{CourseID: req.CourseID}
	if err := applyQuestion(&q, req.Type, req.Difficulty, req.Prompt, req.Options, req.CorrectAnswer, req.Keywords); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &q); err != nil {
		log.Error().Err(err).Msg("Failed to create question")
		return nil, err
	}
	s.finder.Invalidate(ctx, q.CourseID)

	resp := toQuestionAdminDTO(&q)
	return &resp, nil
}

func (s *questionService) UpdateQuestion(ctx context.Context, id uint, req dto.QuestionUpdateDTO) (*dto.QuestionAdminDTO, error) {
	q, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyQuestion(q, req.Type, req.Difficulty, req.Prompt, req.Options, req.CorrectAnswer, req.Keywords); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, q); err != nil {
		return nil, err
	}
	s.finder.Invalidate(ctx, q.CourseID)

	resp := toQuestionAdminDTO(q)
	return &resp, nil
}

func (s *questionService) DeleteQuestion(ctx context.Context, id uint) error {
	q, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.finder.Invalidate(ctx, q.CourseID)
	return nil
}

// applyQuestion validates type-specific fields: mcq needs options containing
// the correct answer, the other types need at least one keyword.
func applyQuestion(q *model.Question, typ, difficulty, prompt string, options []string, correct string, keywords []string) error {
	t, err := scoring.ParseTestType(typ)
	if err != nil {
		return apperr.Wrap(apperr.Validation, err, "invalid question type")
	}
	d, err := scoring.ParseDifficulty(difficulty)
	if err != nil {
		return apperr.Wrap(apperr.Validation, err, "invalid difficulty")
	}

	switch t {
	case scoring.MCQ:
		if len(options) < 2 {
			return apperr.Validationf("mcq questions need at least two options")
		}
		if strings.TrimSpace(correct) == "" {
			return apperr.Validationf("mcq questions need a correct answer")
		}
		found := false
		for _, o := range options {
			if scoring.ScoreMCQ(o, correct) == 1 {
				found = true
				break
			}
		}
		if !found {
			return apperr.Validationf("correct answer %q is not one of the options", correct)
		}
	default:
		if len(keywords) == 0 {
			return apperr.Validationf("%s questions need at least one keyword", t)
		}
	}

	q.Type = t
	q.Difficulty = d
	q.Prompt = prompt
	q.Options = options
	q.CorrectAnswer = correct
	q.Keywords = keywords
	return nil
}

func toQuestionDTO(q *model.Question) dto.QuestionResponseDTO {
	return dto.QuestionResponseDTO{
		ID:         q.ID,
		CourseID:   q.CourseID,
		Type:       string(q.Type),
		Difficulty: string(q.Difficulty),
		Prompt:     q.Prompt,
		Options:    []string(q.Options),
	}
}

func toQuestionAdminDTO(q *model.Question) dto.QuestionAdminDTO {
	return dto.QuestionAdminDTO{
		QuestionResponseDTO: toQuestionDTO(q),
		CorrectAnswer:       q.CorrectAnswer,
		Keywords:            []string(q.Keywords),
	}
}
