package service

import (
	"context"
	"fmt"

	"github.com/lshigami/mockprep/internal/dto"
	"github.com/lshigami/mockprep/internal/model"
	"github.com/lshigami/mockprep/internal/repository"
	"github.com/rs/zerolog/log"
)

type CourseService interface {
	ListCourses(ctx context.Context, categoryID *uint) ([]dto.CourseResponseDTO, error)
	GetCourse(ctx context.Context, id uint) (*dto.CourseResponseDTO, error)
	CreateCourse(ctx context.Context, req dto.CourseCreateDTO) (*dto.CourseResponseDTO, error)
	UpdateCourse(ctx context.Context, id uint, req dto.CourseCreateDTO) (*dto.CourseResponseDTO, error)
	DeleteCourse(ctx context.Context, id uint) error
}

type courseService struct {
	courseRepo   repository.CourseRepository
	categoryRepo repository.CategoryRepository
	questions    *QuestionFinder
}

func NewCourseService(courseRepo repository.CourseRepository, categoryRepo repository.CategoryRepository, questions *QuestionFinder) CourseService {
	return &courseService{courseRepo: courseRepo, categoryRepo: categoryRepo, questions: questions}
}

func (s *courseService) ListCourses(ctx context.Context, categoryID *uint) ([]dto.CourseResponseDTO, error) {
	rows, err := s.courseRepo.FindAllWithQuestionCount(ctx, categoryID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list courses")
		return nil, fmt.Errorf("error fetching courses: %w", err)
	}
	dtos := make([]dto.CourseResponseDTO, 0, len(rows))
	for _, row := range rows {
		d := toCourseDTO(&row.Course)
		d.QuestionCount = row.QuestionCount
		dtos = append(dtos, d)
	}
	return dtos, nil
}

func (s *courseService) GetCourse(ctx context.Context, id uint) (*dto.CourseResponseDTO, error) {
	course, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d := toCourseDTO(course)
	return &d, nil
}

func (s *courseService) CreateCourse(ctx context.Context, req dto.CourseCreateDTO) (*dto.CourseResponseDTO, error) {
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	course := model.Course{}
	applyCourse(&course, req)
	if err := s.courseRepo.Create(ctx, &course); err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("Failed to create course")
		return nil, err
	}
	d := toCourseDTO(&course)
	return &d, nil
}

func (s *courseService) UpdateCourse(ctx context.Context, id uint, req dto.CourseCreateDTO) (*dto.CourseResponseDTO, error) {
	course, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	applyCourse(course, req)
	if err := s.courseRepo.Update(ctx, course); err != nil {
		log.Error().Err(err).Uint("courseID", id).Msg("Failed to update course")
		return nil, err
	}
	d := toCourseDTO(course)
	return &d, nil
}

func (s *courseService) DeleteCourse(ctx context.Context, id uint) error {
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.questions.Invalidate(ctx, id)
	return nil
}

func (s *courseService) checkCategory(ctx context.Context, categoryID *uint) error {
	if categoryID == nil {
		return nil
	}
	_, err := s.categoryRepo.FindByID(ctx, *categoryID)
	return err
}

func applyCourse(course *model.Course, req dto.CourseCreateDTO) {
	course.CategoryID = req.CategoryID
	course.Title = req.Title
	course.Description = req.Description
	course.Duration = req.Duration
	course.Level = req.Level
	course.Topics = req.Topics
}

func toCourseDTO(c *model.Course) dto.CourseResponseDTO {
	return dto.CourseResponseDTO{
		ID:          c.ID,
		CategoryID:  c.CategoryID,
		Title:       c.Title,
		Description: c.Description,
		Duration:    c.Duration,
		Level:       c.Level,
		Topics:      []string(c.Topics),
		CreatedAt:   c.CreatedAt,
	}
}
