package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/lshigami/mockprep/internal/apperr"
	"github.com/lshigami/mockprep/internal/dto"
	"github.com/lshigami/mockprep/internal/model"
	"github.com/lshigami/mockprep/internal/repository"
	"github.com/rs/zerolog/log"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type CategoryService interface {
	ListCategories(ctx context.Context) ([]dto.CategoryResponseDTO, error)
	GetCategory(ctx context.Context, id uint) (*dto.CategoryResponseDTO, error)
	CreateCategory(ctx context.Context, req dto.CategoryCreateDTO) (*dto.CategoryResponseDTO, error)
	DeleteCategory(ctx context.Context, id uint) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) ListCategories(ctx context.Context) ([]dto.CategoryResponseDTO, error) {
	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get categories from repository")
		return nil, fmt.Errorf("error fetching categories: %w", err)
	}
	dtos := make([]dto.CategoryResponseDTO, 0, len(categories))
	if err := copier.Copy(&dtos, &categories); err != nil {
		return nil, fmt.Errorf("error preparing categories response: %w", err)
	}
	return dtos, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id uint) (*dto.CategoryResponseDTO, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	var resp dto.CategoryResponseDTO
	if err := copier.Copy(&resp, category); err != nil {
		return nil, fmt.Errorf("error preparing category response: %w", err)
	}
	return &resp, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, req dto.CategoryCreateDTO) (*dto.CategoryResponseDTO, error) {
	req.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
	if !slugPattern.MatchString(req.Slug) {
		return nil, apperr.Validationf("slug %q must be lower-case words joined by hyphens", req.Slug)
	}

	var category model.Category
	if err := copier.Copy(&category, &req); err != nil {
		return nil, fmt.Errorf("error preparing category: %w", err)
	}
	if err := s.repo.Create(ctx, &category); err != nil {
		log.Warn().Err(err).Str("slug", req.Slug).Msg("Failed to create category")
		return nil, err
	}

	var resp dto.CategoryResponseDTO
	if err := copier.Copy(&resp, &category); err != nil {
		return nil, fmt.Errorf("error preparing category response: %w", err)
	}
	return &resp, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}
