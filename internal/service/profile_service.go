package service

import (
	"context"
	"strings"

	"github.com/lshigami/mockprep/internal/apperr"
	"github.com/lshigami/mockprep/internal/dto"
	"github.com/lshigami/mockprep/internal/repository"
	"github.com/rs/zerolog/log"
)

type ProfileService interface {
	GetProfile(ctx context.Context, userID uint) (*dto.UserResponseDTO, error)
	UpdateProfile(ctx context.Context, userID uint, req dto.UpdateProfileRequest) (*dto.UserResponseDTO, error)
}

type profileService struct {
	userRepo repository.UserRepository
}

func NewProfileService(userRepo repository.UserRepository) ProfileService {
	return &profileService{userRepo: userRepo}
}

func (s *profileService) GetProfile(ctx context.Context, userID uint) (*dto.UserResponseDTO, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := toUserDTO(user)
	return &resp, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uint, req dto.UpdateProfileRequest) (*dto.UserResponseDTO, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperr.Validationf("name must not be blank")
		}
		user.Name = name
	}
	if req.AvatarURL != nil {
		user.AvatarURL = strings.TrimSpace(*req.AvatarURL)
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Failed to update profile")
		return nil, err
	}
	resp := toUserDTO(user)
	return &resp, nil
}
