package service

import (
	"context"
	"strings"

	"github.com/lshigami/mockprep/config"
	"github.com/lshigami/mockprep/internal/apperr"
	"github.com/lshigami/mockprep/internal/dto"
	"github.com/lshigami/mockprep/internal/model"
	"github.com/lshigami/mockprep/internal/repository"
	"github.com/lshigami/mockprep/internal/token"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	Me(ctx context.Context, userID uint) (*dto.UserResponseDTO, error)
}

type authService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{userRepo: userRepo, cfg: cfg}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	// bcrypt only hashes the first 72 bytes and rejects longer input.
	if len(req.Password) > 72 {
		return nil, apperr.Validationf("password must be at most 72 bytes")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "failed to hash password")
	}

	user := &model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleStudent,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		log.Warn().Err(err).Str("email", email).Msg("Register: failed to create user")
		return nil, err
	}
	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			return nil, apperr.Unauthorizedf("invalid email or password")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.Unauthorizedf("invalid email or password")
	}
	return s.issue(user)
}

func (s *authService) Me(ctx context.Context, userID uint) (*dto.UserResponseDTO, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if apperr.Is(err, apperr.NotFound) {
		return nil, apperr.Unauthorizedf("account no longer exists")
	}
	if err != nil {
		return nil, err
	}
	resp := toUserDTO(user)
	return &resp, nil
}

func (s *authService) issue(user *model.User) (*dto.AuthResponse, error) {
	signed, err := token.Generate(user, s.cfg.JWT.Secret, s.cfg.JWT.Expiration)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "failed to sign token")
	}
	return &dto.AuthResponse{Token: signed, User: toUserDTO(user)}, nil
}

func toUserDTO(u *model.User) dto.UserResponseDTO {
	return dto.UserResponseDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		AvatarURL: u.AvatarURL,
	}
}
