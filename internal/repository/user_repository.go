package repository

import (
	"context"
	"errors"

	"github.com/lshigami/mockprep/internal/apperr"
	"github.com/lshigami/mockprep/internal/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, user *model.User) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if isDuplicateKey(err) {
		return apperr.Wrap(apperr.Conflict, err, "email already registered")
	}
	return translate(err, "user", user.ID)
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err, "user", id)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Wrap(apperr.NotFound, err, "user %q not found", email)
	}
	if err != nil {
		return nil, translate(err, "user", 0)
	}
	return &user, nil
}

// UpdateProfile writes only the user-editable columns.
func (r *userRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).Model(user).Select("Name", "AvatarURL").Updates(user).Error
	return translate(err, "user", user.ID)
}
