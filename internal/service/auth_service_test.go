package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lshigami/mockprep/config"
	"github.com/lshigami/mockprep/internal/apperr"
	"github.com/lshigami/mockprep/internal/dto"
	"github.com/lshigami/mockprep/internal/model"
	"github.com/lshigami/mockprep/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService() (AuthService, *fakeUserRepo, *config.Config) {
	cfg := &config.Config{JWT: config.JWT{Secret: "test-secret", Expiration: time.Hour}}
	repo := &fakeUserRepo{}
	return NewAuthService(repo, cfg), repo, cfg
}

func TestRegisterAndLogin(t *testing.T) {
	svc, repo, cfg := newAuthService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, dto.RegisterRequest{Name: " Ada ", Email: "Ada@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", reg.User.Email)
	assert.Equal(t, "Ada", reg.User.Name)
	assert.Equal(t, string(model.RoleStudent), reg.User.Role)
	require.Len(t, repo.users, 1)
	assert.NotEqual(t, "secret1", repo.users[0].PasswordHash)

	claims, err := token.Parse(reg.Token, cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.UserID)

	login, err := svc.Login(ctx, dto.LoginRequest{Email: "ADA@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)

	me, err := svc.Me(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", me.Email)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterRequest{Name: "A", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, dto.RegisterRequest{Name: "B", Email: "A@example.com", Password: "secret2"})
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
}

func TestLogin_Rejections(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()
	_, err := svc.Register(ctx, dto.RegisterRequest{Name: "A", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "a@example.com", Password: "wrong"})
	assert.Equal(t, apperr.Unauthorized, apperr.KindOf(err))

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.Equal(t, apperr.Unauthorized, apperr.KindOf(err))

	_, err = svc.Me(ctx, 42)
	assert.Equal(t, apperr.Unauthorized, apperr.KindOf(err))
}

func TestRegister_PasswordOverBcryptLimit(t *testing.T) {
	svc, repo, _ := newAuthService()

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name: "A", Email: "a@example.com", Password: strings.Repeat("é", 40),
	})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	assert.Empty(t, repo.users)
}
