package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/mousto-pos/internal/application/apptest"
	"github.com/jhoicas/mousto-pos/internal/application/auth"
	"github.com/jhoicas/mousto-pos/internal/application/dto"
	"github.com/jhoicas/mousto-pos/internal/domain"
	"github.com/jhoicas/mousto-pos/internal/domain/entity"
	"github.com/jhoicas/mousto-pos/pkg/jwt"
)

const secret = "test-secret"

func newAuth(t *testing.T) (*auth.AuthUseCase, *apptest.Store) {
	t.Helper()
	store := apptest.NewStore()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	store.AddUser(entity.User{ID: "u1", Email: "awa@mousto.test", PasswordHash: string(hash), Firstname: "Awa", Lastname: "Diallo", Role: entity.RoleVendeur, IsActive: true})
	store.AddUser(entity.User{ID: "u2", Email: "off@mousto.test", PasswordHash: string(hash), Firstname: "Off", Role: entity.RoleVendeur, IsActive: false})
	uc := auth.NewAuthUseCase(&apptest.UserRepo{Store: store}, auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "test"})
	return uc, store
}

func TestLogin_Exitoso_TokenConRol(t *testing.T) {
	uc, _ := newAuth(t)
	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: "  AWA@mousto.test ", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "Awa Diallo", out.User.FullName)

	userID, role, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
	assert.Equal(t, entity.RoleVendeur, role)
}

func TestLogin_Errores(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{Email: "nadie@mousto.test", Password: "secret123"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "awa@mousto.test", Password: "mauvais"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "off@mousto.test", Password: "secret123"})
	assert.True(t, errors.Is(err, domain.ErrAccountDisabled))
}

func TestChangePassword(t *testing.T) {
	uc, store := newAuth(t)
	ctx := context.Background()

	err := uc.ChangePassword(ctx, "u1", dto.ChangePasswordRequest{NewPassword: "12345"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	require.NoError(t, uc.ChangePassword(ctx, "u1", dto.ChangePasswordRequest{NewPassword: "nouveau1"}))
	u, _ := store.User("u1")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("nouveau1")))
}

func TestBootstrap_SoloSiNoHayAdmin(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	created, err := uc.Bootstrap(ctx, auth.BootstrapAdmin{Email: "Admin@Mousto.test", Password: "secret123"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = uc.Bootstrap(ctx, auth.BootstrapAdmin{Email: "otro@mousto.test", Password: "secret123"})
	require.NoError(t, err)
	assert.False(t, created)

	me, err := uc.Login(ctx, dto.LoginRequest{Email: "admin@mousto.test", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, me.User.Role)
	assert.Equal(t, "Admin", me.User.FullName)
}
