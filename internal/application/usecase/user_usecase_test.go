package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mousto-pos/internal/application/apptest"
	"github.com/jhoicas/mousto-pos/internal/application/dto"
	"github.com/jhoicas/mousto-pos/internal/application/ports"
	"github.com/jhoicas/mousto-pos/internal/application/usecase"
	"github.com/jhoicas/mousto-pos/internal/domain"
	"github.com/jhoicas/mousto-pos/internal/domain/entity"
)

func newUsers() (*usecase.UserUseCase, *apptest.Store, *apptest.ActivitySpy, *apptest.PublisherSpy, *apptest.SessionSpy) {
	store := apptest.NewStore()
	store.AddUser(entity.User{ID: "admin", Email: "admin@mousto.test", Firstname: "Binta", Lastname: "Bah", Role: entity.RoleAdmin, IsActive: true})
	store.AddUser(entity.User{ID: "v1", Email: "v1@mousto.test", Firstname: "Alpha", Lastname: "Sow", Role: entity.RoleVendeur, IsActive: true})
	activity, publisher, sessions := &apptest.ActivitySpy{}, &apptest.PublisherSpy{}, &apptest.SessionSpy{}
	return usecase.NewUserUseCase(&apptest.UserRepo{Store: store}, activity, publisher, sessions), store, activity, publisher, sessions
}

func TestUserList_OrdenadoPorNombre(t *testing.T) {
	uc, _, _, _, _ := newUsers()
	list, err := uc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alpha Sow", list[0].FullName)
}

func TestUserCreate_Validaciones(t *testing.T) {
	uc, _, _, _, _ := newUsers()
	ctx := context.Background()
	valid := dto.CreateUserRequest{Email: "new@mousto.test", Password: "secret1", Firstname: "Fanta", Lastname: "Touré"}

	cases := map[string]func(r *dto.CreateUserRequest){
		"email inválido":  func(r *dto.CreateUserRequest) { r.Email = "no-es-email" },
		"password corto":  func(r *dto.CreateUserRequest) { r.Password = "123" },
		"rol desconocido": func(r *dto.CreateUserRequest) { r.Role = "caissier" },
		"sin apellido":    func(r *dto.CreateUserRequest) { r.Lastname = " " },
	}
	for name, mutate := range cases {
		req := valid
		mutate(&req)
		_, err := uc.Create(ctx, "admin", req)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), name)
	}

	_, err := uc.Create(ctx, "v1", valid)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	dup := valid
	dup.Email = "V1@mousto.test"
	_, err = uc.Create(ctx, "admin", dup)
	assert.True(t, errors.Is(err, domain.ErrEmailAlreadyExists))
}

func TestUserCreate_PerfilActivoVendeurPorDefecto(t *testing.T) {
	uc, store, activity, publisher, _ := newUsers()
	out, err := uc.Create(context.Background(), "admin", dto.CreateUserRequest{
		Email: " Fanta@Mousto.test ", Password: "secret1", Firstname: "Fanta", Lastname: "Touré",
	})
	require.NoError(t, err)
	assert.Equal(t, "fanta@mousto.test", out.Email)
	assert.Equal(t, entity.RoleVendeur, out.Role)
	assert.True(t, out.IsActive)

	u, ok := store.User(out.ID)
	require.True(t, ok)
	assert.NotEqual(t, "secret1", u.PasswordHash)
	assert.Equal(t, []string{entity.ActionCreateUser}, activity.Actions())
	assert.Equal(t, []string{ports.TableProfiles}, publisher.Tables())
}

func TestUserToggleStatus(t *testing.T) {
	uc, store, activity, _, sessions := newUsers()
	ctx := context.Background()

	_, err := uc.ToggleStatus(ctx, "admin", "v1", "pause")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.ToggleStatus(ctx, "admin", "admin", usecase.ToggleDisable)
	assert.True(t, errors.Is(err, domain.ErrSelfAction))

	_, err = uc.ToggleStatus(ctx, "admin", "nadie", usecase.ToggleDisable)
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))

	out, err := uc.ToggleStatus(ctx, "admin", "v1", usecase.ToggleDisable)
	require.NoError(t, err)
	assert.False(t, out.IsActive)
	u, _ := store.User("v1")
	assert.False(t, u.IsActive)
	require.Len(t, activity.Calls, 1)
	assert.Equal(t, false, activity.Calls[0].Details["new_status"])

	active, err := uc.IsActive(ctx, "v1")
	require.NoError(t, err)
	assert.False(t, active)
	// bloquear corta los websockets abiertos, reactivar no
	assert.Equal(t, []string{"v1"}, sessions.Disconnected)

	_, err = uc.ToggleStatus(ctx, "admin", "v1", usecase.ToggleEnable)
	require.NoError(t, err)
	assert.Equal(t, []string{"v1"}, sessions.Disconnected)
}

func TestUserDelete(t *testing.T) {
	uc, store, activity, _, sessions := newUsers()
	ctx := context.Background()

	assert.True(t, errors.Is(uc.Delete(ctx, "admin", "admin"), domain.ErrSelfAction))
	assert.True(t, errors.Is(uc.Delete(ctx, "v1", "admin"), domain.ErrForbidden))

	require.NoError(t, uc.Delete(ctx, "admin", "v1"))
	_, ok := store.User("v1")
	assert.False(t, ok)
	assert.Equal(t, []string{entity.ActionDeleteUser}, activity.Actions())
	assert.Equal(t, []string{"v1"}, sessions.Disconnected)
}
