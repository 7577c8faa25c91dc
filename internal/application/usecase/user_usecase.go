package usecase

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/mousto-pos/internal/application/dto"
	"github.com/jhoicas/mousto-pos/internal/application/ports"
	"github.com/jhoicas/mousto-pos/internal/domain"
	"github.com/jhoicas/mousto-pos/internal/domain/entity"
	"github.com/jhoicas/mousto-pos/internal/domain/repository"
)

// MinPasswordLength longitud mínima de contraseña.
const MinPasswordLength = 6

// Acciones aceptadas por ToggleStatus.
const (
	ToggleEnable  = "enable"
	ToggleDisable = "disable"
)

// UserUseCase administración de perfiles: las operaciones privilegiadas create-user,
// toggle-user-status y delete-user. El caller siempre debe ser un admin.
type UserUseCase struct {
	repo      repository.UserRepository
	activity  ports.ActivityRecorder
	publisher ports.ChangePublisher
	sessions  ports.SessionRevoker
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
// sessions corta los websockets de un perfil bloqueado o eliminado.
func NewUserUseCase(repo repository.UserRepository, activity ports.ActivityRecorder, publisher ports.ChangePublisher, sessions ports.SessionRevoker) *UserUseCase {
	return &UserUseCase{repo: repo, activity: activity, publisher: publisher, sessions: sessions}
}

// List perfiles ordenados por nombre.
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.NewUserResponse(u))
	}
	return out, nil
}

// GetByID obtiene un perfil por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return newUserResponse(user), nil
}

// IsActive indica si el perfil existe y está activo (lo usa el middleware RequireActive).
func (uc *UserUseCase) IsActive(ctx context.Context, id string) (bool, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return user != nil && user.IsActive, nil
}

// Create crea un perfil activo con contraseña hasheada.
func (uc *UserUseCase) Create(ctx context.Context, actorID string, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := uc.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Password) < MinPasswordLength {
		return nil, domain.ErrInvalidInput
	}
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = entity.RoleVendeur
	}
	if !entity.ValidRole(role) {
		return nil, domain.ErrInvalidInput
	}
	firstname, lastname := strings.TrimSpace(in.Firstname), strings.TrimSpace(in.Lastname)
	if firstname == "" || lastname == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Firstname:    firstname,
		Lastname:     lastname,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, actorID, entity.ActionCreateUser, map[string]any{
		"target_user_id": user.ID,
		"role":           user.Role,
	})
	out := newUserResponse(user)
	uc.publisher.Publish(ctx, ports.ChangeEvent{
		Table: ports.TableProfiles, Type: ports.ChangeInsert, RecordID: user.ID, Record: out, At: now,
	})
	return out, nil
}

// ToggleStatus activa o bloquea un perfil. Nunca sobre la propia cuenta.
func (uc *UserUseCase) ToggleStatus(ctx context.Context, actorID, targetID, action string) (*dto.UserResponse, error) {
	var active bool
	switch action {
	case ToggleEnable:
		active = true
	case ToggleDisable:
		active = false
	default:
		return nil, domain.ErrInvalidInput
	}
	if err := uc.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if actorID == targetID {
		return nil, domain.ErrSelfAction
	}
	target, err := uc.repo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := uc.repo.SetActive(ctx, targetID, active); err != nil {
		return nil, err
	}
	target.IsActive = active
	target.UpdatedAt = time.Now()
	if !active {
		uc.sessions.DisconnectUser(targetID)
	}

	uc.activity.Record(ctx, actorID, entity.ActionToggleUserStatus, map[string]any{
		"target_user_id": targetID,
		"new_status":     active,
	})
	out := newUserResponse(target)
	uc.publisher.Publish(ctx, ports.ChangeEvent{
		Table: ports.TableProfiles, Type: ports.ChangeUpdate, RecordID: targetID, Record: out, At: target.UpdatedAt,
	})
	return out, nil
}

// Delete elimina un perfil. Nunca la propia cuenta.
func (uc *UserUseCase) Delete(ctx context.Context, actorID, targetID string) error {
	if err := uc.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	if actorID == targetID {
		return domain.ErrSelfAction
	}
	target, err := uc.repo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return domain.ErrUserNotFound
	}
	if err := uc.repo.Delete(ctx, targetID); err != nil {
		return err
	}
	uc.sessions.DisconnectUser(targetID)
	uc.activity.Record(ctx, actorID, entity.ActionDeleteUser, map[string]any{
		"target_user_id": targetID,
	})
	uc.publisher.Publish(ctx, ports.ChangeEvent{
		Table: ports.TableProfiles, Type: ports.ChangeDelete, RecordID: targetID, At: time.Now(),
	})
	return nil
}

// requireAdmin verifica el rol del caller contra la DB (el token puede estar desactualizado).
func (uc *UserUseCase) requireAdmin(ctx context.Context, actorID string) error {
	actor, err := uc.repo.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if actor == nil || !actor.IsActive {
		return domain.ErrUnauthorized
	}
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

func newUserResponse(u *entity.User) *dto.UserResponse {
	out := dto.NewUserResponse(u)
	return &out
}
