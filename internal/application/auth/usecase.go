package auth

import (
	"context"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/mousto-pos/internal/application/dto"
	"github.com/jhoicas/mousto-pos/internal/domain"
	"github.com/jhoicas/mousto-pos/internal/domain/entity"
	"github.com/jhoicas/mousto-pos/internal/domain/repository"
	"github.com/jhoicas/mousto-pos/pkg/jwt"
)

// MinPasswordLength longitud mínima de contraseña.
const MinPasswordLength = 6

// compareHash verificación de contraseña; variable para poder observarla en tests.
var compareHash = bcrypt.CompareHashAndPassword

// dummyHash hash con el mismo coste que los reales: un email desconocido cuesta
// lo mismo que una contraseña errónea y la latencia no revela qué cuentas existen.
var dummyHash = sync.OnceValue(func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		panic("auth: generar hash de relleno: " + err.Error())
	}
	return h
})

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// BootstrapAdmin credenciales del primer administrador.
type BootstrapAdmin struct {
	Email     string
	Password  string
	Firstname string
	Lastname  string
}

// AuthUseCase casos de uso de autenticación: login, perfil propio y cambio de contraseña.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Email desconocido y contraseña errónea devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	hash := dummyHash()
	if user != nil {
		hash = []byte(user.PasswordHash)
	}
	if err := compareHash(hash, []byte(in.Password)); err != nil || user == nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrAccountDisabled
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  dto.NewUserResponse(user),
	}, nil
}

// Me perfil del usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	out := dto.NewUserResponse(user)
	return &out, nil
}

// ChangePassword re-hashea la contraseña del usuario autenticado.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) error {
	if len(in.NewPassword) < MinPasswordLength {
		return domain.ErrInvalidInput
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return uc.userRepo.UpdatePassword(ctx, userID, string(hash))
}

// Bootstrap crea el administrador inicial si todavía no existe ningún admin.
// Devuelve true si lo creó.
func (uc *AuthUseCase) Bootstrap(ctx context.Context, in BootstrapAdmin) (bool, error) {
	count, err := uc.userRepo.CountAdmins(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil || len(in.Password) < MinPasswordLength {
		return false, domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	firstname := strings.TrimSpace(in.Firstname)
	if firstname == "" {
		firstname = "Admin"
	}
	now := time.Now()
	err = uc.userRepo.Create(ctx, &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Firstname:    firstname,
		Lastname:     strings.TrimSpace(in.Lastname),
		Role:         entity.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
