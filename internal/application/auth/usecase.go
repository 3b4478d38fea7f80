// Package auth orquesta registro, login y sesión sobre un IdentityProvider y los perfiles locales.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
	"github.com/jhoicas/warehouse-api/pkg/logger"
)

// AuthUseCase casos de uso de autenticación.
type AuthUseCase struct {
	identity    IdentityProvider
	users       repository.UserRepository
	defaultRole string
	log         *logger.Logger
}

// NewAuthUseCase construye el caso de uso. defaultRole vacío equivale a STAFF.
func NewAuthUseCase(identity IdentityProvider, users repository.UserRepository, defaultRole string, log *logger.Logger) *AuthUseCase {
	if defaultRole == "" {
		defaultRole = entity.RoleStaff
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{identity: identity, users: users, defaultRole: defaultRole, log: log}
}

// SignUp registra la identidad y crea el perfil con el rol por defecto.
func (uc *AuthUseCase) SignUp(ctx context.Context, in dto.SignUpRequest) (*dto.SessionResponse, error) {
	email := normalizeEmail(in.Email)
	existing, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, domain.Upstream("buscar perfil", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	session, err := uc.identity.SignUp(ctx, email, in.Password)
	if err != nil {
		return nil, err
	}
	user, err := CreateProfile(ctx, uc.users, session.UserID, email, in.FullName, uc.defaultRole)
	if err != nil {
		uc.log.Error().Err(err).Str("user_id", session.UserID).Str("email", email).
			Msg("identidad creada sin perfil")
		return nil, err
	}
	return toSessionResponse(session, user), nil
}

// Login valida credenciales con el proveedor y exige un perfil activo.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.SessionResponse, error) {
	session, err := uc.identity.SignIn(ctx, normalizeEmail(in.Email), in.Password)
	if err != nil {
		return nil, err
	}
	user, err := uc.activeProfile(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	return toSessionResponse(session, user), nil
}

// Refresh renueva la sesión a partir del refresh token.
func (uc *AuthUseCase) Refresh(ctx context.Context, in dto.RefreshRequest) (*dto.SessionResponse, error) {
	session, err := uc.identity.Refresh(ctx, in.RefreshToken)
	if err != nil {
		return nil, err
	}
	user, err := uc.activeProfile(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	return toSessionResponse(session, user), nil
}

// Logout revoca la sesión en el proveedor.
func (uc *AuthUseCase) Logout(ctx context.Context, accessToken string) error {
	return uc.identity.SignOut(ctx, accessToken)
}

// Me devuelve el perfil del usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.Upstream("leer perfil", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return ToUserResponse(user), nil
}

// ChangePassword cambia la contraseña verificando la actual.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID, accessToken string, in dto.ChangePasswordRequest) error {
	if in.CurrentPassword == in.NewPassword {
		return domain.Invalid("new_password", "debe ser distinta de la actual")
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return domain.Upstream("leer perfil", err)
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	return uc.identity.ChangePassword(ctx, PasswordChange{
		UserID:      userID,
		Email:       user.Email,
		AccessToken: accessToken,
		Current:     in.CurrentPassword,
		New:         in.NewPassword,
	})
}

func (uc *AuthUseCase) activeProfile(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.Upstream("leer perfil", err)
	}
	if user == nil {
		return nil, fmt.Errorf("usuario %s sin perfil: %w", userID, domain.ErrForbidden)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("usuario %s inactivo: %w", userID, domain.ErrForbidden)
	}
	return user, nil
}

// CreateProfile persiste el perfil de una identidad recién creada.
func CreateProfile(ctx context.Context, users repository.UserRepository, id, email, fullName, role string) (*entity.User, error) {
	if fullName == "" {
		fullName = email
	}
	now := time.Now()
	user := &entity.User{
		ID:        id,
		Email:     email,
		FullName:  fullName,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) || errors.Is(err, domain.ErrInvalidInput) {
			return nil, err
		}
		return nil, domain.Upstream("crear perfil", err)
	}
	return user, nil
}

// ToUserResponse mapea un perfil a su DTO.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toSessionResponse(s *Session, u *entity.User) *dto.SessionResponse {
	return &dto.SessionResponse{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresIn:    s.ExpiresIn,
		User:         ToUserResponse(u),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
