package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/warehouse-api/internal/application/auth"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
	"github.com/jhoicas/warehouse-api/pkg/jwt"
)

// LocalConfig parámetros de emisión de tokens del proveedor local.
type LocalConfig struct {
	Secret            string
	Issuer            string
	ExpMinutes        int
	RefreshExpMinutes int
}

var _ auth.IdentityProvider = (*LocalProvider)(nil)

// LocalProvider implementa IdentityProvider con bcrypt y tokens HS256 propios.
// Los tokens tienen el mismo formato que los del BaaS, así el middleware no distingue el origen.
type LocalProvider struct {
	creds repository.CredentialRepository
	cfg   LocalConfig
}

// NewLocalProvider construye el proveedor local.
func NewLocalProvider(creds repository.CredentialRepository, cfg LocalConfig) *LocalProvider {
	if cfg.ExpMinutes <= 0 {
		cfg.ExpMinutes = 60
	}
	if cfg.RefreshExpMinutes <= 0 {
		cfg.RefreshExpMinutes = 7 * 24 * 60
	}
	return &LocalProvider{creds: creds, cfg: cfg}
}

func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (*auth.Session, error) {
	existing, err := p.creds.FindByEmail(ctx, email)
	if err != nil {
		return nil, domain.Upstream("buscar credencial", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash de contraseña: %w", err)
	}
	now := time.Now()
	cred := &entity.Credential{
		UserID:       uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := p.creds.Create(ctx, cred); err != nil {
		return nil, err
	}
	return p.issue(cred.UserID, cred.Email)
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	cred, err := p.creds.FindByEmail(ctx, email)
	if err != nil {
		return nil, domain.Upstream("buscar credencial", err)
	}
	if cred == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	return p.issue(cred.UserID, cred.Email)
}

func (p *LocalProvider) Refresh(ctx context.Context, refreshToken string) (*auth.Session, error) {
	claims, err := jwt.Parse(p.cfg.Secret, refreshToken)
	if err != nil || !claims.IsRefresh() {
		return nil, domain.ErrUnauthorized
	}
	cred, err := p.creds.GetByUserID(ctx, claims.UserID())
	if err != nil {
		return nil, domain.Upstream("leer credencial", err)
	}
	if cred == nil {
		return nil, domain.ErrUnauthorized
	}
	return p.issue(cred.UserID, cred.Email)
}

// SignOut no hace nada: los tokens locales no se revocan y expiran solos.
func (p *LocalProvider) SignOut(context.Context, string) error { return nil }

func (p *LocalProvider) ChangePassword(ctx context.Context, in auth.PasswordChange) error {
	cred, err := p.creds.GetByUserID(ctx, in.UserID)
	if err != nil {
		return domain.Upstream("leer credencial", err)
	}
	if cred == nil {
		return domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(in.Current)); err != nil {
		return domain.ErrUnauthorized
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.New), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash de contraseña: %w", err)
	}
	if err := p.creds.UpdatePasswordHash(ctx, in.UserID, string(hash)); err != nil {
		return domain.Upstream("actualizar credencial", err)
	}
	return nil
}

func (p *LocalProvider) issue(userID, email string) (*auth.Session, error) {
	access, err := jwt.Generate(p.cfg.Secret, userID, email, jwt.TokenAccess, p.cfg.Issuer, p.cfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	refresh, err := jwt.Generate(p.cfg.Secret, userID, email, jwt.TokenRefresh, p.cfg.Issuer, p.cfg.RefreshExpMinutes)
	if err != nil {
		return nil, err
	}
	return &auth.Session{
		UserID:       userID,
		Email:        email,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    p.cfg.ExpMinutes * 60,
	}, nil
}
