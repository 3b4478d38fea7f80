package repository

import (
	"context"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

// UserRepository perfiles de usuario con su rol resuelto.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
	Delete(ctx context.Context, id string) error
}

// RoleRepository catálogo de roles.
type RoleRepository interface {
	Create(ctx context.Context, role *entity.Role) error
	GetByName(ctx context.Context, name string) (*entity.Role, error)
	List(ctx context.Context) ([]*entity.Role, error)
}

// CredentialRepository credenciales del proveedor de identidad local.
type CredentialRepository interface {
	Create(ctx context.Context, cred *entity.Credential) error
	FindByEmail(ctx context.Context, email string) (*entity.Credential, error)
	GetByUserID(ctx context.Context, userID string) (*entity.Credential, error)
	UpdatePasswordHash(ctx context.Context, userID, hash string) error
}
