package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/warehouse-api/internal/application/auth"
	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// UserUseCase administración de perfiles y asignación de roles.
type UserUseCase struct {
	repo     repository.UserRepository
	roles    repository.RoleRepository
	identity auth.IdentityProvider
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(repo repository.UserRepository, roles repository.RoleRepository, identity auth.IdentityProvider) *UserUseCase {
	return &UserUseCase{repo: repo, roles: roles, identity: identity}
}

// Create registra la identidad en el proveedor y crea el perfil con el rol indicado.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	role, err := uc.role(ctx, in.Role)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repo.FindByEmail(ctx, email)
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
	user, err := auth.CreateProfile(ctx, uc.repo, session.UserID, email, in.FullName, role.Name)
	if err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

// GetByID obtiene un perfil por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

// Update cambia nombre, rol o estado de un perfil.
func (uc *UserUseCase) Update(ctx context.Context, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.FullName != nil {
		user.FullName = *in.FullName
	}
	if in.Role != nil {
		role, err := uc.role(ctx, *in.Role)
		if err != nil {
			return nil, err
		}
		user.Role = role.Name
		user.RoleID = role.ID
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, keepDomain("actualizar perfil", err)
	}
	return auth.ToUserResponse(user), nil
}

// List lista perfiles con paginación.
func (uc *UserUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, domain.Upstream("listar perfiles", err)
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *auth.ToUserResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(items)},
	}, nil
}

// Delete elimina el perfil. La identidad en el BaaS no se borra: sin perfil, el middleware la rechaza.
func (uc *UserUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return wrapDelete("usuario", id, err)
	}
	return nil
}

func (uc *UserUseCase) get(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Upstream("leer perfil", err)
	}
	if user == nil {
		return nil, fmt.Errorf("usuario %s: %w", id, domain.ErrUserNotFound)
	}
	return user, nil
}

func (uc *UserUseCase) role(ctx context.Context, name string) (*entity.Role, error) {
	role, err := uc.roles.GetByName(ctx, name)
	if err != nil {
		return nil, domain.Upstream("leer rol", err)
	}
	if role == nil {
		return nil, domain.Invalid("role", "rol desconocido")
	}
	return role, nil
}

// RoleUseCase catálogo de roles.
type RoleUseCase struct {
	repo repository.RoleRepository
}

func NewRoleUseCase(repo repository.RoleRepository) *RoleUseCase {
	return &RoleUseCase{repo: repo}
}

func (uc *RoleUseCase) List(ctx context.Context) ([]dto.RoleResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, domain.Upstream("listar roles", err)
	}
	out := make([]dto.RoleResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toRoleResponse(r))
	}
	return out, nil
}

// Create agrega un rol. Los permisos de las rutas solo reconocen ADMIN, MANAGER y STAFF.
func (uc *RoleUseCase) Create(ctx context.Context, in dto.CreateRoleRequest) (*dto.RoleResponse, error) {
	role := &entity.Role{
		ID:          uuid.New().String(),
		Name:        strings.ToUpper(in.Name),
		Description: in.Description,
		CreatedAt:   time.Now(),
	}
	if err := uc.repo.Create(ctx, role); err != nil {
		return nil, keepDomain("crear rol", err)
	}
	out := toRoleResponse(role)
	return &out, nil
}

func toRoleResponse(r *entity.Role) dto.RoleResponse {
	return dto.RoleResponse{ID: r.ID, Name: r.Name, Description: r.Description, CreatedAt: r.CreatedAt}
}
