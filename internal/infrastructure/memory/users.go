package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// ── Users ─────────────────────────────────────────────────────────────────────

var _ repository.UserRepository = (*UserRepo)(nil)

type UserRepo struct{ s *Store }

func (r *UserRepo) resolveRole(u *entity.User) error {
	role, ok := r.s.roles[strings.ToUpper(u.Role)]
	if !ok {
		return domain.Invalid("role", "rol desconocido")
	}
	u.RoleID = role.ID
	u.Role = role.Name
	return nil
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.users {
		if strings.EqualFold(other.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	if err := r.resolveRole(u); err != nil {
		return err
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	if err := r.resolveRole(u); err != nil {
		return err
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		u := u
		list = append(list, &u)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Email < list[j].Email })
	return page(list, limit, offset), nil
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.users, id)
	delete(r.s.credentials, id)
	return nil
}

// ── Roles ─────────────────────────────────────────────────────────────────────

var _ repository.RoleRepository = (*RoleRepo)(nil)

type RoleRepo struct{ s *Store }

func (r *RoleRepo) Create(_ context.Context, role *entity.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.roles[role.Name]; ok {
		return domain.ErrDuplicate
	}
	r.s.roles[role.Name] = *role
	return nil
}

func (r *RoleRepo) GetByName(_ context.Context, name string) (*entity.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	role, ok := r.s.roles[strings.ToUpper(name)]
	if !ok {
		return nil, nil
	}
	return &role, nil
}

func (r *RoleRepo) List(_ context.Context) ([]*entity.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Role, 0, len(r.s.roles))
	for _, role := range r.s.roles {
		role := role
		list = append(list, &role)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// ── Credentials ───────────────────────────────────────────────────────────────

var _ repository.CredentialRepository = (*CredentialRepo)(nil)

type CredentialRepo struct{ s *Store }

func (r *CredentialRepo) Create(_ context.Context, c *entity.Credential) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.credentials {
		if strings.EqualFold(other.Email, c.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.credentials[c.UserID] = *c
	return nil
}

func (r *CredentialRepo) FindByEmail(_ context.Context, email string) (*entity.Credential, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.credentials {
		if strings.EqualFold(c.Email, email) {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CredentialRepo) GetByUserID(_ context.Context, userID string) (*entity.Credential, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.credentials[userID]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CredentialRepo) UpdatePasswordHash(_ context.Context, userID, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.credentials[userID]
	if !ok {
		return domain.ErrNotFound
	}
	c.PasswordHash = hash
	r.s.credentials[userID] = c
	return nil
}
