// Package memory implementa los puertos de persistencia en memoria (tests y desarrollo sin base de datos).
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/warehouse-api/internal/application/inventory"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// Hooks permiten inyectar fallas o carreras en los tests.
type Hooks struct {
	// BeforeCompareAndSet se invoca antes de la escritura condicional, sin el lock tomado.
	BeforeCompareAndSet func(level *entity.StockLevel)
	// BeforeAppend puede devolver error para simular una falla del registro de auditoría.
	BeforeAppend func(tx *entity.Transaction) error
}

// Store guarda todas las tablas en mapas protegidos por un RWMutex.
type Store struct {
	mu sync.RWMutex

	warehouses  map[string]entity.Warehouse
	items       map[string]entity.Item
	categories  map[string]entity.Category
	suppliers   map[string]entity.Supplier
	levels      map[string]entity.StockLevel // por ID
	txs         []entity.Transaction
	transfers   map[string]entity.Transfer
	users       map[string]entity.User
	roles       map[string]entity.Role // por nombre
	credentials map[string]entity.Credential

	hooks Hooks
}

// NewStore crea un store vacío con los roles base cargados.
func NewStore() *Store {
	s := &Store{
		warehouses:  map[string]entity.Warehouse{},
		items:       map[string]entity.Item{},
		categories:  map[string]entity.Category{},
		suppliers:   map[string]entity.Supplier{},
		levels:      map[string]entity.StockLevel{},
		transfers:   map[string]entity.Transfer{},
		users:       map[string]entity.User{},
		roles:       map[string]entity.Role{},
		credentials: map[string]entity.Credential{},
	}
	for _, name := range []string{entity.RoleAdmin, entity.RoleManager, entity.RoleStaff} {
		s.roles[name] = entity.Role{ID: strings.ToLower(name), Name: name, CreatedAt: time.Now()}
	}
	return s
}

// SetHooks reemplaza los hooks de prueba.
func (s *Store) SetHooks(h Hooks) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = h
}

func (s *Store) currentHooks() Hooks {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hooks
}

// Accesores por puerto.
func (s *Store) Warehouses() *WarehouseRepo   { return &WarehouseRepo{s: s} }
func (s *Store) Items() *ItemRepo             { return &ItemRepo{s: s} }
func (s *Store) Categories() *CategoryRepo    { return &CategoryRepo{s: s} }
func (s *Store) Suppliers() *SupplierRepo     { return &SupplierRepo{s: s} }
func (s *Store) StockLevels() *StockLevelRepo { return &StockLevelRepo{s: s} }
func (s *Store) Transactions() *TransactionRepo {
	return &TransactionRepo{s: s}
}
func (s *Store) Transfers() *TransferRepo     { return &TransferRepo{s: s} }
func (s *Store) Users() *UserRepo             { return &UserRepo{s: s} }
func (s *Store) Roles() *RoleRepo             { return &RoleRepo{s: s} }
func (s *Store) Credentials() *CredentialRepo { return &CredentialRepo{s: s} }
func (s *Store) Reports() *ReportRepo         { return &ReportRepo{s: s} }

// UnitOfWork devuelve una unidad de trabajo no atómica, igual que el almacenamiento remoto sin transacciones.
func (s *Store) UnitOfWork() *UnitOfWork { return &UnitOfWork{s: s} }

var _ inventory.UnitOfWork = (*UnitOfWork)(nil)

// UnitOfWork ejecuta fn contra los repositorios del store sin deshacer escrituras.
type UnitOfWork struct {
	s *Store
}

func (u *UnitOfWork) Run(ctx context.Context, fn func(
	levels repository.StockLevelRepository,
	txs repository.TransactionRepository,
) error) error {
	return fn(u.s.StockLevels(), u.s.Transactions())
}

func (u *UnitOfWork) Atomic() bool { return false }

func page[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return []T{}
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// ── Warehouses ────────────────────────────────────────────────────────────────

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

type WarehouseRepo struct{ s *Store }

func (r *WarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.warehouses[w.ID] = *w
	return nil
}

func (r *WarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	w, ok := r.s.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *WarehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.warehouses[w.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.warehouses[w.ID] = *w
	return nil
}

func (r *WarehouseRepo) List(_ context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Warehouse, 0, len(r.s.warehouses))
	for _, w := range r.s.warehouses {
		w := w
		list = append(list, &w)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset), nil
}

func (r *WarehouseRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.warehouses[id]; !ok {
		return domain.ErrNotFound
	}
	for _, l := range r.s.levels {
		if l.WarehouseID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.warehouses, id)
	return nil
}

// ── Items ─────────────────────────────────────────────────────────────────────

var _ repository.ItemRepository = (*ItemRepo)(nil)

type ItemRepo struct{ s *Store }

func (r *ItemRepo) Create(_ context.Context, it *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.items {
		if strings.EqualFold(other.SKU, it.SKU) {
			return domain.ErrDuplicate
		}
	}
	r.s.items[it.ID] = *it
	return nil
}

func (r *ItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (r *ItemRepo) GetBySKU(_ context.Context, sku string) (*entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, it := range r.s.items {
		if strings.EqualFold(it.SKU, sku) {
			it := it
			return &it, nil
		}
	}
	return nil, nil
}

func (r *ItemRepo) Update(_ context.Context, it *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[it.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, other := range r.s.items {
		if id != it.ID && strings.EqualFold(other.SKU, it.SKU) {
			return domain.ErrDuplicate
		}
	}
	r.s.items[it.ID] = *it
	return nil
}

func (r *ItemRepo) List(_ context.Context, f repository.ItemFilter) ([]*entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	search := strings.ToLower(f.Search)
	list := make([]*entity.Item, 0, len(r.s.items))
	for _, it := range r.s.items {
		if f.CategoryID != "" && it.CategoryID != f.CategoryID {
			continue
		}
		if f.SupplierID != "" && it.SupplierID != f.SupplierID {
			continue
		}
		if f.ActiveOnly && !it.IsActive {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(it.Name), search) && !strings.Contains(strings.ToLower(it.SKU), search) {
			continue
		}
		it := it
		list = append(list, &it)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].SKU < list[j].SKU })
	return page(list, f.Limit, f.Offset), nil
}

func (r *ItemRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[id]; !ok {
		return domain.ErrNotFound
	}
	for _, l := range r.s.levels {
		if l.ItemID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.items, id)
	return nil
}

// ── Categories / Suppliers ────────────────────────────────────────────────────

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

type CategoryRepo struct{ s *Store }

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.categories {
		if strings.EqualFold(other.Name, c.Name) {
			return domain.ErrDuplicate
		}
	}
	r.s.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		c := c
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.categories, id)
	for k, it := range r.s.items {
		if it.CategoryID == id {
			it.CategoryID = ""
			r.s.items[k] = it
		}
	}
	return nil
}

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

type SupplierRepo struct{ s *Store }

func (r *SupplierRepo) Create(_ context.Context, sp *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.suppliers[sp.ID] = *sp
	return nil
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sp, ok := r.s.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &sp, nil
}

func (r *SupplierRepo) Update(_ context.Context, sp *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.suppliers[sp.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.suppliers[sp.ID] = *sp
	return nil
}

func (r *SupplierRepo) List(_ context.Context) ([]*entity.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Supplier, 0, len(r.s.suppliers))
	for _, sp := range r.s.suppliers {
		sp := sp
		list = append(list, &sp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *SupplierRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.suppliers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.suppliers, id)
	for k, it := range r.s.items {
		if it.SupplierID == id {
			it.SupplierID = ""
			r.s.items[k] = it
		}
	}
	return nil
}
