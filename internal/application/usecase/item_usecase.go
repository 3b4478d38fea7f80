package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD para ítems del catálogo. Las cantidades se manejan solo vía el libro de stock.
type ItemUseCase struct {
	repo       repository.ItemRepository
	categories repository.CategoryRepository
	suppliers  repository.SupplierRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(
	repo repository.ItemRepository,
	categories repository.CategoryRepository,
	suppliers repository.SupplierRepository,
) *ItemUseCase {
	return &ItemUseCase{repo: repo, categories: categories, suppliers: suppliers}
}

// Create crea un ítem. El SKU debe ser único.
func (uc *ItemUseCase) Create(ctx context.Context, userID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	sku := strings.TrimSpace(in.SKU)
	if sku == "" {
		return nil, domain.Invalid("sku", "es requerido")
	}
	if in.UnitPrice.IsNegative() {
		return nil, domain.Invalid("unit_price", "no puede ser negativo")
	}
	if in.ReorderLevel < 0 {
		return nil, domain.Invalid("reorder_level", "no puede ser negativo")
	}
	existing, err := uc.repo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, domain.Upstream("leer ítem", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("sku %s: %w", sku, domain.ErrDuplicate)
	}
	if err := uc.checkRefs(ctx, in.CategoryID, in.SupplierID); err != nil {
		return nil, err
	}

	now := time.Now()
	item := &entity.Item{
		ID:           uuid.New().String(),
		SKU:          sku,
		Name:         in.Name,
		Description:  in.Description,
		CategoryID:   in.CategoryID,
		SupplierID:   in.SupplierID,
		UnitPrice:    in.UnitPrice,
		ReorderLevel: in.ReorderLevel,
		IsActive:     boolOr(in.IsActive, true),
		CreatedBy:    userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, keepDomain("crear ítem", err)
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un ítem por ID.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Update actualiza un ítem. Cambiar el SKU verifica unicidad.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.SKU != nil {
		sku := strings.TrimSpace(*in.SKU)
		if sku == "" {
			return nil, domain.Invalid("sku", "no puede quedar vacío")
		}
		if sku != item.SKU {
			other, err := uc.repo.GetBySKU(ctx, sku)
			if err != nil {
				return nil, domain.Upstream("leer ítem", err)
			}
			if other != nil && other.ID != item.ID {
				return nil, fmt.Errorf("sku %s: %w", sku, domain.ErrDuplicate)
			}
		}
		item.SKU = sku
	}
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.CategoryID != nil {
		item.CategoryID = *in.CategoryID
	}
	if in.SupplierID != nil {
		item.SupplierID = *in.SupplierID
	}
	if in.UnitPrice != nil {
		if in.UnitPrice.IsNegative() {
			return nil, domain.Invalid("unit_price", "no puede ser negativo")
		}
		item.UnitPrice = *in.UnitPrice
	}
	if in.ReorderLevel != nil {
		if *in.ReorderLevel < 0 {
			return nil, domain.Invalid("reorder_level", "no puede ser negativo")
		}
		item.ReorderLevel = *in.ReorderLevel
	}
	if in.IsActive != nil {
		item.IsActive = *in.IsActive
	}
	if err := uc.checkRefs(ctx, item.CategoryID, item.SupplierID); err != nil {
		return nil, err
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, keepDomain("actualizar ítem", err)
	}
	return toItemResponse(item), nil
}

// List lista ítems con filtros y paginación.
func (uc *ItemUseCase) List(ctx context.Context, filter repository.ItemFilter) (*dto.ItemListResponse, error) {
	page := dto.PageRequest{Limit: filter.Limit, Offset: filter.Offset}
	page.DefaultPage()
	filter.Limit, filter.Offset = page.Limit, page.Offset
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, domain.Upstream("listar ítems", err)
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(items)},
	}, nil
}

// Delete elimina un ítem. Falla con ErrConflict si tiene stock o historial.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return wrapDelete("ítem", id, err)
	}
	return nil
}

func (uc *ItemUseCase) get(ctx context.Context, id string) (*entity.Item, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Upstream("leer ítem", err)
	}
	if item == nil {
		return nil, fmt.Errorf("ítem %s: %w", id, domain.ErrNotFound)
	}
	return item, nil
}

// checkRefs valida que la categoría y el proveedor indicados existan.
func (uc *ItemUseCase) checkRefs(ctx context.Context, categoryID, supplierID string) error {
	if categoryID != "" {
		c, err := uc.categories.GetByID(ctx, categoryID)
		if err != nil {
			return domain.Upstream("leer categoría", err)
		}
		if c == nil {
			return domain.Invalid("category_id", "la categoría no existe")
		}
	}
	if supplierID != "" {
		s, err := uc.suppliers.GetByID(ctx, supplierID)
		if err != nil {
			return domain.Upstream("leer proveedor", err)
		}
		if s == nil {
			return domain.Invalid("supplier_id", "el proveedor no existe")
		}
	}
	return nil
}

func toItemResponse(it *entity.Item) *dto.ItemResponse {
	if it == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:           it.ID,
		SKU:          it.SKU,
		Name:         it.Name,
		Description:  it.Description,
		CategoryID:   it.CategoryID,
		SupplierID:   it.SupplierID,
		UnitPrice:    it.UnitPrice,
		ReorderLevel: it.ReorderLevel,
		IsActive:     it.IsActive,
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
}
