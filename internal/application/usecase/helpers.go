package usecase

import (
	"errors"
	"fmt"

	"github.com/jhoicas/warehouse-api/internal/domain"
)

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// wrapDelete conserva los errores de dominio del repositorio y envuelve el resto como falla del almacenamiento.
func wrapDelete(kind, id string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
	case errors.Is(err, domain.ErrConflict):
		return fmt.Errorf("%s %s tiene registros asociados: %w", kind, id, domain.ErrConflict)
	}
	return domain.Upstream("eliminar "+kind, err)
}

// keepDomain deja pasar errores de dominio conocidos y envuelve el resto.
func keepDomain(op string, err error) error {
	for _, known := range []error{domain.ErrNotFound, domain.ErrDuplicate, domain.ErrConflict, domain.ErrEmailAlreadyExists, domain.ErrInvalidInput} {
		if errors.Is(err, known) {
			return err
		}
	}
	return domain.Upstream(op, err)
}
