package repository

import (
	"context"

	"github.com/jhoicas/taxsetup/internal/domain/entity"
)

// TaxClassRepository búsqueda de clases de impuesto preexistentes.
type TaxClassRepository interface {
	// FirstByName retorna la primera clase con nombre exacto, o (nil, nil) si no hay ninguna.
	FirstByName(ctx context.Context, name string) (*entity.TaxClass, error)
}
