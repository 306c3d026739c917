package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/taxsetup/internal/domain/entity"
	"github.com/jhoicas/taxsetup/internal/domain/repository"
)

var _ repository.TaxClassRepository = (*TaxClassRepo)(nil)

// TaxClassRepo implementación de TaxClassRepository.
type TaxClassRepo struct {
	q Querier
}

// NewTaxClassRepository construye el adaptador.
func NewTaxClassRepository(q Querier) *TaxClassRepo {
	return &TaxClassRepo{q: q}
}

// FirstByName obtiene la clase más antigua con el nombre exacto.
func (r *TaxClassRepo) FirstByName(ctx context.Context, name string) (*entity.TaxClass, error) {
	query := `SELECT id, name, type FROM tax_classes WHERE name = $1 ORDER BY created_at, id LIMIT 1`
	var c entity.TaxClass
	err := r.q.QueryRow(ctx, query, name).Scan(&c.ID, &c.Name, &c.Type)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tax class: %w", err)
	}
	return &c, nil
}
