package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/taxsetup/internal/domain"
	"github.com/jhoicas/taxsetup/internal/domain/entity"
	"github.com/jhoicas/taxsetup/internal/domain/repository"
)

var _ repository.PatchRepository = (*PatchRepo)(nil)

// PatchRepo historial de data patches (tabla setup_patches).
type PatchRepo struct {
	q Querier
}

// NewPatchRepository construye el adaptador.
func NewPatchRepository(q Querier) *PatchRepo {
	return &PatchRepo{q: q}
}

// IsApplied indica si el patch ya está registrado.
func (r *PatchRepo) IsApplied(ctx context.Context, name string) (bool, error) {
	var applied bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM setup_patches WHERE name = $1)`, name).Scan(&applied)
	if err != nil {
		return false, fmt.Errorf("patch applied: %w", err)
	}
	return applied, nil
}

// MarkApplied registra el patch.
func (r *PatchRepo) MarkApplied(ctx context.Context, name string) error {
	_, err := r.q.Exec(ctx, `INSERT INTO setup_patches (name, applied_at) VALUES ($1, now())`, name)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert patch: %w", err)
	}
	return nil
}

// List lista el historial en orden de aplicación.
func (r *PatchRepo) List(ctx context.Context) ([]*entity.PatchRecord, error) {
	rows, err := r.q.Query(ctx, `SELECT name, applied_at FROM setup_patches ORDER BY applied_at, name`)
	if err != nil {
		return nil, fmt.Errorf("list patches: %w", err)
	}
	defer rows.Close()
	var list []*entity.PatchRecord
	for rows.Next() {
		var p entity.PatchRecord
		if err := rows.Scan(&p.Name, &p.AppliedAt); err != nil {
			return nil, fmt.Errorf("scan patch: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
