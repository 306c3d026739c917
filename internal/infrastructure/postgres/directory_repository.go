package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/taxsetup/internal/domain/entity"
	"github.com/jhoicas/taxsetup/internal/domain/repository"
)

var _ repository.DirectoryRepository = (*DirectoryRepo)(nil)

// DirectoryRepo consulta de países y regiones.
type DirectoryRepo struct {
	q Querier
}

// NewDirectoryRepository construye el adaptador.
func NewDirectoryRepository(q Querier) *DirectoryRepo {
	return &DirectoryRepo{q: q}
}

// CountryExists indica si el código ISO-2 existe en el directorio.
func (r *DirectoryRepo) CountryExists(ctx context.Context, countryID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM directory_countries WHERE id = $1)`, countryID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("country exists: %w", err)
	}
	return exists, nil
}

// RegionsByCountry lista las regiones del país.
func (r *DirectoryRepo) RegionsByCountry(ctx context.Context, countryID string) ([]*entity.Region, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, country_id, code, name FROM directory_regions WHERE country_id = $1 ORDER BY code`, countryID)
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Region
	for rows.Next() {
		var reg entity.Region
		if err := rows.Scan(&reg.ID, &reg.CountryID, &reg.Code, &reg.Name); err != nil {
			return nil, fmt.Errorf("scan region: %w", err)
		}
		list = append(list, &reg)
	}
	return list, rows.Err()
}
