package repository

import (
	"context"

	"github.com/jhoicas/taxsetup/internal/domain/entity"
)

// DirectoryRepository consulta de países y regiones.
type DirectoryRepository interface {
	CountryExists(ctx context.Context, countryID string) (bool, error)
	RegionsByCountry(ctx context.Context, countryID string) ([]*entity.Region, error)
}
