package repository

import (
	"context"

	"github.com/jhoicas/taxsetup/internal/domain/entity"
)

// TaxRateRepository define el puerto de persistencia para TaxRate (DIP).
type TaxRateRepository interface {
	Create(ctx context.Context, rate *entity.TaxRate) error
	Update(ctx context.Context, rate *entity.TaxRate) error
	// GetByCode retorna (nil, nil) si no existe.
	GetByCode(ctx context.Context, code string) (*entity.TaxRate, error)
	// DeleteByID retorna domain.ErrNotFound si la tasa no existe.
	DeleteByID(ctx context.Context, id string) error
	ListByCountry(ctx context.Context, countryID string) ([]*entity.TaxRate, error)
	List(ctx context.Context) ([]*entity.TaxRate, error)
}
