package repository

import (
	"context"

	"github.com/jhoicas/taxsetup/internal/domain/entity"
)

// StoreRepository lectura de tiendas.
type StoreRepository interface {
	List(ctx context.Context) ([]*entity.Store, error)
}
