package repository

import (
	"context"

	"github.com/jhoicas/taxsetup/internal/domain/entity"
)

// PatchRepository historial de data patches aplicados.
type PatchRepository interface {
	IsApplied(ctx context.Context, name string) (bool, error)
	MarkApplied(ctx context.Context, name string) error
	List(ctx context.Context) ([]*entity.PatchRecord, error)
}
