package repository

import (
	"context"

	"github.com/jhoicas/taxsetup/internal/domain/entity"
)

// TaxRuleRepository define el puerto de persistencia para TaxRule.
type TaxRuleRepository interface {
	// Save crea la regla con sus vínculos a tasas y clases. Valida antes de persistir.
	Save(ctx context.Context, rule *entity.TaxRule) error
	DeleteByID(ctx context.Context, id string) error
	ListByCode(ctx context.Context, code string) ([]*entity.TaxRule, error)
}
