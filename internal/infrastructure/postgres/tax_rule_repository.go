package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/taxsetup/internal/domain"
	"github.com/jhoicas/taxsetup/internal/domain/entity"
	"github.com/jhoicas/taxsetup/internal/domain/repository"
)

var _ repository.TaxRuleRepository = (*TaxRuleRepo)(nil)

// TaxRuleRepo implementación de TaxRuleRepository (usable con pool o tx).
type TaxRuleRepo struct {
	q Querier
}

// NewTaxRuleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTaxRuleRepository(q Querier) *TaxRuleRepo {
	return &TaxRuleRepo{q: q}
}

// Save crea la regla y sus vínculos con tasas y clases.
// Usar dentro de una transacción: son varias sentencias.
func (r *TaxRuleRepo) Save(ctx context.Context, rule *entity.TaxRule) error {
	if err := rule.Validate(); err != nil {
		return err
	}
	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	now := time.Now()
	rule.CreatedAt, rule.UpdatedAt = now, now

	query := `
		INSERT INTO tax_rules (id, code, priority, position, calculate_subtotal, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		rule.ID, rule.Code, rule.Priority, rule.Position, rule.CalculateSubtotal, rule.CreatedAt, rule.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert tax rule: %w", err)
	}

	_, err = r.q.Exec(ctx,
		`INSERT INTO tax_rule_rates (rule_id, rate_id) SELECT $1, unnest($2::uuid[])`,
		rule.ID, rule.RateIDs)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: la regla %q referencia tasas inexistentes", domain.ErrInvalidInput, rule.Code)
		}
		return fmt.Errorf("insert tax rule rates: %w", err)
	}

	classIDs := append(append([]string{}, rule.ProductClassIDs...), rule.CustomerClassIDs...)
	_, err = r.q.Exec(ctx,
		`INSERT INTO tax_rule_classes (rule_id, class_id) SELECT $1, unnest($2::uuid[]) ON CONFLICT DO NOTHING`,
		rule.ID, classIDs)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: la regla %q referencia clases inexistentes", domain.ErrInvalidInput, rule.Code)
		}
		return fmt.Errorf("insert tax rule classes: %w", err)
	}
	return nil
}

// DeleteByID elimina una regla; sus vínculos caen en cascada.
func (r *TaxRuleRepo) DeleteByID(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM tax_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tax rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("regla %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListByCode lista las reglas con código exacto, con sus tasas y clases.
func (r *TaxRuleRepo) ListByCode(ctx context.Context, code string) ([]*entity.TaxRule, error) {
	query := `
		SELECT id, code, priority, position, calculate_subtotal, created_at, updated_at
		FROM tax_rules WHERE code = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, code)
	if err != nil {
		return nil, fmt.Errorf("list tax rules: %w", err)
	}
	var list []*entity.TaxRule
	for rows.Next() {
		var t entity.TaxRule
		if err := rows.Scan(&t.ID, &t.Code, &t.Priority, &t.Position, &t.CalculateSubtotal, &t.CreatedAt, &t.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan tax rule: %w", err)
		}
		list = append(list, &t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, rule := range list {
		if err := r.loadLinks(ctx, rule); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *TaxRuleRepo) loadLinks(ctx context.Context, rule *entity.TaxRule) error {
	rows, err := r.q.Query(ctx, `SELECT rate_id FROM tax_rule_rates WHERE rule_id = $1 ORDER BY rate_id`, rule.ID)
	if err != nil {
		return fmt.Errorf("list tax rule rates: %w", err)
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scan tax rule rate: %w", err)
		}
		rule.RateIDs = append(rule.RateIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.q.Query(ctx, `
		SELECT c.id, c.type FROM tax_rule_classes rc
		JOIN tax_classes c ON c.id = rc.class_id
		WHERE rc.rule_id = $1 ORDER BY c.created_at`, rule.ID)
	if err != nil {
		return fmt.Errorf("list tax rule classes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, classType string
		if err := rows.Scan(&id, &classType); err != nil {
			return fmt.Errorf("scan tax rule class: %w", err)
		}
		switch classType {
		case entity.TaxClassTypeProduct:
			rule.ProductClassIDs = append(rule.ProductClassIDs, id)
		case entity.TaxClassTypeCustomer:
			rule.CustomerClassIDs = append(rule.CustomerClassIDs, id)
		}
	}
	return rows.Err()
}
