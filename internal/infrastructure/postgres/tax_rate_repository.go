package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/taxsetup/internal/domain"
	"github.com/jhoicas/taxsetup/internal/domain/entity"
	"github.com/jhoicas/taxsetup/internal/domain/repository"
)

var _ repository.TaxRateRepository = (*TaxRateRepo)(nil)

// TaxRateRepo implementación de TaxRateRepository (usable con pool o tx).
type TaxRateRepo struct {
	q Querier
}

// NewTaxRateRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTaxRateRepository(q Querier) *TaxRateRepo {
	return &TaxRateRepo{q: q}
}

const taxRateColumns = `id, code, country_id, region_id, postcode, rate, zip_is_range, zip_from, zip_to, created_at, updated_at`

// Create persiste una nueva tasa con sus títulos por tienda.
func (r *TaxRateRepo) Create(ctx context.Context, rate *entity.TaxRate) error {
	now := time.Now()
	rate.CreatedAt, rate.UpdatedAt = now, now
	query := `
		INSERT INTO tax_rates (` + taxRateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		rate.ID, rate.Code, rate.CountryID, nullIfEmpty(rate.RegionID), rate.Postcode, rate.Rate,
		rate.ZipIsRange, nullIfEmpty(rate.ZipFrom), nullIfEmpty(rate.ZipTo), rate.CreatedAt, rate.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: país o región inexistente para la tasa %q", domain.ErrInvalidInput, rate.Code)
		}
		return fmt.Errorf("insert tax rate: %w", err)
	}
	return r.saveTitles(ctx, rate)
}

// Update actualiza una tasa y reemplaza sus títulos.
func (r *TaxRateRepo) Update(ctx context.Context, rate *entity.TaxRate) error {
	rate.UpdatedAt = time.Now()
	query := `
		UPDATE tax_rates SET code = $2, country_id = $3, region_id = $4, postcode = $5, rate = $6,
			zip_is_range = $7, zip_from = $8, zip_to = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		rate.ID, rate.Code, rate.CountryID, nullIfEmpty(rate.RegionID), rate.Postcode, rate.Rate,
		rate.ZipIsRange, nullIfEmpty(rate.ZipFrom), nullIfEmpty(rate.ZipTo), rate.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update tax rate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM tax_rate_titles WHERE rate_id = $1`, rate.ID); err != nil {
		return fmt.Errorf("delete tax rate titles: %w", err)
	}
	return r.saveTitles(ctx, rate)
}

func (r *TaxRateRepo) saveTitles(ctx context.Context, rate *entity.TaxRate) error {
	for storeID, title := range rate.Titles {
		_, err := r.q.Exec(ctx,
			`INSERT INTO tax_rate_titles (rate_id, store_id, title) VALUES ($1, $2, $3)`,
			rate.ID, storeID, title,
		)
		if err != nil {
			return fmt.Errorf("insert tax rate title: %w", err)
		}
	}
	return nil
}

// GetByCode obtiene una tasa por código. Retorna (nil, nil) si no existe.
func (r *TaxRateRepo) GetByCode(ctx context.Context, code string) (*entity.TaxRate, error) {
	list, err := r.list(ctx, `SELECT `+taxRateColumns+` FROM tax_rates WHERE code = $1`, code)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// DeleteByID elimina una tasa; sus títulos y vínculos con reglas caen en cascada.
func (r *TaxRateRepo) DeleteByID(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM tax_rates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tax rate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("tasa %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListByCountry lista las tasas de un país.
func (r *TaxRateRepo) ListByCountry(ctx context.Context, countryID string) ([]*entity.TaxRate, error) {
	return r.list(ctx, `SELECT `+taxRateColumns+` FROM tax_rates WHERE country_id = $1 ORDER BY code`, countryID)
}

// List lista todas las tasas.
func (r *TaxRateRepo) List(ctx context.Context) ([]*entity.TaxRate, error) {
	return r.list(ctx, `SELECT `+taxRateColumns+` FROM tax_rates ORDER BY code`)
}

func (r *TaxRateRepo) list(ctx context.Context, query string, args ...any) ([]*entity.TaxRate, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tax rates: %w", err)
	}

	var list []*entity.TaxRate
	byID := make(map[string]*entity.TaxRate)
	for rows.Next() {
		var (
			t                        entity.TaxRate
			regionID, zipFrom, zipTo *string
		)
		if err := rows.Scan(&t.ID, &t.Code, &t.CountryID, &regionID, &t.Postcode, &t.Rate,
			&t.ZipIsRange, &zipFrom, &zipTo, &t.CreatedAt, &t.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan tax rate: %w", err)
		}
		t.RegionID, t.ZipFrom, t.ZipTo = derefString(regionID), derefString(zipFrom), derefString(zipTo)
		t.Titles = map[string]string{}
		list = append(list, &t)
		byID[t.ID] = &t
	}
	// Cerrar antes de la siguiente consulta: en una tx la conexión es única.
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	if err := r.loadTitles(ctx, byID); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *TaxRateRepo) loadTitles(ctx context.Context, byID map[string]*entity.TaxRate) error {
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	rows, err := r.q.Query(ctx,
		`SELECT rate_id, store_id, title FROM tax_rate_titles WHERE rate_id = ANY($1::uuid[])`, ids)
	if err != nil {
		return fmt.Errorf("list tax rate titles: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rateID, storeID, title string
		if err := rows.Scan(&rateID, &storeID, &title); err != nil {
			return fmt.Errorf("scan tax rate title: %w", err)
		}
		if rate, ok := byID[rateID]; ok {
			rate.Titles[storeID] = title
		}
	}
	return rows.Err()
}
