package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/taxsetup/internal/domain"
	"github.com/jhoicas/taxsetup/internal/domain/entity"
	"github.com/jhoicas/taxsetup/internal/domain/repository"
)

var (
	_ repository.TaxRateRepository   = (*taxRateRepo)(nil)
	_ repository.TaxRuleRepository   = (*taxRuleRepo)(nil)
	_ repository.TaxClassRepository  = (*taxClassRepo)(nil)
	_ repository.StoreRepository     = (*storeRepo)(nil)
	_ repository.DirectoryRepository = (*directoryRepo)(nil)
	_ repository.PatchRepository     = (*patchRepo)(nil)
)

type taxRateRepo struct{ d *data }

func (r *taxRateRepo) Create(_ context.Context, rate *entity.TaxRate) error {
	for _, existing := range r.d.rates {
		if existing.Code == rate.Code {
			return domain.ErrDuplicate
		}
	}
	if rate.ID == "" {
		rate.ID = uuid.New().String()
	}
	now := r.d.now()
	rate.CreatedAt, rate.UpdatedAt = now, now
	r.d.rates = append(r.d.rates, copyRate(rate))
	return nil
}

func (r *taxRateRepo) Update(_ context.Context, rate *entity.TaxRate) error {
	for i, existing := range r.d.rates {
		if existing.ID == rate.ID {
			rate.UpdatedAt = r.d.now()
			r.d.rates[i] = copyRate(rate)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *taxRateRepo) GetByCode(_ context.Context, code string) (*entity.TaxRate, error) {
	for _, existing := range r.d.rates {
		if existing.Code == code {
			return copyRate(existing), nil
		}
	}
	return nil, nil
}

func (r *taxRateRepo) DeleteByID(_ context.Context, id string) error {
	for i, existing := range r.d.rates {
		if existing.ID == id {
			r.d.rates = append(r.d.rates[:i:i], r.d.rates[i+1:]...)
			// Igual que la FK en cascada: la tasa desaparece de las reglas.
			for _, rule := range r.d.rules {
				rule.RateIDs = without(rule.RateIDs, id)
			}
			return nil
		}
	}
	return fmt.Errorf("tasa %s: %w", id, domain.ErrNotFound)
}

func (r *taxRateRepo) ListByCountry(_ context.Context, countryID string) ([]*entity.TaxRate, error) {
	var list []*entity.TaxRate
	for _, existing := range r.d.rates {
		if existing.CountryID == countryID {
			list = append(list, copyRate(existing))
		}
	}
	return list, nil
}

func (r *taxRateRepo) List(_ context.Context) ([]*entity.TaxRate, error) {
	list := make([]*entity.TaxRate, 0, len(r.d.rates))
	for _, existing := range r.d.rates {
		list = append(list, copyRate(existing))
	}
	return list, nil
}

type taxRuleRepo struct{ d *data }

func (r *taxRuleRepo) Save(_ context.Context, rule *entity.TaxRule) error {
	if err := rule.Validate(); err != nil {
		return err
	}
	for _, existing := range r.d.rules {
		if existing.Code == rule.Code {
			return domain.ErrDuplicate
		}
	}
	for _, id := range rule.RateIDs {
		if !r.rateExists(id) {
			return fmt.Errorf("%w: tasa %s no existe", domain.ErrInvalidInput, id)
		}
	}
	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	now := r.d.now()
	rule.CreatedAt, rule.UpdatedAt = now, now
	r.d.rules = append(r.d.rules, copyRule(rule))
	return nil
}

func (r *taxRuleRepo) rateExists(id string) bool {
	for _, rate := range r.d.rates {
		if rate.ID == id {
			return true
		}
	}
	return false
}

func (r *taxRuleRepo) DeleteByID(_ context.Context, id string) error {
	for i, existing := range r.d.rules {
		if existing.ID == id {
			r.d.rules = append(r.d.rules[:i:i], r.d.rules[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("regla %s: %w", id, domain.ErrNotFound)
}

func (r *taxRuleRepo) ListByCode(_ context.Context, code string) ([]*entity.TaxRule, error) {
	var list []*entity.TaxRule
	for _, existing := range r.d.rules {
		if existing.Code == code {
			list = append(list, copyRule(existing))
		}
	}
	return list, nil
}

type taxClassRepo struct{ d *data }

func (r *taxClassRepo) FirstByName(_ context.Context, name string) (*entity.TaxClass, error) {
	for _, c := range r.d.classes {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

type storeRepo struct{ d *data }

func (r *storeRepo) List(_ context.Context) ([]*entity.Store, error) {
	list := make([]*entity.Store, 0, len(r.d.stores))
	for _, s := range r.d.stores {
		cp := *s
		list = append(list, &cp)
	}
	return list, nil
}

type directoryRepo struct{ d *data }

func (r *directoryRepo) CountryExists(_ context.Context, countryID string) (bool, error) {
	return r.d.countries[countryID], nil
}

func (r *directoryRepo) RegionsByCountry(_ context.Context, countryID string) ([]*entity.Region, error) {
	var list []*entity.Region
	for _, region := range r.d.regions {
		if region.CountryID == countryID {
			cp := *region
			list = append(list, &cp)
		}
	}
	return list, nil
}

type patchRepo struct{ d *data }

func (r *patchRepo) IsApplied(_ context.Context, name string) (bool, error) {
	for _, p := range r.d.patches {
		if p.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *patchRepo) MarkApplied(_ context.Context, name string) error {
	for _, p := range r.d.patches {
		if p.Name == name {
			return domain.ErrDuplicate
		}
	}
	r.d.patches = append(r.d.patches, &entity.PatchRecord{Name: name, AppliedAt: r.d.now()})
	return nil
}

func (r *patchRepo) List(_ context.Context) ([]*entity.PatchRecord, error) {
	list := make([]*entity.PatchRecord, 0, len(r.d.patches))
	for _, p := range r.d.patches {
		cp := *p
		list = append(list, &cp)
	}
	return list, nil
}

func without(ids []string, id string) []string {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
