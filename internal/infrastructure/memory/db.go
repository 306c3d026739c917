// Package memory implementa los repositorios en memoria, con transacciones por copia.
// Se usa en tests y en ejecuciones de prueba sin base de datos.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/taxsetup/internal/domain/entity"
	"github.com/jhoicas/taxsetup/internal/domain/repository"
)

type data struct {
	rates     []*entity.TaxRate
	rules     []*entity.TaxRule
	classes   []*entity.TaxClass
	stores    []*entity.Store
	countries map[string]bool
	regions   []*entity.Region
	patches   []*entity.PatchRecord
	now       func() time.Time
}

// DB almacén en memoria. Las escrituras hechas dentro de Run solo se ven tras el commit.
type DB struct {
	mu sync.Mutex
	d  *data
}

// NewDB crea un almacén vacío.
func NewDB() *DB {
	return &DB{d: &data{countries: map[string]bool{}, now: time.Now}}
}

// Registry devuelve los repositorios sobre el estado confirmado actual.
func (db *DB) Registry() repository.Registry {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.d.registry()
}

// Run ejecuta fn sobre una copia del estado; si fn no falla, la copia reemplaza al estado.
func (db *DB) Run(ctx context.Context, fn func(repos repository.Registry) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := db.d.clone()
	if err := fn(tx.registry()); err != nil {
		return err
	}
	db.d = tx
	return nil
}

// AddCountry registra un país con sus regiones (códigos).
func (db *DB) AddCountry(countryID string, regionCodes ...string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.d.countries[countryID] = true
	for _, code := range regionCodes {
		db.d.regions = append(db.d.regions, &entity.Region{
			ID: countryID + "-" + code, CountryID: countryID, Code: code, Name: code,
		})
	}
}

// AddStore registra una tienda.
func (db *DB) AddStore(s entity.Store) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.d.stores = append(db.d.stores, &s)
}

// AddTaxClass registra una clase de impuesto.
func (db *DB) AddTaxClass(c entity.TaxClass) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.d.classes = append(db.d.classes, &c)
}

func (d *data) registry() repository.Registry {
	return repository.Registry{
		TaxRates:   &taxRateRepo{d: d},
		TaxRules:   &taxRuleRepo{d: d},
		TaxClasses: &taxClassRepo{d: d},
		Stores:     &storeRepo{d: d},
		Directory:  &directoryRepo{d: d},
		Patches:    &patchRepo{d: d},
	}
}

func (d *data) clone() *data {
	c := &data{
		countries: make(map[string]bool, len(d.countries)),
		now:       d.now,
		classes:   append([]*entity.TaxClass(nil), d.classes...),
		stores:    append([]*entity.Store(nil), d.stores...),
		regions:   append([]*entity.Region(nil), d.regions...),
		patches:   append([]*entity.PatchRecord(nil), d.patches...),
	}
	for k, v := range d.countries {
		c.countries[k] = v
	}
	for _, r := range d.rates {
		c.rates = append(c.rates, copyRate(r))
	}
	for _, r := range d.rules {
		c.rules = append(c.rules, copyRule(r))
	}
	return c
}

func copyRate(r *entity.TaxRate) *entity.TaxRate {
	cp := *r
	if r.Titles != nil {
		cp.Titles = make(map[string]string, len(r.Titles))
		for k, v := range r.Titles {
			cp.Titles[k] = v
		}
	}
	return &cp
}

func copyRule(r *entity.TaxRule) *entity.TaxRule {
	cp := *r
	cp.RateIDs = append([]string(nil), r.RateIDs...)
	cp.ProductClassIDs = append([]string(nil), r.ProductClassIDs...)
	cp.CustomerClassIDs = append([]string(nil), r.CustomerClassIDs...)
	return &cp
}
