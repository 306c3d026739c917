// Package taxsetup contiene el data patch que reemplaza las tasas de impuesto por defecto
// por las del archivo de tasas y crea la regla de impuesto de productos.
package taxsetup

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/jhoicas/taxsetup/internal/application/setup"
	"github.com/jhoicas/taxsetup/internal/domain"
	"github.com/jhoicas/taxsetup/internal/domain/entity"
	"github.com/jhoicas/taxsetup/internal/domain/repository"
	"github.com/jhoicas/taxsetup/pkg/logger"
)

var _ setup.DataPatch = (*ImportTaxRates)(nil)

// PatchName nombre con el que el patch queda registrado en el historial.
const PatchName = "taxsetup/import_tax_rates"

// Options parámetros del patch. DefaultOptions reproduce la instalación estándar.
type Options struct {
	DefaultRuleCode   string // regla preexistente a eliminar
	DefaultCountry    string // país cuyas tasas preexistentes se eliminan
	RuleCode          string // código de la regla a crear
	ProductClassName  string
	CustomerClassName string
	Source            Source
}

// DefaultOptions valores por defecto del patch.
func DefaultOptions() Options {
	return Options{
		DefaultRuleCode:   "PRODUCTS",
		DefaultCountry:    "US",
		RuleCode:          "PRODUCTS",
		ProductClassName:  "Taxable Goods",
		CustomerClassName: "Retail Customer",
		Source:            BundledSource(),
	}
}

// ImportTaxRates data patch: elimina la regla y las tasas por defecto, importa las tasas del archivo
// y crea una regla que enlaza todas las tasas existentes con las clases de producto y cliente.
type ImportTaxRates struct {
	opts     Options
	importer *RateImporter
	log      *logger.Logger
}

// NewImportTaxRates construye el patch.
func NewImportTaxRates(opts Options, log *logger.Logger) *ImportTaxRates {
	return &ImportTaxRates{
		opts:     opts,
		importer: NewRateImporter(log),
		log:      log,
	}
}

// Name identifica el patch en el historial.
func (p *ImportTaxRates) Name() string { return PatchName }

// Dependencies el patch no depende de otros.
func (p *ImportTaxRates) Dependencies() []string { return nil }

// Aliases nombres anteriores del patch.
func (p *ImportTaxRates) Aliases() []string { return nil }

// Apply ejecuta los cuatro pasos en orden; el primer error aborta el patch.
func (p *ImportTaxRates) Apply(ctx context.Context, repos repository.Registry) error {
	if err := p.deleteDefaultTaxRule(ctx, repos); err != nil {
		return fmt.Errorf("eliminar regla por defecto: %w", err)
	}
	if err := p.deleteDefaultTaxRate(ctx, repos); err != nil {
		return fmt.Errorf("eliminar tasas por defecto: %w", err)
	}
	if err := p.importCsvTaxRateFile(ctx, repos); err != nil {
		return fmt.Errorf("importar archivo de tasas: %w", err)
	}
	if err := p.createTaxRules(ctx, repos); err != nil {
		return fmt.Errorf("crear regla de impuesto: %w", err)
	}
	return nil
}

func (p *ImportTaxRates) deleteDefaultTaxRule(ctx context.Context, repos repository.Registry) error {
	rules, err := repos.TaxRules.ListByCode(ctx, p.opts.DefaultRuleCode)
	if err != nil {
		return err
	}
	for _, rule := range rules {
		if err := repos.TaxRules.DeleteByID(ctx, rule.ID); err != nil {
			return err
		}
	}
	p.log.Info().Str("code", p.opts.DefaultRuleCode).Int("deleted", len(rules)).Msg("regla por defecto eliminada")
	return nil
}

func (p *ImportTaxRates) deleteDefaultTaxRate(ctx context.Context, repos repository.Registry) error {
	rates, err := repos.TaxRates.ListByCountry(ctx, p.opts.DefaultCountry)
	if err != nil {
		return err
	}
	for _, rate := range rates {
		if err := repos.TaxRates.DeleteByID(ctx, rate.ID); err != nil {
			return err
		}
	}
	p.log.Info().Str("country", p.opts.DefaultCountry).Int("deleted", len(rates)).Msg("tasas por defecto eliminadas")
	return nil
}

func (p *ImportTaxRates) importCsvTaxRateFile(ctx context.Context, repos repository.Registry) error {
	f, err := p.opts.Source.Open()
	if err != nil {
		return fmt.Errorf("abrir %s: %w", p.opts.Source.Path, err)
	}
	defer func(f fs.File) { _ = f.Close() }(f)

	res, err := p.importer.Import(ctx, repos, f)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrImportFailed, err)
	}
	p.log.Info().
		Str("file", p.opts.Source.Path).
		Int("created", res.Created).
		Int("updated", res.Updated).
		Int("skipped", res.Skipped).
		Msg("tasas importadas")
	return nil
}

func (p *ImportTaxRates) createTaxRules(ctx context.Context, repos repository.Registry) error {
	productClass, err := repos.TaxClasses.FirstByName(ctx, p.opts.ProductClassName)
	if err != nil {
		return err
	}
	customerClass, err := repos.TaxClasses.FirstByName(ctx, p.opts.CustomerClassName)
	if err != nil {
		return err
	}
	if productClass == nil || customerClass == nil {
		p.log.Warn().
			Str("product_class", p.opts.ProductClassName).
			Str("customer_class", p.opts.CustomerClassName).
			Msg("clase de impuesto no encontrada, no se crea la regla")
		return nil
	}

	// Foto de las tasas existentes en este momento.
	rates, err := repos.TaxRates.List(ctx)
	if err != nil {
		return err
	}
	rateIDs := make([]string, 0, len(rates))
	for _, rate := range rates {
		rateIDs = append(rateIDs, rate.ID)
	}

	rule := &entity.TaxRule{
		Code:             p.opts.RuleCode,
		RateIDs:          rateIDs,
		ProductClassIDs:  []string{productClass.ID},
		CustomerClassIDs: []string{customerClass.ID},
		Priority:         0,
		Position:         0,
	}
	if err := repos.TaxRules.Save(ctx, rule); err != nil {
		return err
	}
	p.log.Info().Str("code", rule.Code).Str("id", rule.ID).Int("rates", len(rateIDs)).Msg("regla de impuesto creada")
	return nil
}
