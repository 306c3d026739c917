package taxsetup

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/taxsetup/internal/domain"
	"github.com/jhoicas/taxsetup/internal/domain/entity"
	"github.com/jhoicas/taxsetup/internal/domain/repository"
	"github.com/jhoicas/taxsetup/internal/infrastructure/csvimport"
	"github.com/jhoicas/taxsetup/pkg/logger"
)

// RequiredColumns cabecera obligatoria del archivo de tasas, en este orden.
// Las columnas siguientes son títulos por tienda: su cabecera es el código de la tienda.
var RequiredColumns = []string{
	"Code", "Country", "State", "Zip/Post Code", "Rate", "Zip/Post is Range", "Range From", "Range To",
}

const (
	colCode = iota
	colCountry
	colState
	colPostcode
	colRate
	colZipIsRange
	colZipFrom
	colZipTo
)

// allRegions comodín de región en el archivo.
const allRegions = "*"

// ImportResult resumen de una importación.
type ImportResult struct {
	Created int
	Updated int
	Skipped int // filas cuya región no existe en el país
}

// RateImporter convierte las filas del archivo de tasas en entidades TaxRate.
type RateImporter struct {
	log *logger.Logger
}

// NewRateImporter construye el importador.
func NewRateImporter(log *logger.Logger) *RateImporter {
	return &RateImporter{log: log}
}

type rateRow struct {
	line   int
	fields []string
}

// regionsCache país -> código de región -> ID de región ("" = todas).
type regionsCache map[string]map[string]string

// Import lee el CSV, descarta columnas no reconocidas y crea o actualiza una tasa por fila de datos.
func (im *RateImporter) Import(ctx context.Context, repos repository.Registry, r io.Reader) (ImportResult, error) {
	var res ImportResult

	raw, err := csvimport.ReadAll(r)
	if err != nil {
		return res, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if err := validateHeader(raw[0]); err != nil {
		return res, err
	}

	stores, err := repos.Stores.List(ctx)
	if err != nil {
		return res, fmt.Errorf("listar tiendas: %w", err)
	}
	validCols, titleStores := im.filterFileFields(raw[0], stores)

	rows, err := filterRateData(raw, validCols)
	if err != nil {
		return res, err
	}

	cache := regionsCache{}
	for _, row := range rows {
		// La cabecera no es una tasa.
		if row.line == 1 {
			continue
		}
		outcome, err := im.importRate(ctx, repos, row, cache, titleStores)
		if err != nil {
			return res, fmt.Errorf("línea %d: %w", row.line, err)
		}
		switch outcome {
		case rateCreated:
			res.Created++
		case rateUpdated:
			res.Updated++
		default:
			res.Skipped++
		}
	}
	return res, nil
}

func validateHeader(header []string) error {
	if len(header) < len(RequiredColumns) {
		return fmt.Errorf("%w: formato de archivo inválido, se esperan al menos %d columnas", domain.ErrInvalidInput, len(RequiredColumns))
	}
	for i, name := range RequiredColumns {
		if !strings.EqualFold(strings.TrimSpace(header[i]), name) {
			return fmt.Errorf("%w: formato de archivo inválido, columna %d debe ser %q (encontrado %q)",
				domain.ErrInvalidInput, i+1, name, header[i])
		}
	}
	return nil
}

// filterFileFields devuelve los índices de columnas válidas (obligatorias + títulos de tiendas existentes)
// y el ID de tienda de cada columna de título, en el mismo orden.
func (im *RateImporter) filterFileFields(header []string, stores []*entity.Store) ([]int, []string) {
	storeByCode := make(map[string]string, len(stores))
	for _, s := range stores {
		storeByCode[s.Code] = s.ID
	}

	valid := make([]int, 0, len(header))
	for i := range RequiredColumns {
		valid = append(valid, i)
	}
	var titleStores []string
	for i := len(RequiredColumns); i < len(header); i++ {
		storeID, ok := storeByCode[header[i]]
		if !ok {
			im.log.Warn().Str("column", header[i]).Msg("columna descartada: no corresponde a ninguna tienda")
			continue
		}
		valid = append(valid, i)
		titleStores = append(titleStores, storeID)
	}
	return valid, titleStores
}

// filterRateData omite filas vacías y deja en cada fila solo las columnas válidas.
// Toda fila restante debe tener exactamente una celda por columna válida.
func filterRateData(raw [][]string, validCols []int) ([]rateRow, error) {
	rows := make([]rateRow, 0, len(raw))
	for i, rec := range raw {
		if len(rec) <= 1 {
			continue
		}
		fields := make([]string, 0, len(validCols))
		for _, col := range validCols {
			if col >= len(rec) {
				return nil, fmt.Errorf("%w: formato de archivo inválido en la línea %d", domain.ErrInvalidInput, i+1)
			}
			fields = append(fields, rec[col])
		}
		if extra := len(rec) - len(raw[0]); extra > 0 {
			return nil, fmt.Errorf("%w: formato de archivo inválido en la línea %d", domain.ErrInvalidInput, i+1)
		}
		rows = append(rows, rateRow{line: i + 1, fields: fields})
	}
	return rows, nil
}

type rateOutcome int

const (
	rateSkipped rateOutcome = iota
	rateCreated
	rateUpdated
)

func (im *RateImporter) importRate(
	ctx context.Context,
	repos repository.Registry,
	row rateRow,
	cache regionsCache,
	titleStores []string,
) (rateOutcome, error) {
	f := row.fields
	countryID := strings.ToUpper(f[colCountry])

	regions, err := im.countryRegions(ctx, repos, countryID, cache)
	if err != nil {
		return rateSkipped, err
	}
	regionID, ok := regions[f[colState]]
	if !ok {
		im.log.Warn().Int("line", row.line).Str("country", countryID).Str("state", f[colState]).
			Msg("fila omitida: región desconocida")
		return rateSkipped, nil
	}

	rateValue, err := decimal.NewFromString(f[colRate])
	if err != nil {
		return rateSkipped, fmt.Errorf("%w: porcentaje de tasa inválido %q", domain.ErrInvalidInput, f[colRate])
	}

	rate, err := repos.TaxRates.GetByCode(ctx, f[colCode])
	if err != nil {
		return rateSkipped, fmt.Errorf("buscar tasa %q: %w", f[colCode], err)
	}
	outcome := rateUpdated
	if rate == nil {
		rate = &entity.TaxRate{ID: uuid.New().String()}
		outcome = rateCreated
	}
	rate.Code = f[colCode]
	rate.CountryID = countryID
	rate.RegionID = regionID
	rate.Postcode = f[colPostcode]
	rate.Rate = rateValue
	rate.ZipIsRange = isTruthy(f[colZipIsRange])
	rate.ZipFrom = f[colZipFrom]
	rate.ZipTo = f[colZipTo]
	rate.Titles = make(map[string]string, len(titleStores))
	for k, storeID := range titleStores {
		if title := f[len(RequiredColumns)+k]; title != "" {
			rate.Titles[storeID] = title
		}
	}

	if err := rate.Normalize(); err != nil {
		return rateSkipped, err
	}
	if outcome == rateCreated {
		err = repos.TaxRates.Create(ctx, rate)
	} else {
		err = repos.TaxRates.Update(ctx, rate)
	}
	if err != nil {
		return rateSkipped, fmt.Errorf("guardar tasa %q: %w", rate.Code, err)
	}
	im.log.Debug().Int("line", row.line).Str("code", rate.Code).Bool("created", outcome == rateCreated).Msg("tasa guardada")
	return outcome, nil
}

// countryRegions valida el país y carga sus regiones en la caché la primera vez.
func (im *RateImporter) countryRegions(
	ctx context.Context,
	repos repository.Registry,
	countryID string,
	cache regionsCache,
) (map[string]string, error) {
	if regions, ok := cache[countryID]; ok {
		return regions, nil
	}
	exists, err := repos.Directory.CountryExists(ctx, countryID)
	if err != nil {
		return nil, fmt.Errorf("buscar país %q: %w", countryID, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: código de país inválido: %q", domain.ErrInvalidInput, countryID)
	}
	list, err := repos.Directory.RegionsByCountry(ctx, countryID)
	if err != nil {
		return nil, fmt.Errorf("regiones de %q: %w", countryID, err)
	}
	regions := map[string]string{allRegions: ""}
	for _, region := range list {
		regions[region.Code] = region.ID
	}
	cache[countryID] = regions
	return regions, nil
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false", "no":
		return false
	default:
		return true
	}
}
