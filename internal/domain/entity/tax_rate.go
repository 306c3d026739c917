package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/taxsetup/internal/domain"
)

const (
	// AnyPostcode patrón que cubre todos los códigos postales del ámbito.
	AnyPostcode = "*"
	// MaxZipRangeLength longitud máxima de cada extremo de un rango postal.
	MaxZipRangeLength = 9
	// MaxPostcodeLength longitud máxima de un patrón postal simple (se trunca).
	MaxPostcodeLength = 10
)

// TaxRate representa una tasa de impuesto para un ámbito geográfico (país, región, código postal).
// Rate es un porcentaje (7.25 = 7,25 %), no una fracción.
type TaxRate struct {
	ID         string
	Code       string // único
	CountryID  string // ISO 3166-1 alpha-2
	RegionID   string // vacío = todas las regiones del país
	Postcode   string // "*", patrón simple o "desde-hasta" cuando ZipIsRange
	Rate       decimal.Decimal
	ZipIsRange bool
	ZipFrom    string
	ZipTo      string
	Titles     map[string]string // storeID -> título visible en esa tienda
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Normalize valida la tasa y deja el código postal en su forma persistible.
// Con rango: exige extremos numéricos de hasta 9 dígitos con desde <= hasta y compone Postcode = "desde-hasta".
// Sin rango: Postcode vacío pasa a "*" y se trunca a 10 caracteres; ZipFrom/ZipTo se limpian.
func (r *TaxRate) Normalize() error {
	r.Code = strings.TrimSpace(r.Code)
	r.CountryID = strings.ToUpper(strings.TrimSpace(r.CountryID))
	r.Postcode = strings.TrimSpace(r.Postcode)
	r.ZipFrom = strings.TrimSpace(r.ZipFrom)
	r.ZipTo = strings.TrimSpace(r.ZipTo)

	if r.Code == "" || r.CountryID == "" {
		return fmt.Errorf("%w: código y país de la tasa son obligatorios", domain.ErrInvalidInput)
	}
	if r.Rate.IsNegative() {
		return fmt.Errorf("%w: la tasa %q debe ser un número positivo", domain.ErrInvalidInput, r.Code)
	}

	if !r.ZipIsRange {
		if r.Postcode == "" {
			r.Postcode = AnyPostcode
		}
		if runes := []rune(r.Postcode); len(runes) > MaxPostcodeLength {
			r.Postcode = string(runes[:MaxPostcodeLength])
		}
		r.ZipFrom, r.ZipTo = "", ""
		return nil
	}

	if r.ZipFrom == "" || r.ZipTo == "" {
		return fmt.Errorf("%w: la tasa %q declara rango postal sin extremos", domain.ErrInvalidInput, r.Code)
	}
	if len(r.ZipFrom) > MaxZipRangeLength || len(r.ZipTo) > MaxZipRangeLength {
		return fmt.Errorf("%w: la longitud máxima del código postal es %d", domain.ErrInvalidInput, MaxZipRangeLength)
	}
	from, errFrom := strconv.ParseUint(r.ZipFrom, 10, 64)
	to, errTo := strconv.ParseUint(r.ZipTo, 10, 64)
	if errFrom != nil || errTo != nil {
		return fmt.Errorf("%w: use solo dígitos en el rango postal de %q", domain.ErrInvalidInput, r.Code)
	}
	if from > to {
		return fmt.Errorf("%w: el fin del rango postal debe ser mayor o igual al inicio (%q)", domain.ErrInvalidInput, r.Code)
	}
	r.Postcode = r.ZipFrom + "-" + r.ZipTo
	return nil
}
