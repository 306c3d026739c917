package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taxsetup/internal/domain"
	"github.com/jhoicas/taxsetup/internal/domain/entity"
)

func validRate() entity.TaxRate {
	return entity.TaxRate{Code: " US-NY ", CountryID: "us", Rate: decimal.RequireFromString("4")}
}

func TestNormalize_SinRango(t *testing.T) {
	r := validRate()
	r.ZipFrom, r.ZipTo = "1", "2"

	require.NoError(t, r.Normalize())
	assert.Equal(t, "US-NY", r.Code)
	assert.Equal(t, "US", r.CountryID)
	assert.Equal(t, entity.AnyPostcode, r.Postcode, "postal vacío cubre todo el país/región")
	assert.Empty(t, r.ZipFrom, "sin rango se limpian los extremos")
	assert.Empty(t, r.ZipTo)
}

func TestNormalize_TruncaPostal(t *testing.T) {
	r := validRate()
	r.Postcode = "123456789012"

	require.NoError(t, r.Normalize())
	assert.Equal(t, "1234567890", r.Postcode)
}

func TestNormalize_Rango(t *testing.T) {
	r := validRate()
	r.ZipIsRange, r.ZipFrom, r.ZipTo = true, "10001", "10099"

	require.NoError(t, r.Normalize())
	assert.Equal(t, "10001-10099", r.Postcode)
}

func TestNormalize_Invalidos(t *testing.T) {
	cases := map[string]func(r *entity.TaxRate){
		"sin código":        func(r *entity.TaxRate) { r.Code = " " },
		"sin país":          func(r *entity.TaxRate) { r.CountryID = "" },
		"tasa negativa":     func(r *entity.TaxRate) { r.Rate = decimal.NewFromInt(-1) },
		"rango incompleto":  func(r *entity.TaxRate) { r.ZipIsRange, r.ZipFrom = true, "1" },
		"rango no numérico": func(r *entity.TaxRate) { r.ZipIsRange, r.ZipFrom, r.ZipTo = true, "A1", "B2" },
		"rango muy largo":   func(r *entity.TaxRate) { r.ZipIsRange, r.ZipFrom, r.ZipTo = true, "1", "1234567890" },
		"rango invertido":   func(r *entity.TaxRate) { r.ZipIsRange, r.ZipFrom, r.ZipTo = true, "200", "100" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			r := validRate()
			mutate(&r)
			assert.ErrorIs(t, r.Normalize(), domain.ErrInvalidInput)
		})
	}
}

func TestNormalize_TasaCero(t *testing.T) {
	r := validRate()
	r.Rate = decimal.Zero
	assert.NoError(t, r.Normalize(), "estados sin impuesto usan tasa 0")
}
