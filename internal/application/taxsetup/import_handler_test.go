package taxsetup_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taxsetup/internal/application/taxsetup"
	"github.com/jhoicas/taxsetup/internal/domain"
	"github.com/jhoicas/taxsetup/internal/domain/entity"
	"github.com/jhoicas/taxsetup/pkg/logger"
)

func importString(t *testing.T, content string) (taxsetup.ImportResult, []*entity.TaxRate, error) {
	t.Helper()
	ctx := context.Background()
	repos := newDirectoryDB().Registry()
	im := taxsetup.NewRateImporter(logger.Nop())

	res, err := im.Import(ctx, repos, strings.NewReader(content))
	rates, listErr := repos.TaxRates.List(ctx)
	require.NoError(t, listErr)
	return res, rates, err
}

func TestImport_ArchivoEmbebido(t *testing.T) {
	ctx := context.Background()
	repos := newDirectoryDB().Registry()
	f, err := taxsetup.BundledSource().Open()
	require.NoError(t, err)
	defer f.Close()

	res, err := taxsetup.NewRateImporter(logger.Nop()).Import(ctx, repos, f)
	require.NoError(t, err)
	assert.Equal(t, len(usStates), res.Created, "una tasa por fila de datos")
	assert.Zero(t, res.Skipped)

	ca, err := repos.TaxRates.GetByCode(ctx, "US-CA-*-Rate 1")
	require.NoError(t, err)
	require.NotNil(t, ca)
	assert.True(t, decimal.RequireFromString("7.25").Equal(ca.Rate))
	assert.Equal(t, "US-CA", ca.RegionID)
	assert.Equal(t, entity.AnyPostcode, ca.Postcode)
	assert.Equal(t, "CA Sales Tax", ca.Titles[testStoreID])
}

func TestImport_RegionComodinYPostalVacio(t *testing.T) {
	res, rates, err := importString(t, testHeader+"CA-ALL,CA,*,,5,,,,GST\n")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	require.Len(t, rates, 1)
	assert.Empty(t, rates[0].RegionID, "'*' significa todas las regiones")
	assert.Equal(t, entity.AnyPostcode, rates[0].Postcode)
}

func TestImport_DescartaColumnasDeTiendasDesconocidas(t *testing.T) {
	content := "Code,Country,State,Zip/Post Code,Rate,Zip/Post is Range,Range From,Range To,default,fr\n" +
		"US-NY,US,NY,*,4,,,,Sales Tax,Taxe\n"

	_, rates, err := importString(t, content)
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.Equal(t, map[string]string{testStoreID: "Sales Tax"}, rates[0].Titles)
}

func TestImport_RegionDesconocidaSeOmite(t *testing.T) {
	content := testHeader +
		"US-XX,US,XX,*,4,,,,\n" +
		"US-NY,US,NY,*,4,,,,\n"

	res, rates, err := importString(t, content)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, rates, 1)
	assert.Equal(t, "US-NY", rates[0].Code)
}

func TestImport_PaisInvalido(t *testing.T) {
	_, rates, err := importString(t, testHeader+"ZZ-1,ZZ,*,*,4,,,,\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "línea 2")
	assert.Empty(t, rates)
}

func TestImport_CabeceraInvalida(t *testing.T) {
	cases := map[string]string{
		"pocas columnas":   "Code,Country,State\nA,US,NY\n",
		"orden incorrecto": "Country,Code,State,Zip/Post Code,Rate,Zip/Post is Range,Range From,Range To\nUS,A,NY,*,4,,,\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := importString(t, content)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestImport_CabeceraSinDistinguirMayusculas(t *testing.T) {
	content := "code, country ,STATE,zip/post code,rate,zip/post is range,range from,range to\nUS-NY,US,NY,*,4,,,\n"

	res, _, err := importString(t, content)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
}

func TestImport_FilaConCantidadDeCeldasIncorrecta(t *testing.T) {
	cases := map[string]string{
		"faltan celdas": testHeader + "US-NY,US,NY,*,4\n",
		"sobran celdas": testHeader + "US-NY,US,NY,*,4,,,,Sales Tax,extra\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, rates, err := importString(t, content)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Empty(t, rates)
		})
	}
}

func TestImport_FilasVaciasSeIgnoran(t *testing.T) {
	content := testHeader + "\nsolo\nUS-NY,US,NY,*,4,,,,\n"

	res, _, err := importString(t, content)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
}

func TestImport_RangoPostal(t *testing.T) {
	_, rates, err := importString(t, testHeader+"US-CA-LA,US,CA,,9.5,1,90001,90099,\n")
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.True(t, rates[0].ZipIsRange)
	assert.Equal(t, "90001-90099", rates[0].Postcode)
}

func TestImport_IndicadorDeRangoNegativo(t *testing.T) {
	for _, flag := range []string{"", "0", "false", "No"} {
		t.Run(flag, func(t *testing.T) {
			_, rates, err := importString(t, testHeader+"US-CA-LA,US,CA,90001,9.5,"+flag+",,,\n")
			require.NoError(t, err)
			require.Len(t, rates, 1)
			assert.False(t, rates[0].ZipIsRange)
			assert.Equal(t, "90001", rates[0].Postcode)
		})
	}
}

func TestImport_RangoPostalInvertido(t *testing.T) {
	_, _, err := importString(t, testHeader+"US-CA-LA,US,CA,,9.5,1,90099,90001,\n")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestImport_TasaNoNumerica(t *testing.T) {
	_, _, err := importString(t, testHeader+"US-NY,US,NY,*,cuatro,,,,\n")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestImport_ActualizaTasaConMismoCodigo(t *testing.T) {
	ctx := context.Background()
	repos := newDirectoryDB().Registry()
	existing := &entity.TaxRate{Code: "US-NY", CountryID: "US", Postcode: "*", Rate: decimal.NewFromInt(8)}
	require.NoError(t, repos.TaxRates.Create(ctx, existing))

	res, err := taxsetup.NewRateImporter(logger.Nop()).Import(ctx, repos,
		strings.NewReader(testHeader+"US-NY,US,NY,*,4,,,,\nUS-NY,US,NY,*,4.5,,,,\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 2, res.Updated)

	rates, err := repos.TaxRates.List(ctx)
	require.NoError(t, err)
	require.Len(t, rates, 1, "el código identifica a la tasa")
	assert.Equal(t, existing.ID, rates[0].ID)
	assert.True(t, decimal.RequireFromString("4.5").Equal(rates[0].Rate))
}
