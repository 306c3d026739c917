package csvimport_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taxsetup/internal/infrastructure/csvimport"
)

func TestReadAll_FilasYCabecera(t *testing.T) {
	in := "Code,Country,Rate\nUS-CA, US , 7.25\nUS-NY,US,4\n"

	rows, err := csvimport.ReadAll(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Code", "Country", "Rate"}, rows[0])
	assert.Equal(t, []string{"US-CA", "US", "7.25"}, rows[1], "los espacios se recortan")
}

func TestReadAll_SinRecorte(t *testing.T) {
	in := "Code,Title\nUS-CA,  Sales Tax  \n"

	rows, err := csvimport.ReadAll(strings.NewReader(in), csvimport.WithTrimSpace(false))
	require.NoError(t, err)
	assert.Equal(t, "  Sales Tax  ", rows[1][1], "sin recorte los campos quedan tal cual")
}

func TestReadAll_EliminaBOM(t *testing.T) {
	in := "\xEF\xBB\xBFCode,Country\nA,US\n"

	rows, err := csvimport.ReadAll(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "Code", rows[0][0])
}

func TestReadAll_Latin1(t *testing.T) {
	// "Québec" codificado en ISO-8859-1 (0xE9 = é).
	in := "Code,Title\nCA-QC,Qu\xE9bec\n"

	rows, err := csvimport.ReadAll(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "Québec", rows[1][1])
}

func TestReadAll_LongitudVariable(t *testing.T) {
	in := "a,b,c\n\nx,y\n"

	rows, err := csvimport.ReadAll(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 2, "encoding/csv omite líneas totalmente vacías")
	assert.Len(t, rows[1], 2)
}

func TestReadAll_Separador(t *testing.T) {
	rows, err := csvimport.ReadAll(strings.NewReader("a;b\n1;2\n"), csvimport.WithDelimiter(';'))
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, rows[1])
}

func TestReadAll_Vacio(t *testing.T) {
	_, err := csvimport.ReadAll(strings.NewReader("  \n"))
	assert.ErrorIs(t, err, csvimport.ErrEmptyFile)

	_, err = csvimport.ReadAll(strings.NewReader("\xEF\xBB\xBF"))
	assert.ErrorIs(t, err, csvimport.ErrEmptyFile)
}
