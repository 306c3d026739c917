// Package csvimport decodifica archivos CSV de carga masiva: elimina el BOM UTF-8,
// acepta ISO-8859-1 cuando el contenido no es UTF-8 válido y tolera filas de longitud variable.
package csvimport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ErrEmptyFile el archivo no tiene contenido.
var ErrEmptyFile = errors.New("archivo CSV vacío")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type options struct {
	delimiter rune
	trimSpace bool
}

// Option configura la lectura.
type Option func(*options)

// WithDelimiter cambia el separador de campos (por defecto coma).
func WithDelimiter(d rune) Option {
	return func(o *options) { o.delimiter = d }
}

// WithTrimSpace activa o desactiva el recorte de espacios en cada campo (activo por defecto).
func WithTrimSpace(trim bool) Option {
	return func(o *options) { o.trimSpace = trim }
}

// ReadAll lee todas las filas del CSV, incluida la cabecera, sin descartar filas vacías.
func ReadAll(r io.Reader, opts ...Option) ([][]string, error) {
	o := options{delimiter: ',', trimSpace: true}
	for _, opt := range opts {
		opt(&o)
	}

	raw, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("leer CSV: %w", err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrEmptyFile
	}

	var src io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		// Hojas de cálculo exportadas en Windows suelen venir en Latin-1.
		src = transform.NewReader(src, charmap.ISO8859_1.NewDecoder())
	}

	cr := csv.NewReader(src)
	cr.Comma = o.delimiter
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = o.trimSpace

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsear CSV: %w", err)
	}
	if o.trimSpace {
		for _, rec := range records {
			for i := range rec {
				rec[i] = strings.TrimSpace(rec[i])
			}
		}
	}
	return records, nil
}
