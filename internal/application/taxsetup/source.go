package taxsetup

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
)

// BundledFile ruta del archivo de tasas dentro del binario.
const BundledFile = "data/import_tax_rates.csv"

//go:embed data/import_tax_rates.csv
var bundled embed.FS

// Source ubicación del archivo de tasas a importar.
type Source struct {
	FS   fs.FS
	Path string
}

// BundledSource archivo de tasas embebido.
func BundledSource() Source {
	return Source{FS: bundled, Path: BundledFile}
}

// FileSource archivo de tasas en el sistema de archivos local.
func FileSource(path string) Source {
	return Source{FS: os.DirFS(filepath.Dir(path)), Path: filepath.Base(path)}
}

// Open abre el archivo de la fuente.
func (s Source) Open() (fs.File, error) {
	return s.FS.Open(s.Path)
}
