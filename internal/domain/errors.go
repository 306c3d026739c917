package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	// ErrImportFailed envuelve cualquier fallo al importar el archivo de tasas.
	ErrImportFailed = errors.New("no se pudo completar la importación")
)
