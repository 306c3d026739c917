package entity

// Store vista de tienda; Code identifica las columnas de títulos en el archivo de tasas.
type Store struct {
	ID   string
	Code string
	Name string
}
