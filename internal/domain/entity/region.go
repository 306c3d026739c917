package entity

// Region estado/provincia de un país del directorio.
type Region struct {
	ID        string
	CountryID string
	Code      string // ej. "CA", "NY"
	Name      string
}
