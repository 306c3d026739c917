package entity

// Tipos de clase de impuesto.
const (
	TaxClassTypeProduct  = "PRODUCT"
	TaxClassTypeCustomer = "CUSTOMER"
)

// TaxClass clasificación preexistente de productos o clientes (ej. "Taxable Goods", "Retail Customer").
type TaxClass struct {
	ID   string
	Name string
	Type string // PRODUCT, CUSTOMER
}
