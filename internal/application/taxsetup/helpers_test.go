package taxsetup_test

import (
	"testing/fstest"

	"github.com/jhoicas/taxsetup/internal/application/taxsetup"
	"github.com/jhoicas/taxsetup/internal/domain/entity"
	"github.com/jhoicas/taxsetup/internal/infrastructure/memory"
)

const (
	testStoreID         = "store-default"
	testProductClassID  = "class-taxable-goods"
	testCustomerClassID = "class-retail-customer"
	testHeader          = "Code,Country,State,Zip/Post Code,Rate,Zip/Post is Range,Range From,Range To,default\n"
)

var usStates = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "DC", "FL", "GA", "HI", "ID", "IL", "IN", "IA", "KS",
	"KY", "LA", "ME", "MD", "MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ", "NM", "NY", "NC",
	"ND", "OH", "OK", "OR", "PA", "RI", "SC", "SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
}

// newDirectoryDB almacén con el directorio de EE. UU. y Canadá y la tienda por defecto, sin clases de impuesto.
func newDirectoryDB() *memory.DB {
	db := memory.NewDB()
	db.AddCountry("US", usStates...)
	db.AddCountry("CA", "QC", "ON")
	db.AddStore(entity.Store{ID: testStoreID, Code: "default", Name: "Default Store View"})
	return db
}

// newSeededDB igual que newDirectoryDB más las dos clases de impuesto requeridas por la regla.
func newSeededDB() *memory.DB {
	db := newDirectoryDB()
	db.AddTaxClass(entity.TaxClass{ID: testProductClassID, Name: "Taxable Goods", Type: entity.TaxClassTypeProduct})
	db.AddTaxClass(entity.TaxClass{ID: testCustomerClassID, Name: "Retail Customer", Type: entity.TaxClassTypeCustomer})
	return db
}

// csvSource fuente en memoria con el contenido dado.
func csvSource(content string) taxsetup.Source {
	return taxsetup.Source{
		FS:   fstest.MapFS{"rates.csv": &fstest.MapFile{Data: []byte(content)}},
		Path: "rates.csv",
	}
}
