package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/taxsetup/internal/domain"
)

// TaxRule vincula tasas con clases de impuesto de producto y de cliente.
// Priority y Position siguen la semántica de la plataforma: 0 es la más alta / primera.
type TaxRule struct {
	ID                string
	Code              string // único
	Priority          int
	Position          int
	CalculateSubtotal bool
	RateIDs           []string
	ProductClassIDs   []string
	CustomerClassIDs  []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Validate comprueba los campos obligatorios antes de persistir la regla.
func (r *TaxRule) Validate() error {
	var errs []error
	if strings.TrimSpace(r.Code) == "" {
		errs = append(errs, errors.New("el código de la regla es obligatorio"))
	}
	if len(r.RateIDs) == 0 {
		errs = append(errs, errors.New("la regla debe referenciar al menos una tasa"))
	}
	if len(r.ProductClassIDs) == 0 {
		errs = append(errs, errors.New("la regla debe referenciar al menos una clase de producto"))
	}
	if len(r.CustomerClassIDs) == 0 {
		errs = append(errs, errors.New("la regla debe referenciar al menos una clase de cliente"))
	}
	if r.Priority < 0 {
		errs = append(errs, fmt.Errorf("prioridad inválida: %d", r.Priority))
	}
	if r.Position < 0 {
		errs = append(errs, fmt.Errorf("posición inválida: %d", r.Position))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{domain.ErrInvalidInput}, errs...)...)
	}
	return nil
}
