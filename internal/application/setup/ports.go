package setup

import (
	"context"

	"github.com/jhoicas/taxsetup/internal/domain/repository"
)

// DataPatch paso de instalación que se aplica una sola vez.
type DataPatch interface {
	Name() string
	// Dependencies nombres de patches que deben aplicarse antes.
	Dependencies() []string
	// Aliases nombres anteriores bajo los que el patch pudo quedar registrado.
	Aliases() []string
	Apply(ctx context.Context, repos repository.Registry) error
}

// TxRunner ejecuta una función dentro de una transacción, con repositorios atados a ella.
// Si fn retorna error se hace rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Registry) error) error
}
