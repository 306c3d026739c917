// taxsetup instala las tasas y reglas de impuesto de la tienda.
//
// Uso:
//
//	taxsetup migrate [up|down|version]
//	taxsetup apply [--dry-run] [--csv ruta/import_tax_rates.csv]
//	taxsetup status
//
// La conexión y los parámetros del patch se leen de variables de entorno (DATABASE_URL, TAX_*).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "taxsetup: %v\n", err)
		stop()
		os.Exit(1)
	}
}
