package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/taxsetup/internal/application/setup"
	"github.com/jhoicas/taxsetup/internal/application/taxsetup"
	"github.com/jhoicas/taxsetup/internal/infrastructure/postgres"
	"github.com/jhoicas/taxsetup/pkg/config"
	"github.com/jhoicas/taxsetup/pkg/logger"
)

// app dependencias compartidas por los subcomandos.
type app struct {
	cfg *config.Config
	log *logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "taxsetup",
		Short:         "Instala tasas y reglas de impuesto a partir del archivo de tasas",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			a.cfg = cfg
			a.log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
			return nil
		},
	}
	root.AddCommand(a.newMigrateCmd(), a.newApplyCmd(), a.newStatusCmd())
	return root
}

func (a *app) newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|version]",
		Short:     "Aplica o revierte el esquema de base de datos",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			action := "up"
			if len(args) == 1 {
				action = args[0]
			}
			return a.migrate(action)
		},
	}
}

func (a *app) migrate(action string) error {
	mg, err := postgres.NewMigrator(a.cfg.DB.ConnectionString(), a.log)
	if err != nil {
		return err
	}
	defer func() { _ = mg.Close() }()

	switch action {
	case "down":
		return mg.Down()
	case "version":
		version, dirty, err := mg.Version()
		if err != nil {
			return err
		}
		a.log.Info().Uint("version", version).Bool("dirty", dirty).Msg("versión del esquema")
		return nil
	default:
		return mg.Up()
	}
}

func (a *app) newApplyCmd() *cobra.Command {
	var (
		dryRun  bool
		csvPath string
		migrate bool
	)
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Aplica el patch de tasas y reglas de impuesto si aún no se aplicó",
		RunE: func(cmd *cobra.Command, args []string) error {
			if migrate {
				if err := a.migrate("up"); err != nil {
					return err
				}
			}
			if csvPath == "" {
				csvPath = a.cfg.Tax.CSVPath
			}
			return a.apply(cmd.Context(), csvPath, dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Aplica y revierte; no deja cambios ni registra el patch")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Archivo de tasas (por defecto TAX_CSV_PATH o el archivo embebido)")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Ejecuta las migraciones antes de aplicar")
	return cmd
}

func (a *app) apply(ctx context.Context, csvPath string, dryRun bool) error {
	opts := taxsetup.Options{
		DefaultRuleCode:   a.cfg.Tax.DefaultRuleCode,
		DefaultCountry:    a.cfg.Tax.DefaultCountry,
		RuleCode:          a.cfg.Tax.RuleCode,
		ProductClassName:  a.cfg.Tax.ProductClassName,
		CustomerClassName: a.cfg.Tax.CustomerClassName,
		Source:            taxsetup.BundledSource(),
	}
	if csvPath != "" {
		opts.Source = taxsetup.FileSource(csvPath)
	}

	return a.withPool(ctx, func(pool *pgxpool.Pool) error {
		runner := setup.NewRunner(postgres.NewTxRunner(pool), a.log.Named("setup"), setup.WithDryRun(dryRun))
		report, err := runner.Apply(ctx, taxsetup.NewImportTaxRates(opts, a.log.Named("taxsetup")))
		if err != nil {
			return err
		}
		for _, res := range report.Results {
			a.log.Info().Str("patch", res.Name).Str("status", string(res.Status)).Dur("duration", res.Duration).Msg("resultado")
		}
		return nil
	})
}

func (a *app) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Lista los data patches aplicados",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return a.withPool(ctx, func(pool *pgxpool.Pool) error {
				records, err := setup.NewRunner(postgres.NewTxRunner(pool), a.log).Status(ctx)
				if err != nil {
					return err
				}
				if len(records) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "sin patches aplicados")
				}
				for _, r := range records {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", r.AppliedAt.Format("2006-01-02 15:04:05"), r.Name)
				}
				return nil
			})
		},
	}
}

func (a *app) withPool(ctx context.Context, fn func(pool *pgxpool.Pool) error) error {
	pool, err := postgres.NewPool(ctx, a.cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()
	return fn(pool)
}
