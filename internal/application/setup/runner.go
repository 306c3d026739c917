// Package setup aplica data patches en orden de dependencias, cada uno en su propia transacción,
// y registra en el historial los que terminan bien.
package setup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/taxsetup/internal/domain"
	"github.com/jhoicas/taxsetup/internal/domain/entity"
	"github.com/jhoicas/taxsetup/internal/domain/repository"
	"github.com/jhoicas/taxsetup/pkg/logger"
)

// errDryRun fuerza el rollback en modo simulación.
var errDryRun = errors.New("dry run: rollback")

// Status resultado de un patch en una ejecución.
type Status string

const (
	StatusApplied Status = "applied"
	StatusSkipped Status = "skipped" // ya estaba en el historial
	StatusDryRun  Status = "dry-run" // aplicado y revertido
)

// Result resultado por patch.
type Result struct {
	Name     string
	Status   Status
	Duration time.Duration
}

// Report resultados de una ejecución, en orden de aplicación.
type Report struct {
	Results []Result
}

// Runner aplica data patches.
type Runner struct {
	tx     TxRunner
	log    *logger.Logger
	dryRun bool
}

// RunnerOption configura el Runner.
type RunnerOption func(*Runner)

// WithDryRun aplica cada patch y revierte su transacción; el historial no cambia.
func WithDryRun(dry bool) RunnerOption {
	return func(r *Runner) { r.dryRun = dry }
}

// NewRunner construye el runner.
func NewRunner(tx TxRunner, log *logger.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{tx: tx, log: log}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Apply ordena los patches por dependencias y aplica los pendientes.
// El primer fallo revierte ese patch y detiene la ejecución; los anteriores quedan confirmados.
func (r *Runner) Apply(ctx context.Context, patches ...DataPatch) (Report, error) {
	var report Report

	ordered, err := orderPatches(patches)
	if err != nil {
		return report, err
	}

	for _, p := range ordered {
		res, err := r.applyOne(ctx, p)
		if err != nil {
			r.log.Error().Err(err).Str("patch", p.Name()).Msg("patch fallido, transacción revertida")
			return report, fmt.Errorf("patch %s: %w", p.Name(), err)
		}
		report.Results = append(report.Results, res)
	}
	return report, nil
}

func (r *Runner) applyOne(ctx context.Context, p DataPatch) (Result, error) {
	res := Result{Name: p.Name()}
	start := time.Now()

	err := r.tx.Run(ctx, func(repos repository.Registry) error {
		applied, err := isApplied(ctx, repos.Patches, p)
		if err != nil {
			return err
		}
		if applied {
			res.Status = StatusSkipped
			return nil
		}

		r.log.Info().Str("patch", p.Name()).Bool("dry_run", r.dryRun).Msg("aplicando patch")
		if err := p.Apply(ctx, repos); err != nil {
			return err
		}
		if r.dryRun {
			res.Status = StatusDryRun
			return errDryRun
		}
		if err := repos.Patches.MarkApplied(ctx, p.Name()); err != nil {
			return fmt.Errorf("registrar patch: %w", err)
		}
		res.Status = StatusApplied
		return nil
	})
	if err != nil && !errors.Is(err, errDryRun) {
		return res, err
	}

	res.Duration = time.Since(start)
	r.log.Info().Str("patch", res.Name).Str("status", string(res.Status)).Dur("duration", res.Duration).Msg("patch procesado")
	return res, nil
}

// Status lista los patches registrados en el historial.
func (r *Runner) Status(ctx context.Context) ([]*entity.PatchRecord, error) {
	var records []*entity.PatchRecord
	err := r.tx.Run(ctx, func(repos repository.Registry) error {
		var err error
		records, err = repos.Patches.List(ctx)
		return err
	})
	return records, err
}

func isApplied(ctx context.Context, history repository.PatchRepository, p DataPatch) (bool, error) {
	for _, name := range append([]string{p.Name()}, p.Aliases()...) {
		ok, err := history.IsApplied(ctx, name)
		if err != nil {
			return false, fmt.Errorf("consultar historial: %w", err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// orderPatches ordena topológicamente respetando el orden de entrada entre patches independientes.
func orderPatches(patches []DataPatch) ([]DataPatch, error) {
	byName := make(map[string]DataPatch, len(patches))
	for _, p := range patches {
		if _, dup := byName[p.Name()]; dup {
			return nil, fmt.Errorf("%w: patch duplicado %q", domain.ErrInvalidInput, p.Name())
		}
		byName[p.Name()] = p
	}

	const (
		visiting = iota + 1
		done
	)
	state := make(map[string]int, len(patches))
	ordered := make([]DataPatch, 0, len(patches))

	var visit func(p DataPatch) error
	visit = func(p DataPatch) error {
		switch state[p.Name()] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: dependencia circular en %q", domain.ErrInvalidInput, p.Name())
		}
		state[p.Name()] = visiting
		for _, dep := range p.Dependencies() {
			d, ok := byName[dep]
			if !ok {
				return fmt.Errorf("%w: %q depende de %q, que no está registrado", domain.ErrInvalidInput, p.Name(), dep)
			}
			if err := visit(d); err != nil {
				return err
			}
		}
		state[p.Name()] = done
		ordered = append(ordered, p)
		return nil
	}

	for _, p := range patches {
		if err := visit(p); err != nil {
			return nil, err
		}
	}
	return ordered, nil
}
