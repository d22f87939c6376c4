// Package catalog carga el snapshot de insumos y recetas con el que trabaja la caja.
package catalog

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/cafe-pos/internal/domain/entity"
	"github.com/jhoicas/cafe-pos/internal/domain/recipe"
	"github.com/jhoicas/cafe-pos/pkg/logger"
)

// Source puerto de lectura del catálogo (PostgreSQL o archivo YAML).
type Source interface {
	ListStockEntries(ctx context.Context) ([]entity.StockEntry, error)
	ListRecipes(ctx context.Context) ([]entity.Recipe, error)
}

// LoadUseCase arma el snapshot de la sesión.
type LoadUseCase struct {
	source Source
	log    *logger.Logger
}

// NewLoadUseCase construye el caso de uso de carga de catálogo.
func NewLoadUseCase(source Source, log *logger.Logger) *LoadUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &LoadUseCase{source: source, log: log}
}

// Load lee insumos y recetas en paralelo, valida las recetas contra los insumos y
// registra los hallazgos. Las recetas con errores se conservan: la caja las reporta al venderlas.
func (uc *LoadUseCase) Load(ctx context.Context) (*Snapshot, error) {
	var (
		entries []entity.StockEntry
		recipes []entity.Recipe
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = uc.source.ListStockEntries(gctx)
		if err != nil {
			return fmt.Errorf("listar insumos: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		recipes, err = uc.source.ListRecipes(gctx)
		if err != nil {
			return fmt.Errorf("listar recetas: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := NewSnapshot(entries, recipes)
	stock := snap.Stock()
	for _, r := range recipes {
		for _, issue := range recipe.Validate(r, stock) {
			ev := uc.log.Warn()
			if issue.Severity == recipe.SeverityError {
				ev = uc.log.Error()
			}
			ev.Str("recipe_id", r.ID).
				Str("serving_id", issue.ServingID).
				Int("ingredient", issue.IngredientIndex).
				Str("code", issue.Code).
				Msg(issue.Message)
		}
	}
	uc.log.Info().Int("stock_entries", len(entries)).Int("recipes", len(recipes)).Msg("catálogo cargado")
	return snap, nil
}
