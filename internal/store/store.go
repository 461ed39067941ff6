package store

import (
	"context"
	"errors"

	"github.com/MikeSquared-Agency/NutriSort/internal/electre"
)

// ErrDatasetNotFound is returned when a dataset holds no products.
var ErrDatasetNotFound = errors.New("dataset not found")

// Store loads reference populations.
type Store interface {
	LoadProducts(ctx context.Context, dataset string) ([]electre.Product, error)
	Close() error
}

// columnAliases maps alternative dataset headers to criterion ids, with the
// factor that converts the column's unit to the criterion's unit.
var columnAliases = map[string]alias{
	"energy_100g":                 {electre.Energy, 1},
	"energy-kj_100g":              {electre.Energy, 1},
	"saturated-fat_100g":          {electre.SaturatedFat, 1},
	"sugars_100g":                 {electre.Sugar, 1},
	"sodium_100g":                 {electre.Sodium, 1000},
	"proteins_100g":               {electre.Protein, 1},
	"fiber_100g":                  {electre.Fiber, 1},
	"fruits-vegetables-nuts_100g": {electre.FruitVegNutPct, 1},
	"additives_n":                 {electre.AdditiveCount, 1},
}

type alias struct {
	id    string
	scale float64
}

// criterionColumn resolves a header to a criterion id and unit factor.
func criterionColumn(header string) (string, float64, bool) {
	for _, id := range electre.CriterionIDs() {
		if header == id {
			return id, 1, true
		}
	}
	if a, ok := columnAliases[header]; ok {
		return a.id, a.scale, true
	}
	return "", 0, false
}
