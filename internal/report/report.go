// Package report classifies a product set in bulk and summarizes how the
// three grading schemes agree.
package report

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MikeSquared-Agency/NutriSort/internal/electre"
	"github.com/MikeSquared-Agency/NutriSort/internal/nutriscore"
	"github.com/MikeSquared-Agency/NutriSort/internal/supernutri"
)

// Options tunes a batch run.
type Options struct {
	Lambdas []float64
	Workers int
	Locale  string
}

// Row is one product's outcome across all schemes.
type Row struct {
	ProductID  string             `json:"product_id"`
	Name       string             `json:"product_name,omitempty"`
	NutriScore nutriscore.Result  `json:"nutriscore"`
	Results    []electre.Result   `json:"electre"`
	SuperNutri *supernutri.Result `json:"supernutri,omitempty"`
	// ReferenceGrade is the Nutri-Score grade shipped with the dataset.
	ReferenceGrade electre.Grade `json:"reference_grade,omitempty"`
	Warnings       []string      `json:"warnings,omitempty"`
}

// Report is a completed batch run.
type Report struct {
	RunID     uuid.UUID `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
	Locale    string    `json:"locale"`
	Lambdas   []float64 `json:"lambdas"`
	Columns   []string  `json:"columns"`
	Rows      []Row     `json:"rows"`
	Summary   Summary   `json:"summary"`
}

// Run classifies every product against profiles. Invalid attributes are
// replaced by 0 and reported as row warnings. Rows keep input order.
func Run(ctx context.Context, c *electre.Classifier, profiles *electre.Profiles, products []electre.Product, opts Options) (*Report, error) {
	lambdas := opts.Lambdas
	if len(lambdas) == 0 {
		lambdas = electre.DefaultLambdas
	}
	if err := electre.ValidateLambdas(lambdas); err != nil {
		return nil, err
	}
	if err := profiles.Validate(c.Criteria()); err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	locale := NormalizeLocale(opts.Locale)

	rows := make([]Row, len(products))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range products {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row, err := classifyProduct(c, profiles, products[i], lambdas)
			if err != nil {
				return fmt.Errorf("product %q: %w", products[i].ID, err)
			}
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := Summarize(rows, lambdas, locale)
	summary.Frontier = frontierIDs(products, c.Criteria())

	return &Report{
		RunID:     uuid.New(),
		CreatedAt: time.Now().UTC(),
		Locale:    locale,
		Lambdas:   lambdas,
		Columns:   Columns(locale, lambdas),
		Rows:      rows,
		Summary:   summary,
	}, nil
}

func classifyProduct(c *electre.Classifier, profiles *electre.Profiles, p electre.Product, lambdas []float64) (Row, error) {
	row := Row{ProductID: p.ID, Name: p.Name, ReferenceGrade: p.NutriScoreGrade}

	vec, issues := electre.Sanitize(p.Vector)
	for _, e := range issues {
		row.Warnings = append(row.Warnings, e.Error())
	}

	results, err := c.ClassifyAll(vec, profiles, lambdas)
	if err != nil {
		return Row{}, err
	}
	row.Results = results

	ns, err := nutriscore.Compute(nutriscore.InputFromVector(vec))
	if err != nil {
		return Row{}, err
	}
	row.NutriScore = ns

	if p.Eco != "" {
		base, err := c.Pessimistic(vec, profiles, supernutri.BaseLambda)
		if err != nil {
			return Row{}, err
		}
		sn, err := supernutri.Compose(supernutri.Input{Base: base, Eco: p.Eco, Organic: p.Organic})
		if err != nil {
			row.Warnings = append(row.Warnings, err.Error())
		} else {
			row.SuperNutri = &sn
		}
	}
	return row, nil
}

func frontierIDs(products []electre.Product, criteria electre.Criteria) []string {
	sane := make([]electre.Product, len(products))
	for i, p := range products {
		sane[i] = p
		sane[i].Vector, _ = electre.Sanitize(p.Vector)
	}
	front := electre.Frontier(sane, criteria)
	ids := make([]string, len(front))
	for i, p := range front {
		ids[i] = p.ID
	}
	return ids
}
