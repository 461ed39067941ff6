package report

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/NutriSort/internal/electre"
)

func healthy() electre.Product {
	return electre.Product{ID: "oats", Name: "Oat flakes", Eco: electre.GradeA, Organic: true, Vector: electre.ProductVector{
		electre.Energy:         200,
		electre.SaturatedFat:   0.2,
		electre.Sugar:          0.5,
		electre.Sodium:         20,
		electre.Protein:        25,
		electre.Fiber:          12,
		electre.FruitVegNutPct: 90,
		electre.AdditiveCount:  0,
	}}
}

func junk() electre.Product {
	return electre.Product{ID: "soda-cake", Name: "Frosted cake", Eco: electre.GradeE, Vector: electre.ProductVector{
		electre.Energy:         3800,
		electre.SaturatedFat:   18,
		electre.Sugar:          55,
		electre.Sodium:         1900,
		electre.Protein:        0.5,
		electre.Fiber:          0.1,
		electre.FruitVegNutPct: 0,
		electre.AdditiveCount:  11,
	}}
}

func setup(t *testing.T) (*electre.Classifier, *electre.Profiles) {
	t.Helper()
	c, err := electre.NewClassifier(electre.DefaultCriteria())
	require.NoError(t, err)
	b, err := electre.NewProfileBuilder(electre.DefaultCriteria(), nil)
	require.NoError(t, err)
	p, err := b.Build(nil)
	require.NoError(t, err)
	return c, p
}

func TestRunClassifiesInOrder(t *testing.T) {
	c, p := setup(t)
	products := []electre.Product{healthy(), junk()}

	rep, err := Run(context.Background(), c, p, products, Options{Workers: 2})
	require.NoError(t, err)
	require.Len(t, rep.Rows, 2)

	assert.Equal(t, "oats", rep.Rows[0].ProductID)
	assert.Equal(t, "soda-cake", rep.Rows[1].ProductID)
	assert.Equal(t, electre.DefaultLambdas, rep.Lambdas)
	assert.Equal(t, DefaultLocale, rep.Locale)
	assert.NotEmpty(t, rep.RunID.String())

	good := rep.Rows[0]
	require.Len(t, good.Results, 2)
	for _, r := range good.Results {
		assert.Equal(t, electre.ClassA, r.Pessimistic)
		assert.Equal(t, electre.ClassA, r.Optimistic)
	}
	assert.Equal(t, electre.GradeA, good.NutriScore.Grade)
	require.NotNil(t, good.SuperNutri)
	assert.Equal(t, electre.GradeA, good.SuperNutri.Grade)

	bad := rep.Rows[1]
	for _, r := range bad.Results {
		assert.Equal(t, electre.ClassE, r.Pessimistic)
		assert.Equal(t, electre.ClassE, r.Optimistic)
	}
	assert.Equal(t, electre.GradeE, bad.NutriScore.Grade)
	require.NotNil(t, bad.SuperNutri)
	assert.Equal(t, electre.GradeE, bad.SuperNutri.Grade)
}

func TestRunSummary(t *testing.T) {
	c, p := setup(t)
	rep, err := Run(context.Background(), c, p, []electre.Product{healthy(), junk()}, Options{Lambdas: []float64{0.6}})
	require.NoError(t, err)

	s := rep.Summary
	assert.Equal(t, 2, s.Products)
	assert.Equal(t, 1, s.NutriScoreDistribution[electre.GradeA])
	assert.Equal(t, 1, s.NutriScoreDistribution[electre.GradeE])
	assert.Equal(t, 1.0, s.Agreement["Classe_Pessimiste_λ=0.6"])
	assert.Equal(t, 1.0, s.Agreement["Classe_Optimiste_λ=0.6"])
	assert.Equal(t, 1.0, s.ProcedureAgreement["λ=0.6"])
	assert.Equal(t, 1, s.Confusion[0][0])
	assert.Equal(t, 1, s.Confusion[4][4])
	assert.Equal(t, []string{"oats"}, s.Frontier)
}

func TestRunRejectsDuplicateLambdas(t *testing.T) {
	c, p := setup(t)
	_, err := Run(context.Background(), c, p, []electre.Product{healthy(), junk()}, Options{Lambdas: []float64{0.6, 0.6}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, electre.ErrValidation))
	assert.Contains(t, err.Error(), "duplicate")
}

func TestAgreementRatesStayWithinUnitInterval(t *testing.T) {
	c, p := setup(t)
	rep, err := Run(context.Background(), c, p, []electre.Product{healthy(), junk()}, Options{Lambdas: []float64{0.6, 0.7, 0.8}})
	require.NoError(t, err)

	for col, v := range rep.Summary.Agreement {
		assert.GreaterOrEqual(t, v, 0.0, col)
		assert.LessOrEqual(t, v, 1.0, col)
	}
	for col, v := range rep.Summary.ProcedureAgreement {
		assert.LessOrEqual(t, v, 1.0, col)
	}
	for col, dist := range rep.Summary.ClassDistribution {
		total := 0
		for _, n := range dist {
			total += n
		}
		assert.Equal(t, 2, total, col)
	}
}

func confusionTotal(m *ConfusionMatrix) int {
	total := 0
	for _, row := range m {
		for _, n := range row {
			total += n
		}
	}
	return total
}

func TestConfusionUsesBaseLambdaRegardlessOfOrder(t *testing.T) {
	c, p := setup(t)
	mid := healthy()
	mid.ID = "mid"
	mid.Vector[electre.Energy] = 1200
	mid.Vector[electre.Sugar] = 12
	mid.Vector[electre.Sodium] = 400
	mid.Vector[electre.AdditiveCount] = 4
	products := []electre.Product{healthy(), mid, junk()}

	only, err := Run(context.Background(), c, p, products, Options{Lambdas: []float64{0.6}})
	require.NoError(t, err)
	reversed, err := Run(context.Background(), c, p, products, Options{Lambdas: []float64{0.7, 0.6}})
	require.NoError(t, err)
	forward, err := Run(context.Background(), c, p, products, Options{Lambdas: []float64{0.6, 0.7}})
	require.NoError(t, err)

	require.NotNil(t, only.Summary.Confusion)
	assert.Equal(t, only.Summary.Confusion, reversed.Summary.Confusion)
	assert.Equal(t, only.Summary.Confusion, forward.Summary.Confusion)
	assert.Equal(t, 3, confusionTotal(reversed.Summary.Confusion))

	without, err := Run(context.Background(), c, p, products, Options{Lambdas: []float64{0.7}})
	require.NoError(t, err)
	assert.Nil(t, without.Summary.Confusion)
}

func TestReferenceGradeAgreement(t *testing.T) {
	c, p := setup(t)
	oats := healthy()
	oats.NutriScoreGrade = electre.GradeA
	cake := junk()
	cake.NutriScoreGrade = electre.GradeB
	unlabelled := healthy()
	unlabelled.ID = "no-ref"

	rep, err := Run(context.Background(), c, p, []electre.Product{oats, cake, unlabelled}, Options{Lambdas: []float64{0.6}})
	require.NoError(t, err)

	assert.Equal(t, electre.GradeA, rep.Rows[0].ReferenceGrade)
	assert.Empty(t, rep.Rows[2].ReferenceGrade)

	s := rep.Summary
	assert.Equal(t, 2, s.ReferenceProducts)
	assert.Equal(t, 0.5, s.ReferenceAgreement[ReferenceColumn])
	assert.Equal(t, 0.5, s.ReferenceAgreement["Classe_Pessimiste_λ=0.6"])
	assert.Equal(t, 0.5, s.ReferenceAgreement["Classe_Optimiste_λ=0.6"])
}

func TestNoReferenceGradesLeavesAgreementUnset(t *testing.T) {
	c, p := setup(t)
	rep, err := Run(context.Background(), c, p, []electre.Product{healthy()}, Options{})
	require.NoError(t, err)
	assert.Zero(t, rep.Summary.ReferenceProducts)
	assert.Nil(t, rep.Summary.ReferenceAgreement)
}

func TestRunSanitizesInvalidValues(t *testing.T) {
	c, p := setup(t)
	bad := junk()
	bad.Vector[electre.Sugar] = -4

	rep, err := Run(context.Background(), c, p, []electre.Product{bad}, Options{})
	require.NoError(t, err)
	require.Len(t, rep.Rows[0].Warnings, 1)
	assert.Contains(t, rep.Rows[0].Warnings[0], electre.Sugar)
}

func TestRunWithoutEcoSkipsSuperNutri(t *testing.T) {
	c, p := setup(t)
	prod := healthy()
	prod.Eco = ""

	rep, err := Run(context.Background(), c, p, []electre.Product{prod}, Options{})
	require.NoError(t, err)
	assert.Nil(t, rep.Rows[0].SuperNutri)
	assert.Empty(t, rep.Summary.SuperNutriDistribution)
}

func TestRunRejectsBadInputs(t *testing.T) {
	c, p := setup(t)

	_, err := Run(context.Background(), c, p, nil, Options{Lambdas: []float64{1.5}})
	assert.True(t, errors.Is(err, electre.ErrValidation))

	short := &electre.Profiles{Boundaries: p.Boundaries[:3]}
	_, err = Run(context.Background(), c, short, nil, Options{})
	assert.True(t, errors.Is(err, electre.ErrConfiguration))
}

func TestRunCancelled(t *testing.T) {
	c, p := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, c, p, []electre.Product{healthy(), junk()}, Options{Workers: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunEmpty(t *testing.T) {
	c, p := setup(t)
	rep, err := Run(context.Background(), c, p, nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, rep.Rows)
	assert.Equal(t, 0, rep.Summary.Products)
	assert.Empty(t, rep.Summary.Frontier)
}

func TestColumns(t *testing.T) {
	assert.Equal(t, []string{
		"product_id", "product_name", "nutriscore_grade",
		"Classe_Pessimiste_λ=0.6", "Classe_Optimiste_λ=0.6",
		"Classe_Pessimiste_λ=0.7", "Classe_Optimiste_λ=0.7",
		"supernutri_grade",
	}, Columns("fr", []float64{0.6, 0.7}))

	assert.Equal(t, "Pessimistic_λ=0.6", ColumnLabel("en-GB", electre.Pessimistic, 0.6))
	assert.Equal(t, "Optimistic_λ=0.75", ColumnLabel("EN", electre.Optimistic, 0.75))
}

func TestNormalizeLocale(t *testing.T) {
	tests := map[string]string{
		"":      LocaleFR,
		"fr":    LocaleFR,
		"fr_CA": LocaleFR,
		"en":    LocaleEN,
		" EN ":  LocaleEN,
		"de":    LocaleFR,
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeLocale(in), "locale %q", in)
	}
}
