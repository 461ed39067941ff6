// Package nutriscore computes the legacy point-based nutrition score and its
// letter grade for one product.
package nutriscore

import (
	"math"

	"github.com/MikeSquared-Agency/NutriSort/internal/electre"
)

// SodiumToSalt converts sodium in mg to salt in g.
const SodiumToSalt = 400.0

// ProteinCapNegative and ProteinCapFruit gate the protein exclusion rule.
const (
	ProteinCapNegative = 11
	ProteinCapFruit    = 80.0
)

// Input holds the per-100 g attributes the score needs.
type Input struct {
	EnergyKJ       float64 `json:"energy"`
	SaturatedFat   float64 `json:"saturated_fat"`
	Sugar          float64 `json:"sugar"`
	SodiumMg       float64 `json:"sodium"`
	FruitVegNutPct float64 `json:"fruit_veg_nut_pct"`
	Fiber          float64 `json:"fiber"`
	Protein        float64 `json:"protein"`
}

// InputFromVector reads the relevant criteria from a product vector.
func InputFromVector(v electre.ProductVector) Input {
	return Input{
		EnergyKJ:       v.Get(electre.Energy),
		SaturatedFat:   v.Get(electre.SaturatedFat),
		Sugar:          v.Get(electre.Sugar),
		SodiumMg:       v.Get(electre.Sodium),
		FruitVegNutPct: v.Get(electre.FruitVegNutPct),
		Fiber:          v.Get(electre.Fiber),
		Protein:        v.Get(electre.Protein),
	}
}

// Salt returns the derived salt content in g.
func (in Input) Salt() float64 { return in.SodiumMg / SodiumToSalt }

// Tables are the threshold tables for every component.
type Tables struct {
	Energy       StepFunc
	SaturatedFat StepFunc
	Sugar        StepFunc
	Salt         StepFunc
	FruitVegNut  StepFunc
	Fiber        StepFunc
	Protein      StepFunc
}

// DefaultTables returns the standard tables.
func DefaultTables() Tables {
	return Tables{
		Energy:       UniformSteps(335, 10),
		SaturatedFat: UniformSteps(1, 10),
		Sugar:        Steps(3.4, 6.8, 10, 14, 17, 20, 24, 27, 31, 34, 37, 41, 44, 48, 51),
		Salt:         UniformSteps(0.2, 20),
		FruitVegNut:  StepFunc{Thresholds: []float64{40, 60, 80}, Points: []int{1, 2, 5}, Strict: true},
		Fiber:        Steps(3.0, 4.1, 5.2, 6.3, 7.4),
		Protein:      Steps(2.4, 4.8, 7.2, 9.6, 12.0),
	}
}

// Points is the per-component breakdown.
type Points struct {
	Energy          int  `json:"energy"`
	SaturatedFat    int  `json:"saturated_fat"`
	Sugar           int  `json:"sugar"`
	Salt            int  `json:"salt"`
	FruitVegNut     int  `json:"fruit_veg_nut"`
	Fiber           int  `json:"fiber"`
	Protein         int  `json:"protein"`
	ProteinExcluded bool `json:"protein_excluded"`
}

// Result is the computed score and grade.
type Result struct {
	Score    int           `json:"score"`
	Grade    electre.Grade `json:"grade"`
	Negative int           `json:"negative"`
	Positive int           `json:"positive"`
	Salt     float64       `json:"salt"`
	Points   Points        `json:"points"`
}

// Calculator scores products against a set of tables.
type Calculator struct {
	tables Tables
}

// NewCalculator uses DefaultTables.
func NewCalculator() *Calculator {
	return &Calculator{tables: DefaultTables()}
}

// NewCalculatorWithTables uses custom tables.
func NewCalculatorWithTables(t Tables) *Calculator {
	return &Calculator{tables: t}
}

var defaultCalculator = NewCalculator()

// Compute scores in with the default tables.
func Compute(in Input) (Result, error) {
	return defaultCalculator.Compute(in)
}

// Compute returns the score for one product. Protein points are dropped
// when the negative total reaches 11 and fruit/veg/nut content is below 80%.
func (c *Calculator) Compute(in Input) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}

	salt := in.Salt()
	pts := Points{
		Energy:       c.tables.Energy.Eval(in.EnergyKJ),
		SaturatedFat: c.tables.SaturatedFat.Eval(in.SaturatedFat),
		Sugar:        c.tables.Sugar.Eval(in.Sugar),
		Salt:         c.tables.Salt.Eval(salt),
		FruitVegNut:  c.tables.FruitVegNut.Eval(in.FruitVegNutPct),
		Fiber:        c.tables.Fiber.Eval(in.Fiber),
		Protein:      c.tables.Protein.Eval(in.Protein),
	}

	negative := pts.Energy + pts.SaturatedFat + pts.Sugar + pts.Salt
	if negative >= ProteinCapNegative && in.FruitVegNutPct < ProteinCapFruit {
		pts.Protein = 0
		pts.ProteinExcluded = true
	}
	positive := pts.FruitVegNut + pts.Fiber + pts.Protein

	score := negative - positive
	return Result{
		Score:    score,
		Grade:    GradeForScore(score),
		Negative: negative,
		Positive: positive,
		Salt:     salt,
		Points:   pts,
	}, nil
}

// GradeForScore maps a score to its letter.
func GradeForScore(score int) electre.Grade {
	switch {
	case score <= -1:
		return electre.GradeA
	case score <= 2:
		return electre.GradeB
	case score <= 10:
		return electre.GradeC
	case score <= 18:
		return electre.GradeD
	default:
		return electre.GradeE
	}
}

// Validate rejects negative or non-finite attributes.
func (in Input) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{electre.Energy, in.EnergyKJ},
		{electre.SaturatedFat, in.SaturatedFat},
		{electre.Sugar, in.Sugar},
		{electre.Sodium, in.SodiumMg},
		{electre.FruitVegNutPct, in.FruitVegNutPct},
		{electre.Fiber, in.Fiber},
		{electre.Protein, in.Protein},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &electre.ValidationError{Field: f.name, Reason: "value is not a finite number"}
		}
		if f.value < 0 {
			return &electre.ValidationError{Field: f.name, Reason: "negative value"}
		}
	}
	return nil
}
