package nutriscore

import (
	"errors"
	"math"
	"testing"

	"github.com/MikeSquared-Agency/NutriSort/internal/electre"
)

func TestStepFuncEval(t *testing.T) {
	s := Steps(1, 2, 3)
	tests := []struct {
		v    float64
		want int
	}{
		{0, 0}, {0.99, 0}, {1, 1}, {1.5, 1}, {2, 2}, {3, 3}, {100, 3},
	}
	for _, tt := range tests {
		if got := s.Eval(tt.v); got != tt.want {
			t.Errorf("Eval(%v) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestStepFuncStrictWithPoints(t *testing.T) {
	fruit := DefaultTables().FruitVegNut
	tests := []struct {
		pct  float64
		want int
	}{
		{0, 0}, {40, 0}, {40.1, 1}, {60, 1}, {61, 2}, {80, 2}, {80.5, 5}, {100, 5},
	}
	for _, tt := range tests {
		if got := fruit.Eval(tt.pct); got != tt.want {
			t.Errorf("fruit %v%% = %d, want %d", tt.pct, got, tt.want)
		}
	}
	if fruit.Max() != 5 {
		t.Errorf("expected fruit cap 5, got %d", fruit.Max())
	}
}

func TestUniformStepsRounding(t *testing.T) {
	salt := UniformSteps(0.2, 20)
	if salt.Eval(0.6) != 3 {
		t.Errorf("salt 0.6 g should cross 3 thresholds, got %d", salt.Eval(0.6))
	}
	if salt.Max() != 20 || salt.Eval(50) != 20 {
		t.Error("salt should cap at 20")
	}
}

func TestTableCaps(t *testing.T) {
	tables := DefaultTables()
	caps := map[string]struct {
		fn   StepFunc
		want int
	}{
		"energy":        {tables.Energy, 10},
		"saturated_fat": {tables.SaturatedFat, 10},
		"sugar":         {tables.Sugar, 15},
		"salt":          {tables.Salt, 20},
		"fiber":         {tables.Fiber, 5},
		"protein":       {tables.Protein, 5},
	}
	for name, c := range caps {
		if got := c.fn.Eval(1e9); got != c.want {
			t.Errorf("%s cap = %d, want %d", name, got, c.want)
		}
	}
}

func TestComputeReferenceVector(t *testing.T) {
	in := Input{
		EnergyKJ:       1050,
		SaturatedFat:   0.8,
		Sugar:          2.1,
		SodiumMg:       420,
		Protein:        10.2,
		Fiber:          8.5,
		FruitVegNutPct: 5,
	}
	r, err := Compute(in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if math.Abs(r.Salt-1.05) > 1e-9 {
		t.Errorf("salt = %f, want 1.05", r.Salt)
	}
	// 1050 kJ crosses 335/670/1005; 1.05 g salt crosses 0.2..1.0.
	want := Points{Energy: 3, Salt: 5, Fiber: 5, Protein: 4}
	if r.Points != want {
		t.Errorf("points = %+v, want %+v", r.Points, want)
	}
	if r.Negative != 8 || r.Positive != 9 || r.Score != -1 {
		t.Errorf("negative/positive/score = %d/%d/%d, want 8/9/-1", r.Negative, r.Positive, r.Score)
	}
	if r.Grade != electre.GradeA {
		t.Errorf("grade = %s, want A", r.Grade)
	}
}

func TestProteinExcludedWhenNegativeHigh(t *testing.T) {
	// energy 3350 kJ -> 10, saturated fat 1 g -> 1: negative = 11.
	in := Input{EnergyKJ: 3350, SaturatedFat: 1, Protein: 30, FruitVegNutPct: 50}
	r, err := Compute(in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if r.Negative != 11 {
		t.Fatalf("negative = %d, want 11", r.Negative)
	}
	if r.Points.Protein != 0 || !r.Points.ProteinExcluded {
		t.Errorf("expected protein excluded, got %+v", r.Points)
	}
	if r.Positive != 1 {
		t.Errorf("positive = %d, want 1 (fruit only)", r.Positive)
	}
}

func TestProteinKeptWhenFruitHigh(t *testing.T) {
	in := Input{EnergyKJ: 3350, SaturatedFat: 1, Protein: 30, FruitVegNutPct: 85}
	r, _ := Compute(in)
	if r.Points.Protein != 5 || r.Points.ProteinExcluded {
		t.Errorf("fruit >= 80%% should keep protein points, got %+v", r.Points)
	}
}

func TestProteinKeptBelowNegativeCap(t *testing.T) {
	in := Input{EnergyKJ: 3349, SaturatedFat: 1, Protein: 30}
	r, _ := Compute(in)
	if r.Negative != 10 || r.Points.Protein != 5 {
		t.Errorf("negative 10 should keep protein points, got negative=%d %+v", r.Negative, r.Points)
	}
}

func TestGradeForScore(t *testing.T) {
	tests := []struct {
		score int
		want  electre.Grade
	}{
		{-15, electre.GradeA}, {-1, electre.GradeA},
		{0, electre.GradeB}, {2, electre.GradeB},
		{3, electre.GradeC}, {10, electre.GradeC},
		{11, electre.GradeD}, {18, electre.GradeD},
		{19, electre.GradeE}, {40, electre.GradeE},
	}
	for _, tt := range tests {
		if got := GradeForScore(tt.score); got != tt.want {
			t.Errorf("GradeForScore(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestComputeRejectsInvalidInput(t *testing.T) {
	for name, in := range map[string]Input{
		"negative sugar": {Sugar: -1},
		"nan fiber":      {Fiber: math.NaN()},
		"inf energy":     {EnergyKJ: math.Inf(1)},
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := Compute(in); !errors.Is(err, electre.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestInputFromVector(t *testing.T) {
	v := electre.ProductVector{electre.Energy: 900, electre.Sodium: 800, electre.AdditiveCount: 4}
	in := InputFromVector(v)
	if in.EnergyKJ != 900 || in.SodiumMg != 800 || in.Sugar != 0 {
		t.Errorf("unexpected input %+v", in)
	}
	if in.Salt() != 2 {
		t.Errorf("salt = %f, want 2", in.Salt())
	}
}
