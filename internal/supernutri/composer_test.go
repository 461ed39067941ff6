package supernutri

import (
	"errors"
	"reflect"
	"testing"

	"github.com/MikeSquared-Agency/NutriSort/internal/electre"
)

func TestCompose(t *testing.T) {
	tests := []struct {
		name  string
		in    Input
		grade electre.Grade
		score int
		fired []string
	}{
		{
			name:  "neutral",
			in:    Input{Base: electre.ClassC, Eco: electre.GradeC},
			grade: electre.GradeC, score: 3, fired: []string{},
		},
		{
			name:  "eco A bonus",
			in:    Input{Base: electre.ClassC, Eco: electre.GradeA},
			grade: electre.GradeB, score: 2, fired: []string{RuleEcoBonus},
		},
		{
			name:  "eco A bonus suppressed at best",
			in:    Input{Base: electre.ClassA, Eco: electre.GradeA},
			grade: electre.GradeA, score: 1, fired: []string{},
		},
		{
			name:  "eco D penalty",
			in:    Input{Base: electre.ClassB, Eco: electre.GradeD},
			grade: electre.GradeC, score: 3, fired: []string{RuleEcoPenalty},
		},
		{
			name:  "eco E penalty suppressed at worst",
			in:    Input{Base: electre.ClassE, Eco: electre.GradeE},
			grade: electre.GradeE, score: 5, fired: []string{RuleEcoEFloor},
		},
		{
			name:  "organic bonus",
			in:    Input{Base: electre.ClassD, Eco: electre.GradeB, Organic: true},
			grade: electre.GradeC, score: 3, fired: []string{RuleOrganic},
		},
		{
			name:  "eco A and organic stack",
			in:    Input{Base: electre.ClassD, Eco: electre.GradeA, Organic: true},
			grade: electre.GradeB, score: 2, fired: []string{RuleEcoBonus, RuleOrganic},
		},
		{
			name:  "eco D and organic cancel",
			in:    Input{Base: electre.ClassC, Eco: electre.GradeD, Organic: true},
			grade: electre.GradeC, score: 3, fired: []string{RuleEcoPenalty, RuleOrganic},
		},
		{
			// base A' (1) -> penalty 2 -> organic suppressed by eco E -> floor 3.
			name:  "eco E floors organic A",
			in:    Input{Base: electre.ClassA, Eco: electre.GradeE, Organic: true},
			grade: electre.GradeC, score: 3, fired: []string{RuleEcoPenalty, RuleEcoEFloor},
		},
		{
			name:  "eco E above floor",
			in:    Input{Base: electre.ClassC, Eco: electre.GradeE},
			grade: electre.GradeD, score: 4, fired: []string{RuleEcoPenalty, RuleEcoEFloor},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Compose(tt.in)
			if err != nil {
				t.Fatalf("Compose: %v", err)
			}
			if r.Grade != tt.grade || r.Score != tt.score {
				t.Errorf("got %s/%d, want %s/%d", r.Grade, r.Score, tt.grade, tt.score)
			}
			if !reflect.DeepEqual(r.FiredRules, tt.fired) {
				t.Errorf("fired %v, want %v", r.FiredRules, tt.fired)
			}
			if r.BaseScore != tt.in.Base.Rank() {
				t.Errorf("base score %d, want %d", r.BaseScore, tt.in.Base.Rank())
			}
		})
	}
}

func TestComposeEcoENeverBetterThanC(t *testing.T) {
	for _, base := range electre.Classes {
		for _, organic := range []bool{false, true} {
			r, err := Compose(Input{Base: base, Eco: electre.GradeE, Organic: organic})
			if err != nil {
				t.Fatalf("Compose: %v", err)
			}
			if r.Score < 3 {
				t.Errorf("base %s organic=%v: grade %s better than C", base, organic, r.Grade)
			}
		}
	}
}

func TestComposeRejectsInvalidEnums(t *testing.T) {
	if _, err := Compose(Input{Base: "F'", Eco: electre.GradeA}); !errors.Is(err, electre.ErrValidation) {
		t.Errorf("expected ErrValidation for bad class, got %v", err)
	}
	if _, err := Compose(Input{Base: electre.ClassA, Eco: "Z"}); !errors.Is(err, electre.ErrValidation) {
		t.Errorf("expected ErrValidation for bad eco grade, got %v", err)
	}
}
