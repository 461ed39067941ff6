// Package supernutri layers environmental impact and organic production on
// top of the ELECTRE TRI pessimistic class to produce a composite grade.
package supernutri

import (
	"fmt"

	"github.com/MikeSquared-Agency/NutriSort/internal/electre"
)

// BaseLambda is the cut level whose pessimistic class seeds the score.
const BaseLambda = 0.6

// Rule names, in evaluation order.
const (
	RuleEcoBonus   = "eco_a_bonus"
	RuleEcoPenalty = "eco_poor_penalty"
	RuleOrganic    = "organic_bonus"
	RuleEcoEFloor  = "eco_e_floor"
)

const (
	minScore       = 1
	maxScore       = 5
	ecoEFloorScore = 3
)

// Input is the composite grade's inputs.
type Input struct {
	Base    electre.Class `json:"base"`
	Eco     electre.Grade `json:"eco_grade"`
	Organic bool          `json:"organic"`
}

// Result carries the composite grade and which rules changed the score.
type Result struct {
	Grade      electre.Grade `json:"grade"`
	Score      int           `json:"score"`
	BaseScore  int           `json:"base_score"`
	FiredRules []string      `json:"fired_rules"`
}

type rule struct {
	name    string
	applies func(in Input, score int) bool
	apply   func(score int) int
}

// rules is evaluated top to bottom; the E floor must come last so it
// overrides the bonuses before it.
var rules = []rule{
	{
		name:    RuleEcoBonus,
		applies: func(in Input, score int) bool { return in.Eco == electre.GradeA && score > minScore },
		apply:   func(score int) int { return score - 1 },
	},
	{
		name: RuleEcoPenalty,
		applies: func(in Input, score int) bool {
			return (in.Eco == electre.GradeD || in.Eco == electre.GradeE) && score < maxScore
		},
		apply: func(score int) int { return score + 1 },
	},
	{
		name: RuleOrganic,
		applies: func(in Input, score int) bool {
			return in.Organic && in.Eco != electre.GradeE && score > minScore
		},
		apply: func(score int) int { return score - 1 },
	},
	{
		name:    RuleEcoEFloor,
		applies: func(in Input, score int) bool { return in.Eco == electre.GradeE },
		apply: func(score int) int {
			if score < ecoEFloorScore {
				return ecoEFloorScore
			}
			return score
		},
	},
}

// Compose computes the composite grade. Base must be a valid ELECTRE class
// and Eco a valid grade.
func Compose(in Input) (Result, error) {
	if !in.Base.Valid() {
		return Result{}, &electre.ValidationError{Field: "base", Reason: fmt.Sprintf("unknown class %q", in.Base)}
	}
	if !in.Eco.Valid() {
		return Result{}, &electre.ValidationError{Field: "eco_grade", Reason: fmt.Sprintf("unknown grade %q", in.Eco)}
	}

	base := in.Base.Rank()
	score := base
	fired := []string{}
	for _, r := range rules {
		if r.applies(in, score) {
			score = r.apply(score)
			fired = append(fired, r.name)
		}
	}

	if score < minScore {
		score = minScore
	}
	if score > maxScore {
		score = maxScore
	}
	return Result{
		Grade:      electre.GradeFromRank(score),
		Score:      score,
		BaseScore:  base,
		FiredRules: fired,
	}, nil
}
