package report

import (
	"strconv"

	"github.com/MikeSquared-Agency/NutriSort/internal/electre"
	"github.com/MikeSquared-Agency/NutriSort/internal/supernutri"
)

// ConfusionLambda is the cut level whose pessimistic class the confusion
// matrix crosses with Nutri-Score.
const ConfusionLambda = supernutri.BaseLambda

// ReferenceColumn keys the computed Nutri-Score in ReferenceAgreement.
const ReferenceColumn = "nutriscore_grade"

// ConfusionMatrix counts products by Nutri-Score grade (rows) and ELECTRE
// class (columns), both ordered best to worst.
type ConfusionMatrix [5][5]int

// Summary aggregates a batch.
type Summary struct {
	Products               int                              `json:"products"`
	NutriScoreDistribution map[electre.Grade]int            `json:"nutriscore_distribution"`
	SuperNutriDistribution map[electre.Grade]int            `json:"supernutri_distribution"`
	ClassDistribution      map[string]map[electre.Class]int `json:"class_distribution"`
	// Agreement is the share of products whose Nutri-Score letter equals the
	// ELECTRE class letter, per column.
	Agreement map[string]float64 `json:"agreement"`
	// ProcedureAgreement is the share of products whose pessimistic and
	// optimistic classes coincide, per lambda.
	ProcedureAgreement map[string]float64 `json:"procedure_agreement"`
	// Confusion crosses Nutri-Score with the pessimistic class at
	// ConfusionLambda. It is nil when that lambda was not requested.
	Confusion *ConfusionMatrix `json:"confusion,omitempty"`
	// ReferenceProducts counts rows whose dataset shipped a Nutri-Score grade.
	ReferenceProducts int `json:"reference_products"`
	// ReferenceAgreement is the share of those rows whose computed
	// Nutri-Score (ReferenceColumn) or ELECTRE class letter matches the
	// shipped grade, per column.
	ReferenceAgreement map[string]float64 `json:"reference_agreement,omitempty"`
	// Frontier lists the ids of products no other product dominates.
	Frontier []string `json:"frontier"`
}

// Summarize computes the batch statistics.
func Summarize(rows []Row, lambdas []float64, locale string) Summary {
	s := Summary{
		Products:               len(rows),
		NutriScoreDistribution: make(map[electre.Grade]int),
		SuperNutriDistribution: make(map[electre.Grade]int),
		ClassDistribution:      make(map[string]map[electre.Class]int),
		Agreement:              make(map[string]float64),
		ProcedureAgreement:     make(map[string]float64),
	}
	for _, l := range lambdas {
		s.ClassDistribution[ColumnLabel(locale, electre.Pessimistic, l)] = make(map[electre.Class]int)
		s.ClassDistribution[ColumnLabel(locale, electre.Optimistic, l)] = make(map[electre.Class]int)
		if l == ConfusionLambda {
			s.Confusion = &ConfusionMatrix{}
		}
	}
	if len(rows) == 0 {
		return s
	}

	agree := make(map[string]int)
	same := make(map[string]int)
	refAgree := make(map[string]int)
	for _, r := range rows {
		ns := r.NutriScore.Grade
		s.NutriScoreDistribution[ns]++
		if r.SuperNutri != nil {
			s.SuperNutriDistribution[r.SuperNutri.Grade]++
		}
		ref := r.ReferenceGrade
		if ref.Valid() {
			s.ReferenceProducts++
			if ns == ref {
				refAgree[ReferenceColumn]++
			}
		}
		for _, res := range r.Results {
			pessCol := ColumnLabel(locale, electre.Pessimistic, res.Lambda)
			optCol := ColumnLabel(locale, electre.Optimistic, res.Lambda)
			s.ClassDistribution[pessCol][res.Pessimistic]++
			s.ClassDistribution[optCol][res.Optimistic]++
			if res.Pessimistic.Letter() == ns {
				agree[pessCol]++
			}
			if res.Optimistic.Letter() == ns {
				agree[optCol]++
			}
			if res.Pessimistic == res.Optimistic {
				same[lambdaKey(res.Lambda)]++
			}
			if ref.Valid() {
				if res.Pessimistic.Letter() == ref {
					refAgree[pessCol]++
				}
				if res.Optimistic.Letter() == ref {
					refAgree[optCol]++
				}
			}
			if s.Confusion != nil && res.Lambda == ConfusionLambda && ns.Valid() && res.Pessimistic.Valid() {
				s.Confusion[ns.Rank()-1][res.Pessimistic.Rank()-1]++
			}
		}
	}

	n := float64(len(rows))
	for col := range s.ClassDistribution {
		s.Agreement[col] = float64(agree[col]) / n
	}
	for _, l := range lambdas {
		s.ProcedureAgreement[lambdaKey(l)] = float64(same[lambdaKey(l)]) / n
	}
	if s.ReferenceProducts > 0 {
		refN := float64(s.ReferenceProducts)
		s.ReferenceAgreement = map[string]float64{ReferenceColumn: float64(refAgree[ReferenceColumn]) / refN}
		for col := range s.ClassDistribution {
			s.ReferenceAgreement[col] = float64(refAgree[col]) / refN
		}
	}
	return s
}

func lambdaKey(l float64) string {
	return "λ=" + strconv.FormatFloat(l, 'f', -1, 64)
}
