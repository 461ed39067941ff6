package electre

// PartialConcordance is 1 when h weakly outranks b on c, 0 otherwise. There
// is no indifference band.
func PartialConcordance(h, b ProductVector, c Criterion) float64 {
	if c.Better(h.Get(c.ID), b.Get(c.ID)) {
		return 1
	}
	return 0
}

// GlobalConcordance is the weighted share of criteria on which h weakly
// outranks b. It is not symmetric in h and b.
func GlobalConcordance(h, b ProductVector, criteria Criteria) float64 {
	total := criteria.TotalWeight()
	if total == 0 {
		return 0
	}
	var sum float64
	for _, c := range criteria {
		sum += float64(c.Weight) * PartialConcordance(h, b, c)
	}
	return sum / float64(total)
}

// PartialResult captures one criterion's contribution to a concordance index.
type PartialResult struct {
	Criterion string  `json:"criterion"`
	Weight    int     `json:"weight"`
	Value     float64 `json:"value"`
	Profile   float64 `json:"profile"`
	Outranks  bool    `json:"outranks"`
}

// ConcordanceResult is the explained form of GlobalConcordance.
type ConcordanceResult struct {
	Global   float64         `json:"global"`
	Partials []PartialResult `json:"partials"`
}

// Explain computes GlobalConcordance(h, b) with its per-criterion breakdown.
func Explain(h, b ProductVector, criteria Criteria) ConcordanceResult {
	res := ConcordanceResult{Partials: make([]PartialResult, 0, len(criteria))}
	for _, c := range criteria {
		res.Partials = append(res.Partials, PartialResult{
			Criterion: c.ID,
			Weight:    c.Weight,
			Value:     h.Get(c.ID),
			Profile:   b.Get(c.ID),
			Outranks:  PartialConcordance(h, b, c) == 1,
		})
	}
	res.Global = GlobalConcordance(h, b, criteria)
	return res
}
