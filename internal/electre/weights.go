package electre

import "sort"

// Weights maps criterion id to its relative importance. Every criterion must
// carry a positive integer weight.
type Weights map[string]int

// DefaultWeights returns the standard weight distribution: the four
// nutrients to limit count for 3, the remaining criteria for 2.
func DefaultWeights() Weights {
	return Weights{
		Energy:         3,
		SaturatedFat:   3,
		Sugar:          3,
		Sodium:         3,
		Protein:        2,
		Fiber:          2,
		FruitVegNutPct: 2,
		AdditiveCount:  2,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() int {
	var total int
	for _, v := range w {
		total += v
	}
	return total
}

// Validate checks that every known criterion has a positive weight and that
// no unknown criterion is present.
func (w Weights) Validate() error {
	for _, id := range CriterionIDs() {
		v, ok := w[id]
		if !ok {
			return configErr("weights."+id, "missing weight")
		}
		if v < 1 {
			return configErr("weights."+id, "weight must be a positive integer, got %d", v)
		}
	}
	if len(w) != len(CriterionIDs()) {
		var unknown []string
		for id := range w {
			if _, ok := directions[id]; !ok {
				unknown = append(unknown, id)
			}
		}
		sort.Strings(unknown)
		return configErr("weights", "unknown criteria %v", unknown)
	}
	return nil
}
