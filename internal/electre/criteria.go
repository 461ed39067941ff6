package electre

// Criterion ids. The set is fixed; the order below is the canonical order
// used for iteration, hashing and reporting.
const (
	Energy         = "energy"
	SaturatedFat   = "saturated_fat"
	Sugar          = "sugar"
	Sodium         = "sodium"
	Protein        = "protein"
	Fiber          = "fiber"
	FruitVegNutPct = "fruit_veg_nut_pct"
	AdditiveCount  = "additive_count"
)

// Direction tells whether higher or lower values are better on a criterion.
type Direction string

const (
	Minimize Direction = "minimize"
	Maximize Direction = "maximize"
)

var criterionOrder = []string{
	Energy, SaturatedFat, Sugar, Sodium, Protein, Fiber, FruitVegNutPct, AdditiveCount,
}

var directions = map[string]Direction{
	Energy:         Minimize,
	SaturatedFat:   Minimize,
	Sugar:          Minimize,
	Sodium:         Minimize,
	Protein:        Maximize,
	Fiber:          Maximize,
	FruitVegNutPct: Maximize,
	AdditiveCount:  Minimize,
}

// CriterionIDs returns the eight criterion ids in canonical order.
func CriterionIDs() []string {
	out := make([]string, len(criterionOrder))
	copy(out, criterionOrder)
	return out
}

// Criterion is one evaluation axis with its weight and preference direction.
type Criterion struct {
	ID        string    `json:"id"`
	Weight    int       `json:"weight"`
	Direction Direction `json:"direction"`
}

// Better reports whether a weakly outranks b on this criterion.
func (c Criterion) Better(a, b float64) bool {
	if c.Direction == Maximize {
		return a >= b
	}
	return a <= b
}

// Criteria is an ordered criterion set.
type Criteria []Criterion

// DefaultCriteria returns the fixed eight criteria with DefaultWeights.
func DefaultCriteria() Criteria {
	c, _ := CriteriaFromWeights(DefaultWeights())
	return c
}

// CriteriaFromWeights builds the criterion set in canonical order.
func CriteriaFromWeights(w Weights) (Criteria, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	out := make(Criteria, 0, len(criterionOrder))
	for _, id := range criterionOrder {
		out = append(out, Criterion{ID: id, Weight: w[id], Direction: directions[id]})
	}
	return out, nil
}

// TotalWeight returns the sum of all criterion weights.
func (cs Criteria) TotalWeight() int {
	var total int
	for _, c := range cs {
		total += c.Weight
	}
	return total
}

// Validate rejects empty sets, duplicate ids, non-positive weights and
// unknown directions.
func (cs Criteria) Validate() error {
	if len(cs) == 0 {
		return configErr("criteria", "empty criterion set")
	}
	seen := make(map[string]bool, len(cs))
	for _, c := range cs {
		if c.ID == "" {
			return configErr("criteria", "criterion with empty id")
		}
		if seen[c.ID] {
			return configErr("criteria."+c.ID, "duplicate criterion")
		}
		seen[c.ID] = true
		if c.Weight < 1 {
			return configErr("criteria."+c.ID, "weight must be a positive integer, got %d", c.Weight)
		}
		if c.Direction != Minimize && c.Direction != Maximize {
			return configErr("criteria."+c.ID, "unknown direction %q", c.Direction)
		}
	}
	return nil
}
