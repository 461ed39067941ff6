package electre

import (
	"math"
	"sort"
)

// ProductVector maps criterion id to its value per 100 g.
type ProductVector map[string]float64

// Get returns the value for id; a missing criterion reads as 0.
func (v ProductVector) Get(id string) float64 {
	return v[id]
}

// Clone returns an independent copy.
func (v ProductVector) Clone() ProductVector {
	out := make(ProductVector, len(v))
	for k, x := range v {
		out[k] = x
	}
	return out
}

// Product is a named product with its criterion vector and the side
// attributes the composite grade needs.
type Product struct {
	ID      string        `json:"product_id"`
	Name    string        `json:"product_name,omitempty"`
	Vector  ProductVector `json:"vector"`
	Eco     Grade         `json:"eco_grade,omitempty"`
	Organic bool          `json:"organic,omitempty"`

	// NutriScoreGrade is the reference grade shipped with a dataset, if any.
	NutriScoreGrade Grade `json:"nutriscore_grade,omitempty"`
}

// Upper bounds accepted by ValidateVector. Criteria not listed are unbounded.
var upperBounds = map[string]float64{
	Energy:         4000,
	SaturatedFat:   100,
	Sugar:          100,
	Protein:        100,
	Fiber:          100,
	FruitVegNutPct: 100,
	Sodium:         40000,
}

// ValidateVector rejects unknown criteria, non-finite or negative values and
// values above the plausible per-100 g range. Keys are checked in sorted
// order so the first error is deterministic.
func ValidateVector(v ProductVector) error {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := validateValue(k, v[k]); err != nil {
			return err
		}
	}
	return nil
}

func validateValue(id string, x float64) error {
	if _, ok := directions[id]; !ok {
		return validationErr(id, "unknown criterion")
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return validationErr(id, "value is not a finite number")
	}
	if x < 0 {
		return validationErr(id, "negative value %g", x)
	}
	if max, ok := upperBounds[id]; ok && x > max {
		return validationErr(id, "value %g exceeds %g", x, max)
	}
	return nil
}

// Sanitize returns a copy of v with every invalid value replaced by 0 and
// unknown criteria dropped, along with the errors that were recovered from.
func Sanitize(v ProductVector) (ProductVector, []error) {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(ProductVector, len(v))
	var issues []error
	for _, k := range keys {
		if err := validateValue(k, v[k]); err != nil {
			issues = append(issues, err)
			if _, known := directions[k]; known {
				out[k] = 0
			}
			continue
		}
		out[k] = v[k]
	}
	return out, issues
}
