package electre

import (
	"math"
	"sort"
)

// ProfileCount is the number of boundary profiles π1..π6.
const ProfileCount = 6

// DefaultQuantiles are the population quantile levels for π1..π6.
var DefaultQuantiles = []float64{0.05, 0.20, 0.40, 0.60, 0.80, 0.95}

// ProfileSource tells where a criterion's boundary values came from.
type ProfileSource string

const (
	SourcePopulation ProfileSource = "population"
	SourceDefault    ProfileSource = "default"
)

// DefaultProfileTable is used per criterion when the population carries no
// observation of it. Rows run π1 (worst) to π6 (best).
var DefaultProfileTable = map[string][]float64{
	Energy:         {2500, 2000, 1500, 1000, 600, 300},
	SaturatedFat:   {15, 10, 6, 3, 1.5, 0.5},
	Sugar:          {40, 25, 15, 8, 4, 1},
	Sodium:         {1200, 800, 500, 300, 150, 50},
	Protein:        {1, 3, 5, 8, 12, 20},
	Fiber:          {0.5, 1.5, 3, 5, 7, 10},
	FruitVegNutPct: {0, 10, 25, 45, 65, 85},
	AdditiveCount:  {10, 7, 5, 3, 1, 0},
}

// Profiles holds the ordered boundary vectors, worst first. Treat a built
// Profiles as read-only; it is shared by every classification against the
// same population.
type Profiles struct {
	Boundaries     []ProductVector          `json:"boundaries"`
	Source         map[string]ProfileSource `json:"source"`
	PopulationHash string                   `json:"population_hash,omitempty"`
	PopulationSize int                      `json:"population_size"`
}

// Validate checks the profile count and that each boundary weakly dominates
// the one before it.
func (p *Profiles) Validate(criteria Criteria) error {
	if p == nil {
		return configErr("profiles", "nil profiles")
	}
	if len(p.Boundaries) != ProfileCount {
		return configErr("profiles", "expected %d profiles, got %d", ProfileCount, len(p.Boundaries))
	}
	for i := 1; i < len(p.Boundaries); i++ {
		if !WeaklyDominates(p.Boundaries[i], p.Boundaries[i-1], criteria) {
			return configErr("profiles", "profile %d does not weakly dominate profile %d", i+1, i)
		}
	}
	return nil
}

// ProfileBuilder derives profiles from a population.
type ProfileBuilder struct {
	criteria  Criteria
	quantiles []float64
	defaults  map[string][]float64
}

// NewProfileBuilder validates the criteria and quantile levels. A nil
// quantile slice selects DefaultQuantiles.
func NewProfileBuilder(criteria Criteria, quantiles []float64) (*ProfileBuilder, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}
	if quantiles == nil {
		quantiles = DefaultQuantiles
	}
	if err := ValidateQuantiles(quantiles); err != nil {
		return nil, err
	}
	q := make([]float64, len(quantiles))
	copy(q, quantiles)
	return &ProfileBuilder{criteria: criteria, quantiles: q, defaults: DefaultProfileTable}, nil
}

// WithDefaults replaces the fallback table. A criterion missing from both
// the population and the table makes Build fail.
func (b *ProfileBuilder) WithDefaults(table map[string][]float64) *ProfileBuilder {
	return &ProfileBuilder{criteria: b.criteria, quantiles: b.quantiles, defaults: table}
}

// Criteria returns the criterion set the builder was configured with.
func (b *ProfileBuilder) Criteria() Criteria { return b.criteria }

// ValidateQuantiles requires six strictly increasing levels in (0, 1).
func ValidateQuantiles(q []float64) error {
	if len(q) != ProfileCount {
		return configErr("quantiles", "expected %d levels, got %d", ProfileCount, len(q))
	}
	for i, v := range q {
		if !(v > 0 && v < 1) {
			return configErr("quantiles", "level %g outside (0, 1)", v)
		}
		if i > 0 && v <= q[i-1] {
			return configErr("quantiles", "levels must be strictly increasing")
		}
	}
	return nil
}

// Build computes π1..π6. A nil population uses the default table for every
// criterion. For a maximized criterion πi is the Q[i]-quantile of the pooled
// values; for a minimized one it is the (1-Q[i])-quantile, so πi is always
// the i-th boundary from worst to best.
func (b *ProfileBuilder) Build(pop *Population) (*Profiles, error) {
	out := &Profiles{
		Boundaries:     make([]ProductVector, ProfileCount),
		Source:         make(map[string]ProfileSource, len(b.criteria)),
		PopulationHash: pop.Hash(),
		PopulationSize: pop.Len(),
	}
	for i := range out.Boundaries {
		out.Boundaries[i] = make(ProductVector, len(b.criteria))
	}

	for _, c := range b.criteria {
		values := pop.Values(c.ID)
		if len(values) > 0 {
			sort.Float64s(values)
			for i, q := range b.quantiles {
				level := q
				if c.Direction == Minimize {
					level = 1 - q
				}
				out.Boundaries[i][c.ID] = Quantile(values, level)
			}
			out.Source[c.ID] = SourcePopulation
			continue
		}

		row, ok := b.defaults[c.ID]
		if !ok {
			return nil, configErr("profiles."+c.ID, "no population data and no default profile")
		}
		if len(row) != ProfileCount {
			return nil, configErr("profiles."+c.ID, "default profile has %d entries, expected %d", len(row), ProfileCount)
		}
		for i, v := range row {
			out.Boundaries[i][c.ID] = v
		}
		out.Source[c.ID] = SourceDefault
	}
	if err := out.Validate(b.criteria); err != nil {
		return nil, err
	}
	return out, nil
}

// Quantile returns the q-quantile of sorted values using linear
// interpolation between the order statistics at (n-1)*q.
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
