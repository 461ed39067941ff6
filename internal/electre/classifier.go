package electre

import "math"

// DefaultLambdas are the cut levels reported side by side.
var DefaultLambdas = []float64{0.6, 0.7}

// Procedure names an ELECTRE TRI assignment rule.
type Procedure string

const (
	Pessimistic Procedure = "pessimistic"
	Optimistic  Procedure = "optimistic"
)

// Result is one product's assignment at one cut level.
type Result struct {
	Lambda      float64 `json:"lambda"`
	Pessimistic Class   `json:"pessimistic"`
	Optimistic  Class   `json:"optimistic"`
}

// Classifier runs the pessimistic and optimistic ELECTRE TRI procedures.
type Classifier struct {
	criteria Criteria
}

// NewClassifier validates the criterion set.
func NewClassifier(criteria Criteria) (*Classifier, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{criteria: criteria}, nil
}

// Criteria returns the criterion set used for concordance.
func (c *Classifier) Criteria() Criteria { return c.criteria }

// classForProfile maps boundary index 1..5 to E'..A'.
func classForProfile(i int) Class {
	return ClassFromRank(ProfileCount - i)
}

// Pessimistic scans π5 down to π1 and assigns the class of the first
// boundary h outranks at level lambda. A product that outranks none of them
// falls to E'.
func (c *Classifier) Pessimistic(h ProductVector, p *Profiles, lambda float64) (Class, error) {
	if err := checkInputs(p, lambda); err != nil {
		return "", err
	}
	for i := ProfileCount - 1; i >= 1; i-- {
		if GlobalConcordance(h, p.Boundaries[i-1], c.criteria) >= lambda {
			return classForProfile(i), nil
		}
	}
	return ClassE, nil
}

// Optimistic scans π1 up to π5 and assigns the class of the first boundary
// that outranks h while h does not outrank it. A product never strictly
// outranked rises to A'.
func (c *Classifier) Optimistic(h ProductVector, p *Profiles, lambda float64) (Class, error) {
	if err := checkInputs(p, lambda); err != nil {
		return "", err
	}
	for i := 2; i <= ProfileCount; i++ {
		b := p.Boundaries[i-2]
		if GlobalConcordance(b, h, c.criteria) >= lambda && GlobalConcordance(h, b, c.criteria) < lambda {
			return classForProfile(i - 1), nil
		}
	}
	return ClassA, nil
}

// Classify runs both procedures at one cut level.
func (c *Classifier) Classify(h ProductVector, p *Profiles, lambda float64) (Result, error) {
	pess, err := c.Pessimistic(h, p, lambda)
	if err != nil {
		return Result{}, err
	}
	opt, err := c.Optimistic(h, p, lambda)
	if err != nil {
		return Result{}, err
	}
	return Result{Lambda: lambda, Pessimistic: pess, Optimistic: opt}, nil
}

// ClassifyAll runs Classify for each lambda, in order. A nil slice selects
// DefaultLambdas.
func (c *Classifier) ClassifyAll(h ProductVector, p *Profiles, lambdas []float64) ([]Result, error) {
	if lambdas == nil {
		lambdas = DefaultLambdas
	}
	if err := ValidateLambdas(lambdas); err != nil {
		return nil, err
	}
	out := make([]Result, 0, len(lambdas))
	for _, l := range lambdas {
		r, err := c.Classify(h, p, l)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// ValidateLambda requires lambda in (0, 1].
func ValidateLambda(lambda float64) error {
	if math.IsNaN(lambda) || lambda <= 0 || lambda > 1 {
		return validationErr("lambda", "must be in (0, 1], got %g", lambda)
	}
	return nil
}

// ValidateLambdas checks each cut level and rejects repeats, which would
// count the same column twice in any aggregate.
func ValidateLambdas(lambdas []float64) error {
	seen := make(map[float64]bool, len(lambdas))
	for _, l := range lambdas {
		if err := ValidateLambda(l); err != nil {
			return err
		}
		if seen[l] {
			return validationErr("lambdas", "duplicate cut level %g", l)
		}
		seen[l] = true
	}
	return nil
}

func checkInputs(p *Profiles, lambda float64) error {
	if p == nil || len(p.Boundaries) != ProfileCount {
		n := 0
		if p != nil {
			n = len(p.Boundaries)
		}
		return configErr("profiles", "expected %d profiles, got %d", ProfileCount, n)
	}
	return ValidateLambda(lambda)
}
