package nutriscore

import "math"

// StepFunc ranks a value against an ascending threshold table. By default
// the result is the number of thresholds not exceeding the value; Strict
// requires the value to be strictly above a threshold to count it. When
// Points is set, the i-th crossed threshold awards Points[i-1] instead of i.
type StepFunc struct {
	Thresholds []float64
	Points     []int
	Strict     bool
}

// Steps builds a StepFunc from explicit ascending thresholds.
func Steps(thresholds ...float64) StepFunc {
	return StepFunc{Thresholds: thresholds}
}

// UniformSteps builds n thresholds step, 2*step, ... n*step. Thresholds are
// rounded to 1e-6 so 3*0.2 compares equal to 0.6.
func UniformSteps(step float64, n int) StepFunc {
	t := make([]float64, n)
	for i := range t {
		t[i] = math.Round(float64(i+1)*step*1e6) / 1e6
	}
	return StepFunc{Thresholds: t}
}

// Max returns the highest value Eval can return.
func (s StepFunc) Max() int {
	if len(s.Points) > 0 {
		return s.Points[len(s.Points)-1]
	}
	return len(s.Thresholds)
}

// Eval returns the points for v.
func (s StepFunc) Eval(v float64) int {
	n := 0
	for _, t := range s.Thresholds {
		if v > t || (!s.Strict && v == t) {
			n++
			continue
		}
		break
	}
	if len(s.Points) > 0 {
		if n == 0 {
			return 0
		}
		return s.Points[n-1]
	}
	return n
}
