package natural

import (
	"fmt"
	"strings"

	"github.com/n0madic/go-natural-lasso/solver"
	"gonum.org/v1/gonum/floats"
)

// Method selects the estimator family: the solver penalty and the penalty
// transform used in the objective-based variance estimator.
type Method struct {
	name      string
	penalty   solver.Penalty
	transform func(l1 float64) float64
}

var (
	// Natural is the natural lasso: L1 penalty, sig_obj = rss/n + 2*lambda*||b||_1
	Natural = Method{
		name:      "natural",
		penalty:   solver.L1,
		transform: func(l1 float64) float64 { return l1 },
	}

	// Organic is the organic lasso: squared L1 penalty, sig_obj = rss/n + 2*lambda*||b||_1^2
	Organic = Method{
		name:      "organic",
		penalty:   solver.SquaredL1,
		transform: func(l1 float64) float64 { return l1 * l1 },
	}
)

// ParseMethod returns the method with the given name
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case Natural.name:
		return Natural, nil
	case Organic.name:
		return Organic, nil
	default:
		return Method{}, fmt.Errorf("%w: unknown method %q", ErrInvalidInput, name)
	}
}

// String returns the method name
func (m Method) String() string {
	if m.name == "" {
		return "unknown"
	}
	return m.name
}

// Penalty returns the solver penalty the method fits with
func (m Method) Penalty() solver.Penalty {
	return m.penalty
}

// PenaltyTerm returns ||beta||_1 for Natural and ||beta||_1^2 for Organic
func (m Method) PenaltyTerm(beta []float64) float64 {
	return m.transform(floats.Norm(beta, 1))
}

func (m Method) valid() bool {
	return m.transform != nil
}

func (m Method) organic() bool {
	return m.penalty == solver.SquaredL1
}
