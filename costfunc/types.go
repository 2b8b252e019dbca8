package costfunc

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownFunction is returned by Parse for an unrecognized function name.
	ErrUnknownFunction = errors.New("costfunc: unknown cost function")

	// ErrNonPositiveSigma is returned when a LogNormal variant has σ ≤ 0.
	ErrNonPositiveSigma = errors.New("costfunc: sigma must be > 0")

	// ErrNegativeCost is returned when a cost matrix contains a negative entry.
	ErrNegativeCost = errors.New("costfunc: negative cost")
)

// CostFunction is the closed set of deterrence functions understood by the
// gravity model. Exactly two variants exist: Tanner and LogNormal. The
// interface is sealed (unexported marker method), so a type switch over the
// two variants is exhaustive.
type CostFunction interface {
	// Name reports the canonical function name ("tanner" or "log_normal").
	Name() string

	// Params returns the two scalar parameters in declaration order
	// (α, β for Tanner; σ, μ for LogNormal).
	Params() (p1, p2 float64)

	// With returns a copy of the variant carrying the given parameters.
	// The calibration loop moves through parameter space with this.
	With(p1, p2 float64) CostFunction

	// Deterrence evaluates the function at a single cost value.
	// The result is always finite and non-negative; zero cost yields zero.
	Deterrence(cost float64) float64

	// Validate reports configuration errors (e.g. non-positive σ).
	Validate() error

	sealed()
}

// Tanner is the Tanner deterrence function f(c) = c^Alpha · exp(Beta·c).
type Tanner struct {
	Alpha, Beta float64
}

// LogNormal is the log-normal deterrence function
// f(c) = 1/(c·Sigma·√(2π)) · exp(−(ln c − Mu)²/(2·Sigma²)).
type LogNormal struct {
	Sigma, Mu float64
}

// DefaultTanner returns the conventional starting parameters (α=1, β=−1)
// used when calibration begins without a better prior.
func DefaultTanner() Tanner { return Tanner{Alpha: 1, Beta: -1} }

// DefaultLogNormal returns the conventional starting parameters (σ=1, μ=1).
func DefaultLogNormal() LogNormal { return LogNormal{Sigma: 1, Mu: 1} }

// Parse maps an external function name and two parameters onto a variant.
// Names are matched case-insensitively; "log_normal", "log-normal" and
// "lognormal" are all accepted. Unknown names return ErrUnknownFunction.
func Parse(name string, p1, p2 float64) (CostFunction, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "tanner":
		return Tanner{Alpha: p1, Beta: p2}, nil
	case "log_normal", "log-normal", "lognormal":
		return LogNormal{Sigma: p1, Mu: p2}, nil
	default:
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownFunction)
	}
}
