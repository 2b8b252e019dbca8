package gravity

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/freightflow/gravmod/costfunc"
)

// Nelder–Mead coefficients: reflection, expansion, contraction, shrink.
const (
	nmReflect  = 1.0
	nmExpand   = 2.0
	nmContract = 0.5
	nmShrink   = 0.5
)

// vertex is one simplex corner: a parameter pair and its objective value.
type vertex struct {
	p [2]float64
	f float64
}

// searcher owns the state of one calibration search.
type searcher struct {
	in   Inputs
	cfg  Config // SelfCalibrate stripped
	opts CalibrationOptions

	result  *CalibrationResult
	best    *RunResult
	bestVtx vertex
}

// Calibrate searches for the cost-function parameters that best reproduce
// the observed trip-length distribution, using a Nelder–Mead simplex over
// (p1, p2) minimizing Comparison.SquaredError. Every evaluation is one
// full seed→furness→compare pass via the driver.
//
// The search starts at cfg.Function's parameters, so the final objective
// is never worse than the starting one. Candidate parameters that are
// invalid for the function family (e.g. σ ≤ 0 for log-normal) score +Inf
// and the simplex contracts away from them.
//
// Cancellation: opts.Ctx is consulted between evaluations; when it fires,
// the best result so far is returned together with the context's error.
func Calibrate(in Inputs, cfg Config) (*CalibrationResult, error) {
	opts := cfg.Calibration
	opts.normalize()
	cfg.SelfCalibrate = false

	if cfg.Function == nil {
		return nil, ErrNoFunction
	}

	s := &searcher{in: in, cfg: cfg, opts: opts, result: &CalibrationResult{}}

	p1, p2 := cfg.Function.Params()
	simplex, err := s.initialSimplex(p1, p2)
	switch {
	case errors.Is(err, errBudgetExhausted):
		simplex = nil // budget smaller than the simplex; keep the best vertex seen
	case err != nil:
		return s.finish(), err
	}

	for simplex != nil && s.result.Evaluations < opts.MaxEvaluations {
		sort.Slice(simplex, func(i, j int) bool { return simplex[i].f < simplex[j].f })

		spread := simplex[2].f - simplex[0].f
		if !math.IsInf(spread, 0) && spread <= opts.ImprovementTol {
			s.result.Converged = true
			break
		}

		if err = s.step(simplex); err != nil {
			if errors.Is(err, errBudgetExhausted) {
				break
			}

			return s.finish(), err
		}
	}

	res := s.finish()
	if !res.Converged && res.Run != nil {
		res.Run.warn(WarnCalibrationCap, 0,
			"calibration stopped after %d evaluations with objective %.3e",
			res.Evaluations, s.bestVtx.f)
	}

	return res, nil
}

// initialSimplex evaluates the user's parameters plus one Step offset per
// axis. The very first evaluation propagates every error: if the supplied
// configuration cannot run at all, the search must not start.
func (s *searcher) initialSimplex(p1, p2 float64) ([]vertex, error) {
	v0, err := s.evaluate(p1, p2, true)
	if err != nil {
		return nil, err
	}
	v1, err := s.evaluate(p1+s.opts.Step, p2, false)
	if err != nil {
		return nil, err
	}
	v2, err := s.evaluate(p1, p2+s.opts.Step, false)
	if err != nil {
		return nil, err
	}

	return []vertex{v0, v1, v2}, nil
}

// step performs one Nelder–Mead move on the sorted simplex in place.
func (s *searcher) step(simplex []vertex) error {
	lo, mid, hi := simplex[0], simplex[1], simplex[2]
	centroid := [2]float64{(lo.p[0] + mid.p[0]) / 2, (lo.p[1] + mid.p[1]) / 2}

	at := func(coef float64) (float64, float64) {
		return centroid[0] + coef*(centroid[0]-hi.p[0]),
			centroid[1] + coef*(centroid[1]-hi.p[1])
	}

	refl, err := s.evaluate2(at(nmReflect))
	if err != nil {
		return err
	}

	switch {
	case refl.f < lo.f:
		// Reflection is the new best: try to expand past it.
		exp, err := s.evaluate2(at(nmExpand))
		if err != nil {
			return err
		}
		if exp.f < refl.f {
			simplex[2] = exp
		} else {
			simplex[2] = refl
		}

	case refl.f < mid.f:
		simplex[2] = refl

	default:
		// Contract toward the centroid; shrink the simplex if even that fails.
		con, err := s.evaluate2(at(-nmContract))
		if err != nil {
			return err
		}
		if con.f < hi.f {
			simplex[2] = con

			return nil
		}
		for i := 1; i < 3; i++ {
			sh, err := s.evaluate(
				lo.p[0]+nmShrink*(simplex[i].p[0]-lo.p[0]),
				lo.p[1]+nmShrink*(simplex[i].p[1]-lo.p[1]),
				false,
			)
			if err != nil {
				return err
			}
			simplex[i] = sh
		}
	}

	return nil
}

func (s *searcher) evaluate2(p1, p2 float64) (vertex, error) {
	return s.evaluate(p1, p2, false)
}

// evaluate runs one full gravity-model pass at (p1, p2), records it in the
// trace and keeps the best-scoring run. Between evaluations it honors the
// cancellation context and the evaluation budget. Invalid parameters score
// +Inf unless this is the initial vertex (strict=true).
func (s *searcher) evaluate(p1, p2 float64, strict bool) (vertex, error) {
	if err := s.opts.Ctx.Err(); err != nil {
		return vertex{}, fmt.Errorf("gravity: calibration cancelled: %w", err)
	}
	if s.result.Evaluations >= s.opts.MaxEvaluations {
		return vertex{p: [2]float64{p1, p2}, f: math.Inf(1)}, errBudgetExhausted
	}

	cfg := s.cfg
	cfg.Function = s.cfg.Function.With(p1, p2)

	run, err := runOnce(s.in, cfg)
	s.result.Evaluations++
	if err != nil {
		if !strict && errors.Is(err, costfunc.ErrNonPositiveSigma) {
			// The simplex wandered outside the valid parameter domain.
			s.result.Trace = append(s.result.Trace, Evaluation{P1: p1, P2: p2, Score: math.Inf(1)})

			return vertex{p: [2]float64{p1, p2}, f: math.Inf(1)}, nil
		}

		return vertex{}, err
	}

	v := vertex{p: [2]float64{p1, p2}, f: run.Comparison.SquaredError}
	s.result.Trace = append(s.result.Trace, Evaluation{
		P1: p1, P2: p2, Score: v.f, RSquared: run.Comparison.RSquared,
	})
	if s.best == nil || v.f < s.bestVtx.f {
		s.best, s.bestVtx = run, v
	}

	return v, nil
}

// errBudgetExhausted is internal flow control: the step that hits the
// budget unwinds to the main loop, which then finishes with the best
// vertex found. It is never returned to the caller.
var errBudgetExhausted = errors.New("gravity: evaluation budget exhausted")

// finish assembles the CalibrationResult from the best evaluation so far.
func (s *searcher) finish() *CalibrationResult {
	res := s.result
	if s.best != nil {
		res.Best = s.cfg.Function.With(s.bestVtx.p[0], s.bestVtx.p[1])
		res.RSquared = s.best.Comparison.RSquared
		res.Run = s.best
	}

	return res
}
