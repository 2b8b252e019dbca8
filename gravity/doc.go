// Package gravity drives the full gravity model for one demand segment:
// seed the matrix from a deterrence function, furness it to the segment's
// trip ends, and score the result against the observed trip-length
// distribution, optionally repeating under a self-calibrating search over
// the two cost-function parameters.
//
// Run executes one pass as an explicit state machine:
//
//	SEEDED     — costfunc.Evaluate builds the seed matrix; a calibration
//	             matrix, when supplied, is multiplied in elementwise
//	FURNESSED  — furness.Single or furness.Double applies the segment's
//	             constraint mode
//	COMPARED   — distribution.Compare scores the candidate matrix
//	DONE       — the matrix, diagnostics and warnings are returned
//
// Calibrate wraps Run in a derivative-free Nelder–Mead search minimizing
// the distribution's squared share error. Each evaluation is one full
// seed→furness→compare pass and is stateless, so the search can be
// cancelled between evaluations via CalibrationOptions.Ctx without leaving
// partial state behind; the best result found so far is returned alongside
// the context's error.
//
// Fatal conditions (unknown configuration, negative costs, shape
// mismatches) abort only the call they occur in; the package keeps no
// state across calls, so per-segment batches are isolated by construction.
// Everything recoverable (iteration caps, unreachable zones, mismatched
// trip-end totals) is reported as a Warning on the result instead.
package gravity
