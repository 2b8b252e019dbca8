// Package gravmod distributes freight trip ends into origin-destination
// matrices with a self-calibrating, doubly-constrained gravity model.
//
// 🚀 What is gravmod?
//
//	A pure-Go numeric engine for transport demand modelling:
//		• Cost functions: Tanner and log-normal deterrence over dense cost matrices
//		• Furnessing: single-pass factoring and doubly-constrained IPF with
//		  residual history and unreachable-demand diagnostics
//		• Distribution comparison: trip-length banding, shape error and R²
//		• Gravity driver: seed → furness → compare as an explicit state machine
//		• Self-calibration: derivative-free simplex search over the two
//		  cost-function parameters, cancellable between evaluations
//
// ✨ Why choose gravmod?
//
//   - Value semantics – every run returns fresh, caller-owned matrices
//   - Deterministic – no globals, no hidden state, identical inputs ⇒ identical outputs
//   - Pure Go – no cgo, no runtime dependencies
//   - Diagnosable – every loop reports its residuals, every warning names its zone
//
// Everything is organized under five subpackages:
//
//	matrix/       — dense float64 matrix primitives (row/column sums, elementwise ops)
//	costfunc/     — Tanner & log-normal deterrence functions (closed variant set)
//	furness/      — single/double-constrained iterative proportional fitting
//	distribution/ — observed vs modelled trip-length distribution comparison
//	gravity/      — gravity-model driver and self-calibration loop
//
// Typical flow: build Inputs (zones, cost matrix, trip ends, observed bands),
// choose a Config (cost function, constraint mode, furness options), then
// call gravity.Run, or gravity.Calibrate to search for the best-fitting
// cost-function parameters first.
package gravmod
