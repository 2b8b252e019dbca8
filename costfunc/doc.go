// Package costfunc implements the deterrence (cost) functions of the
// gravity model: parametric forms mapping travel cost to relative trip
// likelihood.
//
// Two forms are supported, as a closed variant set:
//
//	Tanner    — f(c) = c^α · exp(β·c)
//	LogNormal — f(c) = 1/(c·σ·√(2π)) · exp(−(ln c − μ)²/(2σ²))
//
// Both variants implement CostFunction; the interface is sealed so the set
// is exhaustive at compile time; there is no string-keyed dispatch inside
// the model. Parse exists only at the configuration boundary, translating
// an external function name into a variant.
//
// Zero-cost pairs always map to zero deterrence: c=0 is undefined for a
// negative Tanner power and for the log-normal form, and a zone pair with
// no cost should contribute no synthetic demand. For the same reason any
// evaluation that would overflow to ±Inf or NaN is reported as zero: the
// evaluator never emits negative, NaN or infinite deterrence.
package costfunc
