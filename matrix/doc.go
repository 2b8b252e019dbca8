// Package matrix provides the dense float64 primitives shared by every
// stage of the gravity model: cost matrices, seed matrices, calibration
// matrices and trip matrices are all *matrix.Dense values.
//
// Dense stores its elements in a flat, row-major slice for cache
// friendliness. Public indexers (At/Set) are bounds-checked and return
// sentinel errors rather than panicking; the hot aggregation paths
// (RowSums, ColSums, Total) operate on the flat slice directly.
//
// All operations either return a fresh matrix or mutate the receiver
// explicitly (Fill, Scale, MulElem); there is no hidden sharing, so a
// cloned matrix is always safe to hand to another goroutine.
package matrix
