// Package util provides helpers for the dSeq tooling.
//
// The package contains:
//   - functions: seed generation and seed derivation for reproducible random inputs
//   - statistics: summary statistics over measurements and a SizeHistogram for
//     tracking the distribution of encoded record sizes
package util
