// Package testing provides standardised tests and benchmarks for element
// types and containers of package vector.
//
// The package contains:
//   - codec testing: a conformance suite for element types implementing the
//     delegated serialization contract, run through Vector and PointerVector
//   - benchmarks: throughput of growth, sorting, selection and the raw codec
//
// Example usage:
//
//	// Creating a factory for the i-th distinct element
//	factory := func(i int) *MyElement {
//		return &MyElement{ID: i}
//	}
//
//	// Running the conformance suite
//	testing.RunCodecTests[MyElement](t, "MyElement", factory, CompareMyElement)
//
//	// Running performance benchmarks for an ordered value type
//	testing.RunVectorBenchmarks(b, "int32", func(rng *rand.Rand) int32 { return rng.Int32() })
package testing
