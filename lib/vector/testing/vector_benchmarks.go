package testing

import (
	"bytes"
	"cmp"
	"errors"
	"github.com/ValentinKolb/dSeq/lib/stream"
	"github.com/ValentinKolb/dSeq/lib/vector"
	"math/rand/v2"
	"testing"
)

// benchmarkSize is the element count of every prepared vector
const benchmarkSize = 10_000

// ValueGenerator draws one random value
type ValueGenerator[T any] func(rng *rand.Rand) T

// RunVectorBenchmarks runs all benchmarks for vectors of an ordered value type
func RunVectorBenchmarks[T cmp.Ordered](b *testing.B, name string, gen ValueGenerator[T]) {
	b.Run(name, func(b *testing.B) {
		b.Run("PushBack", func(b *testing.B) {
			benchmarkPushBack(b, gen)
		})

		b.Run("Sort", func(b *testing.B) {
			benchmarkSort(b, gen)
		})

		b.Run("ChooseNthItem", func(b *testing.B) {
			benchmarkChooseNthItem(b, gen)
		})

		b.Run("BinarySearch", func(b *testing.B) {
			benchmarkBinarySearch(b, gen)
		})

		b.Run("SerializeRaw", func(b *testing.B) {
			benchmarkSerializeRaw(b, gen)
		})

		b.Run("DeSerializeRaw", func(b *testing.B) {
			benchmarkDeSerializeRaw(b, gen)
		})
	})
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func randomVector[T cmp.Ordered](gen ValueGenerator[T], n int) *vector.Vector[T, vector.Borrowed[T]] {
	rng := rand.New(rand.NewPCG(42, 42))
	v := vector.NewSized[T, vector.Borrowed[T]](vector.Ordered[T](), n)
	for i := 0; i < n; i++ {
		v.PushBack(gen(rng))
	}
	return v
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

func benchmarkPushBack[T cmp.Ordered](b *testing.B, gen ValueGenerator[T]) {
	rng := rand.New(rand.NewPCG(1, 1))
	val := gen(rng)

	b.ResetTimer()
	v := vector.NewOrdered[T]()
	for i := 0; i < b.N; i++ {
		v.PushBack(val)
		if v.Len() == benchmarkSize {
			v.Clear()
		}
	}
}

func benchmarkSort[T cmp.Ordered](b *testing.B, gen ValueGenerator[T]) {
	src := randomVector(gen, benchmarkSize)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		v := src.Clone()
		b.StartTimer()
		v.Sort()
	}
}

func benchmarkChooseNthItem[T cmp.Ordered](b *testing.B, gen ValueGenerator[T]) {
	src := randomVector(gen, benchmarkSize)
	rng := rand.New(rand.NewPCG(7, 7))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		v := src.Clone()
		b.StartTimer()
		v.ChooseNthItemRand(benchmarkSize/2, rng)
	}
}

func benchmarkBinarySearch[T cmp.Ordered](b *testing.B, gen ValueGenerator[T]) {
	v := randomVector(gen, benchmarkSize)
	v.Sort()
	rng := rand.New(rand.NewPCG(3, 3))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.BinarySearch(gen(rng))
	}
}

func benchmarkSerializeRaw[T cmp.Ordered](b *testing.B, gen ValueGenerator[T]) {
	v := randomVector(gen, benchmarkSize)
	var buf bytes.Buffer

	if err := v.Serialize(stream.NewWriter(&buf)); errors.Is(err, vector.ErrNotFixedSize) {
		b.Skipf("raw codec not available: %v", err)
	}
	b.SetBytes(int64(buf.Len()))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		if err := v.Serialize(stream.NewWriter(&buf)); err != nil {
			b.Fatal(err)
		}
	}
}

func benchmarkDeSerializeRaw[T cmp.Ordered](b *testing.B, gen ValueGenerator[T]) {
	var buf bytes.Buffer
	if err := randomVector(gen, benchmarkSize).Serialize(stream.NewWriter(&buf)); err != nil {
		b.Skipf("raw codec not available: %v", err)
	}
	data := buf.Bytes()
	b.SetBytes(int64(len(data)))

	v := vector.NewOrdered[T]()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := v.DeSerialize(stream.NewReader(bytes.NewReader(data), false)); err != nil {
			b.Fatal(err)
		}
	}
}
