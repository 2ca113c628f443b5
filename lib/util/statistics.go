// This file implements the statistics reported by the perf command: summary
// statistics over per-worker counts, a balance score derived from them, and a
// size histogram for encoded records. The histogram uses exponential buckets so
// that record sizes from a few bytes up to the stream field limit are covered
// with a fixed, small memory footprint.
//
// Key features include:
//   - Thread-safe sample addition and querying of the histogram
//   - Estimators for average, median and arbitrary percentiles
//   - Access to the raw bucket distribution

package util

import (
	"math"
	"sync"
)

// ----------------------------------------------------------------------------
// Summary statistics
// ----------------------------------------------------------------------------

// Stats summarizes a series of values. MinMaxRatio is Min/Max, or 1 if Max is not positive.
type Stats struct {
	StdDeviation float64 `json:"std_deviation"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
	MinMaxRatio  float64 `json:"min_max_ratio"`
}

// NewStats computes mean, population standard deviation, min and max of values
func NewStats(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}

	lo, hi := values[0], values[0]
	var sum float64
	for _, v := range values {
		sum += v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	mean := sum / float64(len(values))

	var sumSquaredDiffs float64
	for _, v := range values {
		diff := v - mean
		sumSquaredDiffs += diff * diff
	}

	ratio := 1.0
	if hi > 0 {
		ratio = lo / hi
	}

	return Stats{
		StdDeviation: math.Sqrt(sumSquaredDiffs / float64(len(values))),
		Min:          lo,
		Max:          hi,
		Mean:         mean,
		MinMaxRatio:  ratio,
	}
}

// BalanceStats rates how evenly work was spread over workers
type BalanceStats struct {
	Stats
	Balance float64 `json:"balance"` // 1 = perfectly even
}

// NewBalanceStats combines the coefficient of variation and the min/max ratio
// of per-worker counts into a single score in [0, 1]
func NewBalanceStats(perWorker []float64) BalanceStats {
	stats := NewStats(perWorker)

	var cv float64
	if stats.Mean > 0 {
		cv = stats.StdDeviation / stats.Mean
	}

	return BalanceStats{
		Stats:   stats,
		Balance: (1.0-math.Min(1.0, cv))*0.5 + stats.MinMaxRatio*0.5,
	}
}

// ----------------------------------------------------------------------------
// SizeHistogram
// ----------------------------------------------------------------------------

// sizeBoundaries are the upper bounds of the histogram buckets, a record
// larger than the last bound lands in an overflow bucket
var sizeBoundaries = []int{
	16, 64, 256, 1024, 4096,
	16 << 10, 64 << 10, 256 << 10, 1 << 20,
	4 << 20, 16 << 20, 64 << 20,
}

// SizeHistogram tracks the distribution of encoded record sizes in
// exponential buckets.
//
// Thread-safe: all methods are safe for concurrent use
type SizeHistogram struct {
	mutex   sync.RWMutex
	buckets []int64 // one per boundary plus overflow
	count   int64
	sum     int64
}

// NewSizeHistogram creates an empty histogram
func NewSizeHistogram() *SizeHistogram {
	return &SizeHistogram{buckets: make([]int64, len(sizeBoundaries)+1)}
}

// AddSample records one size in bytes
func (h *SizeHistogram) AddSample(size int) {
	i := len(sizeBoundaries)
	for j, boundary := range sizeBoundaries {
		if size <= boundary {
			i = j
			break
		}
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.buckets[i]++
	h.count++
	h.sum += int64(size)
}

// Count returns the number of samples
func (h *SizeHistogram) Count() int64 {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.count
}

// AverageSize returns the mean sample size
func (h *SizeHistogram) AverageSize() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	if h.count == 0 {
		return 0
	}
	return int(h.sum / h.count)
}

// Percentile estimates the given percentile (0-100) from the bucket bounds
func (h *SizeHistogram) Percentile(percentile int) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if h.count == 0 || percentile < 0 || percentile > 100 {
		return 0
	}

	target := int64(math.Ceil(float64(h.count) * float64(percentile) / 100.0))
	var cumulative int64
	for i, n := range h.buckets {
		cumulative += n
		if cumulative >= target {
			return bucketEstimate(i)
		}
	}
	return int(h.sum / h.count)
}

// Median estimates the median sample size
func (h *SizeHistogram) Median() int {
	return h.Percentile(50)
}

// Distribution returns the bucket bounds and the share of samples (in
// percent) per bucket; the last share belongs to the overflow bucket
func (h *SizeHistogram) Distribution() ([]int, []float64) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	shares := make([]float64, len(h.buckets))
	if h.count > 0 {
		for i, n := range h.buckets {
			shares[i] = float64(n) * 100.0 / float64(h.count)
		}
	}
	return sizeBoundaries, shares
}

// Reset drops all samples
func (h *SizeHistogram) Reset() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	clear(h.buckets)
	h.count, h.sum = 0, 0
}

// bucketEstimate returns a representative size for bucket i
func bucketEstimate(i int) int {
	switch {
	case i == 0:
		return sizeBoundaries[0] / 2
	case i < len(sizeBoundaries):
		return (sizeBoundaries[i-1] + sizeBoundaries[i]) / 2
	default:
		return sizeBoundaries[len(sizeBoundaries)-1] * 2
	}
}
