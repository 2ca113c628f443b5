package record

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"github.com/ValentinKolb/dSeq/cmd/util"
	"github.com/ValentinKolb/dSeq/lib/common"
	"github.com/ValentinKolb/dSeq/lib/elements"
	"github.com/ValentinKolb/dSeq/lib/stream"
	libutil "github.com/ValentinKolb/dSeq/lib/util"
	"github.com/ValentinKolb/dSeq/lib/vector"
	"github.com/puzpuzpuz/xsync/v3"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"math"
	"math/rand/v2"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for sequence containers and record codecs",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfNumThreads = 4
	perfSize       = 10_000
	perfSeed       uint64
	perfSkip       = make([]string, 0)
)

// perfTests lists the tests in execution order
var perfTests = []string{"push", "sort", "select", "binary-search", "serialize", "deserialize", "pointer-roundtrip"}

func init() {
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Tests to skip (comma separated - e.g. sort,select)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 4, util.WrapString("Number of goroutines per test, each works on its own vector"))
	key = "size"
	perfTestCmd.Flags().Int(key, 10_000, util.WrapString("Number of elements of every prepared vector"))
	key = "seed"
	perfTestCmd.Flags().Uint64(key, 0, util.WrapString("Seed for the generated values (0 = random)"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	perfNumThreads = viper.GetInt("threads")
	perfSize = viper.GetInt("size")
	perfSkip = strings.Split(viper.GetString("skip"), ",")
	perfSeed = viper.GetUint64("seed")
	if perfSeed == 0 {
		perfSeed = libutil.GenerateSeed()
	}

	if perfNumThreads < 1 || perfSize < 1 {
		return fmt.Errorf("threads and size must be positive")
	}
	return nil
}

// perfResult holds everything measured for one test
type perfResult struct {
	bench   testing.BenchmarkResult
	latency gometrics.Histogram    // per operation, in ns
	balance libutil.BalanceStats   // operations per worker
	sizes   *libutil.SizeHistogram // encoded bytes, codec tests only
}

// perfEnv is shared by the workers of one test
type perfEnv struct {
	name      string
	latency   gometrics.Histogram
	workerOps *xsync.MapOf[int, int64]
	nextID    atomic.Int64
	sizes     *libutil.SizeHistogram
}

// worker registers a worker and returns its id and a seeded random source
func (e *perfEnv) worker() (int, *rand.Rand) {
	id := int(e.nextID.Add(1))
	return id, rand.New(rand.NewPCG(libutil.DeriveSeed(perfSeed, e.name), uint64(id)))
}

func (e *perfEnv) reset() {
	e.latency.Clear()
	e.workerOps.Clear()
	e.nextID.Store(0)
	e.sizes.Reset()
}

// timed runs op and records its latency
func (e *perfEnv) timed(op func()) {
	start := time.Now()
	op()
	e.latency.Update(time.Since(start).Nanoseconds())
}

// done adds the operation count of a worker
func (e *perfEnv) done(id int, ops int64) {
	e.workerOps.Compute(id, func(old int64, _ bool) (int64, bool) {
		return old + ops, false
	})
}

func runPerf(_ *cobra.Command, _ []string) error {
	config := util.GetCodecConfig()
	compressor, err := util.GetCompressor()
	if err != nil {
		return err
	}

	fmt.Println("Performance testing tool for dSeq containers")

	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(config.String())
	fmt.Printf("Threads: %d, Size: %d, Seed: %d\n", perfNumThreads, perfSize, perfSeed)
	fmt.Println()

	fmt.Println("starting tests...")

	registry := gometrics.NewRegistry()
	results := make(map[string]perfResult)

	for _, name := range perfTests {
		if shouldSkip(name) {
			results[name] = perfResult{}
			printResult(name, perfResult{})
			continue
		}

		env := &perfEnv{
			name:      name,
			latency:   gometrics.GetOrRegisterHistogram("dseq.perf."+name, registry, gometrics.NewExpDecaySample(1028, 0.015)),
			workerOps: xsync.NewMapOf[int, int64](),
			sizes:     libutil.NewSizeHistogram(),
		}
		bench := testing.Benchmark(func(b *testing.B) {
			// only the last (largest) round is kept
			env.reset()
			benchmarks[name](b, env, compressor)
		})

		var perWorker []float64
		env.workerOps.Range(func(_ int, ops int64) bool {
			perWorker = append(perWorker, float64(ops))
			return true
		})

		result := perfResult{
			bench:   bench,
			latency: env.latency,
			balance: libutil.NewBalanceStats(perWorker),
		}
		if env.sizes.Count() > 0 {
			result.sizes = env.sizes
		}
		results[name] = result
		printResult(name, result)
	}

	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, config); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Benchmarks
// --------------------------------------------------------------------------

type perfBenchmark func(b *testing.B, env *perfEnv, compressor stream.ICompressor)

var benchmarks = map[string]perfBenchmark{
	"push": func(b *testing.B, env *perfEnv, _ stream.ICompressor) {
		runParallel(b, env, func(rng *rand.Rand) func() {
			v := vector.NewOrdered[float64]()
			return func() {
				v.PushBack(rng.Float64())
				if v.Len() == perfSize {
					v.Clear()
				}
			}
		})
	},

	"sort": func(b *testing.B, env *perfEnv, _ stream.ICompressor) {
		runParallel(b, env, func(rng *rand.Rand) func() {
			base := randomValues(rng, perfSize)
			return func() {
				v := base.Clone()
				v.Sort()
			}
		})
	},

	"select": func(b *testing.B, env *perfEnv, _ stream.ICompressor) {
		runParallel(b, env, func(rng *rand.Rand) func() {
			base := randomValues(rng, perfSize)
			return func() {
				v := base.Clone()
				v.ChooseNthItemRand(perfSize/2, rng)
			}
		})
	},

	"binary-search": func(b *testing.B, env *perfEnv, _ stream.ICompressor) {
		runParallel(b, env, func(rng *rand.Rand) func() {
			v := randomValues(rng, perfSize)
			v.Sort()
			return func() {
				v.BoolBinarySearch(rng.Float64())
			}
		})
	},

	"serialize": func(b *testing.B, env *perfEnv, compressor stream.ICompressor) {
		runParallel(b, env, func(rng *rand.Rand) func() {
			v := randomValues(rng, perfSize)
			var buf bytes.Buffer
			return func() {
				buf.Reset()
				if err := encodeWith(compressor, &buf, v.Serialize); err != nil {
					Logger.Errorf("(serialize) - %v", err)
				}
				env.sizes.AddSample(buf.Len())
			}
		})
	},

	"deserialize": func(b *testing.B, env *perfEnv, compressor stream.ICompressor) {
		runParallel(b, env, func(rng *rand.Rand) func() {
			var buf bytes.Buffer
			if err := encodeWith(compressor, &buf, randomValues(rng, perfSize).Serialize); err != nil {
				Logger.Errorf("(deserialize) - %v", err)
			}
			data := buf.Bytes()
			v := vector.NewOrdered[float64]()
			return func() {
				err := decodeWith(compressor, data, v.DeSerialize)
				if err != nil {
					Logger.Errorf("(deserialize) - %v", err)
				}
			}
		})
	},

	"pointer-roundtrip": func(b *testing.B, env *perfEnv, compressor stream.ICompressor) {
		runParallel(b, env, func(rng *rand.Rand) func() {
			src := vector.NewPointerVector(elements.CompareText)
			for i := 0; i < perfSize; i++ {
				if rng.IntN(10) == 0 {
					src.PushBack(nil)
					continue
				}
				src.PushBack(elements.NewText(strconv.FormatUint(rng.Uint64(), 36)))
			}
			dst := vector.NewPointerVector(elements.CompareText)
			var buf bytes.Buffer
			return func() {
				buf.Reset()
				err := encodeWith(compressor, &buf, func(w *stream.Writer) error {
					return vector.SerializePointers(src, w)
				})
				if err == nil {
					env.sizes.AddSample(buf.Len())
					err = decodeWith(compressor, buf.Bytes(), func(r *stream.Reader) error {
						return vector.DeSerializePointers(dst, r)
					})
				}
				if err != nil {
					Logger.Errorf("(pointer-roundtrip) - %v", err)
				}
			}
		})
	},
}

// runParallel runs the operation built by setup on every worker
func runParallel(b *testing.B, env *perfEnv, setup func(rng *rand.Rand) func()) {
	b.SetParallelism(perfNumThreads)
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		id, rng := env.worker()
		op := setup(rng)

		var ops int64
		for pb.Next() {
			env.timed(op)
			ops++
		}
		env.done(id, ops)
	})
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// randomValues creates a vector of n uniform values
func randomValues(rng *rand.Rand, n int) *vector.Vector[float64, vector.Borrowed[float64]] {
	v := vector.NewSized[float64, vector.Borrowed[float64]](vector.Ordered[float64](), n)
	for i := 0; i < n; i++ {
		v.PushBack(rng.Float64())
	}
	return v
}

func encodeWith(compressor stream.ICompressor, buf *bytes.Buffer, fn func(w *stream.Writer) error) error {
	cw, err := compressor.NewWriter(buf)
	if err != nil {
		return err
	}
	if err := fn(stream.NewWriter(cw)); err != nil {
		return err
	}
	return cw.Close()
}

func decodeWith(compressor stream.ICompressor, data []byte, fn func(r *stream.Reader) error) error {
	cr, err := compressor.NewReader(bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer cr.Close()
	return fn(stream.NewReader(cr, false))
}

func shouldSkip(test string) bool {
	return slices.Contains(perfSkip, test)
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result perfResult) {
	if result.bench.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.bench.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\tp99=%s\tbalance=%.2f\n",
		test, nsPerOp, time.Duration(nsPerOp), opsPerSec,
		time.Duration(result.latency.Percentile(0.99)), result.balance.Balance)

	if result.sizes != nil {
		fmt.Printf("%-20savg=%dB median=%dB p99=%dB\n", "", result.sizes.AverageSize(), result.sizes.Median(), result.sizes.Percentile(99))
	}
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]perfResult, config *common.CodecConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped",
		"P50Ns", "P99Ns", "Balance", "AvgRecordBytes",
		"Compression", "Threads", "Size", "Seed",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	for _, test := range perfTests {
		result := results[test]

		var nsPerOp, opsPerSec, p50, p99 float64
		var avgSize int
		skipped := "true"
		if result.bench.NsPerOp() != 0 {
			skipped = "false"
			nsPerOp = math.Max(float64(result.bench.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
			p50 = result.latency.Percentile(0.5)
			p99 = result.latency.Percentile(0.99)
		}
		if result.sizes != nil {
			avgSize = result.sizes.AverageSize()
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			skipped,
			fmt.Sprintf("%.0f", p50),
			fmt.Sprintf("%.0f", p99),
			fmt.Sprintf("%.3f", result.balance.Balance),
			strconv.Itoa(avgSize),
			config.Compression,
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfSize),
			strconv.FormatUint(perfSeed, 10),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
