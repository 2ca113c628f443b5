package record

import (
	"bufio"
	"fmt"
	"github.com/ValentinKolb/dSeq/cmd/util"
	"github.com/ValentinKolb/dSeq/lib/stream"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"io"
	"os"
	"strconv"
)

var (
	encodeCmd = &cobra.Command{
		Use:   "encode [values...]",
		Short: "Encodes the given values as one record",
		Long: `Encodes the given values as one record of --type and writes it to --out
(stdout if unset). For ptext records the value <nil> produces an empty slot.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := codecByName(viper.GetString("type"))
			if err != nil {
				return err
			}
			return withRecordWriter(viper.GetString("out"), func(w *stream.Writer) error {
				if err := codec.Encode(w, args, viper.GetBool("legacy")); err != nil {
					return err
				}
				Logger.Infof("encoded %d values into %d bytes", len(args), w.Offset())
				return nil
			})
		},
	}
	decodeCmd = &cobra.Command{
		Use:   "decode [file]",
		Short: "Prints the elements of every record in a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := codecByName(viper.GetString("type"))
			if err != nil {
				return err
			}
			return withRecordReader(args[0], func(r *stream.Reader) error {
				for n := 0; ; n++ {
					start := r.Offset()
					values, err := codec.Decode(r, viper.GetBool("legacy"))
					if err != nil {
						// clean end of file between records
						if r.Offset() == start && errors.Is(err, stream.ErrShortRead) {
							return nil
						}
						return fmt.Errorf("record %d: %w", n, err)
					}
					fmt.Printf("record=%d, count=%d\n", n, len(values))
					for i, v := range values {
						fmt.Printf("  [%d] %s\n", i, v)
					}
				}
			})
		},
	}
	nthCmd = &cobra.Command{
		Use:   "nth [file] [k]",
		Short: "Prints the k-th smallest element of the first record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("k must be a number: %w", err)
			}
			return printNth(args[0], func(int) int { return k })
		},
	}
	medianCmd = &cobra.Command{
		Use:   "median [file]",
		Short: "Prints the median element of the first record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printNth(args[0], func(n int) int { return n / 2 })
		},
	}
	skipCmd = &cobra.Command{
		Use:   "skip [file]",
		Short: "Skips the first record and reports where the next one starts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := codecByName(viper.GetString("type"))
			if err != nil {
				return err
			}
			return withRecordReader(args[0], func(r *stream.Reader) error {
				if err := codec.Skip(r, viper.GetBool("legacy")); err != nil {
					return err
				}
				fmt.Printf("skipped=%d bytes, more=%t\n", r.Offset(), !atEOF(r))
				return nil
			})
		},
	}
)

func init() {
	encodeCmd.Flags().String("out", "", util.WrapString("File to write the record to (default stdout)"))
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// printNth prints the element of rank rank(len) of the first record
func printNth(path string, rank func(n int) int) error {
	codec, err := codecByName(viper.GetString("type"))
	if err != nil {
		return err
	}
	return withRecordReader(path, func(r *stream.Reader) error {
		value, n, err := codec.Nth(r, viper.GetBool("legacy"), rank)
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Println("record is empty")
			return nil
		}
		fmt.Printf("count=%d, value=%s\n", n, value)
		return nil
	})
}

// withRecordWriter opens path (or stdout) with the configured compression
func withRecordWriter(path string, fn func(w *stream.Writer) error) (err error) {
	compressor, err := util.GetCompressor()
	if err != nil {
		return err
	}

	if path == "" {
		return writeRecord(os.Stdout, compressor, fn)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	return writeRecord(file, compressor, fn)
}

// writeRecord runs fn on a compressing, buffered writer over out.
// The compressing writer is closed on every path.
func writeRecord(out io.Writer, compressor stream.ICompressor, fn func(w *stream.Writer) error) error {
	buffered := bufio.NewWriter(out)
	cw, err := compressor.NewWriter(buffered)
	if err != nil {
		return err
	}
	if err := fn(stream.NewWriter(cw)); err != nil {
		_ = cw.Close()
		return err
	}
	if err := cw.Close(); err != nil {
		return err
	}
	return buffered.Flush()
}

// withRecordReader opens path with the configured compression and swap flag
func withRecordReader(path string, fn func(r *stream.Reader) error) error {
	compressor, err := util.GetCompressor()
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	cr, err := compressor.NewReader(bufio.NewReader(file))
	if err != nil {
		return err
	}
	defer cr.Close()

	return fn(stream.NewReader(cr, viper.GetBool("swap")))
}

// atEOF reports whether the reader has no bytes left
func atEOF(r *stream.Reader) bool {
	_, err := r.ReadUint8()
	return err != nil
}
