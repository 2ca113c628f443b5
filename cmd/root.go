package cmd

import (
	"fmt"
	"github.com/ValentinKolb/dSeq/cmd/record"
	"github.com/ValentinKolb/dSeq/cmd/util"
	"github.com/ValentinKolb/dSeq/lib/common"
	"github.com/VictoriaMetrics/metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
)

const (
	Version = "1.0.0"
)

var (
	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "dseq",
		Short: "inspect and produce sequence records",
		Long: fmt.Sprintf(`dSeq (v%s)

A toolkit for generic sequence containers written in Go: encode and decode
binary sequence records, answer order statistic queries without sorting and
measure container performance.`, Version),
		PersistentPreRunE:  setupRoot,
		PersistentPostRunE: dumpMetrics,
		SilenceUsage:       true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dSeq",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dSeq v%s\n", Version)
		},
	}
)

func init() {
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(record.RecordCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "compression"
	RootCmd.PersistentFlags().String(key, "none", util.WrapString("compression of record files (none, zstd, lz4, snappy)"))
	key = "swap"
	RootCmd.PersistentFlags().Bool(key, false, util.WrapString("reverse multi-byte fields on read (records from a machine of the opposite endianness)"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "warn", util.WrapString("log level (debug, info, warn, error)"))
	key = "metrics"
	RootCmd.PersistentFlags().Bool(key, false, util.WrapString("print the collected metrics in prometheus format to stderr when done"))
}

// setupRoot binds the persistent flags and configures the loggers
func setupRoot(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
		return err
	}
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	return common.InitLoggers(viper.GetString("log-level"))
}

func dumpMetrics(_ *cobra.Command, _ []string) error {
	if viper.GetBool("metrics") {
		metrics.WritePrometheus(os.Stderr, false)
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
