// Package cmd implements the command-line interface of dSeq. It provides a
// hierarchical command structure for working with sequence records.
//
// The package is organized into several subpackages:
//
//   - record: Commands to encode, decode, skip and query records and to run performance tests
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See dseq -help for a list of all commands.
package cmd
