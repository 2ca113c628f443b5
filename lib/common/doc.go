// Package common provides the configuration and logging facilities shared
// by the packages and commands of dSeq.
//
// The package focuses on:
//   - Configuration structures for reading and writing serialized records
//   - Custom logging implementation integrated with Dragonboat's logger package
//
// Key Components:
//
//   - CodecConfig: Parameters for record codecs (element type, byte swapping,
//     legacy layout, compression) as populated by the command-line interface.
//
//   - Logger: Custom logging implementation registered as Dragonboat's logger
//     factory. Every package obtains its logger with GetLogger(name) and all
//     levels are adjusted at once with InitLoggers.
package common
