package common

import (
	"fmt"
	"strings"
)

// --------------------------------------------------------------------------
// Codec configuration struct
// --------------------------------------------------------------------------

// CodecConfig holds the parameters used to read and write serialized records.
type CodecConfig struct {
	// ElementType names the element layout of a record (e.g. int32, float64, text, ptext)
	ElementType string

	// Swap reverses the bytes of every multi-byte field on read.
	// Set it when the record was written on a machine of the opposite endianness.
	Swap bool

	// Legacy selects the capacity-prefixed record layout
	Legacy bool

	// Compression names the stream compressor (none, zstd, lz4, snappy)
	Compression string

	// Logging configuration
	LogLevel string

	// DumpMetrics prints the collected metrics in prometheus format after a command
	DumpMetrics bool
}

// String returns a formatted string representation of the configuration
func (c *CodecConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Record Format")
	addField("Element Type", c.ElementType)
	addField("Legacy Layout", fmt.Sprintf("%t", c.Legacy))
	addField("Swap Bytes", fmt.Sprintf("%t", c.Swap))

	addSection("Stream")
	addField("Compression", c.Compression)

	addSection("Logging")
	addField("Log Level", c.LogLevel)
	addField("Dump Metrics", fmt.Sprintf("%t", c.DumpMetrics))

	return sb.String()
}
