package util

import (
	"fmt"
	"github.com/ValentinKolb/dSeq/lib/common"
	"github.com/ValentinKolb/dSeq/lib/stream"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"strings"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		if lineWidth > 0 && lineWidth+1+len(word) > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}
		currentLine.WriteString(word)
		lineWidth += len(word)
	}
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupCodecFlags adds the record format flags to a command
func SetupCodecFlags(cmd *cobra.Command) {
	key := "type"
	cmd.PersistentFlags().String(key, "int32", WrapString("Element type of the record (int8, uint8, int16, uint16, int32, uint32, int64, uint64, float32, float64, text, ptext)"))

	key = "legacy"
	cmd.PersistentFlags().Bool(key, false, WrapString("Use the capacity-prefixed legacy record layout"))
}

// InitConfig loads .env files and maps DSEQ_* environment variables onto flags
func InitConfig() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	viper.SetEnvPrefix("dseq")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// GetCodecConfig reads the codec configuration from viper
func GetCodecConfig() *common.CodecConfig {
	return &common.CodecConfig{
		ElementType: viper.GetString("type"),
		Swap:        viper.GetBool("swap"),
		Legacy:      viper.GetBool("legacy"),
		Compression: viper.GetString("compression"),
		LogLevel:    viper.GetString("log-level"),
		DumpMetrics: viper.GetBool("metrics"),
	}
}

// GetCompressor creates the stream compressor named in the configuration
func GetCompressor() (stream.ICompressor, error) {
	c, err := stream.CompressorByName(viper.GetString("compression"))
	if err != nil {
		return nil, fmt.Errorf("invalid compression %s: %w", viper.GetString("compression"), err)
	}
	return c, nil
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}
