package record

import (
	"github.com/ValentinKolb/dSeq/cmd/util"
	"github.com/ValentinKolb/dSeq/lib/common"
	"github.com/spf13/cobra"
)

var (
	// Logger is shared by all record commands
	Logger = common.GetLogger("cmd")

	// RecordCommands represents the record command group
	RecordCommands = &cobra.Command{
		Use:   "record",
		Short: "Encode, decode and query sequence records",
	}
)

func init() {
	// Add the record format flags to the group
	util.SetupCodecFlags(RecordCommands)

	// Add subcommands
	RecordCommands.AddCommand(encodeCmd)
	RecordCommands.AddCommand(decodeCmd)
	RecordCommands.AddCommand(nthCmd)
	RecordCommands.AddCommand(medianCmd)
	RecordCommands.AddCommand(skipCmd)
	RecordCommands.AddCommand(perfTestCmd)
}
