package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sprenkle/WinGuitar/blemidi"
	"github.com/sprenkle/WinGuitar/guitar"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <hex-payload>",
	Short: "Decodes a BLE-MIDI payload given as hex",
	Long:  `Decodes a BLE-MIDI notification payload given as hex (e.g. "0000 92 3c 64") and prints the events it contains.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("need a hex payload argument")
		}
		return inspect(strings.Join(args, ""))
	},
}

func inspect(hexStr string) error {
	hexStr = strings.ReplaceAll(hexStr, " ", "")
	payload, err := hex.DecodeString(hexStr)
	if err != nil {
		return fmt.Errorf("bad hex payload: %w", err)
	}

	decoder := blemidi.NewDecoder(guitar.StandardTuning())
	events, reason := decoder.Decode(payload)

	fmt.Printf("payload: % x (%d bytes)\n", payload, len(payload))
	for i, ev := range events {
		fmt.Printf("  [%d] %s\n", i, ev.Format())
	}
	fmt.Printf("events: %d, stop: %v\n", len(events), reason)
	return nil
}
