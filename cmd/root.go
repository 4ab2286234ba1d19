package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var debugFlag bool

var rootCmd = &cobra.Command{
	Use:   "winguitar",
	Short: "Guitar chord practice for BLE-MIDI guitar controllers",
	Long:  `Practice chords against an Aeroband-style BLE-MIDI guitar controller or any standard MIDI input.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger(debugFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
}

// initLogger configures the shared slog logger and calls slog.SetDefault so
// the stdlib log package also routes through the same handler.
func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	slog.SetDefault(slog.New(h))
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
