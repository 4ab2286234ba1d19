package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"

	"github.com/sprenkle/WinGuitar/ble"
	"github.com/sprenkle/WinGuitar/constants"
	"github.com/sprenkle/WinGuitar/guitar"
	"github.com/sprenkle/WinGuitar/library"
	"github.com/sprenkle/WinGuitar/midiin"
	"github.com/sprenkle/WinGuitar/model"
	"github.com/sprenkle/WinGuitar/session"
	"github.com/sprenkle/WinGuitar/util"
	"github.com/sprenkle/WinGuitar/verify"
)

var (
	practiceCollection string
	practiceChordsPath string
	practiceBLEAddr    string
	practiceMIDIPort   string
	practiceWindow     time.Duration
)

func init() {
	rootCmd.AddCommand(practiceCmd)
	practiceCmd.Flags().StringVarP(&practiceCollection, "collection", "c", "", "collection to practice (required)")
	practiceCmd.Flags().StringVar(&practiceChordsPath, "chords", constants.GetChordsPath(), "path to collections file")
	practiceCmd.Flags().StringVar(&practiceBLEAddr, "ble", "", "BLE device MAC address (e.g. AA:BB:CC:DD:EE:FF)")
	practiceCmd.Flags().StringVar(&practiceMIDIPort, "midi", "", "standard MIDI input port name (first port if empty)")
	practiceCmd.Flags().DurationVar(&practiceWindow, "window", constants.DebounceWindow, "strum quiescence window")
}

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Runs a practice session over a chord collection",
	Long:  `Runs a practice session over a chord collection, reading strikes from a BLE-MIDI guitar or a standard MIDI input.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return practice()
	},
}

func practice() error {
	lib, err := library.Load(practiceChordsPath)
	if err != nil {
		return err
	}

	if practiceCollection == "" {
		return fmt.Errorf("--collection is required; available: %v", lib.CollectionNames())
	}
	chords, ok := lib.Collection(practiceCollection)
	if !ok {
		return fmt.Errorf("collection %q not found; available: %v", practiceCollection, lib.CollectionNames())
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	done := make(chan struct{})
	sess := session.New(chords,
		session.WithWindow(practiceWindow),
		session.WithCallbacks(session.Callbacks{
			OnResult:   printResult,
			OnAdvance:  printTarget,
			OnComplete: func() { close(done) },
		}),
	)

	first, _ := sess.Current()
	printTarget(first)

	switch {
	case practiceBLEAddr != "":
		client, err := ble.NewClient(practiceBLEAddr)
		if err != nil {
			return err
		}
		defer client.Close()
		if err := client.Connect(); err != nil {
			return err
		}
		go func() {
			if err := client.Subscribe(ctx, sess.HandlePayload); err != nil && ctx.Err() == nil {
				slog.Error("BLE subscription ended", "err", err)
				cancel()
			}
		}()

	default:
		defer midi.CloseDriver()
		listener := midiin.NewListener(guitar.StandardTuning(), sess.Apply)
		if err := listener.Start(practiceMIDIPort); err != nil {
			return err
		}
		defer listener.Stop()
	}

	select {
	case <-done:
		fmt.Println("Collection complete, nice work!")
		return nil
	case <-ctx.Done():
		return nil
	}
}

func printTarget(chord model.TargetChord) {
	fmt.Printf("\nPlay: %s  %v\n", chord.Name, chord.Frets)
}

func printResult(target model.TargetChord, res verify.Result) {
	if res.OK() {
		fmt.Printf("%s correct!\n", target.Name)
		return
	}
	fmt.Printf("%s not quite (frets ok: %v, strings ok: %v)\n", target.Name, res.FretsMatched, res.StringsMatched)
	for _, s := range util.SortedKeys(res.Errors) {
		fmt.Printf("  - %s\n", res.Errors[s])
	}
}
