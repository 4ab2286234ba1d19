package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/sprenkle/WinGuitar/constants"
	"github.com/sprenkle/WinGuitar/guitar"
	"github.com/sprenkle/WinGuitar/library"
	"github.com/sprenkle/WinGuitar/model"
	"github.com/sprenkle/WinGuitar/verify"
)

var (
	serveChordsPath string
	serveAddr       string
)

var lib *library.Library

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveChordsPath, "chords", constants.GetChordsPath(), "path to collections file")
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the chord library and verifier over HTTP",
	Long:  `Serves the chord library and verifier over HTTP`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: msg})
}

func handleCollections(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(lib.CollectionNames())
}

func handleCollection(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	chords, ok := lib.Collection(name)
	if !ok {
		writeError(w, 404, fmt.Sprintf("collection %q not found", name))
		return
	}
	json.NewEncoder(w).Encode(chords)
}

func handleChord(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	chord, ok := lib.Chord(name)
	if !ok {
		writeError(w, 404, fmt.Sprintf("chord %q not found", name))
		return
	}
	json.NewEncoder(w).Encode(chord)
}

// handleVerify runs the chord verifier on a caller-supplied snapshot:
// per-string pressed frets plus the set of struck strings, against either
// a named chord or explicit target frets.
func handleVerify(w http.ResponseWriter, r *http.Request) {
	var input model.VerifyRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, 400, "could not parse request body: "+err.Error())
		return
	}

	var target model.TargetChord
	switch {
	case input.Chord != "":
		c, ok := lib.Chord(input.Chord)
		if !ok {
			writeError(w, 404, fmt.Sprintf("chord %q not found", input.Chord))
			return
		}
		target = c
	case len(input.Frets) == constants.NumStrings:
		target = library.NewTarget("custom", input.Frets)
	default:
		writeError(w, 400, fmt.Sprintf("need chord name or %d target frets", constants.NumStrings))
		return
	}

	if len(input.Pressed) != constants.NumStrings {
		writeError(w, 400, fmt.Sprintf("pressed must have %d entries", constants.NumStrings))
		return
	}

	state := guitar.NewState()
	for s, fret := range input.Pressed {
		state.PressFret(s, fret)
	}
	for _, s := range input.Struck {
		state.StrikeString(s, state.FretPressed(s))
	}

	res := verify.Verify(target, state)
	json.NewEncoder(w).Encode(model.VerifyResponse{
		FretsMatched:   res.FretsMatched,
		StringsMatched: res.StringsMatched,
		Errors:         res.Errors,
	})
}

func serve() error {
	var err error
	lib, err = library.Load(serveChordsPath)
	if err != nil {
		return err
	}

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/collections", handleCollections).Methods("GET")
	router.HandleFunc("/collections/{name}", handleCollection).Methods("GET")
	router.HandleFunc("/chords/{name}", handleChord).Methods("GET")
	router.HandleFunc("/verify", handleVerify).Methods("POST")

	handler := cors.Default().Handler(router)
	log.Fatal(http.ListenAndServe(serveAddr, handler))
	return nil
}
