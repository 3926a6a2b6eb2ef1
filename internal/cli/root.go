// Package cli implements the notegen command line tool on top of the theory
// and progression packages.
package cli

import (
	"encoding/json"
	"io"
	"strings"
	"unicode"

	"github.com/Conceptual-Machines/note-gen/internal/theory"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	json   bool
	octave int
}

// NewRootCmd builds a fresh command tree so tests can run it in isolation.
func NewRootCmd(version string) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "notegen",
		Short: "Music theory toolkit: notes, scales, chords, roman numerals and progressions",
		Long: `notegen spells notes, builds scales and chords, analyses roman numerals
and generates chord progressions and the note sequences played over them.

Examples:
  notegen note Eb4 --transpose 3
  notegen scale D dorian
  notegen chord --symbol Am7/G
  notegen roman V7/V --key C
  notegen progression --key G --pattern pop
  notegen sequence --key G --pattern pop --note-pattern arpeggio`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&opts.json, "json", false, "print records as JSON")
	rootCmd.PersistentFlags().IntVar(&opts.octave, "octave", theory.DefaultOctave, "octave used when a note omits one")

	rootCmd.AddCommand(
		newNoteCmd(opts),
		newScaleCmd(opts),
		newChordCmd(opts),
		newRomanCmd(opts),
		newProgressionCmd(opts),
		newSequenceCmd(opts),
	)
	return rootCmd
}

// noteArg parses a note token, placing it in the default octave when the
// token does not name one.
func (o *rootOptions) noteArg(token string) (theory.Note, error) {
	token = strings.TrimSpace(token)
	n, err := theory.ParseNote(token)
	if err != nil {
		return theory.Note{}, err
	}
	if unicode.IsDigit(rune(token[len(token)-1])) {
		return n, nil
	}
	return theory.NewNote(n.Letter(), n.Accidental(), o.octave)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func noteNames(notes []theory.Note) string {
	names := make([]string, len(notes))
	for i, n := range notes {
		names[i] = n.String()
	}
	return strings.Join(names, " ")
}

func spellingFlag(flats bool) theory.SpellingPolicy {
	if flats {
		return theory.PreferFlats
	}
	return theory.PreferSharps
}
