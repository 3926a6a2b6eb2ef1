package cli

import (
	"fmt"

	"github.com/Conceptual-Machines/note-gen/internal/theory"
	"github.com/spf13/cobra"
)

func newChordCmd(opts *rootOptions) *cobra.Command {
	var (
		inversion int
		symbol    string
		transpose int
		flats     bool
	)

	cmd := &cobra.Command{
		Use:   "chord [ROOT [QUALITY]]",
		Short: "Build a chord from a root and quality, or from a symbol",
		Long: `Build a chord and print its voicing with MIDI numbers.

Examples:
  notegen chord C maj7
  notegen chord E minor --inversion 1
  notegen chord --symbol F#m7/E
  notegen chord G 7 --transpose -2`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				chord theory.Chord
				err   error
			)
			switch {
			case symbol != "" && len(args) > 0:
				return fmt.Errorf("give either a root or --symbol, not both")
			case symbol != "":
				chord, err = theory.ParseChordSymbol(symbol, opts.octave)
			case len(args) > 0:
				chord, err = opts.chordArg(args[0], optionalArg(args, 1), inversion, flats)
			default:
				return fmt.Errorf("a root or --symbol is required")
			}
			if err != nil {
				return err
			}

			if transpose != 0 {
				if chord, err = chord.Transpose(transpose); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return writeJSON(out, chord.ToRecord())
			}
			_, err = fmt.Fprintf(out, "%s: %s %v\n", chord.Symbol(), noteNames(chord.Voicing()), chord.MIDINumbers())
			return err
		},
	}

	cmd.Flags().IntVarP(&inversion, "inversion", "i", 0, "inversion, 0 for root position")
	cmd.Flags().StringVarP(&symbol, "symbol", "s", "", "chord symbol such as Am7/G")
	cmd.Flags().IntVarP(&transpose, "transpose", "t", 0, "semitones to transpose by")
	cmd.Flags().BoolVar(&flats, "flats", false, "spell black keys with flats")
	return cmd
}

func (o *rootOptions) chordArg(root, quality string, inversion int, flats bool) (theory.Chord, error) {
	n, err := o.noteArg(root)
	if err != nil {
		return theory.Chord{}, err
	}
	q := theory.ChordMajor
	if quality != "" {
		if q, err = theory.ParseChordQuality(quality); err != nil {
			return theory.Chord{}, err
		}
	}
	policy := theory.PolicyForAccidental(n.Accidental())
	if flats {
		policy = theory.PreferFlats
	}
	return theory.BuildChord(n, q, inversion, theory.WithSpelling(policy))
}
