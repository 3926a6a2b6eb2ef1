package cli

import (
	"fmt"

	"github.com/Conceptual-Machines/note-gen/internal/theory"
	"github.com/spf13/cobra"
)

func newNoteCmd(opts *rootOptions) *cobra.Command {
	var (
		midi      int
		transpose int
		flats     bool
	)

	cmd := &cobra.Command{
		Use:   "note [NOTE]",
		Short: "Spell a note, optionally from a MIDI number or transposed",
		Long: `Spell a note and show its MIDI number, pitch class and enharmonic.

Examples:
  notegen note C#4
  notegen note --midi 61 --flats
  notegen note Bb3 --transpose 2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				n   theory.Note
				err error
			)
			switch {
			case cmd.Flags().Changed("midi"):
				if len(args) > 0 {
					return fmt.Errorf("give either a note or --midi, not both")
				}
				n, err = theory.FromMIDIWithPolicy(midi, spellingFlag(flats))
			case len(args) == 1:
				n, err = opts.noteArg(args[0])
			default:
				return fmt.Errorf("a note or --midi is required")
			}
			if err != nil {
				return err
			}

			if transpose != 0 {
				policy := theory.PolicyForAccidental(n.Accidental())
				if cmd.Flags().Changed("flats") {
					policy = spellingFlag(flats)
				}
				if n, err = n.TransposeWithPolicy(transpose, policy); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return writeJSON(out, n.ToRecord())
			}
			_, err = fmt.Fprintf(out, "%s  midi=%d  pitch_class=%d  enharmonic=%s\n",
				n, n.MIDI(), n.PitchClass(), n.Enharmonic())
			return err
		},
	}

	cmd.Flags().IntVar(&midi, "midi", 0, "spell this MIDI number instead of parsing a note")
	cmd.Flags().IntVarP(&transpose, "transpose", "t", 0, "semitones to transpose by")
	cmd.Flags().BoolVar(&flats, "flats", false, "spell black keys with flats")
	return cmd
}
