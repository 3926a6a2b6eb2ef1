package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/Conceptual-Machines/note-gen/internal/progression"
	"github.com/spf13/cobra"
)

type sequenceFlags struct {
	progressionFlags
	notePattern string
	offsets     []int
	mode        string
	direction   string
	duration    float64
	velocity    int
}

func newSequenceCmd(opts *rootOptions) *cobra.Command {
	f := &sequenceFlags{}

	cmd := &cobra.Command{
		Use:   "sequence",
		Short: "Play a note pattern over a generated chord progression",
		Long: `Generate a progression exactly as the progression command does, then
play a note pattern over each chord. Give a built-in --note-pattern or
inline --offsets with a --mode of scale, interval or chord_tone.

Examples:
  notegen sequence --key C --pattern pop --note-pattern arpeggio
  notegen sequence --key F --numerals "ii-V-I" --note-pattern ascending_scale
  notegen sequence --key A --scale minor --degrees 1,4 --offsets 0,2,4 --direction alternating
  notegen sequence --list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if f.list {
				if opts.json {
					return writeJSON(out, progression.NotePatterns())
				}
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				for _, p := range progression.NotePatterns() {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%v\n", p.Name, p.Mode, p.Direction, p.Offsets)
				}
				return tw.Flush()
			}

			pattern, err := f.notePatternFor(cmd)
			if err != nil {
				return err
			}
			prog, err := opts.generate(cmd, &f.progressionFlags)
			if err != nil {
				return err
			}
			seq, err := progression.GenerateSequence(prog, pattern)
			if err != nil {
				return err
			}

			if opts.json {
				return writeJSON(out, struct {
					Progression string      `json:"progression"`
					Key         string      `json:"key"`
					Pattern     interface{} `json:"pattern"`
					Notes       interface{} `json:"notes"`
					ChordIndex  []int       `json:"chord_index"`
				}{prog.Name, prog.Scale.String(), seq.Pattern, seq.Records(), seq.Chords})
			}

			fmt.Fprintf(out, "%s over %s in %s\n", seq.Pattern.Name, prog.Name, prog.Scale)
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for i, chord := range prog.Chords {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", prog.Numerals[i], chord.Symbol(), noteNames(seq.ForChord(i)))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&f.key, "key", "k", "C", "tonic of the key")
	cmd.Flags().StringVar(&f.scaleQuality, "scale", "", "scale quality of the key (default major)")
	cmd.Flags().StringVarP(&f.pattern, "pattern", "p", "", "named progression pattern or alias")
	cmd.Flags().StringVarP(&f.numerals, "numerals", "n", "", `numerals separated by "-", "," or spaces`)
	cmd.Flags().IntSliceVarP(&f.degrees, "degrees", "d", nil, "scale degrees, e.g. 1,4,5")
	cmd.Flags().IntVarP(&f.random, "random", "r", 0, "generate a random progression of this length")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "seed for --random")
	cmd.Flags().IntVar(&f.maxLength, "max-length", progression.DefaultMaxLength, "longest progression allowed")
	cmd.Flags().BoolVar(&f.list, "list", false, "list built-in note patterns")

	cmd.Flags().StringVarP(&f.notePattern, "note-pattern", "P", "", "built-in note pattern, e.g. arpeggio")
	cmd.Flags().IntSliceVar(&f.offsets, "offsets", nil, "inline pattern offsets, e.g. 0,2,4")
	cmd.Flags().StringVar(&f.mode, "mode", string(progression.ModeScale), "what inline offsets count: scale, interval or chord_tone")
	cmd.Flags().StringVar(&f.direction, "direction", "", "up, down or alternating")
	cmd.Flags().Float64Var(&f.duration, "duration", 0, "note duration in beats (default 1)")
	cmd.Flags().IntVar(&f.velocity, "velocity", 0, "note velocity (default 64)")
	return cmd
}

func (f *sequenceFlags) notePatternFor(cmd *cobra.Command) (progression.NotePattern, error) {
	named, inline := cmd.Flags().Changed("note-pattern"), cmd.Flags().Changed("offsets")
	if named == inline {
		return progression.NotePattern{}, fmt.Errorf("%w: give exactly one of --note-pattern or --offsets", progression.ErrInvalidNotePattern)
	}

	var pattern progression.NotePattern
	if named {
		var err error
		if pattern, err = progression.LookupNotePattern(f.notePattern); err != nil {
			return pattern, err
		}
	} else {
		pattern = progression.NotePattern{Name: "custom", Offsets: f.offsets, Mode: progression.PatternMode(f.mode)}
	}

	if f.direction != "" {
		pattern.Direction = progression.Direction(f.direction)
	}
	if cmd.Flags().Changed("duration") {
		pattern.Duration = f.duration
	}
	if cmd.Flags().Changed("velocity") {
		pattern.Velocity = f.velocity
	}
	if err := pattern.Validate(); err != nil {
		return progression.NotePattern{}, err
	}
	return pattern, nil
}
