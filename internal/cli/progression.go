package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/Conceptual-Machines/note-gen/internal/progression"
	"github.com/spf13/cobra"
)

type progressionFlags struct {
	key          string
	scaleQuality string
	pattern      string
	numerals     string
	degrees      []int
	random       int
	seed         uint64
	maxLength    int
	list         bool
}

func newProgressionCmd(opts *rootOptions) *cobra.Command {
	f := &progressionFlags{}

	cmd := &cobra.Command{
		Use:   "progression",
		Short: "Generate a chord progression in a key",
		Long: `Generate a chord progression from exactly one of a named pattern,
a numeral string, scale degrees or a random length.

Examples:
  notegen progression --key G --pattern pop
  notegen progression --key F --numerals "ii7-V7-Imaj7"
  notegen progression --key A --scale minor --degrees 1,4,5
  notegen progression --key D --random 8 --seed 42
  notegen progression --list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if f.list {
				if opts.json {
					return writeJSON(out, progression.Patterns())
				}
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				for _, p := range progression.Patterns() {
					fmt.Fprintf(tw, "%s\t%s\t%v\n", p.Name, p.Alias, p.Numerals)
				}
				return tw.Flush()
			}

			prog, err := opts.generate(cmd, f)
			if err != nil {
				return err
			}

			if opts.json {
				return writeJSON(out, struct {
					Name     string      `json:"name"`
					Key      string      `json:"key"`
					Numerals []string    `json:"numerals"`
					Chords   interface{} `json:"chords"`
				}{prog.Name, prog.Scale.String(), prog.Numerals, prog.Records()})
			}

			fmt.Fprintf(out, "%s in %s\n", prog.Name, prog.Scale)
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for i, chord := range prog.Chords {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", prog.Numerals[i], chord.Symbol(), noteNames(chord.Voicing()))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&f.key, "key", "k", "C", "tonic of the key")
	cmd.Flags().StringVar(&f.scaleQuality, "scale", "", "scale quality of the key (default major)")
	cmd.Flags().StringVarP(&f.pattern, "pattern", "p", "", "named pattern or alias, e.g. pop or ii-V-I")
	cmd.Flags().StringVarP(&f.numerals, "numerals", "n", "", `numerals separated by "-", "," or spaces`)
	cmd.Flags().IntSliceVarP(&f.degrees, "degrees", "d", nil, "scale degrees, e.g. 1,4,5")
	cmd.Flags().IntVarP(&f.random, "random", "r", 0, "generate a random progression of this length")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "seed for --random")
	cmd.Flags().IntVar(&f.maxLength, "max-length", progression.DefaultMaxLength, "longest progression allowed")
	cmd.Flags().BoolVar(&f.list, "list", false, "list named patterns")
	return cmd
}

func (o *rootOptions) generate(cmd *cobra.Command, f *progressionFlags) (*progression.ChordProgression, error) {
	set := 0
	for _, name := range []string{"pattern", "numerals", "degrees", "random"} {
		if cmd.Flags().Changed(name) {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("%w: give exactly one of --pattern, --numerals, --degrees or --random", progression.ErrInvalidPattern)
	}

	scale, err := o.scaleArg(f.key, f.scaleQuality, false)
	if err != nil {
		return nil, err
	}

	genOpts := []progression.Option{progression.WithMaxLength(f.maxLength)}
	if cmd.Flags().Changed("seed") {
		genOpts = append(genOpts, progression.WithSeed(f.seed))
	}
	gen := progression.NewGenerator(scale, genOpts...)

	switch {
	case f.pattern != "":
		return gen.FromPattern(f.pattern)
	case f.numerals != "":
		return gen.FromString(f.numerals)
	case len(f.degrees) > 0:
		return gen.Custom(f.degrees, nil)
	default:
		return gen.Random(f.random)
	}
}
