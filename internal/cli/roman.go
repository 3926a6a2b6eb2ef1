package cli

import (
	"fmt"

	"github.com/Conceptual-Machines/note-gen/internal/theory"
	"github.com/spf13/cobra"
)

func newRomanCmd(opts *rootOptions) *cobra.Command {
	var key, scaleQuality string

	cmd := &cobra.Command{
		Use:   "roman NUMERAL",
		Short: "Analyse a roman numeral, resolving it in a key when one is given",
		Long: `Analyse a roman numeral. With --key the numeral is resolved to its
root note and chord.

Examples:
  notegen roman viio7
  notegen roman V7/V --key C
  notegen roman bVI --key A --scale minor`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rn, err := theory.ParseRomanNumeral(args[0])
			if err != nil {
				return err
			}
			if key != "" {
				scale, err := opts.scaleArg(key, scaleQuality, false)
				if err != nil {
					return err
				}
				rn = rn.Bind(scale)
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return writeJSON(out, rn.ToRecord())
			}

			fmt.Fprintf(out, "%s  degree=%d  quality=%s  inversion=%d\n", rn, rn.Degree(), rn.Quality(), rn.Inversion())
			scale, bound := rn.Scale()
			if !bound {
				return nil
			}
			chord, err := rn.Chord()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "in %s: %s %s\n", scale, chord.Symbol(), noteNames(chord.Voicing()))
			return err
		},
	}

	cmd.Flags().StringVarP(&key, "key", "k", "", "tonic of the key, e.g. C or Eb3")
	cmd.Flags().StringVar(&scaleQuality, "scale", "", "scale quality of the key (default major)")
	return cmd
}
