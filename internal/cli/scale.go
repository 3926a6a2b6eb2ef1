package cli

import (
	"fmt"
	"strings"

	"github.com/Conceptual-Machines/note-gen/internal/theory"
	"github.com/spf13/cobra"
)

func newScaleCmd(opts *rootOptions) *cobra.Command {
	var (
		closeAugmented bool
		list           bool
	)

	cmd := &cobra.Command{
		Use:   "scale ROOT [QUALITY]",
		Short: "Build a scale from a root and quality (default major)",
		Long: `Build a scale from a root and quality. Quality defaults to major.

Examples:
  notegen scale D
  notegen scale F# harmonic_minor
  notegen scale C augmented --close-augmented
  notegen scale --list`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if list {
				for _, q := range theory.ScaleQualities() {
					intervals, _ := q.Intervals()
					fmt.Fprintf(out, "%-18s %v\n", q, intervals)
				}
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("a root note is required")
			}

			scale, err := opts.scaleArg(args[0], optionalArg(args, 1), closeAugmented)
			if err != nil {
				return err
			}

			if opts.json {
				return writeJSON(out, scale.ToRecord())
			}
			_, err = fmt.Fprintf(out, "%s: %s\n", scale, noteNames(scale.Notes()))
			return err
		},
	}

	cmd.Flags().BoolVar(&closeAugmented, "close-augmented", false, "append the octave root to augmented scales")
	cmd.Flags().BoolVar(&list, "list", false, "list scale qualities")
	return cmd
}

func (o *rootOptions) scaleArg(root, quality string, closeAugmented bool) (theory.Scale, error) {
	n, err := o.noteArg(root)
	if err != nil {
		return theory.Scale{}, err
	}
	if strings.TrimSpace(quality) == "" {
		quality = string(theory.ScaleMajor)
	}
	q, err := theory.ParseScaleQuality(quality)
	if err != nil {
		return theory.Scale{}, err
	}

	var scaleOpts []theory.ScaleOption
	if closeAugmented {
		scaleOpts = append(scaleOpts, theory.CloseAugmented())
	}
	return theory.BuildScale(n, q, scaleOpts...)
}

func optionalArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
