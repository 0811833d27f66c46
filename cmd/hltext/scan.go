package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/dshills/hltext/internal/decoration"
	"github.com/dshills/hltext/internal/preview"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

func newScanCmd(g *globalFlags) *cobra.Command {
	var (
		doc    documentFlags
		format string
		color  string
	)

	cmd := &cobra.Command{
		Use:   "scan FILE",
		Short: "Compute the decorations of a file",
		Long: `Run one recompute over FILE and print the resulting decorations.

Examples:
  # List decorations with their ranges and styles
  hltext scan src/App.vue

  # Preview in the terminal using the light rule set
  hltext scan --format ansi --theme light src/App.vue`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := colorProfile(color, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			s, err := openSession(g, &doc, args[0], cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.close(cmd.ErrOrStderr())
			s.plugin.Flush()

			switch format {
			case "list":
				return writeList(cmd.OutOrStdout(), s.plugin.Records(s.doc.URI))
			case "ansi":
				var spans []preview.Span
				for _, d := range s.editor.Decorations() {
					spans = append(spans, preview.Span{Range: d.Range, Style: d.Style})
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), preview.New(profile).Render(s.doc.Text, spans))
				return err
			default:
				return fmt.Errorf("invalid format %q: want list or ansi", format)
			}
		},
	}

	doc.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "list", "output format (list or ansi)")
	cmd.Flags().StringVar(&color, "color", "auto", "color profile for ansi output (auto, none, ansi, 256, truecolor)")
	return cmd
}

func colorProfile(name string, w io.Writer) (termenv.Profile, error) {
	switch name {
	case "auto":
		return termenv.NewOutput(w).EnvColorProfile(), nil
	case "none":
		return termenv.Ascii, nil
	case "ansi":
		return termenv.ANSI, nil
	case "256":
		return termenv.ANSI256, nil
	case "truecolor":
		return termenv.TrueColor, nil
	}
	return termenv.Ascii, fmt.Errorf("invalid color profile %q", name)
}

func writeList(w io.Writer, records []decoration.Record) error {
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i].Range, records[j].Range
		if a.Start != b.Start {
			return a.Start.Before(b.Start)
		}
		return records[i].Fingerprint < records[j].Fingerprint
	})

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANGE\tTEXT\tSTYLE")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%q\t%s\n", rec.Range, rec.Text, rec.Style.Key())
	}
	return tw.Flush()
}
