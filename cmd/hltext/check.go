package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/dshills/hltext/internal/pattern"
	"github.com/spf13/cobra"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// errCheckFailed makes the command exit non-zero after printing the reason.
var errCheckFailed = errors.New("pattern check failed")

func newCheckCmd() *cobra.Command {
	var sample string

	cmd := &cobra.Command{
		Use:   "check PATTERN [FLAGS]",
		Short: "Report whether a pattern compiles and passes the safety guard",
		Long: `Compile PATTERN with FLAGS (default "gm") and run the safety guard
on it. With --text the matches in the sample are listed.

Examples:
  hltext check '(defineProps)[<\(]'
  hltext check 'v-(if|for)' g --text '<li v-for="x in xs" v-if="x">'`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			flags := pattern.DefaultFlags
			if len(args) == 2 {
				flags = args[1]
			}

			p, err := pattern.Compile(args[0], flags)
			if err != nil {
				fmt.Fprintf(out, "%s %v\n", failStyle.Render("invalid"), err)
				return errCheckFailed
			}
			if reason := pattern.Check(args[0]); reason != "" {
				fmt.Fprintf(out, "%s %s: %s\n", failStyle.Render("unsafe"), p, reason)
				return errCheckFailed
			}
			fmt.Fprintf(out, "%s %s\n", okStyle.Render("ok"), p)

			if !cmd.Flags().Changed("text") {
				return nil
			}
			matches, err := pattern.FindAll([]rune(sample), p, pattern.DefaultLimits())
			for _, m := range matches {
				fmt.Fprintf(out, "%d-%d\t%q\n", m.Index, m.End(), m.Text())
			}
			if err != nil {
				fmt.Fprintf(out, "warning: %v\n", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sample, "text", "", "sample text to run the pattern over")
	return cmd
}
