package main

import (
	"fmt"

	"github.com/dshills/hltext/internal/config"
	"github.com/spf13/cobra"
)

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the built-in rule templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.Presets() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newApplyTemplateCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "apply-template NAME",
		Short: "Merge a built-in template into the settings file",
		Long: `Deep-merge the named template into the rules of the settings file.
Template values win over existing ones; the file is rewritten in its own
format.

Examples:
  hltext apply-template markdown --settings .vscode/hltext.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.NewStore(g.settings)
			if err != nil {
				return err
			}
			if err := store.MergeTemplate(args[0]); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "merged %s into %s\n", args[0], store.Path())
			return err
		},
	}
}
