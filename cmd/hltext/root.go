package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dshills/hltext/internal/app"
	"github.com/dshills/hltext/internal/config"
	"github.com/dshills/hltext/internal/host"
	"github.com/dshills/hltext/internal/logging"
	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	settings string
	options  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "hltext",
		Short: "Pattern-driven text decorations",
		Long: `hltext applies color and style decorations to text matched by
user-configured regular expressions, per language and theme.

Rules are read from a YAML or JSON settings file; engine tuning from
hltext.toml and HLTEXT_* environment variables.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&g.settings, "settings", "s", "hltext.yaml",
		"settings file holding rules and exclude globs (.yaml, .yml or .json)")
	root.PersistentFlags().StringVar(&g.options, "options", "hltext.toml",
		"engine options file")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "",
		"log level (debug, info, warn, error); overrides logging.level")

	root.AddCommand(
		newScanCmd(g),
		newWatchCmd(g),
		newTemplatesCmd(),
		newApplyTemplateCmd(g),
		newCheckCmd(),
	)
	return root
}

// load reads the engine options and opens the settings store.
func (g *globalFlags) load(stderr io.Writer) (config.Options, *config.Store, *logging.Logger, error) {
	opts, err := config.LoadOptions(g.options)
	if err != nil {
		return config.Options{}, nil, nil, err
	}
	if g.logLevel != "" {
		opts.LogLevel = g.logLevel
	}

	store, err := config.NewStore(g.settings)
	if err != nil {
		return config.Options{}, nil, nil, err
	}

	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(opts.LogLevel)
	cfg.Output = stderr
	return opts, store, logging.New(cfg), nil
}

// session is a plugin driving an in-memory editor with one open file.
type session struct {
	editor *host.Memory
	plugin *app.Plugin
	doc    host.Document
	log    *logging.Logger
}

// documentFlags select how a file is opened.
type documentFlags struct {
	theme string
	lang  string
}

func (f *documentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.theme, "theme", "dark", "theme mode (light or dark)")
	cmd.Flags().StringVar(&f.lang, "lang", "", "language ID (detected from the file when empty)")
}

func openSession(g *globalFlags, f *documentFlags, path string, stderr io.Writer) (*session, error) {
	if f.theme != string(config.Light) && f.theme != string(config.Dark) {
		return nil, fmt.Errorf("invalid theme %q: want light or dark", f.theme)
	}

	opts, store, log, err := g.load(stderr)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}

	lang := f.lang
	if lang == "" {
		lang = app.DetectLanguageID(abs, content)
	}
	doc := host.Document{
		URI:        host.URI{Path: abs, Scheme: "file"},
		LanguageID: lang,
		Text:       string(content),
	}
	log.Debug("opened %s as %s", abs, lang)

	editor := host.NewMemory()
	editor.SetDark(f.theme == string(config.Dark))
	editor.Open(doc)

	plugin := app.NewPlugin(editor, store, opts, log)
	if err := plugin.Activate(); err != nil {
		return nil, err
	}
	return &session{editor: editor, plugin: plugin, doc: doc, log: log}, nil
}

// close deactivates the plugin and prints what the editor was told.
func (s *session) close(stderr io.Writer) {
	s.plugin.Deactivate()
	for _, w := range s.editor.Warnings() {
		fmt.Fprintln(stderr, "warning:", w)
	}
	for _, e := range s.editor.Errors() {
		fmt.Fprintln(stderr, "error:", e)
	}
}
