package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dshills/hltext/internal/app"
	"github.com/dshills/hltext/internal/config/watcher"
	"github.com/dshills/hltext/internal/scheduler"
	"github.com/spf13/cobra"
)

func newWatchCmd(g *globalFlags) *cobra.Command {
	var doc documentFlags

	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Recompute decorations whenever a file or the settings change",
		Long: `Keep FILE open in an in-memory editor and recompute its decorations
when FILE or the settings file changes, printing what each recompute kept,
created and released. Stop with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watchFile(ctx, g, &doc, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	doc.register(cmd)
	return cmd
}

func watchFile(ctx context.Context, g *globalFlags, doc *documentFlags, path string, stdout, stderr io.Writer) error {
	s, err := openSession(g, doc, path, stderr)
	if err != nil {
		return err
	}
	defer s.close(stderr)

	s.plugin.OnReport(func(rep app.Report, err error) {
		if err != nil {
			fmt.Fprintf(stdout, "%s: %v\n", rep.Document, err)
			return
		}
		if rep.Skipped != app.SkipNone {
			fmt.Fprintf(stdout, "%s: skipped (%s)\n", rep.Document, rep.Skipped)
			return
		}
		fmt.Fprintf(stdout, "%s: %s\n", rep.Document, rep.Result)
	})
	s.plugin.Flush()

	settings, err := filepath.Abs(g.settings)
	if err != nil {
		return err
	}

	w, err := watcher.New(
		watcher.WithDebounce(s.plugin.Options().Debounce),
		watcher.WithErrorHandler(func(err error) {
			s.log.Warn("watch: %v", err)
		}),
	)
	if err != nil {
		return err
	}
	defer w.Close()

	w.OnChange(func(ev watcher.Event) {
		switch ev.Path {
		case s.doc.URI.Path:
			reloadDocument(s, ev)
		case settings:
			if _, err := s.plugin.Handle(scheduler.ConfigChange{}); err != nil {
				s.log.Warn("settings change: %v", err)
			}
		}
	})
	for _, p := range []string{s.doc.URI.Path, settings} {
		if err := w.Watch(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
	}

	<-ctx.Done()
	m := s.plugin.Metrics()
	fmt.Fprintf(stdout, "%d recomputes (avg %s): %d kept, %d created, %d released\n",
		m.Recomputes, m.Avg(), m.Kept, m.Created, m.Released)
	return nil
}

// reloadDocument replaces the editor text with the file content and
// reports the edit.
func reloadDocument(s *session, ev watcher.Event) {
	var text string
	if !ev.Op.Has(watcher.OpRemove) {
		data, err := os.ReadFile(ev.Path)
		if err != nil {
			s.log.Warn("read %s: %v", ev.Path, err)
			return
		}
		text = string(data)
	}

	current, ok := s.editor.ActiveDocument()
	if !ok || current.Text == text {
		return
	}
	s.editor.SetText(text)

	change := scheduler.TextChange{
		LanguageID: current.LanguageID,
		Changes:    []scheduler.ContentChange{{RangeLength: len([]rune(current.Text)), Text: text}},
	}
	if _, err := s.plugin.Handle(change); err != nil {
		s.log.Warn("text change: %v", err)
	}
}
