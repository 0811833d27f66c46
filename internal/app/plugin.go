package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dshills/hltext/internal/config"
	"github.com/dshills/hltext/internal/core"
	"github.com/dshills/hltext/internal/decoration"
	"github.com/dshills/hltext/internal/highlight"
	"github.com/dshills/hltext/internal/host"
	"github.com/dshills/hltext/internal/logging"
	"github.com/dshills/hltext/internal/pattern"
	"github.com/dshills/hltext/internal/scheduler"
)

// SettingsSource supplies the rule settings.
type SettingsSource interface {
	Load() (config.Settings, error)
}

// TemplateStore is a settings source that can persist presets.
// *config.Store implements it.
type TemplateStore interface {
	SettingsSource
	MergeTemplate(name string) error
}

// StaticSettings is a fixed SettingsSource.
type StaticSettings config.Settings

// Load returns the settings.
func (s StaticSettings) Load() (config.Settings, error) {
	return config.Settings(s), nil
}

// Skip reasons reported by Recompute.
const (
	SkipNone       = ""
	SkipNoDocument = "no active document"
	SkipExcluded   = "excluded"
	SkipNoRules    = "no rules"
	SkipEmpty      = "empty document"
	SkipTooLarge   = "document too large"
)

// Report describes one recompute.
type Report struct {
	Document string
	Language string
	Skipped  string

	// Refreshed counts decorations released by a forced refresh.
	Refreshed int
	// Rules counts the rules that ran; Failed the ones reported as errors.
	Rules  int
	Failed int

	Candidates int
	Result     decoration.Result
	Warnings   []error
}

// ReportHandler observes finished recomputes run by the scheduler.
type ReportHandler func(Report, error)

// Plugin ties settings, extraction, reconciliation and scheduling to an
// editor.
type Plugin struct {
	editor host.Editor
	source SettingsSource
	opts   config.Options
	log    *logging.Logger

	metrics *Metrics

	// runMu serializes recompute cycles. Host calls happen under runMu
	// only, so the host may raise events while decorations are applied.
	runMu sync.Mutex

	// mu guards the fields below. It is never held across host calls.
	mu        sync.Mutex
	active    bool
	onReport  ReportHandler
	settings  config.Settings
	exclude   *config.ExcludeFilter
	reported  map[string]struct{}
	oversized map[string]struct{}

	compiler   *pattern.Compiler
	extractor  *highlight.Extractor
	reconciler *decoration.Reconciler
	sched      *scheduler.Scheduler
}

// NewPlugin creates an inactive plugin.
func NewPlugin(editor host.Editor, source SettingsSource, opts config.Options, log *logging.Logger) *Plugin {
	if log == nil {
		log = logging.Null()
	}
	return &Plugin{
		editor:  editor,
		source:  source,
		opts:    opts,
		log:     log.WithComponent("plugin"),
		metrics: NewMetrics(),
	}
}

// OnReport registers a handler for recomputes run by the scheduler.
func (p *Plugin) OnReport(h ReportHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onReport = h
}

// Activate loads the settings, builds the pipeline and schedules the
// first recompute.
func (p *Plugin) Activate() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.active {
		return ErrAlreadyActive
	}
	if err := p.opts.Validate(); err != nil {
		return err
	}

	if err := p.reloadLocked(); err != nil {
		return NewRecomputeError("load", "settings", err)
	}

	p.compiler = pattern.NewCompiler(
		pattern.WithCacheSize(p.opts.PatternCacheSize),
		pattern.WithMatchTimeout(p.opts.MatchTimeout),
	)
	p.extractor = highlight.New(p.compiler,
		highlight.WithLimits(p.opts.Limits()),
		highlight.WithLogger(p.log),
	)
	rec, err := decoration.New(p.editor,
		decoration.WithMaxDocuments(p.opts.MaxDocuments),
		decoration.WithLogger(p.log),
	)
	if err != nil {
		return err
	}
	p.reconciler = rec
	p.oversized = make(map[string]struct{})
	p.sched = scheduler.New(p.opts.Debounce, p.run, p.log)
	p.active = true

	p.log.Info("activated with %d language keys", len(p.settings.Rules.Languages))
	return p.sched.Trigger(scheduler.Request{Force: true})
}

// Deactivate stops the scheduler and releases every decoration.
func (p *Plugin) Deactivate() {
	p.mu.Lock()
	if !p.active {
		p.mu.Unlock()
		return
	}
	p.active = false
	sched, rec := p.sched, p.reconciler
	p.mu.Unlock()

	sched.Close()
	p.runMu.Lock()
	rec.Close()
	p.runMu.Unlock()
	p.log.Info("deactivated")
}

// Options returns the engine options.
func (p *Plugin) Options() config.Options {
	return p.opts
}

// Metrics returns the recompute statistics.
func (p *Plugin) Metrics() MetricsSnapshot {
	return p.metrics.Snapshot()
}

// Active reports whether the plugin is active.
func (p *Plugin) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Handle schedules the recompute ev needs.
func (p *Plugin) Handle(ev scheduler.Event) (bool, error) {
	sched, err := p.activeScheduler()
	if err != nil {
		return false, err
	}
	return sched.Handle(ev)
}

// Trigger schedules req.
func (p *Plugin) Trigger(req scheduler.Request) error {
	sched, err := p.activeScheduler()
	if err != nil {
		return err
	}
	return sched.Trigger(req)
}

// Flush runs the pending recompute now and waits for it.
func (p *Plugin) Flush() bool {
	sched, err := p.activeScheduler()
	if err != nil {
		return false
	}
	return sched.Flush()
}

func (p *Plugin) activeScheduler() (*scheduler.Scheduler, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.active {
		return nil, ErrNotActive
	}
	return p.sched, nil
}

// Templates lists the available presets.
func (p *Plugin) Templates() []string {
	return config.Presets()
}

// SelectTemplate merges the named preset into the stored rules and
// schedules a reload.
func (p *Plugin) SelectTemplate(name string) error {
	store, ok := p.source.(TemplateStore)
	if !ok {
		return ErrTemplatesUnsupported
	}
	if err := store.MergeTemplate(name); err != nil {
		p.editor.Error(fmt.Sprintf("hltext: template %s: %v", name, err))
		return err
	}
	p.log.Info("merged template %s", name)
	return p.Trigger(scheduler.Request{Force: true, Reload: true})
}

// Records returns the decorations currently applied to the document.
func (p *Plugin) Records(uri host.URI) []decoration.Record {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.reconciler == nil {
		return nil
	}
	return p.reconciler.Records(decoration.DocumentKey(uri.Path, uri.Scheme))
}

func (p *Plugin) run(ctx context.Context, req scheduler.Request) {
	rep, err := p.Recompute(ctx, req)
	if err != nil {
		p.log.Error("recompute: %v", err)
	}

	p.mu.Lock()
	h := p.onReport
	p.mu.Unlock()
	if h != nil {
		h(rep, err)
	}
}

// Recompute brings the active document's decorations up to date.
func (p *Plugin) Recompute(ctx context.Context, req scheduler.Request) (Report, error) {
	start := time.Now()
	rep, err := p.recompute(ctx, req)
	if !errors.Is(err, ErrNotActive) {
		p.metrics.RecordRecompute(time.Since(start), rep, err)
	}
	return rep, err
}

// cycle is the plugin state one recompute works from.
type cycle struct {
	settings   config.Settings
	exclude    *config.ExcludeFilter
	extractor  *highlight.Extractor
	reconciler *decoration.Reconciler
}

// begin checks the plugin is active, reloads the settings when req asks
// for it and snapshots the state the cycle needs.
func (p *Plugin) begin(ctx context.Context, req scheduler.Request) (cycle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.active {
		return cycle{}, ErrNotActive
	}
	if err := ctx.Err(); err != nil {
		return cycle{}, err
	}
	if req.Reload {
		if err := p.reloadLocked(); err != nil {
			return cycle{}, NewRecomputeError("reload", "settings", err)
		}
	}
	return cycle{
		settings:   p.settings,
		exclude:    p.exclude,
		extractor:  p.extractor,
		reconciler: p.reconciler,
	}, nil
}

func (p *Plugin) recompute(ctx context.Context, req scheduler.Request) (Report, error) {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	c, err := p.begin(ctx, req)
	if err != nil {
		var rerr *RecomputeError
		if errors.As(err, &rerr) {
			p.editor.Error(fmt.Sprintf("hltext: %v", rerr.Err))
		}
		return Report{}, err
	}

	doc, ok := p.editor.ActiveDocument()
	if !ok {
		return Report{Skipped: SkipNoDocument}, nil
	}

	rep := Report{Document: doc.URI.String()}
	if c.exclude.Excluded(doc.URI.Path) {
		rep.Skipped = SkipExcluded
		return rep, nil
	}

	rep.Language = LanguageKey(doc)
	mode := config.Light
	if p.editor.IsDark() {
		mode = config.Dark
	}
	sets := c.settings.Rules.Resolve(rep.Language, mode)
	if len(sets) == 0 {
		rep.Skipped = SkipNoRules
		return rep, nil
	}

	key := decoration.DocumentKey(doc.URI.Path, doc.URI.Scheme)
	text := []rune(doc.Text)

	// An oversized document keeps what it has; only the other documents
	// see a forced refresh.
	if err := pattern.CheckSize(text, p.opts.MaxTextLength); err != nil {
		if req.Force {
			rep.Refreshed = c.reconciler.RefreshExcept(key)
		}
		if p.markOversized(key) {
			p.editor.Warn(fmt.Sprintf("hltext: %s: %v", doc.URI, err))
		}
		rep.Skipped = SkipTooLarge
		return rep, nil
	}
	p.clearOversized(key)

	if req.Force {
		rep.Refreshed = c.reconciler.Refresh()
	}
	if len(text) == 0 {
		rep.Result.Released = c.reconciler.Release(key)
		rep.Skipped = SkipEmpty
		return rep, nil
	}

	idx := decoration.NewLineIndex(text)
	region, base, scope := text, 0, (*core.Range)(nil)
	if req.Scope != nil {
		lines := *req.Scope
		if lines.IsEmpty() && len(doc.Visible) > 0 {
			lines = visibleSpan(doc.Visible)
		}
		start := idx.Offset(core.Position{Line: lines.Start.Line})
		end := idx.Offset(core.Position{Line: lines.End.Line + 1})
		if start < end {
			region, base = text[start:end], start
			r := idx.Range(start, end)
			scope = &r
		}
	}

	var candidates []highlight.Candidate
	for _, set := range sets {
		for i := range set {
			if err := ctx.Err(); err != nil {
				return rep, err
			}
			rule := &set[i]
			res, err := c.extractor.Extract(rule, region, base)
			if err != nil {
				rep.Failed++
				p.reportRule(rule, err)
				continue
			}
			rep.Rules++
			for _, w := range res.Warnings {
				p.notifyOnce(w.Error(), p.editor.Warn)
			}
			rep.Warnings = append(rep.Warnings, res.Warnings...)
			candidates = append(candidates, res.Candidates...)
		}
	}
	rep.Candidates = len(candidates)

	res, err := c.reconciler.Reconcile(key, idx, candidates, scope)
	rep.Result = res
	if err != nil {
		p.editor.Error(fmt.Sprintf("hltext: %v", err))
		return rep, NewRecomputeError("apply", doc.URI.String(), err)
	}
	return rep, nil
}

// visibleSpan returns the range from the first visible position to the
// last.
func visibleSpan(ranges []core.Range) core.Range {
	span := ranges[0]
	for _, r := range ranges[1:] {
		if r.Start.Before(span.Start) {
			span.Start = r.Start
		}
		if span.End.Before(r.End) {
			span.End = r.End
		}
	}
	return span
}

// markOversized records key as too large. It reports whether the key was
// new, i.e. the user has not been warned yet.
func (p *Plugin) markOversized(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, warned := p.oversized[key]; warned {
		return false
	}
	p.oversized[key] = struct{}{}
	return true
}

func (p *Plugin) clearOversized(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.oversized, key)
}

// reloadLocked reads the settings and resets per-settings state.
func (p *Plugin) reloadLocked() error {
	settings, err := p.source.Load()
	if err != nil {
		return err
	}
	exclude, err := config.NewExcludeFilter(settings.Exclude)
	if err != nil {
		return err
	}
	p.settings = settings
	p.exclude = exclude
	p.reported = make(map[string]struct{})
	p.log.Debug("loaded settings: %d language keys, %d exclude globs",
		len(settings.Rules.Languages), exclude.Len())
	return nil
}

// reportRule tells the user about a rule that could not run. Unsafe
// patterns are warnings; everything else is an error.
func (p *Plugin) reportRule(rule *config.Rule, err error) {
	msg := fmt.Sprintf("hltext: rule %q: %v", rule.Style, err)
	if errors.Is(err, config.ErrConfigShape) {
		msg = fmt.Sprintf("hltext: %v", err)
	}
	p.log.WithField("rule", rule.Style).Warn("%v", err)
	if errors.Is(err, pattern.ErrUnsafePattern) {
		p.notifyOnce(msg, p.editor.Warn)
		return
	}
	p.notifyOnce(msg, p.editor.Error)
}

// notifyOnce shows msg once per loaded settings.
func (p *Plugin) notifyOnce(msg string, show func(string)) {
	p.mu.Lock()
	_, seen := p.reported[msg]
	if !seen {
		p.reported[msg] = struct{}{}
	}
	p.mu.Unlock()

	if !seen {
		show(msg)
	}
}
