package decoration

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/hltext/internal/core"
	"github.com/dshills/hltext/internal/highlight"
	"github.com/dshills/hltext/internal/logging"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxDocuments keeps decorations for the active document only.
const DefaultMaxDocuments = 1

// ErrClosed is returned after Close.
var ErrClosed = errors.New("reconciler is closed")

// Release removes one applied decoration from the editor.
type Release = func()

// Applier puts decorations on screen.
type Applier interface {
	Apply(r core.Range, style core.Style) (Release, error)
}

// Record is an applied decoration.
type Record struct {
	Fingerprint Fingerprint
	Range       core.Range
	Text        string
	Style       core.Style
	release     Release
}

// Result counts what one reconcile did.
type Result struct {
	Kept     int
	Created  int
	Released int
}

// String formats the counts for logs.
func (r Result) String() string {
	return fmt.Sprintf("kept=%d created=%d released=%d", r.Kept, r.Created, r.Released)
}

// docCache holds the applied decorations of one document.
type docCache struct {
	records map[Fingerprint]*Record
}

func newDocCache() *docCache {
	return &docCache{records: make(map[Fingerprint]*Record)}
}

// releaseAll releases every record and empties the cache. Calling it twice
// is harmless.
func (c *docCache) releaseAll() int {
	n := 0
	for fp, rec := range c.records {
		rec.release()
		delete(c.records, fp)
		n++
	}
	return n
}

// Reconciler owns the applied decorations of every cached document.
type Reconciler struct {
	mu      sync.Mutex
	applier Applier
	docs    *lru.Cache[string, *docCache]
	log     *logging.Logger
	closed  bool
}

// Option configures a Reconciler.
type Option func(*reconcilerConfig)

type reconcilerConfig struct {
	maxDocuments int
	log          *logging.Logger
}

// WithMaxDocuments sets how many documents keep decorations at once.
// Activating a document beyond the cap releases the least recently used.
func WithMaxDocuments(n int) Option {
	return func(c *reconcilerConfig) {
		if n > 0 {
			c.maxDocuments = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *reconcilerConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a reconciler applying decorations through applier.
func New(applier Applier, opts ...Option) (*Reconciler, error) {
	cfg := reconcilerConfig{maxDocuments: DefaultMaxDocuments, log: logging.Null()}
	for _, opt := range opts {
		opt(&cfg)
	}

	r := &Reconciler{applier: applier, log: cfg.log.WithComponent("reconciler")}
	docs, err := lru.NewWithEvict(cfg.maxDocuments, func(key string, c *docCache) {
		if n := c.releaseAll(); n > 0 {
			r.log.Debug("evicted %s: released=%d", key, n)
		}
	})
	if err != nil {
		return nil, err
	}
	r.docs = docs
	return r, nil
}

// Reconcile brings the decorations of doc in line with candidates.
//
// Decorations whose fingerprint is wanted again are kept untouched, the
// missing ones are applied and the others are released; all releases
// happen before the first apply. With a non-nil scope only cached
// decorations lying entirely inside it may be released, the rest are
// carried over. Apply failures are joined into the returned error; the
// remaining candidates are still applied.
func (r *Reconciler) Reconcile(doc string, idx *LineIndex, candidates []highlight.Candidate, scope *core.Range) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return Result{}, ErrClosed
	}

	cache := r.activate(doc)
	next := make(map[Fingerprint]*Record, len(candidates))
	var res Result
	var toApply []*Record

	for _, c := range candidates {
		rng := idx.Range(c.Start, c.End)
		fp := FingerprintOf(rng, c.Text, c.Style)
		if _, dup := next[fp]; dup {
			continue
		}
		if rec, ok := cache.records[fp]; ok {
			delete(cache.records, fp)
			next[fp] = rec
			res.Kept++
			continue
		}
		rec := &Record{Fingerprint: fp, Range: rng, Text: c.Text, Style: c.Style}
		next[fp] = rec
		toApply = append(toApply, rec)
	}

	for fp, rec := range cache.records {
		if scope != nil && !scope.Contains(rec.Range) {
			next[fp] = rec
			continue
		}
		rec.release()
		res.Released++
	}

	var errs []error
	for _, rec := range toApply {
		release, err := r.applier.Apply(rec.Range, rec.Style)
		if err != nil {
			delete(next, rec.Fingerprint)
			errs = append(errs, fmt.Errorf("apply %s at %s: %w", rec.Text, rec.Range, err))
			continue
		}
		rec.release = release
		res.Created++
	}

	cache.records = next
	r.log.Debug("reconciled %s: %s", doc, res)
	return res, errors.Join(errs...)
}

// activate returns the cache of doc, creating it and evicting the least
// recently used document when the cap is reached.
func (r *Reconciler) activate(doc string) *docCache {
	if c, ok := r.docs.Get(doc); ok {
		return c
	}
	c := newDocCache()
	r.docs.Add(doc, c)
	return c
}

// Release releases every decoration of doc and forgets it.
func (r *Reconciler) Release(doc string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.docs.Peek(doc)
	if !ok {
		return 0
	}
	n := c.releaseAll()
	r.docs.Remove(doc)
	return n
}

// Refresh releases the decorations of every document. The next Reconcile
// applies everything anew.
func (r *Reconciler) Refresh() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.releaseAll()
}

// RefreshExcept releases the decorations of every document except keep,
// which stays cached as it is.
func (r *Reconciler) RefreshExcept(keep string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, key := range r.docs.Keys() {
		if key == keep {
			continue
		}
		if c, ok := r.docs.Peek(key); ok {
			n += c.releaseAll()
		}
		r.docs.Remove(key)
	}
	return n
}

// Close releases everything and rejects further reconciles.
func (r *Reconciler) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.releaseAll()
	r.closed = true
}

func (r *Reconciler) releaseAll() int {
	n := 0
	for _, key := range r.docs.Keys() {
		if c, ok := r.docs.Peek(key); ok {
			n += c.releaseAll()
		}
	}
	r.docs.Purge()
	return n
}

// Records returns the applied decorations of doc.
func (r *Reconciler) Records(doc string) []Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.docs.Peek(doc)
	if !ok {
		return nil
	}
	out := make([]Record, 0, len(c.records))
	for _, rec := range c.records {
		out = append(out, *rec)
	}
	return out
}

// Documents returns the keys of the documents holding decorations, least
// recently used first.
func (r *Reconciler) Documents() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.docs.Keys()
}
