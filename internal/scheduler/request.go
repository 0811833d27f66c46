// Package scheduler coalesces editor events into recompute requests and
// runs them one at a time on a single goroutine.
package scheduler

import "github.com/dshills/hltext/internal/core"

// Request describes one pending recompute.
type Request struct {
	// Force releases every cached decoration before recomputing.
	Force bool
	// Reload re-reads the rule configuration first.
	Reload bool
	// Scope restricts the recompute to a range; nil means the whole document.
	Scope *core.Range
}

// Full reports whether the request covers the whole document.
func (r Request) Full() bool {
	return r.Scope == nil
}

// Merge combines a pending request with a newer one. Force and Reload are
// kept if either asks for them; a full request dominates a scoped one and
// between two scoped requests the newer scope wins.
func (r Request) Merge(newer Request) Request {
	out := Request{
		Force:  r.Force || newer.Force,
		Reload: r.Reload || newer.Reload,
		Scope:  newer.Scope,
	}
	if r.Full() || newer.Full() {
		out.Scope = nil
	}
	return out
}
