package scheduler

import (
	"fmt"
	"time"

	"github.com/dshills/hltext/internal/logging"
)

// Scheduler turns events into debounced recompute requests.
type Scheduler struct {
	debouncer *Debouncer
	log       *logging.Logger
}

// New creates a scheduler running run after delay of event silence.
func New(delay time.Duration, run RunFunc, log *logging.Logger) *Scheduler {
	if log == nil {
		log = logging.Null()
	}
	return &Scheduler{
		debouncer: NewDebouncer(delay, run),
		log:       log.WithComponent("scheduler"),
	}
}

// Handle schedules the recompute ev needs. It reports whether one was
// scheduled.
func (s *Scheduler) Handle(ev Event) (bool, error) {
	req, ok := RequestFor(ev)
	if !ok {
		return false, nil
	}
	if err := s.debouncer.Trigger(req); err != nil {
		return false, err
	}
	s.log.Debug("scheduled %T: %s", ev, describe(req))
	return true, nil
}

// Trigger schedules req directly.
func (s *Scheduler) Trigger(req Request) error {
	return s.debouncer.Trigger(req)
}

// Flush runs the pending request now and waits for it.
func (s *Scheduler) Flush() bool {
	return s.debouncer.Flush()
}

// Pending reports whether a request is waiting to run.
func (s *Scheduler) Pending() bool {
	return s.debouncer.Pending()
}

// Close stops the scheduler.
func (s *Scheduler) Close() {
	s.debouncer.Close()
}

func describe(req Request) string {
	scope := "full"
	if req.Scope != nil {
		scope = req.Scope.String()
	}
	return fmt.Sprintf("scope=%s force=%t reload=%t", scope, req.Force, req.Reload)
}
