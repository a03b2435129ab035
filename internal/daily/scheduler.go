// internal/daily/scheduler.go
//
// Midnight refresh scheduler. The original site reloaded the whole page at
// local midnight; the server-side equivalent is a refresh callback that
// re-runs the daily initialization (today's word snapshot). Unlike the
// original one-shot timer, the scheduler re-arms itself after each firing so
// the process survives multiple day boundaries, and it can be stopped.

package daily

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Scheduler fires a callback at every local midnight.
type Scheduler struct {
	refresh func()
	now     func() time.Time // injectable clock for tests

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewScheduler builds a scheduler that runs refresh at each midnight.
func NewScheduler(refresh func()) *Scheduler {
	return &Scheduler{refresh: refresh, now: time.Now}
}

// Start arms the timer for the next local midnight.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.timer != nil {
		return
	}
	s.arm()
}

// Stop cancels any pending firing. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// arm schedules the next firing. Caller holds s.mu.
func (s *Scheduler) arm() {
	d := UntilMidnight(s.now())
	log.Info().Dur("delay", d).Msg("midnight refresh scheduled")
	s.timer = time.AfterFunc(d, s.fire)
}

func (s *Scheduler) fire() {
	log.Info().Msg("midnight: refreshing daily state")
	s.refresh()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.arm()
}
