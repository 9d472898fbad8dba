package workers

import (
	"context"
	"log"
	"time"

	"github.com/Julian1612/trackerApp/internal/core/domain"
)

// Resetter is the slice of the habit service the watcher drives.
type Resetter interface {
	ResetDailyProgress(ctx context.Context) error
}

// DayWatcher detects local-calendar day transitions and applies the
// daily reset exactly once per new day. Two things trigger a check: a
// foreground Notify and a periodic tick. The tick exists so a user
// watching the screen at midnight sees the reset happen.
type DayWatcher struct {
	state    domain.StateStore
	resetter Resetter
	interval time.Duration
	notifyCh chan struct{}

	// Now is the wallclock source. Tests substitute it to cross days.
	Now func() time.Time
}

func NewDayWatcher(state domain.StateStore, resetter Resetter, interval time.Duration) *DayWatcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &DayWatcher{
		state:    state,
		resetter: resetter,
		interval: interval,
		notifyCh: make(chan struct{}, 1),
		Now:      time.Now,
	}
}

// Notify requests an immediate check, e.g. on an app-foreground event.
// Non-blocking if a check is already pending.
func (w *DayWatcher) Notify() {
	select {
	case w.notifyCh <- struct{}{}:
	default:
	}
}

func (w *DayWatcher) Start(ctx context.Context) {
	go func() {
		log.Println("Day watcher started in background...")

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		if err := w.Check(ctx); err != nil {
			log.Printf("Day watcher initial check failed: %v", err)
		}

		for {
			select {
			case <-ticker.C:
				if err := w.Check(ctx); err != nil {
					log.Printf("Day watcher check failed: %v", err)
				}
			case <-w.notifyCh:
				if err := w.Check(ctx); err != nil {
					log.Printf("Day watcher foreground check failed: %v", err)
				}
			case <-ctx.Done():
				log.Println("Day watcher shutting down...")
				return
			}
		}
	}()
}

// Check applies the reset when the last recorded reset day is not the
// current local day. The reset must complete before the last-reset
// marker advances; a failed reset is retried on the next trigger.
func (w *DayWatcher) Check(ctx context.Context) error {
	now := w.Now()

	lastReset, err := w.state.LastReset(ctx)
	if err != nil {
		return err
	}

	if !lastReset.IsZero() && isSameLocalDay(lastReset, now) {
		return nil
	}

	if err := w.resetter.ResetDailyProgress(ctx); err != nil {
		return err
	}

	if err := w.state.SetLastReset(ctx, now); err != nil {
		return err
	}

	log.Printf("Daily reset applied for %s", now.Format("2006-01-02"))
	return nil
}

// isSameLocalDay compares calendar dates in the reference clock's zone
// so a UTC timestamp read back from the store lands on the right day.
func isSameLocalDay(a, b time.Time) bool {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
