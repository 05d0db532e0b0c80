package keys

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is how long issuer edits must stay quiet before a
// directory lookup fires.
const DefaultDebounce = 500 * time.Millisecond

// Watcher debounces directory trust lookups against rapid issuer edits.
// Each Update cancels any pending lookup and schedules a new one; only the
// value that survives the quiet period reaches the network.
type Watcher struct {
	Directory *Directory
	KID       string
	// Delay defaults to DefaultDebounce when zero.
	Delay time.Duration
	// OnStatus receives TrustLoading immediately on every update, then the
	// terminal status of the lookup that survived.
	OnStatus func(issuer string, status TrustStatus)

	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
}

// Update registers a new issuer value, restarting the quiet period.
func (w *Watcher) Update(issuer string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}

	if w.OnStatus != nil {
		w.OnStatus(issuer, TrustStatus{State: TrustLoading})
	}

	delay := w.Delay
	if delay == 0 {
		delay = DefaultDebounce
	}
	w.timer = time.AfterFunc(delay, func() {
		w.lookup(issuer)
	})
}

// Stop cancels any pending lookup.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
}

func (w *Watcher) lookup(issuer string) {
	ctx, cancel := context.WithCancel(context.Background())
	w.mu.Lock()
	w.cancel = cancel
	w.mu.Unlock()
	defer cancel()

	status := w.Directory.CheckTrust(ctx, issuer, w.KID)
	if ctx.Err() != nil {
		// A newer edit superseded this lookup while it was in flight.
		return
	}
	if w.OnStatus != nil {
		w.OnStatus(issuer, status)
	}
}
