package keys

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestWatcher_DebouncesRapidEdits(t *testing.T) {
	var mu sync.Mutex
	var requested []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requested = append(requested, r.URL.Path)
		mu.Unlock()
		_, _ = w.Write([]byte(`{"keys":[]}`))
	}))
	defer srv.Close()

	var statusMu sync.Mutex
	var states []TrustState
	var lastIssuer string
	done := make(chan struct{}, 1)

	w := &Watcher{
		Directory: NewDirectory(srv.URL),
		KID:       "kid-1",
		Delay:     30 * time.Millisecond,
		OnStatus: func(issuer string, status TrustStatus) {
			statusMu.Lock()
			states = append(states, status.State)
			lastIssuer = issuer
			statusMu.Unlock()
			if status.State != TrustLoading {
				done <- struct{}{}
			}
		},
	}
	defer w.Stop()

	// Three edits inside the quiet period: only the last survives.
	w.Update("a")
	w.Update("ab")
	w.Update("acme")

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lookup never completed")
	}

	mu.Lock()
	if len(requested) != 1 || requested[0] != "/acme/.well-known/jwks.json" {
		t.Errorf("requests = %v, want one lookup for the final value", requested)
	}
	mu.Unlock()

	statusMu.Lock()
	defer statusMu.Unlock()
	if lastIssuer != "acme" {
		t.Errorf("terminal status for %q, want acme", lastIssuer)
	}
	if states[0] != TrustLoading {
		t.Errorf("first status = %v, want TrustLoading", states[0])
	}
	if states[len(states)-1] != TrustFound {
		t.Errorf("terminal status = %v, want TrustFound", states[len(states)-1])
	}
}

func TestWatcher_StopCancelsPending(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		_, _ = w.Write([]byte(`{"keys":[]}`))
	}))
	defer srv.Close()

	w := &Watcher{
		Directory: NewDirectory(srv.URL),
		Delay:     30 * time.Millisecond,
	}
	w.Update("acme")
	w.Stop()

	time.Sleep(100 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if calls != 0 {
		t.Errorf("stopped watcher still reached the network %d times", calls)
	}
}
