package exchange

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
)

func TestClientCreate(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(Response{
			URL:     "https://exchange.bind-standard.org/x/abc",
			Exp:     1756339200000,
			Flag:    "P",
			Trusted: true,
			Iss:     "https://bindpki.org/acme",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	resp, err := client.Create(context.Background(), Request{
		Payload:  "eyJ...jwe",
		Proof:    "eyJ...proof",
		Passcode: "492816",
		Label:    "Q3 renewal",
		Exp:      3600,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if got.Payload != "eyJ...jwe" || got.Passcode != "492816" || got.Exp != 3600 {
		t.Errorf("request body mismatch: %+v", got)
	}
	if resp.URL != "https://exchange.bind-standard.org/x/abc" || !resp.Trusted {
		t.Errorf("response mismatch: %+v", resp)
	}
}

func TestClientEmptyPayload(t *testing.T) {
	client := NewClient("")
	if _, err := client.Create(context.Background(), Request{}); err == nil {
		t.Fatal("empty payload accepted")
	} else if !IsKind(err, KindSubmit) {
		t.Errorf("error kind: %v", err)
	}
}

func TestClientPrefersServerErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"payload too large"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Create(context.Background(), Request{Payload: "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "payload too large" {
		t.Errorf("error = %q, want server message", err.Error())
	}
}

func TestClientStatusFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream out to lunch"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Create(context.Background(), Request{Payload: "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "exchange failed (502 Bad Gateway)" {
		t.Errorf("error = %q", err.Error())
	}
}

// An unregistered issuer is a label, not a gate: the exchange accepts the
// submission and simply reports trusted=false.
func TestClientUntrustedSubmissionSucceeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Response{URL: "https://x/1", Flag: "U", Trusted: false})
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL).Create(context.Background(), Request{Payload: "x"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if resp.Trusted {
		t.Error("trusted should be false")
	}
	if resp.URL == "" {
		t.Error("untrusted submission should still yield a retrieval URL")
	}
}
