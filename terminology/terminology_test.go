package terminology

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/codesystems", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":"claim-status","name":"Claim Status","system":"https://bind-standard.org/cs/claim-status","count":4},
			{"id":"coverage-type","name":"Coverage Type","system":"https://bind-standard.org/cs/coverage-type","version":"1.2.0","count":12}
		]`))
	})
	mux.HandleFunc("/codesystems/claim-status", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"claim-status","name":"Claim Status","system":"https://bind-standard.org/cs/claim-status","count":4}`))
	})
	mux.HandleFunc("/codesystems/claim-status/concepts", func(w http.ResponseWriter, r *http.Request) {
		if q := r.URL.Query().Get("q"); q == "open" {
			w.Write([]byte(`[{"code":"open","display":"Open"}]`))
			return
		}
		w.Write([]byte(`[
			{"code":"open","display":"Open"},
			{"code":"closed","display":"Closed","definition":"No further activity expected."}
		]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestCodeSystems(t *testing.T) {
	c := NewClient(testServer(t).URL)
	systems, err := c.CodeSystems(context.Background())
	if err != nil {
		t.Fatalf("CodeSystems failed: %v", err)
	}
	if len(systems) != 2 {
		t.Fatalf("got %d systems, want 2", len(systems))
	}
	if systems[1].Version != "1.2.0" || systems[1].Count != 12 {
		t.Errorf("second system = %+v", systems[1])
	}
}

func TestCodeSystemByID(t *testing.T) {
	c := NewClient(testServer(t).URL)
	cs, err := c.CodeSystem(context.Background(), "claim-status")
	if err != nil {
		t.Fatalf("CodeSystem failed: %v", err)
	}
	if cs.Name != "Claim Status" {
		t.Errorf("name = %q", cs.Name)
	}
}

func TestConceptsAndSearch(t *testing.T) {
	c := NewClient(testServer(t).URL)

	all, err := c.Concepts(context.Background(), "claim-status")
	if err != nil {
		t.Fatalf("Concepts failed: %v", err)
	}
	if len(all) != 2 || all[1].Definition == "" {
		t.Errorf("concepts = %+v", all)
	}

	hits, err := c.SearchConcepts(context.Background(), "claim-status", "open")
	if err != nil {
		t.Fatalf("SearchConcepts failed: %v", err)
	}
	if len(hits) != 1 || hits[0].Code != "open" {
		t.Errorf("search hits = %+v", hits)
	}
}

func TestNotFound(t *testing.T) {
	c := NewClient(testServer(t).URL)
	if _, err := c.CodeSystem(context.Background(), "no-such-system"); err == nil {
		t.Fatal("expected error for unknown system")
	}
}
