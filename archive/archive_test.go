package archive

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func mustOpen(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := mustOpen(t)
	want := []byte("eyJhbGciOiJkaXIifQ..ciphertext")

	id, err := s.Put(want)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	wantID, err := Sum(want)
	if err != nil {
		t.Fatal(err)
	}
	if id != wantID {
		t.Fatalf("Put CID = %s, want %s", id, wantID)
	}

	got, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != string(want) {
		t.Fatal("Get bytes mismatch")
	}
	if !s.Has(id) {
		t.Error("Has reports absent after Put")
	}
}

func TestPutIdempotent(t *testing.T) {
	s := mustOpen(t)
	data := []byte("same artifact")

	id1, err := s.Put(data)
	if err != nil {
		t.Fatalf("Put(1): %v", err)
	}
	id2, err := s.Put(data)
	if err != nil {
		t.Fatalf("Put(2): %v", err)
	}
	if id1 != id2 {
		t.Errorf("idempotent Put yielded %s then %s", id1, id2)
	}
}

func TestGetAbsent(t *testing.T) {
	s := mustOpen(t)
	id, err := Sum([]byte("never stored"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(id); err != ErrNotFound {
		t.Errorf("Get absent = %v, want ErrNotFound", err)
	}
	if s.Has(id) {
		t.Error("Has reports present for absent cid")
	}
}

func TestGetDetectsCorruption(t *testing.T) {
	root := t.TempDir()
	s, err := Open(root)
	if err != nil {
		t.Fatal(err)
	}
	id, err := s.Put([]byte("original"))
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(root, "blocks", id.String()[:2], id.String())
	if err := os.Chmod(path, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("tampered"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(id); err != ErrMismatch {
		t.Errorf("Get of tampered block = %v, want ErrMismatch", err)
	}
}

func TestRecords(t *testing.T) {
	s := mustOpen(t)

	if recs, err := s.Records(); err != nil || recs != nil {
		t.Fatalf("empty log = %v, %v", recs, err)
	}

	first := Record{CreatedAt: time.Now().UTC(), JWSCID: "a", JWECID: "b", URL: "https://x/1", Flag: "P", Trusted: true}
	second := Record{CreatedAt: time.Now().UTC(), JWSCID: "c", JWECID: "d", URL: "https://x/2", Flag: "U"}
	if err := s.Append(first); err != nil {
		t.Fatal(err)
	}
	if err := s.Append(second); err != nil {
		t.Fatal(err)
	}

	recs, err := s.Records()
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("record count = %d, want 2", len(recs))
	}
	if recs[0].URL != "https://x/1" || recs[1].URL != "https://x/2" {
		t.Errorf("records out of order: %+v", recs)
	}
	if !recs[0].Trusted || recs[1].Trusted {
		t.Error("trusted flags not preserved")
	}
}

func TestPasscodeHash(t *testing.T) {
	hash, err := HashPasscode("492816")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "492816" {
		t.Fatal("passcode stored in the clear")
	}

	ok, err := VerifyPasscode("492816", hash)
	if err != nil || !ok {
		t.Errorf("correct passcode rejected: %v %v", ok, err)
	}
	ok, err = VerifyPasscode("000000", hash)
	if err != nil || ok {
		t.Errorf("wrong passcode accepted: %v %v", ok, err)
	}
	if _, err := VerifyPasscode("x", "bcrypt$zzz"); err == nil {
		t.Error("malformed hash should error")
	}

	// Fresh salt per hash: same passcode, different encodings.
	other, err := HashPasscode("492816")
	if err != nil {
		t.Fatal(err)
	}
	if other == hash {
		t.Error("salt reuse across hashes")
	}
}
