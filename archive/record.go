package archive

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
)

// Record is one line in the send log. Artifacts are referenced by CID into
// the block store; the passcode is retained only as an argon2id hash (see
// HashPasscode) so the log can confirm a passcode without storing it.
type Record struct {
	CreatedAt    time.Time `json:"createdAt"`
	JWSCID       string    `json:"jwsCid"`
	JWECID       string    `json:"jweCid"`
	ProofCID     string    `json:"proofCid,omitempty"`
	URL          string    `json:"url"`
	Exp          int64     `json:"exp"`
	Flag         string    `json:"flag"`
	Trusted      bool      `json:"trusted"`
	Label        string    `json:"label,omitempty"`
	PasscodeHash string    `json:"passcodeHash,omitempty"`
}

const recordsFile = "records.jsonl"

// Append adds a record to the send log.
func (s *Store) Append(rec Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(s.root, recordsFile), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(raw, '\n')); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Records returns the send log, oldest first. Unparseable lines are
// skipped rather than poisoning the whole history.
func (s *Store) Records() ([]Record, error) {
	f, err := os.Open(filepath.Join(s.root, recordsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var out []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, scanner.Err()
}
