package keys

import (
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"bindx.dev/bindx/storage"
	"bindx.dev/bindx/storage/testkit"
)

func mustGenerate(t *testing.T) *Pair {
	t.Helper()
	pair, err := Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return pair
}

func TestGenerate(t *testing.T) {
	pair := mustGenerate(t)

	if pair.KID == "" {
		t.Fatal("empty kid")
	}
	if pair.PrivateKey.KeyID != pair.KID || pair.PublicKey.KeyID != pair.KID {
		t.Error("kid not embedded in both halves")
	}

	raw, err := pair.PublicKey.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal public: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatal(err)
	}
	if _, leaked := fields["d"]; leaked {
		t.Error("public half carries a private component")
	}
	if fields["kty"] != "EC" || fields["crv"] != "P-256" {
		t.Errorf("unexpected key shape: kty=%v crv=%v", fields["kty"], fields["crv"])
	}
}

func TestThumbprint_Deterministic(t *testing.T) {
	pair := mustGenerate(t)

	first, err := Thumbprint(pair.PublicKey)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Thumbprint(pair.PublicKey)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("thumbprint not deterministic: %q vs %q", first, second)
	}

	// The private key's thumbprint covers only public components, so both
	// halves agree.
	fromPrivate, err := Thumbprint(pair.PrivateKey)
	if err != nil {
		t.Fatal(err)
	}
	if fromPrivate != first {
		t.Errorf("private/public thumbprints differ: %q vs %q", fromPrivate, first)
	}
}

func TestImport_MatchesGenerate(t *testing.T) {
	pair := mustGenerate(t)

	raw, err := pair.PrivateKey.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	imported, err := Import(raw)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if imported.KID != pair.KID {
		t.Errorf("imported kid %q differs from generated %q", imported.KID, pair.KID)
	}

	rawPub, err := imported.PublicKey.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	var fields map[string]any
	if err := json.Unmarshal(rawPub, &fields); err != nil {
		t.Fatal(err)
	}
	if _, leaked := fields["d"]; leaked {
		t.Error("imported public half carries a private component")
	}
}

func TestImport_Rejections(t *testing.T) {
	pair := mustGenerate(t)
	rawPub, err := pair.PublicKey.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"not json", `nope`, "not a JSON object"},
		{"missing kty", `{"d":"abc","crv":"P-256"}`, "key type"},
		{"public key only", string(rawPub), "private component"},
		{"garbage fields", `{"kty":"EC","d":"x","crv":"P-256"}`, "parsing JWK"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Import([]byte(tc.raw)); err == nil {
				t.Fatal("expected rejection")
			} else if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q should mention %q", err, tc.want)
			}
		})
	}
}

func TestPairPersistence(t *testing.T) {
	slots := testkit.NewMemory()
	pair := mustGenerate(t)

	if err := SavePair(slots, pair); err != nil {
		t.Fatalf("SavePair: %v", err)
	}
	loaded, ok := LoadPair(slots)
	if !ok {
		t.Fatal("LoadPair reported absent after save")
	}
	if loaded.KID != pair.KID {
		t.Errorf("loaded kid %q, want %q", loaded.KID, pair.KID)
	}

	// Loaded pairs must survive another thumbprint round.
	tp, err := Thumbprint(loaded.PublicKey)
	if err != nil {
		t.Fatal(err)
	}
	if tp != pair.KID {
		t.Errorf("thumbprint after reload %q, want %q", tp, pair.KID)
	}
}

func TestLoadPair_RejectsBadShapes(t *testing.T) {
	cases := map[string]string{
		"absent":      "",
		"not json":    `}{`,
		"missing kid": `{"privateKey":{},"publicKey":{}}`,
		"empty":       `{}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			slots := testkit.NewMemory()
			if raw != "" {
				if err := slots.Save(storage.SlotKeys, []byte(raw)); err != nil {
					t.Fatal(err)
				}
			}
			if _, ok := LoadPair(slots); ok {
				t.Error("bad record should read as absent")
			}
		})
	}
}

func TestIssuerPersistence(t *testing.T) {
	slots := testkit.NewMemory()
	if got := LoadIssuer(slots); got != "" {
		t.Errorf("issuer before save = %q, want empty", got)
	}
	if err := SaveIssuer(slots, "https://bindpki.org/acme"); err != nil {
		t.Fatal(err)
	}
	if got := LoadIssuer(slots); got != "https://bindpki.org/acme" {
		t.Errorf("issuer = %q", got)
	}
}
