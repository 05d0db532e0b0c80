package keys

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-jose/go-jose/v4"
	json "github.com/goccy/go-json"
)

// DefaultDirectoryURL is the BIND PKI directory serving issuer key sets.
const DefaultDirectoryURL = "https://bindpki.org"

var (
	// ErrIssuerNotFound is the expected outcome for issuers that never
	// registered with the directory. It downgrades trust, nothing more.
	ErrIssuerNotFound = errors.New("keys: issuer not found in directory")
	// ErrBadKeySet marks a fetched document that is not a JWKS.
	ErrBadKeySet = errors.New("keys: invalid key set format")
	// ErrEmptyIssuer marks an issuer string that normalizes to nothing.
	ErrEmptyIssuer = errors.New("keys: empty issuer")
)

// Directory looks up issuer key sets at
// {base}/{slug}/.well-known/jwks.json.
type Directory struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewDirectory constructs a directory client. An empty baseURL selects the
// conventional BIND directory.
func NewDirectory(baseURL string) *Directory {
	if baseURL == "" {
		baseURL = DefaultDirectoryURL
	}
	return &Directory{BaseURL: strings.TrimRight(baseURL, "/"), HTTPClient: http.DefaultClient}
}

// Slug normalizes an issuer identifier to a directory slug: URL-shaped
// issuers keep only their path, and leading/trailing slashes are trimmed.
func Slug(issuer string) string {
	issuer = strings.TrimSpace(issuer)
	if u, err := url.Parse(issuer); err == nil && u.Scheme != "" && u.Host != "" {
		issuer = u.Path
	}
	return strings.Trim(issuer, "/")
}

// FetchKeySet retrieves the published JWKS for an issuer. Failure reasons
// stay distinguishable: ErrIssuerNotFound for a 404, ErrBadKeySet for a
// malformed document, and a wrapped transport error otherwise.
func (d *Directory) FetchKeySet(ctx context.Context, issuer string) ([]jose.JSONWebKey, error) {
	slug := Slug(issuer)
	if slug == "" {
		return nil, ErrEmptyIssuer
	}

	endpoint := d.BaseURL + "/" + slug + "/.well-known/jwks.json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("keys: building directory request: %w", err)
	}
	client := d.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("keys: fetching key set: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrIssuerNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("keys: fetching key set: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("keys: reading key set: %w", err)
	}
	var doc struct {
		Keys []json.RawMessage `json:"keys"`
	}
	if err := json.Unmarshal(body, &doc); err != nil || doc.Keys == nil {
		return nil, ErrBadKeySet
	}
	set := make([]jose.JSONWebKey, 0, len(doc.Keys))
	for _, raw := range doc.Keys {
		var jwk jose.JSONWebKey
		if err := jwk.UnmarshalJSON(raw); err != nil {
			// Skip keys this client cannot parse; the set may carry
			// algorithms we do not speak.
			continue
		}
		set = append(set, jwk)
	}
	return set, nil
}

// TrustState classifies a directory lookup outcome.
type TrustState int

const (
	TrustLoading TrustState = iota
	TrustFound
	TrustNotFound
)

// TrustStatus is the result of checking the local kid against an issuer's
// published keys. This is a client-side hint; the server's trusted flag in
// the exchange response is authoritative.
type TrustStatus struct {
	State TrustState
	// Keys is the fetched set when State == TrustFound.
	Keys []jose.JSONWebKey
	// KIDListed reports whether the local kid appears in Keys.
	KIDListed bool
	// Reason explains a TrustNotFound state (unregistered issuer vs
	// fetch/format failure).
	Reason string
}

// CheckTrust fetches the issuer's key set and reports whether kid is among
// the published keys. Lookup failures are normal outcomes, not errors.
func (d *Directory) CheckTrust(ctx context.Context, issuer, kid string) TrustStatus {
	set, err := d.FetchKeySet(ctx, issuer)
	if err != nil {
		reason := "failed to fetch key set"
		if errors.Is(err, ErrIssuerNotFound) {
			reason = "issuer not registered in directory"
		} else if errors.Is(err, ErrBadKeySet) {
			reason = "directory returned an invalid key set"
		} else if errors.Is(err, ErrEmptyIssuer) {
			reason = "empty issuer"
		}
		return TrustStatus{State: TrustNotFound, Reason: reason}
	}

	status := TrustStatus{State: TrustFound, Keys: set}
	for _, jwk := range set {
		if jwk.KeyID == kid {
			status.KIDListed = true
			break
		}
	}
	return status
}
