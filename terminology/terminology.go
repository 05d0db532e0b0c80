// Package terminology is a read-only client for the BIND terminology
// service: code systems and their concepts, used to ground coded fields
// (x-terminology annotations in the schemas) in their canonical systems.
package terminology

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"
)

// DefaultBaseURL is the conventional BIND terminology service.
const DefaultBaseURL = "https://terminology.bind-standard.org"

// CodeSystem is one catalog entry.
type CodeSystem struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	System  string `json:"system"`
	Version string `json:"version,omitempty"`
	Count   int    `json:"count"`
}

// Concept is one coded value within a system.
type Concept struct {
	Code       string `json:"code"`
	Display    string `json:"display"`
	Definition string `json:"definition,omitempty"`
}

// Client talks to a terminology service. Construct one and inject it;
// there is no package-level default instance.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient constructs a terminology client. An empty base URL selects
// the conventional service.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{BaseURL: baseURL, HTTPClient: http.DefaultClient}
}

// CodeSystems lists every code system the service knows.
func (c *Client) CodeSystems(ctx context.Context) ([]CodeSystem, error) {
	var out []CodeSystem
	if err := c.get(ctx, "/codesystems", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CodeSystem fetches one code system by id.
func (c *Client) CodeSystem(ctx context.Context, id string) (*CodeSystem, error) {
	var out CodeSystem
	if err := c.get(ctx, "/codesystems/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Concepts lists the concepts of a code system.
func (c *Client) Concepts(ctx context.Context, systemID string) ([]Concept, error) {
	var out []Concept
	if err := c.get(ctx, "/codesystems/"+url.PathEscape(systemID)+"/concepts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchConcepts filters a code system's concepts by a free-text query.
func (c *Client) SearchConcepts(ctx context.Context, systemID, q string) ([]Concept, error) {
	var out []Concept
	query := url.Values{"q": []string{q}}
	if err := c.get(ctx, "/codesystems/"+url.PathEscape(systemID)+"/concepts", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, into any) error {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	u := strings.TrimRight(base, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("terminology: %s returned %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(into)
}
