package exchange

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	json "github.com/goccy/go-json"
)

// DefaultEndpoint is the conventional BIND exchange service.
const DefaultEndpoint = "https://exchange.bind-standard.org/exchange"

// Request is the exchange submission body. Payload is the compact JWE;
// everything else is optional. Exp is seconds from now.
type Request struct {
	Payload  string `json:"payload"`
	Proof    string `json:"proof,omitempty"`
	Passcode string `json:"passcode,omitempty"`
	Label    string `json:"label,omitempty"`
	Exp      int64  `json:"exp,omitempty"`
}

// Response is a successful exchange creation. Exp is epoch milliseconds.
// Trusted is the server's authoritative verdict on whether the proof's
// signer matches a directory-registered key for the declared issuer.
type Response struct {
	URL      string `json:"url"`
	Exp      int64  `json:"exp"`
	Flag     string `json:"flag"`
	Passcode string `json:"passcode,omitempty"`
	Trusted  bool   `json:"trusted"`
	Iss      string `json:"iss,omitempty"`
}

// Client submits encrypted payloads to the exchange endpoint. The endpoint
// is a black box: one POST, no retries, failure surfaces to the user who
// re-triggers the action.
type Client struct {
	Endpoint   string
	HTTPClient *http.Client
}

// NewClient constructs an exchange client. An empty endpoint selects the
// conventional service.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{Endpoint: endpoint, HTTPClient: http.DefaultClient}
}

// Create submits the encrypted payload. Non-2xx responses become a
// descriptive error preferring the server's own message over the HTTP
// status text.
func (c *Client) Create(ctx context.Context, req Request) (*Response, error) {
	if req.Payload == "" {
		return nil, newError(KindSubmit, "empty payload")
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, wrapError(KindSubmit, "encoding request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, wrapError(KindSubmit, "building request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, wrapError(KindSubmit, "submitting exchange", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapError(KindSubmit, "reading response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var failure struct {
			Error string `json:"error"`
		}
		if jerr := json.Unmarshal(raw, &failure); jerr == nil && failure.Error != "" {
			return nil, newError(KindSubmit, failure.Error)
		}
		return nil, newError(KindSubmit, fmt.Sprintf("exchange failed (%s)", resp.Status))
	}

	var out Response
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, wrapError(KindSubmit, "parsing response", err)
	}
	return &out, nil
}
