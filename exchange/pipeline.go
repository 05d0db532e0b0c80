package exchange

import (
	"context"
	"time"

	"bindx.dev/bindx/archive"
)

// SendOptions are the caller-chosen knobs for one exchange attempt.
type SendOptions struct {
	// Passcode, when set, is required by the exchange to release the
	// payload. The archive stores only its hash.
	Passcode string
	// Label is a human hint carried in the request and the link.
	Label string
	// Exp is the requested lifetime in seconds. Zero means the exchange
	// default.
	Exp int64
}

// SendResult collects everything the pipeline produced. All three tokens
// are compact serializations.
type SendResult struct {
	JWS      string
	JWE      string
	Proof    string
	Response *Response
	Link     string
}

// Pipeline runs the full send sequence: sign, encrypt, prove, submit,
// link. Stages run strictly in order and a failure halts the pipeline
// with nothing partial submitted.
type Pipeline struct {
	Signer Signer
	Client *Client

	// Archive, when non-nil, receives every produced artifact and a send
	// record after a successful submission.
	Archive *archive.Store
}

// Send exchanges payload and returns the artifacts plus the shareable
// link. Errors carry the Kind of the stage that failed.
func (p *Pipeline) Send(ctx context.Context, payload map[string]any, opts SendOptions) (*SendResult, error) {
	jws, err := p.Signer.Sign(payload)
	if err != nil {
		return nil, err
	}

	jwe, key, err := Encrypt(jws)
	if err != nil {
		return nil, err
	}

	proof, err := p.Signer.Proof(jwe)
	if err != nil {
		return nil, err
	}

	client := p.Client
	if client == nil {
		client = NewClient("")
	}
	resp, err := client.Create(ctx, Request{
		Payload:  jwe,
		Proof:    proof,
		Passcode: opts.Passcode,
		Label:    opts.Label,
		Exp:      opts.Exp,
	})
	if err != nil {
		return nil, err
	}

	link, err := EncodeLink(resp.URL, key, resp.Exp, resp.Flag, opts.Label)
	if err != nil {
		return nil, err
	}

	result := &SendResult{JWS: jws, JWE: jwe, Proof: proof, Response: resp, Link: link}
	if p.Archive != nil {
		if err := p.record(result, opts); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// record archives the produced tokens and appends a send record. Archival
// failures are reported even though the submission already happened.
func (p *Pipeline) record(res *SendResult, opts SendOptions) error {
	jwsCID, err := p.Archive.Put([]byte(res.JWS))
	if err != nil {
		return err
	}
	jweCID, err := p.Archive.Put([]byte(res.JWE))
	if err != nil {
		return err
	}
	proofCID, err := p.Archive.Put([]byte(res.Proof))
	if err != nil {
		return err
	}

	rec := archive.Record{
		CreatedAt: time.Now().UTC(),
		JWSCID:    jwsCID.String(),
		JWECID:    jweCID.String(),
		ProofCID:  proofCID.String(),
		URL:       res.Response.URL,
		Exp:       res.Response.Exp,
		Flag:      res.Response.Flag,
		Trusted:   res.Response.Trusted,
		Label:     opts.Label,
	}
	if opts.Passcode != "" {
		hash, err := archive.HashPasscode(opts.Passcode)
		if err != nil {
			return err
		}
		rec.PasscodeHash = hash
	}
	return p.Archive.Append(rec)
}
