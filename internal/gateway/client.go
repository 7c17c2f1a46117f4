// Package gateway is a typed client for ledger zome functions exposed by an
// HTTP gateway (hc-http-gw).
//
// Every zome function is a GET endpoint:
//
//	GET {url}/{dna_hash}/{app_id}/{zome}/{fn}?payload={base64(json)}
//
// Functions that take no arguments omit the payload parameter entirely; the
// gateway distinguishes "no payload" from an empty one. The client never
// retries. All failures surface as *Error.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Zome names of the ledger DNA.
const (
	ZomeResource   = "zome_resource"
	ZomeGovernance = "zome_gouvernance"
)

// DefaultTimeout bounds a single gateway call when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Config addresses one ledger DNA behind one gateway.
type Config struct {
	URL             string
	Timeout         time.Duration
	AppID           string
	DNAHash         string
	PayloadEncoding PayloadEncoding
	HashEncoding    HashEncoding
}

// Client calls zome functions through the gateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
	payloads   PayloadEncoding
	hashes     HashEncoding
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client. Its Timeout is left as given.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithLogger sets the logger used for per-call debug logs.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client. Empty encodings default to standard payloads and byte-array
// hashes, the conventions of gateway v0.3.x.
func New(cfg Config, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if base == "" {
		return nil, fmt.Errorf("gateway url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid gateway url %q: %w", base, err)
	}

	payloads := cfg.PayloadEncoding
	if payloads == "" {
		payloads = PayloadStandard
	}
	if _, err := ParsePayloadEncoding(string(payloads)); err != nil {
		return nil, err
	}
	hashes := cfg.HashEncoding
	if hashes == "" {
		hashes = HashAsBytes
	}
	if _, err := ParseHashEncoding(string(hashes)); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		baseURL:    base + "/" + url.PathEscape(cfg.DNAHash) + "/" + url.PathEscape(cfg.AppID),
		httpClient: &http.Client{Timeout: timeout},
		payloads:   payloads,
		hashes:     hashes,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// PayloadEncoding returns the client's payload encoding.
func (c *Client) PayloadEncoding() PayloadEncoding {
	return c.payloads
}

// HashEncoding returns the client's hash encoding.
func (c *Client) HashEncoding() HashEncoding {
	return c.hashes
}

// FunctionURL returns the endpoint of a zome function, without payload.
func (c *Client) FunctionURL(zome, fn string) string {
	return c.baseURL + "/" + url.PathEscape(zome) + "/" + url.PathEscape(fn)
}

// EncodePayload renders payload the way Call puts it in the query string:
// compact JSON, hashes in the client's hash encoding, then base64.
func (c *Client) EncodePayload(payload any) (string, error) {
	data, err := marshalPayload(payload, c.hashes)
	if err != nil {
		return "", err
	}
	return c.payloads.Encode(data), nil
}

// Call invokes a zome function and returns the raw JSON response.
// A nil payload omits the payload parameter.
func (c *Client) Call(ctx context.Context, zome, fn string, payload any) (json.RawMessage, error) {
	endpoint := c.FunctionURL(zome, fn)
	if payload != nil {
		encoded, err := c.EncodePayload(payload)
		if err != nil {
			return nil, codecError(fn, "encode payload", err)
		}
		endpoint += "?" + url.Values{"payload": {encoded}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, transportError(fn, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("gateway call failed", "zome", zome, "fn", fn, "error", err)
		return nil, transportError(fn, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(fn, err)
	}
	c.logger.Debug("gateway call",
		"zome", zome,
		"fn", fn,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, remoteError(fn, resp.StatusCode, body)
	}
	return json.RawMessage(body), nil
}

// HealthCheck reports whether the gateway answers a read-only listing call.
func (c *Client) HealthCheck(ctx context.Context) bool {
	_, err := c.GetAllResourceSpecifications(ctx)
	return err == nil
}

// call invokes fn and decodes the response into T.
func call[T any](ctx context.Context, c *Client, zome, fn string, payload any) (T, error) {
	var out T
	raw, err := c.Call(ctx, zome, fn, payload)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, codecError(fn, "decode response", err)
	}
	return out, nil
}
