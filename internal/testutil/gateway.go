package testutil

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Test addressing used by FakeGateway.
const (
	TestDNAHash = "uhC0kTestDnaHash"
	TestAppID   = "nondominium"
)

// GatewayCall is one request received by FakeGateway.
type GatewayCall struct {
	Zome string
	Fn   string

	// HasPayload is false when the request carried no payload parameter at all.
	HasPayload bool

	// RawPayload is the payload parameter exactly as received (base64 text).
	RawPayload string

	// Payload is the decoded JSON, nil when HasPayload is false.
	Payload json.RawMessage
}

// Decode unmarshals the call's payload into v.
func (c GatewayCall) Decode(v any) error {
	if !c.HasPayload {
		return fmt.Errorf("%s: no payload", c.Fn)
	}
	return json.Unmarshal(c.Payload, v)
}

// Responder produces the HTTP status and JSON body for a call.
type Responder func(call GatewayCall) (status int, body any)

type failure struct {
	match  func(GatewayCall) bool
	status int
	body   string
}

// FakeGateway is an httptest server speaking the gateway's wire contract.
//
// Requests must target /{TestDNAHash}/{TestAppID}/{zome}/{fn}. Payloads are
// decoded with either base64 alphabet so both client encodings can be observed.
// Unregistered functions answer 404.
//
// Thread-safety: FakeGateway is safe for concurrent use via internal mutex.
type FakeGateway struct {
	Server *httptest.Server

	mu         sync.Mutex
	calls      []GatewayCall
	responders map[string]Responder
	failures   map[string][]failure
}

// NewFakeGateway starts a fake gateway that is closed when the test ends.
func NewFakeGateway(t *testing.T) *FakeGateway {
	t.Helper()
	g := &FakeGateway{
		responders: make(map[string]Responder),
		failures:   make(map[string][]failure),
	}
	g.Server = httptest.NewServer(http.HandlerFunc(g.serve))
	t.Cleanup(g.Server.Close)
	return g
}

// URL returns the gateway base URL.
func (g *FakeGateway) URL() string {
	return g.Server.URL
}

// Handle registers the responder for a zome function.
func (g *FakeGateway) Handle(fn string, r Responder) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.responders[fn] = r
}

// HandleJSON registers a fixed 200 response for a zome function.
func (g *FakeGateway) HandleJSON(fn string, body any) {
	g.Handle(fn, func(GatewayCall) (int, any) { return http.StatusOK, body })
}

// Fail makes calls to fn answer status with body whenever match returns true.
// A nil match fails every call.
func (g *FakeGateway) Fail(fn string, match func(GatewayCall) bool, status int, body string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if match == nil {
		match = func(GatewayCall) bool { return true }
	}
	g.failures[fn] = append(g.failures[fn], failure{match: match, status: status, body: body})
}

// Calls returns every call received so far, in order.
func (g *FakeGateway) Calls() []GatewayCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]GatewayCall(nil), g.calls...)
}

// CallsTo returns the calls received for one zome function.
func (g *FakeGateway) CallsTo(fn string) []GatewayCall {
	var out []GatewayCall
	for _, c := range g.Calls() {
		if c.Fn == fn {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets recorded calls. Responders and failures are kept.
func (g *FakeGateway) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = nil
}

func (g *FakeGateway) serve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 4 || parts[0] != TestDNAHash || parts[1] != TestAppID {
		http.Error(w, "unknown path "+r.URL.Path, http.StatusNotFound)
		return
	}

	call := GatewayCall{Zome: parts[2], Fn: parts[3]}
	if values, ok := r.URL.Query()["payload"]; ok {
		call.HasPayload = true
		call.RawPayload = values[0]
		decoded, err := decodePayload(call.RawPayload)
		if err != nil {
			http.Error(w, "bad payload: "+err.Error(), http.StatusBadRequest)
			return
		}
		call.Payload = decoded
	}

	g.mu.Lock()
	g.calls = append(g.calls, call)
	responder := g.responders[call.Fn]
	var failed *failure
	for _, f := range g.failures[call.Fn] {
		if f.match(call) {
			f := f
			failed = &f
			break
		}
	}
	g.mu.Unlock()

	if failed != nil {
		http.Error(w, failed.body, failed.status)
		return
	}
	if responder == nil {
		http.Error(w, "no such function "+call.Fn, http.StatusNotFound)
		return
	}

	status, body := responder(call)
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// decodePayload accepts standard padded base64 and URL-safe unpadded base64.
func decodePayload(s string) (json.RawMessage, error) {
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawURLEncoding} {
		data, err := enc.DecodeString(s)
		if err == nil && json.Valid(data) {
			return json.RawMessage(data), nil
		}
	}
	return nil, fmt.Errorf("payload is neither standard nor url-safe base64 JSON")
}
