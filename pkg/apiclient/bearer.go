package apiclient

import (
	"net/http"
	"sync"
)

// bearerTransport attaches "Authorization: Bearer <token>" to each outgoing
// request when the token source has one. Requests that already carry an
// Authorization header pass through untouched. It never retries or refreshes.
type bearerTransport struct {
	mu     sync.RWMutex
	tokens TokenSource
	next   http.RoundTripper
}

func (t *bearerTransport) setTokens(ts TokenSource) {
	t.mu.Lock()
	t.tokens = ts
	t.mu.Unlock()
}

func (t *bearerTransport) token() string {
	t.mu.RLock()
	ts := t.tokens
	t.mu.RUnlock()
	if ts == nil {
		return ""
	}
	return ts.Token()
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	next := t.next
	if next == nil {
		next = http.DefaultTransport
	}

	if req.Header.Get("Authorization") != "" {
		return next.RoundTrip(req)
	}
	tok := t.token()
	if tok == "" {
		return next.RoundTrip(req)
	}

	// RoundTrippers must not mutate the caller's request.
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "Bearer "+tok)
	return next.RoundTrip(r)
}
