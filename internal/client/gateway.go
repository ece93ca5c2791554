// Base HTTP plumbing shared by all gateways.
//
// Each gateway call is a single attempt: no retries. Retrying against an
// already-degraded aggregation path would amplify load on a struggling
// upstream, so retry policy is left to callers who actually need it. The
// per-call budget is enforced by a context deadline; expiry counts as a
// breaker failure like any other transport error.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

// gateway holds the transport state shared by one upstream's typed methods.
type gateway struct {
	name    string // upstream name, e.g. "content-service"
	baseURL string
	http    *http.Client
	breaker *Breaker
	timeout time.Duration
}

func newGateway(name, baseURL string, timeout time.Duration, breaker *Breaker) *gateway {
	return &gateway{
		name:    name,
		baseURL: baseURL,
		http:    &http.Client{},
		breaker: breaker,
		timeout: timeout,
	}
}

// Breaker exposes the upstream's circuit breaker, mainly for health
// reporting and tests.
func (g *gateway) Breaker() *Breaker { return g.breaker }

// getJSON performs a GET against path and decodes the upstream envelope.
func getJSON[T any](ctx context.Context, g *gateway, op, path string, query url.Values) Envelope[T] {
	u := g.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return doJSON[T](ctx, g, op, http.MethodGet, u, nil)
}

// postJSON performs a POST with a JSON body and decodes the upstream envelope.
func postJSON[T any](ctx context.Context, g *gateway, op, path string, body any) Envelope[T] {
	payload, err := json.Marshal(body)
	if err != nil {
		return degrade[T](g, op, "encode request: "+err.Error())
	}
	return doJSON[T](ctx, g, op, http.MethodPost, g.baseURL+path, payload)
}

// doJSON executes one transport attempt under the circuit breaker.
//
// Breaker accounting follows transport health only: connection errors,
// timeouts and 5xx responses count as failures; any other completed response
// counts as a success even when the decoded envelope reports an application
// error (e.g. a 404 for a missing novel). Those application results pass
// through to the caller unchanged.
func doJSON[T any](ctx context.Context, g *gateway, op, method, url string, body []byte) Envelope[T] {
	if !g.breaker.Allow() {
		log.Warn().
			Str("service", g.name).
			Str("operation", op).
			Msg("circuit open, short-circuiting upstream call")
		return degrade[T](g, op, "circuit open")
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		g.breaker.RecordFailure()
		return degrade[T](g, op, "build request: "+err.Error())
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.http.Do(req)
	if err != nil {
		// Connection error or deadline expiry.
		g.breaker.RecordFailure()
		log.Error().
			Str("service", g.name).
			Str("operation", op).
			Err(err).
			Msg("upstream call failed")
		return degrade[T](g, op, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		g.breaker.RecordFailure()
		log.Error().
			Str("service", g.name).
			Str("operation", op).
			Int("status", resp.StatusCode).
			Msg("upstream server error")
		return degrade[T](g, op, fmt.Sprintf("upstream status %d", resp.StatusCode))
	}

	// Transport is healthy from here on, whatever the envelope says.
	g.breaker.RecordSuccess()

	var env Envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		log.Error().
			Str("service", g.name).
			Str("operation", op).
			Err(err).
			Msg("upstream response decode failed")
		return degrade[T](g, op, "decode response: "+err.Error())
	}
	return env
}

// degrade builds the fixed 503 envelope naming the upstream and operation.
func degrade[T any](g *gateway, op, detail string) Envelope[T] {
	return Degraded[T](http.StatusServiceUnavailable,
		fmt.Sprintf("%s temporarily unavailable: %s (%s)", g.name, op, detail))
}

// pageQuery assembles the standard pagination query parameters used by the
// upstream list endpoints.
func pageQuery(page, size int, sortKey, sortField, orderKey, order string) url.Values {
	q := url.Values{}
	q.Set("page", fmt.Sprintf("%d", page))
	q.Set("size", fmt.Sprintf("%d", size))
	if sortField != "" {
		q.Set(sortKey, sortField)
	}
	if order != "" {
		q.Set(orderKey, order)
	}
	return q
}
