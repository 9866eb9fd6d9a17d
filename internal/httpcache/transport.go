package httpcache

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/apex/log"
)

// DefaultExpiry is how long a cached response is served before it is refetched.
const DefaultExpiry = 12 * time.Hour

// HeaderFromCache is set on responses served from the store.
const HeaderFromCache = "X-From-Cache"

// Transport is an http.RoundTripper that serves successful GET responses
// from a Store until they are older than Expiry.
type Transport struct {
	Store  Store
	Expiry time.Duration
	Next   http.RoundTripper
	Now    func() time.Time
}

// NewTransport wraps next with a cache backed by store.
func NewTransport(store Store, expiry time.Duration, next http.RoundTripper) *Transport {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	if next == nil {
		next = http.DefaultTransport
	}
	return &Transport{Store: store, Expiry: expiry, Next: next, Now: time.Now}
}

// NewClient returns an HTTP client whose GET responses are cached in store,
// with optional proxy support.
func NewClient(store Store, expiry time.Duration, proxyURL string) *http.Client {
	base := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			base.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: NewTransport(store, expiry, base),
	}
}

// Key identifies a request in the store. Secret query parameters are not
// part of the key.
func Key(req *http.Request) string {
	return req.Method + " " + RedactedURL(req.URL)
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return t.Next.RoundTrip(req)
	}
	key := Key(req)
	ctx := req.Context()
	logger := log.WithField("url", RedactedURL(req.URL))

	entry, ok, err := t.Store.Get(ctx, key)
	if err != nil {
		logger.WithError(err).Warn("cache lookup failed")
	}
	if ok && t.Now().Sub(entry.StoredAt) < t.Expiry {
		resp, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(entry.Response)), req)
		if err == nil {
			resp.Header.Set(HeaderFromCache, "1")
			logger.Debug("cache hit")
			return resp, nil
		}
		logger.WithError(err).Warn("discarding unreadable cache entry")
	}

	resp, err := t.Next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}

	// DumpResponse buffers the body and leaves resp readable.
	raw, err := httputil.DumpResponse(resp, true)
	if err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("buffer response: %w", err)
	}
	if err := t.Store.Put(ctx, &Entry{Key: key, Response: raw, StoredAt: t.Now()}); err != nil {
		logger.WithError(err).Warn("cache store failed")
	} else {
		logger.Debug("cache miss, stored")
	}
	return resp, nil
}

// PurgeExpired deletes every entry older than the transport expiry.
func (t *Transport) PurgeExpired(ctx context.Context) (int64, error) {
	return t.Store.Purge(ctx, t.Now().Add(-t.Expiry))
}
