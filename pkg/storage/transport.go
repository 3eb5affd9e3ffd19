package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/adfharrison1/go-docsync/pkg/domain"
)

// SessionCookieName is the cookie carrying a session authenticator's id.
const SessionCookieName = "SyncGatewaySession"

// Transport moves documents between a local database and a sync endpoint.
type Transport interface {
	// Pull returns every document the endpoint holds.
	Pull(ctx context.Context) ([]domain.QueryResultRecord, error)
	// Push stores one document on the endpoint.
	Push(ctx context.Context, id string, doc domain.Document) error
}

// TransportFactory builds the transport for a replicator config.
type TransportFactory func(cfg domain.ReplicatorConfig) (Transport, error)

// DocsResponse is the body served by a sync endpoint's document listing.
type DocsResponse struct {
	Docs []domain.QueryResultRecord `json:"docs"`
}

// HTTPTransport talks to the `<target>/_docs` routes of another go-docsync
// server.
type HTTPTransport struct {
	client  *http.Client
	docsURL string
	auth    domain.Authenticator
}

// NewHTTPTransport is the default TransportFactory. ws and wss targets are
// mapped to http and https.
func NewHTTPTransport(cfg domain.ReplicatorConfig) (Transport, error) {
	if cfg.Target == nil {
		return nil, fmt.Errorf("replicator target is required")
	}
	target := *cfg.Target
	switch target.Scheme {
	case "ws":
		target.Scheme = "http"
	case "wss":
		target.Scheme = "https"
	case "http", "https":
	default:
		return nil, fmt.Errorf("unsupported target scheme %q", target.Scheme)
	}
	target.Path = strings.TrimSuffix(target.Path, "/") + "/_docs"
	target.RawPath = ""

	return &HTTPTransport{
		client:  &http.Client{Timeout: 30 * time.Second},
		docsURL: target.String(),
		auth:    cfg.Authenticator,
	}, nil
}

// Pull implements Transport
func (t *HTTPTransport) Pull(ctx context.Context) ([]domain.QueryResultRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.docsURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := t.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body DocsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}
	return body.Docs, nil
}

// Push implements Transport
func (t *HTTPTransport) Push(ctx context.Context, id string, doc domain.Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, t.docsURL+"/"+url.PathEscape(id), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return nil
}

func (t *HTTPTransport) do(req *http.Request) (*http.Response, error) {
	switch t.auth.Kind {
	case domain.AuthBasic:
		req.SetBasicAuth(t.auth.Username, t.auth.Password)
	case domain.AuthSession:
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: t.auth.SessionID})
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("sync endpoint %s %s returned %s", req.Method, req.URL.Path, resp.Status)
	}
	return resp, nil
}
