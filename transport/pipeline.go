// Package transport wraps every outbound DevLink API call: it attaches the
// stored credential when one is valid, dispatches the request, and reacts
// to authorization failures by tearing the session down. It is the only
// component that clears credential state reactively, keeping 401-handling
// out of every other package.
package transport

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/devlinkhq/devlink-go/internal/errors"
	"github.com/devlinkhq/devlink-go/session"
)

const requestIDHeader = "X-Request-ID"

type teardownOptOutKey struct{}

// WithoutTeardown marks a request whose authorization failure must not tear
// the session down here. The renewal path uses it: a rejected background
// renewal ends the session without the navigation redirect a rejected user
// request produces, so the session layer classifies that failure itself.
func WithoutTeardown(ctx context.Context) context.Context {
	return context.WithValue(ctx, teardownOptOutKey{}, true)
}

func teardownSuppressed(ctx context.Context) bool {
	on, _ := ctx.Value(teardownOptOutKey{}).(bool)
	return on
}

// Pipeline dispatches authenticated requests against one backend origin.
type Pipeline struct {
	client  *http.Client
	session *session.Manager
	baseURL string
}

// Option modifies a Pipeline at construction time.
type Option func(*Pipeline)

// WithHTTPClient replaces the underlying HTTP client (primarily for
// injecting transports in tests).
func WithHTTPClient(c *http.Client) Option {
	return func(p *Pipeline) { p.client = c }
}

// New creates a request pipeline bound to a session manager and a backend
// origin like "https://api.devlink.dev".
func New(sess *session.Manager, baseURL string, options ...Option) *Pipeline {
	p := &Pipeline{
		client:  http.DefaultClient,
		session: sess,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// NewRequest builds a request for an API path relative to the pipeline's
// backend origin.
func (p *Pipeline) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrapf(err, "build request %s %s", method, path)
	}
	return req, nil
}

// Do attaches the credential when the stored one is valid, dispatches the
// request, and inspects the response.
//
// Caller-supplied headers are preserved, but a valid credential always
// wins the Authorization header: attachment happens last so a caller
// cannot displace it. Unauthenticated endpoints simply go out
// credential-less when no valid credential exists.
//
// A 401 or 403 response tears the session down (store cleared, timer
// stopped, session-ended event emitted with a redirect target) and is then
// returned through the normal flow, so callers that only check the status
// still see a well-formed rejection. Transport-level failures are mapped
// onto the client error taxonomy, never swallowed: "server rejected us"
// and "server unreachable" demand different recoveries.
func (p *Pipeline) Do(req *http.Request) (*http.Response, error) {
	if cred, ok := p.session.Credential(); ok {
		req.Header.Set("Authorization", "Bearer "+string(cred))
	}
	if req.Header.Get(requestIDHeader) == "" {
		req.Header.Set(requestIDHeader, uuid.New().String())
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, transportError(req, err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		if teardownSuppressed(req.Context()) {
			log.Debug().
				Int("status", resp.StatusCode).
				Str("path", req.URL.Path).
				Msg("Authorization rejected, teardown left to caller")
		} else {
			log.Warn().
				Int("status", resp.StatusCode).
				Str("path", req.URL.Path).
				Msg("Authorization rejected, ending session")
			p.session.Teardown(session.EndReasonRejected)
		}
	}

	return resp, nil
}

// transportError classifies a dispatch failure. Timeouts (an explicit abort
// bound elapsing) are distinct from general unreachability.
func transportError(req *http.Request, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Wrapf(errors.ErrRequestTimeout, "%s %s", req.Method, req.URL.Path)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return errors.Wrapf(errors.ErrRequestTimeout, "%s %s", req.Method, req.URL.Path)
	}
	return errors.Wrapf(errors.ErrNetworkUnavailable, "%s %s: %v", req.Method, req.URL.Path, err)
}
