// Package api is the typed facade over the DevLink backend: profile reads
// and updates, the connection-request lifecycle, and the session renewal
// and logout calls. Every method goes through the authenticated request
// pipeline; none of them duplicate credential or 401 handling.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/devlinkhq/devlink-go/credential"
	"github.com/devlinkhq/devlink-go/internal/errors"
	"github.com/devlinkhq/devlink-go/session"
	"github.com/devlinkhq/devlink-go/transport"
)

// Client is the domain operation facade. Construct it with New.
type Client struct {
	pipeline       *transport.Pipeline
	session        *session.Manager
	baseURL        string
	authEntryPath  string
	requestTimeout time.Duration
}

// ClientOption modifies a Client at construction time.
type ClientOption func(*Client)

// WithRequestTimeout bounds the current-user fetch. Other calls rely on
// the transport's default behaviour.
func WithRequestTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.requestTimeout = d }
}

// WithAuthEntryPath sets the unauthenticated OAuth entry path used by
// LoginURL.
func WithAuthEntryPath(path string) ClientOption {
	return func(c *Client) { c.authEntryPath = path }
}

// New creates a facade over the given session manager and pipeline, and
// registers the refresh call as the session's renewal function so both
// renewal strategies dispatch through the pipeline.
func New(sess *session.Manager, pipeline *transport.Pipeline, baseURL string, options ...ClientOption) (*Client, error) {
	if sess == nil {
		return nil, pkgerrors.New("[NewClient] session manager is required")
	}
	if pipeline == nil {
		return nil, pkgerrors.New("[NewClient] pipeline is required")
	}

	c := &Client{
		pipeline:       pipeline,
		session:        sess,
		baseURL:        baseURL,
		authEntryPath:  "/auth/github",
		requestTimeout: 10 * time.Second,
	}
	for _, opt := range options {
		opt(c)
	}

	sess.SetRenewFunc(c.refreshCredential)
	return c, nil
}

// LoginURL returns the OAuth entry point users are sent to for
// (re-)authentication.
func (c *Client) LoginURL() string {
	return c.baseURL + c.authEntryPath
}

// Health checks the backend's unauthenticated health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/health", nil, nil)
}

// refreshCredential is the session's RenewFunc: it asks the backend for a
// fresh credential using the current one. The session manager stores the
// result and owns the teardown on failure, so a rejected refresh must not
// trip the pipeline's own teardown on the way through.
func (c *Client) refreshCredential(ctx context.Context) (credential.Credential, error) {
	ctx = transport.WithoutTeardown(ctx)
	var tokenResp TokenResponse
	if err := c.authedJSON(ctx, http.MethodPost, "/api/user/refresh-token", nil, &tokenResp); err != nil {
		return "", err
	}
	if tokenResp.Token == "" {
		return "", errors.Wrapf(errors.ErrRenewalFailed, "refresh response carried no token")
	}
	return credential.Credential(tokenResp.Token), nil
}

// Logout tells the backend to end the session, then tears down local state
// regardless of the server's answer: a logout that fails remotely still
// must not leave a credential behind.
func (c *Client) Logout(ctx context.Context) error {
	err := c.authedJSON(ctx, http.MethodPost, "/api/user/logout", nil, nil)
	c.session.Logout()
	if err != nil && !errors.Is(err, errors.ErrUnauthenticated) {
		return errors.Wrapf(err, "server logout")
	}
	return nil
}

// APIError is a non-2xx answer from the backend, carrying the server's
// reported message when the response body supplied one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server rejected request (%d): %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return errors.ErrServerRejected
}

// authedJSON requires a valid session before dispatching: protected calls
// with no usable credential fail locally, saving a round trip the server
// would reject anyway.
func (c *Client) authedJSON(ctx context.Context, method, path string, body, out any) error {
	if _, ok := c.session.Credential(); !ok {
		return errors.Wrapf(errors.ErrUnauthenticated, "%s %s", method, path)
	}
	return c.doJSON(ctx, method, path, body, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrapf(err, "[doJSON] marshal %s %s body", method, path)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := c.pipeline.NewRequest(ctx, method, path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.pipeline.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		// The pipeline has already torn the session down.
		return errors.Wrapf(errors.ErrAuthorizationRejected, "%s %s", method, path)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return apiErrorFrom(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrapf(err, "[doJSON] decode %s %s response", method, path)
	}
	return nil
}

// apiErrorFrom translates a non-2xx response into an APIError, preferring
// the server's own message over a generic status-coded one.
func apiErrorFrom(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("request failed with status %d", resp.StatusCode),
	}

	var errResp errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
		if errResp.Error != "" {
			apiErr.Message = errResp.Error
		} else if errResp.Message != "" {
			apiErr.Message = errResp.Message
		}
	}
	return apiErr
}
