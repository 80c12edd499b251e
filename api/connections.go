package api

import (
	"context"
	"net/http"
	"net/url"
)

// SendConnectionRequest asks another user to connect. The message is
// optional.
func (c *Client) SendConnectionRequest(ctx context.Context, username, message string) error {
	body := struct {
		Username string `json:"username"`
		Message  string `json:"message,omitempty"`
	}{Username: username, Message: message}
	return c.authedJSON(ctx, http.MethodPost, "/api/connections/request", body, nil)
}

// AcceptConnectionRequest accepts a pending inbound request.
func (c *Client) AcceptConnectionRequest(ctx context.Context, requestID string) error {
	return c.authedJSON(ctx, http.MethodPut, "/api/connections/accept/"+url.PathEscape(requestID), nil, nil)
}

// RejectConnectionRequest rejects a pending inbound request.
func (c *Client) RejectConnectionRequest(ctx context.Context, requestID string) error {
	return c.authedJSON(ctx, http.MethodPut, "/api/connections/reject/"+url.PathEscape(requestID), nil, nil)
}

// ListConnections returns the user's established connections.
func (c *Client) ListConnections(ctx context.Context) ([]Connection, error) {
	var connections []Connection
	if err := c.authedJSON(ctx, http.MethodGet, "/api/connections", nil, &connections); err != nil {
		return nil, err
	}
	return connections, nil
}

// ListConnectionRequests returns pending inbound requests.
func (c *Client) ListConnectionRequests(ctx context.Context) ([]ConnectionRequest, error) {
	var requests []ConnectionRequest
	if err := c.authedJSON(ctx, http.MethodGet, "/api/connections/requests", nil, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// ConnectionStatusFor looks up the relationship with one username.
func (c *Client) ConnectionStatusFor(ctx context.Context, username string) (*ConnectionStatus, error) {
	var status ConnectionStatus
	path := "/api/connections/status/" + url.PathEscape(username)
	if err := c.authedJSON(ctx, http.MethodGet, path, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// RemoveConnection deletes an established connection by its connection ID.
func (c *Client) RemoveConnection(ctx context.Context, connectionID string) error {
	return c.authedJSON(ctx, http.MethodDelete, "/api/connections/"+url.PathEscape(connectionID), nil, nil)
}
