package api

import "time"

// User is the profile record returned from the current-user endpoint.
type User struct {
	// ID is the backend's stable user identifier.
	ID string `json:"id"`

	// Username is the unique handle, typically the GitHub login the account
	// was created from.
	Username string `json:"username"`

	// Name is the display name.
	Name string `json:"name,omitempty"`

	// Email may be empty when the user has not made it public.
	Email string `json:"email,omitempty"`

	// AvatarURL points at the profile image.
	AvatarURL string `json:"avatar_url,omitempty"`

	// Profession is the free-text professional title.
	Profession string `json:"profession,omitempty"`

	// Technologies is the list of technology tags on the profile.
	Technologies []string `json:"technologies,omitempty"`

	// SocialLinks holds the profile's external links.
	SocialLinks SocialLinks `json:"social_links,omitempty"`
}

// SocialLinks are the external links shown on a profile.
type SocialLinks struct {
	GitHub   string `json:"github,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	Website  string `json:"website,omitempty"`
}

// Connection is an established link between the current user and another.
type Connection struct {
	// ID identifies the connection itself, not either user. Removal goes
	// through this ID.
	ID string `json:"id"`

	// User is the other side of the connection.
	User User `json:"user"`

	// ConnectedAt is when the request was accepted.
	ConnectedAt time.Time `json:"connected_at"`
}

// ConnectionRequest is a pending inbound request awaiting accept or reject.
type ConnectionRequest struct {
	// ID is used in the accept/reject paths.
	ID string `json:"id"`

	// From is the requesting user.
	From User `json:"from"`

	// SentAt is when the request was issued.
	SentAt time.Time `json:"sent_at"`

	// Message is the optional note attached to the request.
	Message string `json:"message,omitempty"`
}

// ConnectionState enumerates the relationship between the current user and
// another username. The status endpoint returns exactly one of these.
type ConnectionState string

const (
	// ConnectionStateNone means no connection or pending request exists.
	ConnectionStateNone ConnectionState = "none"
	// ConnectionStatePendingSent means the current user sent a request that
	// has not been answered.
	ConnectionStatePendingSent ConnectionState = "pending_sent"
	// ConnectionStatePendingReceived means the other user sent a request
	// the current user has not answered.
	ConnectionStatePendingReceived ConnectionState = "pending_received"
	// ConnectionStateConnected means an accepted connection exists.
	ConnectionStateConnected ConnectionState = "connected"
)

// ConnectionStatus is the status endpoint's answer for one username.
type ConnectionStatus struct {
	// State is the relationship between the two users.
	State ConnectionState `json:"state"`

	// ConnectionID is set when State is "connected", for use with removal.
	ConnectionID string `json:"connection_id,omitempty"`

	// RequestID is set for either pending state, for use with accept/reject.
	RequestID string `json:"request_id,omitempty"`
}

// TokenResponse is the refresh endpoint's response.
type TokenResponse struct {
	// Token is the freshly issued bearer credential. It replaces the stored
	// one wholesale; the old credential is not kept.
	Token string `json:"token"`

	// TokenType is always "bearer" for this backend.
	TokenType string `json:"token_type,omitempty"`

	// ExpiresIn is a lifetime hint in seconds. The authoritative expiry is
	// the credential's own exp claim.
	ExpiresIn int `json:"expires_in,omitempty"`
}

// errorResponse is the backend's error body shape. Either field may carry
// the human-readable message depending on the endpoint.
type errorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}
