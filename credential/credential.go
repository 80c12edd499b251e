// Package credential owns the bearer credential issued by the DevLink
// backend: its persistent storage and the claims inspection used to decide
// whether it is still worth presenting to the server.
package credential

// Credential is the opaque signed bearer token issued by the backend. It is
// never mutated, only replaced wholesale on renewal or cleared on logout.
// The client reads its claims segment for expiry but never verifies the
// signature; only the backend's acceptance of the token is authoritative.
type Credential string

// IsZero reports whether no credential is present.
func (c Credential) IsZero() bool {
	return c == ""
}
