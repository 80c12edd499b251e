package credential_test

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/devlinkhq/devlink-go/credential"
)

// makeToken builds a structurally valid three-segment bearer token around
// the given claims. The signature segment is garbage: the inspector never
// reads it.
func makeToken(t *testing.T, claims map[string]any) credential.Credential {
	t.Helper()

	header, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	require.NoError(t, err)
	payload, err := json.Marshal(claims)
	require.NoError(t, err)

	enc := base64.RawURLEncoding
	return credential.Credential(enc.EncodeToString(header) + "." + enc.EncodeToString(payload) + "." + enc.EncodeToString([]byte("sig")))
}

func TestIsValid(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	credential.NowTimeFunc = func() time.Time { return now }
	t.Cleanup(func() { credential.NowTimeFunc = time.Now })

	t.Run("future exp is valid", func(t *testing.T) {
		cred := makeToken(t, map[string]any{"exp": now.Add(time.Hour).Unix()})
		require.True(t, credential.IsValid(cred))
	})

	t.Run("past exp is invalid", func(t *testing.T) {
		cred := makeToken(t, map[string]any{"exp": now.Add(-10 * time.Second).Unix()})
		require.False(t, credential.IsValid(cred))
	})

	t.Run("exp exactly now is invalid", func(t *testing.T) {
		cred := makeToken(t, map[string]any{"exp": now.Unix()})
		require.False(t, credential.IsValid(cred))
	})

	t.Run("missing exp claim is invalid", func(t *testing.T) {
		cred := makeToken(t, map[string]any{"sub": "user-1"})
		require.False(t, credential.IsValid(cred))
	})

	t.Run("empty credential is invalid", func(t *testing.T) {
		require.False(t, credential.IsValid(""))
	})

	t.Run("malformed credentials are invalid and never panic", func(t *testing.T) {
		for _, cred := range []credential.Credential{
			"not-a-token",
			"only.two",
			"abc.def.ghi",
			"a.b.c.d",
			"..",
		} {
			require.False(t, credential.IsValid(cred), "credential %q", cred)
		}
	})
}

func TestExpiresAt(t *testing.T) {
	t.Run("returns decoded instant", func(t *testing.T) {
		exp := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
		cred := makeToken(t, map[string]any{"exp": exp.Unix()})

		got, ok := credential.ExpiresAt(cred)
		require.True(t, ok)
		require.Equal(t, exp.Unix(), got.Unix())
	})

	t.Run("absent for undecodable credential", func(t *testing.T) {
		_, ok := credential.ExpiresAt("abc.def.ghi")
		require.False(t, ok)
	})

	t.Run("absent when exp claim missing", func(t *testing.T) {
		cred := makeToken(t, map[string]any{"sub": "user-1"})
		_, ok := credential.ExpiresAt(cred)
		require.False(t, ok)
	})
}
