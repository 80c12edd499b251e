package callback_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devlinkhq/devlink-go/callback"
	"github.com/devlinkhq/devlink-go/credential"
)

func TestExtract(t *testing.T) {
	t.Run("extracts and scrubs the token parameter", func(t *testing.T) {
		u, err := url.Parse("http://localhost:3000/?token=abc.def.ghi")
		require.NoError(t, err)

		cred, cleaned, found := callback.Extract(u)
		require.True(t, found)
		require.Equal(t, credential.Credential("abc.def.ghi"), cred)
		require.NotContains(t, cleaned.String(), "token")
	})

	t.Run("preserves unrelated query parameters", func(t *testing.T) {
		u, err := url.Parse("http://localhost:3000/profile?tab=connections&token=abc.def.ghi")
		require.NoError(t, err)

		_, cleaned, found := callback.Extract(u)
		require.True(t, found)
		require.Equal(t, "connections", cleaned.Query().Get("tab"))
		require.Empty(t, cleaned.Query().Get("token"))
		require.Equal(t, "/profile", cleaned.Path)
	})

	t.Run("no-op without the parameter", func(t *testing.T) {
		u, err := url.Parse("http://localhost:3000/?other=1")
		require.NoError(t, err)

		_, cleaned, found := callback.Extract(u)
		require.False(t, found)
		require.Same(t, u, cleaned)
	})

	t.Run("idempotent after a successful extraction", func(t *testing.T) {
		u, err := url.Parse("http://localhost:3000/?token=abc.def.ghi")
		require.NoError(t, err)

		cred, cleaned, found := callback.Extract(u)
		require.True(t, found)

		_, _, foundAgain := callback.Extract(cleaned)
		require.False(t, foundAgain)
		require.Equal(t, credential.Credential("abc.def.ghi"), cred)
	})
}

func TestHandleRedirect(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	t.Run("stores the credential and redirects to the scrubbed location", func(t *testing.T) {
		store := credential.NewMemoryStore()
		handler := callback.HandleRedirect(store, next)

		req := httptest.NewRequest(http.MethodGet, "/?token=abc.def.ghi", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.NotContains(t, rec.Header().Get("Location"), "token")

		cred, ok, err := store.Load()
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, credential.Credential("abc.def.ghi"), cred)
	})

	t.Run("falls through to next without the parameter", func(t *testing.T) {
		store := credential.NewMemoryStore()
		handler := callback.HandleRedirect(store, next)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusTeapot, rec.Code)

		_, ok, err := store.Load()
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("second load after the redirect is a no-op", func(t *testing.T) {
		store := credential.NewMemoryStore()
		handler := callback.HandleRedirect(store, next)

		first := httptest.NewRequest(http.MethodGet, "/?token=abc.def.ghi", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, first)
		require.Equal(t, http.StatusSeeOther, rec.Code)

		// Replay the scrubbed location, as a browser reload would.
		second := httptest.NewRequest(http.MethodGet, rec.Header().Get("Location"), nil)
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, second)
		require.Equal(t, http.StatusTeapot, rec.Code)

		cred, ok, err := store.Load()
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, credential.Credential("abc.def.ghi"), cred)
	})
}
