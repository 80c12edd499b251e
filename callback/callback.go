// Package callback extracts a freshly issued credential from the OAuth
// post-redirect URL and scrubs it from the visible location, so the
// credential never lingers in history or gets re-submitted on reload.
package callback

import (
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/devlinkhq/devlink-go/credential"
)

// TokenParam is the query parameter the backend redirects the issued
// credential under.
const TokenParam = "token"

// Extract looks for the credential parameter in u. When present it returns
// the credential, a copy of u with the parameter stripped, and true. When
// absent it returns found=false and the URL untouched, so a second call
// after a successful extraction is a no-op.
func Extract(u *url.URL) (cred credential.Credential, cleaned *url.URL, found bool) {
	query := u.Query()
	token := query.Get(TokenParam)
	if token == "" {
		return "", u, false
	}

	query.Del(TokenParam)
	scrubbed := *u
	scrubbed.RawQuery = query.Encode()
	return credential.Credential(token), &scrubbed, true
}

// HandleRedirect returns a handler for the OAuth redirect landing: it
// stores the extracted credential and answers with a redirect to the same
// location minus the credential parameter. Requests without the parameter
// fall through to next unchanged, which also covers the reload after the
// scrubbing redirect.
func HandleRedirect(store credential.Store, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cred, cleaned, found := Extract(r.URL)
		if !found {
			next.ServeHTTP(w, r)
			return
		}

		if err := store.Save(cred); err != nil {
			log.Err(err).Msg("Failed to store credential from OAuth redirect")
			http.Error(w, "failed to store credential", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, cleaned.String(), http.StatusSeeOther)
	})
}
