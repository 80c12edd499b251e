package credential

import (
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// IsValid reports whether the credential's claims segment decodes and its
// "exp" claim is in the future. Any decode failure is folded into false —
// a malformed credential is behaviourally indistinguishable from absence,
// so no error is ever surfaced from here.
func IsValid(cred Credential) bool {
	exp, ok := ExpiresAt(cred)
	if !ok {
		return false
	}
	return exp.After(NowTimeFunc())
}

// ExpiresAt returns the decoded expiration instant from the credential's
// claims segment, or ok=false when the credential is absent, structurally
// malformed, or carries no "exp" claim. The token is parsed unverified:
// signature validation without the issuer's key proves nothing, and no
// authorization decision is made from these claims.
func ExpiresAt(cred Credential) (time.Time, bool) {
	if strings.TrimSpace(string(cred)) == "" {
		return time.Time{}, false
	}

	token, _, err := jwtlib.NewParser().ParseUnverified(string(cred), jwtlib.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}

	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return time.Time{}, false
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, false
	}

	return time.Unix(int64(exp), 0), true
}
