package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenExpiry reads the exp claim of the session's access token
// without verifying the signature. The upstream API is the verifier; the
// gateway only surfaces the expiry for display and logging.
func AccessTokenExpiry(sess *Session) (time.Time, bool) {
	if !sess.Authenticated() {
		return time.Time{}, false
	}
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(sess.AccessToken, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
