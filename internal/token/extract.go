package token

import (
	"net/http"
	"strings"
)

// CookieName is the cookie the browser tier uses to carry the credential.
const CookieName = "token"

// FromRequest locates a candidate token on the request: the token cookie
// takes precedence, then an "Authorization: Bearer" header for non-browser
// clients. It reports false when neither carries a value. No side effects.
func FromRequest(r *http.Request) (string, bool) {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
