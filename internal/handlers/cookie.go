package handlers

import (
	"net/http"
	"time"

	"github.com/deepcave/auth-service/internal/jwt"
)

// SessionCookies writes the session token into the jwt cookie. The cookie is
// HttpOnly and SameSite=Strict; Secure is enabled in production.
type SessionCookies struct {
	Secure  bool
	ExpDays int
}

// NewSessionCookies creates a cookie writer with the configured expiry.
func NewSessionCookies(secure bool, expDays int) *SessionCookies {
	return &SessionCookies{Secure: secure, ExpDays: expDays}
}

// Set attaches the session cookie to the response.
func (c *SessionCookies) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     jwt.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(time.Duration(c.ExpDays) * 24 * time.Hour),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}
