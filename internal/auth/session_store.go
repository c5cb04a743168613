package auth

import (
	"github.com/gorilla/sessions"
	"github.com/markbates/goth/gothic"
)

// InitializeSessionStore sets up the gothic session store used during the
// OAuth handshake. 30-day window, matching the session token.
func InitializeSessionStore(secret string) {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   false, // Set to true in production with HTTPS
	}
	gothic.Store = store
}
