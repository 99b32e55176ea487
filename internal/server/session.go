package server

import (
	"fmt"
	"net/http"
	"time"
)

const sessionCookieName = "hotel_session"

// Sessions are short-lived on purpose: they exist to tie a few consecutive
// chat turns together, not to identify a user.
const sessionMaxAge = 15 * time.Minute

func newSessionID() string {
	return fmt.Sprintf("s_%d", time.Now().UnixNano())
}

func SetSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func GetSessionCookie(r *http.Request) (string, error) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

// getSessionID resolves the caller's session from cookie, header, or query
// param, in that order.
func getSessionID(r *http.Request) string {
	if sid, err := GetSessionCookie(r); err == nil && sid != "" {
		return sid
	}
	if sid := r.Header.Get("X-Session-Id"); sid != "" {
		return sid
	}
	return r.URL.Query().Get("sessionId")
}

// getOrCreateSessionID returns the existing session id or mints one and sets
// the cookie on the response.
func getOrCreateSessionID(r *http.Request, w http.ResponseWriter) string {
	sid := getSessionID(r)
	if sid == "" {
		sid = newSessionID()
		SetSessionCookie(w, sid)
	}
	return sid
}
