package sessions

import (
	"net/http"
	"os"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

var store = sessions.NewCookieStore(sessionKey())

// sessionKey returns the configured session key, or a process-local random
// key when none is set. Sessions then only survive a restart in production.
func sessionKey() []byte {
	if k := os.Getenv("SESSION_KEY"); k != "" {
		return []byte(k)
	}
	return securecookie.GenerateRandomKey(32)
}

func init() {
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   3600 * 8, // 8 hours
		HttpOnly: true,
		Secure:   os.Getenv("ENV") != "dev", // Use secure cookies in production
		SameSite: http.SameSiteLaxMode,
	}
}

// GetSession retrieves the user session from the request.
func GetSession(r *http.Request) (*sessions.Session, error) {
	return store.Get(r, "user-session")
}

// SaveSession saves the session.
func SaveSession(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	return store.Save(r, w, session)
}

// Login records the user and their RunnersConnect token in the session.
func Login(r *http.Request, w http.ResponseWriter, userID uint, token string) error {
	session, err := GetSession(r)
	if err != nil {
		return err
	}
	session.Values["user_id"] = userID
	session.Values["rc_token"] = token
	return SaveSession(r, w, session)
}

// UserID returns the logged-in user's ID, or false if nobody is logged in.
func UserID(r *http.Request) (uint, bool) {
	session, err := GetSession(r)
	if err != nil {
		return 0, false
	}
	id, ok := session.Values["user_id"].(uint)
	return id, ok
}

// Token returns the logged-in user's RunnersConnect token.
func Token(r *http.Request) (string, bool) {
	session, err := GetSession(r)
	if err != nil {
		return "", false
	}
	token, ok := session.Values["rc_token"].(string)
	return token, ok
}
