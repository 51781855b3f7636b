package session

import (
	"crypto/sha256"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

const cookieName = "cu_session"

// cookieCodec signs and encrypts the session identifier so the browser-held
// value can't be forged or read. Two keys are derived from the one configured
// secret with distinct prefixes.
type cookieCodec struct {
	sc *securecookie.SecureCookie
}

func newCookieCodec(secret string) *cookieCodec {
	hashKey := sha256.Sum256([]byte("auth:" + secret))
	blockKey := sha256.Sum256([]byte("enc:" + secret))
	return &cookieCodec{sc: securecookie.New(hashKey[:], blockKey[:])}
}

func (c *cookieCodec) encode(id string) (string, error) {
	return c.sc.Encode(cookieName, id)
}

func (c *cookieCodec) decode(value string) (string, bool) {
	var id string
	if err := c.sc.Decode(cookieName, value, &id); err != nil {
		return "", false
	}
	return id, true
}

// WriteCookie sets the session cookie for sess, refreshing its lifetime.
func (s *Store) WriteCookie(w http.ResponseWriter, sess *Session) error {
	encoded, err := s.codec.encode(sess.id)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.secure,
		MaxAge:   int(s.ttl / time.Second),
	})
	return nil
}

// ClearCookie expires the session cookie.
func (s *Store) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.secure,
		MaxAge:   -1,
	})
}
