package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/circleup/backend/internal/session"
)

// csrfTokenBytes gives 256 bits of entropy per token.
const csrfTokenBytes = 32

func newCSRFToken() (string, error) {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate csrf token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// IssueCSRFToken binds a fresh random token to the session, overwriting any
// prior one, and persists it. Called on every render of the sign-in form, so
// a token from an earlier render can never be replayed.
func IssueCSRFToken(ctx context.Context, sess *session.Session) (string, error) {
	token, err := newCSRFToken()
	if err != nil {
		return "", err
	}
	sess.SetCSRFToken(token)
	if err := sess.Save(ctx); err != nil {
		return "", err
	}
	return token, nil
}

// ValidateCSRF reports whether submitted exactly matches the token currently
// bound to the session. An empty submitted or stored token never validates.
// The session is left untouched either way.
func ValidateCSRF(sess *session.Session, submitted string) bool {
	stored := sess.CSRFToken()
	if stored == "" || submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) == 1
}
