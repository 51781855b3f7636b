package auth

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/circleup/backend/internal/models"
	"github.com/circleup/backend/internal/session"
	"github.com/circleup/backend/internal/store"
)

// AccountFinder is the slice of the account store the authenticator needs.
type AccountFinder interface {
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
}

// Identity is the result of a successful authentication.
type Identity struct {
	AccountID string
	Username  string
}

// Authenticator verifies credentials against the account store and, on
// success, establishes the authenticated session. It is the only component
// that mutates authentication state.
type Authenticator struct {
	accounts AccountFinder
	log      *slog.Logger

	// dummyHash is verified against when no account matches, so the miss
	// path costs a full bcrypt check and can't be told apart by timing.
	dummyHash []byte
}

func NewAuthenticator(accounts AccountFinder, log *slog.Logger) *Authenticator {
	return newAuthenticator(accounts, log, bcrypt.DefaultCost)
}

func newAuthenticator(accounts AccountFinder, log *slog.Logger, cost int) *Authenticator {
	dummy, err := bcrypt.GenerateFromPassword([]byte("circleup-no-such-account"), cost)
	if err != nil {
		// only reachable with an out-of-range cost
		panic(err)
	}
	return &Authenticator{accounts: accounts, log: log, dummyHash: dummy}
}

// Authenticate looks up the account, verifies the password, and on success
// rekeys sess and marks it authenticated. Unknown username and wrong password
// both return ErrInvalidCredentials; store faults return ErrStoreUnavailable
// and leave the session untouched.
func (a *Authenticator) Authenticate(ctx context.Context, sess *session.Session, username, password string) (*Identity, error) {
	acct, err := a.accounts.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, store.ErrNotFound):
		bcrypt.CompareHashAndPassword(a.dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	case err != nil:
		a.log.ErrorContext(ctx, "account lookup failed", "err", err)
		return nil, ErrStoreUnavailable
	}

	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	// regenerate-then-populate: the session gets a new identifier before any
	// authenticated state exists, closing the fixation window
	if err := sess.Authenticate(ctx, acct.ID, acct.Username); err != nil {
		a.log.ErrorContext(ctx, "session rekey failed", "err", err)
		return nil, ErrStoreUnavailable
	}

	a.log.InfoContext(ctx, "sign-in", "account_id", acct.ID, "username", acct.Username)
	return &Identity{AccountID: acct.ID, Username: acct.Username}, nil
}
