package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/circleup/backend/internal/models"
	"github.com/circleup/backend/internal/store"
)

type fakeAccounts map[string]*models.Account

func (f fakeAccounts) FindByUsername(_ context.Context, username string) (*models.Account, error) {
	if a, ok := f[username]; ok {
		return a, nil
	}
	return nil, store.ErrNotFound
}

type failingAccounts struct{}

func (failingAccounts) FindByUsername(context.Context, string) (*models.Account, error) {
	return nil, errors.New("dial tcp 10.0.0.5:5432: connection refused")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func aliceAccounts(t *testing.T) fakeAccounts {
	t.Helper()
	return fakeAccounts{
		"alice": {
			ID:           "7f9c2ba4-e88f-4a7a-9f2b-000000000001",
			Username:     "alice",
			PasswordHash: hashPassword(t, "secret123"),
		},
	}
}

func TestAuthenticateSuccess(t *testing.T) {
	sessions, mr := newTestSessions(t)
	sess := newTestSession(t, sessions)
	require.NoError(t, sess.Save(context.Background()))
	oldID := sess.ID()

	a := newAuthenticator(aliceAccounts(t), discardLogger(), bcrypt.MinCost)
	id, err := a.Authenticate(context.Background(), sess, "alice", "secret123")
	require.NoError(t, err)

	assert.Equal(t, "alice", id.Username)
	assert.Equal(t, "7f9c2ba4-e88f-4a7a-9f2b-000000000001", id.AccountID)
	assert.True(t, sess.Authenticated())
	assert.Equal(t, "alice", sess.Username())
	assert.NotEqual(t, oldID, sess.ID(), "session identifier must be regenerated")
	assert.False(t, mr.Exists("session:"+oldID), "pre-authentication identifier must be invalidated")
	assert.True(t, mr.Exists("session:"+sess.ID()))
}

func TestAuthenticateWrongPassword(t *testing.T) {
	sessions, _ := newTestSessions(t)
	sess := newTestSession(t, sessions)
	oldID := sess.ID()

	a := newAuthenticator(aliceAccounts(t), discardLogger(), bcrypt.MinCost)
	id, err := a.Authenticate(context.Background(), sess, "alice", "wrong")

	assert.Nil(t, id)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, sess.Authenticated())
	assert.Equal(t, oldID, sess.ID())
}

func TestAuthenticateUnknownUsername(t *testing.T) {
	sessions, _ := newTestSessions(t)
	sess := newTestSession(t, sessions)

	a := newAuthenticator(aliceAccounts(t), discardLogger(), bcrypt.MinCost)

	id, errUnknown := a.Authenticate(context.Background(), sess, "bob", "anything")
	assert.Nil(t, id)
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)

	_, errWrongPw := a.Authenticate(context.Background(), sess, "alice", "wrong")
	assert.Equal(t, errWrongPw, errUnknown,
		"unknown user and wrong password must be indistinguishable")
	assert.False(t, sess.Authenticated())
}

func TestAuthenticateStoreFault(t *testing.T) {
	sessions, _ := newTestSessions(t)
	sess := newTestSession(t, sessions)

	a := newAuthenticator(failingAccounts{}, discardLogger(), bcrypt.MinCost)
	id, err := a.Authenticate(context.Background(), sess, "alice", "secret123")

	assert.Nil(t, id)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, sess.Authenticated(), "session must stay unauthenticated on a store fault")
}

func TestAuthenticateSessionStoreFault(t *testing.T) {
	sessions, mr := newTestSessions(t)
	sess := newTestSession(t, sessions)
	mr.Close()

	a := newAuthenticator(aliceAccounts(t), discardLogger(), bcrypt.MinCost)
	_, err := a.Authenticate(context.Background(), sess, "alice", "secret123")

	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.False(t, sess.Authenticated())
}

// The unknown-user path burns a bcrypt check against a dummy hash, so its
// latency must stay within the same order of magnitude as a wrong password
// for an existing user.
func TestAuthenticateFailureTiming(t *testing.T) {
	if testing.Short() {
		t.Skip("timing measurement")
	}

	sessions, _ := newTestSessions(t)
	sess := newTestSession(t, sessions)
	a := newAuthenticator(aliceAccounts(t), discardLogger(), bcrypt.MinCost)

	const samples = 40
	measure := func(username string) time.Duration {
		durations := make([]time.Duration, samples)
		for i := range durations {
			start := time.Now()
			_, err := a.Authenticate(context.Background(), sess, username, "wrong-password")
			durations[i] = time.Since(start)
			require.ErrorIs(t, err, ErrInvalidCredentials)
		}
		sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
		return durations[samples/2]
	}

	wrongPw := measure("alice")
	unknown := measure("bob")

	lo, hi := wrongPw, unknown
	if lo > hi {
		lo, hi = hi, lo
	}
	assert.LessOrEqual(t, hi.Seconds(), lo.Seconds()*10,
		"median latency of unknown user (%v) and wrong password (%v) must be the same order of magnitude",
		unknown, wrongPw)
}
