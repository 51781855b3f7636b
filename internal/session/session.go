// Package session implements the server-side session store. A session is a
// single JSON record in Redis keyed by an opaque UUID; the browser only ever
// holds the UUID, wrapped in a signed and encrypted cookie.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// TTL is how long an untouched session lives in Redis.
	TTL = 24 * time.Hour

	keyPrefix = "session:"
)

// record is the wire form of a session in Redis. The whole record is always
// written in one SET so concurrent readers never see a partial update.
type record struct {
	Authenticated bool   `json:"authenticated"`
	AccountID     string `json:"account_id,omitempty"`
	Username      string `json:"username,omitempty"`
	CSRFToken     string `json:"csrf_token,omitempty"`
}

// Store loads and persists sessions against Redis.
type Store struct {
	rdb    *redis.Client
	codec  *cookieCodec
	secure bool
	ttl    time.Duration
}

// NewStore builds a session store. The secret seeds the cookie codec keys;
// secure controls the cookie Secure attribute.
func NewStore(rdb *redis.Client, secret string, secure bool) *Store {
	return &Store{
		rdb:    rdb,
		codec:  newCookieCodec(secret),
		secure: secure,
		ttl:    TTL,
	}
}

// Session is one request's handle on its session record. Mutations are
// in-memory until Save, Authenticate, or Destroy touches Redis.
type Session struct {
	store *Store
	id    string
	rec   record
	fresh bool // no record in Redis yet
}

// Load resolves the request's session from its cookie, or starts a fresh
// anonymous one when the cookie is absent, tampered with, or expired. Only a
// Redis fault is an error; a bad cookie just means a clean slate.
func (s *Store) Load(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return s.newSession(), nil
	}
	id, ok := s.codec.decode(cookie.Value)
	if !ok {
		return s.newSession(), nil
	}
	raw, err := s.rdb.Get(r.Context(), keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return s.newSession(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return s.newSession(), nil
	}
	return &Session{store: s, id: id, rec: rec}, nil
}

func (s *Store) newSession() *Session {
	return &Session{store: s, id: uuid.NewString(), fresh: true}
}

// ID returns the opaque session identifier.
func (s *Session) ID() string { return s.id }

// Authenticated reports whether a password check has succeeded on this
// session (or its pre-rekey ancestor).
func (s *Session) Authenticated() bool { return s.rec.Authenticated }

func (s *Session) AccountID() string { return s.rec.AccountID }

func (s *Session) Username() string { return s.rec.Username }

// CSRFToken returns the token currently bound to the session, or "".
func (s *Session) CSRFToken() string { return s.rec.CSRFToken }

// SetCSRFToken overwrites the session's token. Callers must Save.
func (s *Session) SetCSRFToken(token string) { s.rec.CSRFToken = token }

// Save persists the full record in a single write and refreshes the TTL.
func (s *Session) Save(ctx context.Context) error {
	payload, err := json.Marshal(s.rec)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.store.rdb.Set(ctx, keyPrefix+s.id, payload, s.store.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.fresh = false
	return nil
}

// Authenticate rekeys the session and marks it authenticated. The new
// identifier is issued before any authenticated state exists under it: the
// fully-populated record lands under the new key and the old key is deleted
// inside one MULTI/EXEC, so no request can observe the new identifier with
// stale anonymous state, and an attacker-seeded identifier dies here.
func (s *Session) Authenticate(ctx context.Context, accountID, username string) error {
	newID := uuid.NewString()
	rec := record{
		Authenticated: true,
		AccountID:     accountID,
		Username:      username,
		// the form token is spent; the next render issues a new one
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	oldKey := keyPrefix + s.id
	_, err = s.store.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, keyPrefix+newID, payload, s.store.ttl)
		if !s.fresh {
			p.Del(ctx, oldKey)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("rekey session: %w", err)
	}
	s.id = newID
	s.rec = rec
	s.fresh = false
	return nil
}

// Destroy deletes the record from Redis and resets the handle to a fresh
// anonymous session.
func (s *Session) Destroy(ctx context.Context) error {
	if !s.fresh {
		if err := s.store.rdb.Del(ctx, keyPrefix+s.id).Err(); err != nil {
			return fmt.Errorf("destroy session: %w", err)
		}
	}
	s.id = uuid.NewString()
	s.rec = record{}
	s.fresh = true
	return nil
}
