package auth

import "errors"

var (
	// ErrForgeryRejected means the submission carried no CSRF token or one
	// that doesn't match the session. The request stops here.
	ErrForgeryRejected = errors.New("auth: csrf token missing or invalid")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password. The two are deliberately indistinguishable to callers.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrStoreUnavailable means the account or session store failed. The
	// wrapped cause stays in the logs; clients get a generic retry message.
	ErrStoreUnavailable = errors.New("auth: store unavailable")
)
