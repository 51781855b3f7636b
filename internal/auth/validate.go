package auth

import "strings"

// FieldErrors maps a form field name to its user-facing message.
type FieldErrors map[string]string

const (
	msgUsernameRequired = "Please enter your username."
	msgPasswordRequired = "Please enter your password."
)

// ValidateCredentials trims both fields and checks presence. The two checks
// are independent; both errors may be present at once. Anything non-empty is
// syntactically acceptable here; format policy belongs to registration.
func ValidateCredentials(rawUsername, rawPassword string) (username, password string, fieldErrs FieldErrors) {
	fieldErrs = FieldErrors{}

	username = strings.TrimSpace(rawUsername)
	if username == "" {
		fieldErrs["username"] = msgUsernameRequired
	}

	password = strings.TrimSpace(rawPassword)
	if password == "" {
		fieldErrs["password"] = msgPasswordRequired
	}

	if len(fieldErrs) == 0 {
		return username, password, nil
	}
	return username, password, fieldErrs
}
