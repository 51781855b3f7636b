package models

import "time"

// Account represents a row in the PostgreSQL accounts table. Rows are
// created by the registration flow; the sign-in service only reads them.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // never serialize
	CreatedAt    time.Time `json:"created_at"`
}
