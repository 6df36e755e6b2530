// Package identity holds the account model shared by the credential store,
// the authentication strategies, and the session layer.
package identity

import "time"

// User is one account. An account is provable by at least one method: a
// local bcrypt hash, a Google subject id, or both. Accounts created by each
// login path are independent unless emails coincide.
type User struct {
	ID           int64
	Email        string
	PasswordHash string // empty for federated-only accounts
	GoogleID     string // empty for local-only accounts
	DisplayName  string
	CreatedAt    time.Time
}

// HasLocalCredential reports whether a password hash is stored for the
// account. Callers must check this before attempting verification; comparing
// against an absent hash is undefined.
func (u *User) HasLocalCredential() bool { return u.PasswordHash != "" }

// Principal is the reduced identity attached to a session. It deliberately
// carries no credential material so nothing sensitive ever enters the
// session store.
type Principal struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// Principal projects the session-safe view of the user. Username falls back
// to the display name for federated accounts created without an email.
func (u *User) Principal() Principal {
	username := u.Email
	if username == "" {
		username = u.DisplayName
	}
	return Principal{UserID: u.ID, Username: username}
}

// Result is the success side of an authentication attempt. CreatedUser marks
// the register-on-first-login case so callers and tests can observe that the
// attempt mutated the store.
type Result struct {
	Principal   Principal
	CreatedUser bool
}
