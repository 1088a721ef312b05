package model

// User is a record in the local users file (and, for directory-mirrored
// accounts, in the remote users table). The password is stored as a
// sha256 hex digest so local and remote records stay interoperable.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password"`
	Role         string `json:"role"`
	Name         string `json:"name"`
	CreatedAt    string `json:"created_at"`
}

// Session maps an opaque bearer token to the identity that minted it.
// Expired sessions are purged lazily on the next load of the session
// store; there is no revocation list beyond deleting the entry.
type Session struct {
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
	ExpiresAt string `json:"expires_at"`
}
