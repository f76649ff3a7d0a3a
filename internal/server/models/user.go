// Package models defines the typed row shapes persisted by the server.
// The store's documents are mapped to and from these structs at the
// repository boundary; no untyped maps travel through the services.
package models

import "time"

// User is one registered vault account.
//
// Username is unique (enforced by the storage layer) and immutable after
// creation. PasswordHash/PasswordSalt and RecoveryKeyHash hold bcrypt
// output; the plaintext inputs are never persisted or logged. Recovery
// rotates PasswordHash/PasswordSalt and leaves RecoveryKeyHash in place.
type User struct {
	ID              string
	Username        string
	PasswordHash    string
	PasswordSalt    string
	RecoveryKeyHash string
	CreatedAt       time.Time
}
