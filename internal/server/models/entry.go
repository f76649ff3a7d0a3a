package models

import "time"

// Entry is one stored password record, owned by a single account.
// EncryptedPassword is opaque ciphertext produced and consumed by the
// client; the server stores and returns it without inspecting it.
type Entry struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	Title             string    `json:"title"`
	Email             string    `json:"email"`
	Username          string    `json:"username"`
	EncryptedPassword string    `json:"encrypted_password"`
	URL               string    `json:"url"`
	Notes             string    `json:"notes"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
