package model

import "time"

// User represents an operator account as stored in the `users` table.
// Each field corresponds to a column in the database.  The json tags are
// omitted here because these structs are used internally by the repository
// layer; handlers define separate response types that never include the
// password hash.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name (case-sensitive).
//  Email        – unique email address (case-sensitive).
//  PasswordHash – bcrypt hashed password; the plain password is never stored.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.user_id
	Username     string    // users.username
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
