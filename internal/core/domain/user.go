package domain

import "time"

// User models an account in the system. PasswordHash is never serialized to
// clients; Seq is the public sequential id issued by the counter collection.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Seq          int64     `json:"seq" bson:"seq"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         string    `json:"role" bson:"role"`
	Active       bool      `json:"active" bson:"active"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}
