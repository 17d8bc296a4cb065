// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is the only persisted entity. HashedPassword never leaves the server.
type User struct {
	ID             int64
	Email          string
	HashedPassword string
	FullName       *string
	IsActive       bool
	CreatedAt      time.Time
}

// PublicUser is the projection of a User that may be returned to clients.
type PublicUser struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Public returns the client-safe projection of u.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
