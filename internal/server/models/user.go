// Package models defines the server-side data models persisted in the
// database and returned by the API.
package models

import "time"

// Media references an object kept in remote storage. StorageID is the opaque
// key used to delete it later.
type Media struct {
	URL       string `json:"url"`
	StorageID string `json:"storageId"`
}

// User is an account. PasswordHash and RefreshToken are never serialized.
type User struct {
	ID           string    `json:"_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	Avatar       Media     `json:"avatar"`
	CoverImage   *Media    `json:"coverImage"`
	PasswordHash string    `json:"-"`
	RefreshToken *string   `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Sanitized returns a copy of u without credentials.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.PasswordHash = ""
	c.RefreshToken = nil
	return &c
}

// HasRefreshToken reports whether token equals the stored refresh token.
func (u *User) HasRefreshToken(token string) bool {
	return u.RefreshToken != nil && token != "" && *u.RefreshToken == token
}
