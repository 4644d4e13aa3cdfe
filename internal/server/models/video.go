package models

import "time"

type Video struct {
	ID              string    `json:"_id"`
	OwnerID         string    `json:"ownerId"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	VideoFileURL    string    `json:"videoFile"`
	ThumbnailURL    string    `json:"thumbnail"`
	DurationSeconds float64   `json:"duration"`
	Views           int64     `json:"views"`
	IsPublished     bool      `json:"isPublished"`
	CreatedAt       time.Time `json:"createdAt"`
}

// VideoOwner carries the public fields of a video's owner.
type VideoOwner struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

// WatchHistoryEntry is one element of a user's watch history, with the owner
// denormalized into the entry.
type WatchHistoryEntry struct {
	Video
	Owner     VideoOwner `json:"owner"`
	WatchedAt time.Time  `json:"watchedAt"`
}
