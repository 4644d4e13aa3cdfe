package models

import "time"

// BlacklistedToken is an access token revoked before its natural expiry.
// Only the SHA-256 digest of the token is stored.
type BlacklistedToken struct {
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Subscription is a subscriber → channel edge between two users.
type Subscription struct {
	SubscriberID string
	ChannelID    string
	CreatedAt    time.Time
}
