package subscriptions

import (
	"context"

	"github.com/dmitrijs2005/videohub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, subscriberID, channelID string) error
	Delete(ctx context.Context, subscriberID, channelID string) error
	// ChannelProfile loads the public profile of the user named username along
	// with subscription counters. viewerID may be empty.
	ChannelProfile(ctx context.Context, username, viewerID string) (*models.ChannelProfile, error)
}
