package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/videohub/internal/common"
	"github.com/dmitrijs2005/videohub/internal/server/models"
)

// GetChannel returns the channel profile for username. viewerID is the caller
// when authenticated and empty otherwise.
func (s *UserService) GetChannel(ctx context.Context, username, viewerID string) (*models.ChannelProfile, error) {
	username = common.NormalizeHandle(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is missing", common.ErrValidation)
	}

	p, err := s.repomanager.Subscriptions(s.db).ChannelProfile(ctx, username, viewerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("channel profile: %w", err)
	}
	return p, nil
}

func (s *UserService) Subscribe(ctx context.Context, subscriberID, channelUsername string) (*models.ChannelProfile, error) {
	channel, err := s.channelFor(ctx, subscriberID, channelUsername)
	if err != nil {
		return nil, err
	}
	if err := s.repomanager.Subscriptions(s.db).Create(ctx, subscriberID, channel.ID); err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	return s.GetChannel(ctx, channel.Username, subscriberID)
}

func (s *UserService) Unsubscribe(ctx context.Context, subscriberID, channelUsername string) (*models.ChannelProfile, error) {
	channel, err := s.channelFor(ctx, subscriberID, channelUsername)
	if err != nil {
		return nil, err
	}
	if err := s.repomanager.Subscriptions(s.db).Delete(ctx, subscriberID, channel.ID); err != nil {
		return nil, fmt.Errorf("unsubscribe: %w", err)
	}
	return s.GetChannel(ctx, channel.Username, subscriberID)
}

func (s *UserService) channelFor(ctx context.Context, subscriberID, channelUsername string) (*models.User, error) {
	username := common.NormalizeHandle(channelUsername)
	if username == "" {
		return nil, fmt.Errorf("%w: username is missing", common.ErrValidation)
	}
	channel, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		return nil, s.userLookupError(err)
	}
	if channel.ID == subscriberID {
		return nil, fmt.Errorf("%w: %w", common.ErrValidation, common.ErrSelfSubscription)
	}
	return channel, nil
}
