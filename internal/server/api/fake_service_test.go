package api

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/videohub/internal/common"
	"github.com/dmitrijs2005/videohub/internal/server/models"
	"github.com/dmitrijs2005/videohub/internal/server/services"
)

// fakeUsers implements UserService with canned results. Tokens map to users
// through the tokens field; anything else fails authentication.
type fakeUsers struct {
	tokens map[string]*models.User

	registerIn  services.RegisterInput
	registerErr error

	// stagedSeen records whether staged files existed while the service ran.
	stagedSeen []bool

	loginErr error

	loggedOut  []string
	logoutErr  error
	refreshed  string
	refreshErr error

	channelViewer string
	channelErr    error

	historyAdded []string
	historyErr   error

	passwordErr error
	avatarPath  string
	panicOn     string
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{tokens: map[string]*models.User{
		"good-token": {ID: "u-1", Username: "alice", Email: "alice@example.com", PasswordHash: "secret-hash"},
	}}
}

func exists(p string) bool {
	if p == "" {
		return false
	}
	_, err := os.Stat(p)
	return err == nil
}

func (f *fakeUsers) Register(_ context.Context, in services.RegisterInput) (*models.User, error) {
	f.registerIn = in
	f.stagedSeen = append(f.stagedSeen, exists(in.AvatarPath), exists(in.CoverImagePath))
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	if in.AvatarPath == "" {
		return nil, common.ErrAvatarRequired
	}
	return &models.User{ID: "u-9", Username: in.Username, Email: in.Email, PasswordHash: "hash"}, nil
}

func (f *fakeUsers) Login(_ context.Context, username, password string) (*services.LoginResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	if username != "alice" || password != "pw" {
		return nil, common.ErrorUnauthorized
	}
	return &services.LoginResult{
		AccessToken:  "good-token",
		RefreshToken: "refresh-token",
		User:         &models.User{ID: "u-1", Username: "alice"},
	}, nil
}

func (f *fakeUsers) Logout(_ context.Context, userID, accessToken string) error {
	if f.logoutErr != nil {
		return f.logoutErr
	}
	f.loggedOut = append(f.loggedOut, userID+"|"+accessToken)
	delete(f.tokens, accessToken)
	return nil
}

func (f *fakeUsers) RefreshAccessToken(_ context.Context, token string) (string, error) {
	f.refreshed = token
	if f.refreshErr != nil {
		return "", f.refreshErr
	}
	return "new-access", nil
}

func (f *fakeUsers) Authenticate(_ context.Context, token string) (*models.User, error) {
	switch token {
	case "revoked":
		return nil, common.ErrTokenBlacklisted
	case "expired":
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrTokenExpired)
	}
	if u, ok := f.tokens[token]; ok {
		return u.Sanitized(), nil
	}
	return nil, common.ErrorUnauthorized
}

func (f *fakeUsers) ChangePassword(_ context.Context, _, _, _, _ string) error {
	return f.passwordErr
}

func (f *fakeUsers) UpdateAccount(_ context.Context, userID, fullName, email string) (*models.User, error) {
	if fullName == "" && email == "" {
		return nil, common.ErrValidation
	}
	return &models.User{ID: userID, FullName: fullName, Email: email}, nil
}

func (f *fakeUsers) UpdateAvatar(_ context.Context, userID, localPath string) (*models.User, error) {
	if f.panicOn == "avatar" {
		panic("kaboom")
	}
	f.avatarPath = localPath
	if localPath == "" {
		return nil, common.ErrAvatarRequired
	}
	return &models.User{ID: userID, Avatar: models.Media{URL: "http://s3/new", StorageID: "new"}}, nil
}

func (f *fakeUsers) UpdateCoverImage(_ context.Context, userID, localPath string) (*models.User, error) {
	return &models.User{ID: userID, CoverImage: &models.Media{URL: "http://s3/c", StorageID: "c"}}, nil
}

func (f *fakeUsers) GetChannel(_ context.Context, username, viewerID string) (*models.ChannelProfile, error) {
	f.channelViewer = viewerID
	if f.channelErr != nil {
		return nil, f.channelErr
	}
	if username != "bob" {
		return nil, common.ErrorNotFound
	}
	return &models.ChannelProfile{ID: "u-2", Username: "bob", SubscribersCount: 3, IsSubscribed: viewerID != ""}, nil
}

func (f *fakeUsers) Subscribe(ctx context.Context, subscriberID, username string) (*models.ChannelProfile, error) {
	return f.GetChannel(ctx, username, subscriberID)
}

func (f *fakeUsers) Unsubscribe(ctx context.Context, subscriberID, username string) (*models.ChannelProfile, error) {
	p, err := f.GetChannel(ctx, username, subscriberID)
	if p != nil {
		p.IsSubscribed = false
	}
	return p, err
}

func (f *fakeUsers) GetWatchHistory(context.Context, string) ([]models.WatchHistoryEntry, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return []models.WatchHistoryEntry{{Video: models.Video{ID: "v-1"}}}, nil
}

func (f *fakeUsers) AddToWatchHistory(_ context.Context, _, videoID string) error {
	if videoID != "v-1" {
		return common.ErrorNotFound
	}
	f.historyAdded = append(f.historyAdded, videoID)
	return nil
}
