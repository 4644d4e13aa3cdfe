// Package api exposes the account service over a versioned JSON HTTP API
// built on gin.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/videohub/internal/logging"
	"github.com/dmitrijs2005/videohub/internal/server/config"
	"github.com/dmitrijs2005/videohub/internal/server/models"
	"github.com/dmitrijs2005/videohub/internal/server/services"
)

// UserService is the business logic the handlers call into.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.LoginResult, error)
	Logout(ctx context.Context, userID, accessToken string) error
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)

	ChangePassword(ctx context.Context, userID, oldPassword, newPassword, confirmPassword string) error
	UpdateAccount(ctx context.Context, userID, fullName, email string) (*models.User, error)
	UpdateAvatar(ctx context.Context, userID, localPath string) (*models.User, error)
	UpdateCoverImage(ctx context.Context, userID, localPath string) (*models.User, error)

	GetChannel(ctx context.Context, username, viewerID string) (*models.ChannelProfile, error)
	Subscribe(ctx context.Context, subscriberID, channelUsername string) (*models.ChannelProfile, error)
	Unsubscribe(ctx context.Context, subscriberID, channelUsername string) (*models.ChannelProfile, error)

	GetWatchHistory(ctx context.Context, userID string) ([]models.WatchHistoryEntry, error)
	AddToWatchHistory(ctx context.Context, userID, videoID string) error
}

type Handler struct {
	users      UserService
	logger     logging.Logger
	uploadDir  string
	cookies    cookiePolicy
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewHandler(users UserService, logger logging.Logger, cfg *config.Config) *Handler {
	return &Handler{
		users:      users,
		logger:     logger,
		uploadDir:  cfg.UploadDir,
		cookies:    cookiePolicy{alwaysSecure: !cfg.IsDevelopment(), sameSite: http.SameSiteLaxMode},
		accessTTL:  cfg.AccessTokenValidityDuration,
		refreshTTL: cfg.RefreshTokenValidityDuration,
	}
}
