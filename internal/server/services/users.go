// Package services contains server-side business logic. UserService covers
// the account lifecycle: registration, login, logout, token refresh and the
// auth-gate check, plus profile, channel and watch-history operations.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/videohub/internal/common"
	"github.com/dmitrijs2005/videohub/internal/dbx"
	"github.com/dmitrijs2005/videohub/internal/logging"
	"github.com/dmitrijs2005/videohub/internal/server/auth"
	"github.com/dmitrijs2005/videohub/internal/server/config"
	"github.com/dmitrijs2005/videohub/internal/server/media"
	"github.com/dmitrijs2005/videohub/internal/server/models"
	"github.com/dmitrijs2005/videohub/internal/server/repositories/blacklist"
	"github.com/dmitrijs2005/videohub/internal/server/repositories/repomanager"
)

// LoginResult bundles the issued token pair with the sanitized user.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

// RegisterInput is the registration form. AvatarPath and CoverImagePath
// point at staged local files; CoverImagePath may be empty.
type RegisterInput struct {
	Username       string
	Email          string
	FullName       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	blacklist                    blacklist.Repository
	media                        media.Store
	logger                       logging.Logger
	accessSecret                 []byte
	refreshSecret                []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	blacklistTTL                 time.Duration
	passwordCost                 int
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, bl blacklist.Repository,
	store media.Store, logger logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		blacklist:                    bl,
		media:                        store,
		logger:                       logger,
		accessSecret:                 []byte(cfg.AccessTokenSecret),
		refreshSecret:                []byte(cfg.RefreshTokenSecret),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		blacklistTTL:                 cfg.BlacklistTTL,
		passwordCost:                 cfg.PasswordHashCost,
	}
}

// Register validates the form, uploads the media, and creates the user.
// Uploaded media is removed again if the user cannot be persisted.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := common.NormalizeHandle(in.Username)
	email := common.NormalizeHandle(in.Email)
	fullName := strings.TrimSpace(in.FullName)

	if common.AnyBlank(username, email, fullName, in.Password) {
		return nil, fmt.Errorf("%w: all fields are required", common.ErrValidation)
	}
	if in.AvatarPath == "" {
		return nil, common.ErrAvatarRequired
	}

	// Early exit before any upload; the check is repeated inside the
	// transaction and the unique indexes have the final word.
	if err := s.ensureAvailable(ctx, s.db, username, email); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.passwordCost)
	if err != nil {
		return nil, err
	}

	avatar, err := s.media.Upload(ctx, in.AvatarPath)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}
	uploaded := []string{avatar.StorageID}

	var cover *models.Media
	if in.CoverImagePath != "" {
		cover, err = s.media.Upload(ctx, in.CoverImagePath)
		if err != nil {
			s.discardMedia(ctx, uploaded...)
			return nil, fmt.Errorf("upload cover image: %w", err)
		}
		uploaded = append(uploaded, cover.StorageID)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		Avatar:       *avatar,
		CoverImage:   cover,
	}

	var created *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.ensureAvailable(ctx, tx, username, email); err != nil {
			return err
		}
		var cerr error
		created, cerr = s.repomanager.Users(tx).Create(ctx, user)
		return cerr
	})
	if err != nil {
		s.discardMedia(ctx, uploaded...)
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", created.ID, "username", created.Username)
	return created.Sanitized(), nil
}

func (s *UserService) ensureAvailable(ctx context.Context, db dbx.DBTX, username, email string) error {
	_, err := s.repomanager.Users(db).FindByUsernameOrEmail(ctx, username, email)
	switch {
	case err == nil:
		return common.ErrAlreadyExists
	case errors.Is(err, common.ErrorNotFound):
		return nil
	default:
		return fmt.Errorf("lookup user: %w", err)
	}
}

// discardMedia deletes objects that are no longer referenced. Failures are
// logged and otherwise ignored.
func (s *UserService) discardMedia(ctx context.Context, storageIDs ...string) {
	for _, id := range storageIDs {
		if id == "" {
			continue
		}
		if err := s.media.Delete(ctx, id); err != nil {
			s.logger.Warn(ctx, "failed to delete media", "storage_id", id, "error", err)
		}
	}
}

// Login verifies the credentials, issues both tokens and stores the refresh
// token on the user.
func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = common.NormalizeHandle(username)
	if common.AnyBlank(username, password) {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("check password: %w", err)
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	access, err := auth.GenerateAccessToken(user, s.accessSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, err := auth.GenerateRefreshToken(user.ID, s.refreshSecret, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := repo.SetRefreshToken(ctx, user.ID, &refresh); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &LoginResult{AccessToken: access, RefreshToken: refresh, User: user.Sanitized()}, nil
}

// Logout revokes accessToken and clears the stored refresh token.
func (s *UserService) Logout(ctx context.Context, userID, accessToken string) error {
	if userID == "" {
		return common.ErrorNotFound
	}
	if accessToken != "" {
		if err := s.blacklist.Add(ctx, accessToken, s.blacklistTTL); err != nil {
			return fmt.Errorf("blacklist token: %w", err)
		}
	}
	if err := s.repomanager.Users(s.db).SetRefreshToken(ctx, userID, nil); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("clear refresh token: %w", err)
	}
	s.logger.Info(ctx, "user logged out", "user_id", userID)
	return nil
}

// RefreshAccessToken exchanges a refresh token for a new access token. The
// presented token must equal the one stored on the user, so a token cleared
// by logout or replaced by a later login is rejected.
func (s *UserService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return "", common.ErrorUnauthorized
	}

	claims, err := auth.ParseRefreshToken(refreshToken, s.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	if !user.HasRefreshToken(refreshToken) {
		return "", common.ErrRefreshTokenMismatch
	}

	access, err := auth.GenerateAccessToken(user, s.accessSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return access, nil
}

// Authenticate resolves an access token to its user. Blacklisted tokens are
// rejected before the signature is even checked.
func (s *UserService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, common.ErrorUnauthorized
	}

	revoked, err := s.blacklist.Contains(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("check blacklist: %w", err)
	}
	if revoked {
		return nil, common.ErrTokenBlacklisted
	}

	claims, err := auth.ParseAccessToken(accessToken, s.accessSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	return user.Sanitized(), nil
}
