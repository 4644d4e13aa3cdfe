package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/videohub/internal/common"
	"github.com/dmitrijs2005/videohub/internal/server/auth"
	"github.com/dmitrijs2005/videohub/internal/server/models"
)

func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword, confirmPassword string) error {
	if common.AnyBlank(oldPassword, newPassword, confirmPassword) {
		return fmt.Errorf("%w: all password fields are required", common.ErrValidation)
	}
	if newPassword != confirmPassword {
		return common.ErrPasswordMismatch
	}
	if newPassword == oldPassword {
		return common.ErrSamePassword
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return s.userLookupError(err)
	}

	ok, err := auth.CheckPassword(user.PasswordHash, oldPassword)
	if err != nil {
		return fmt.Errorf("check password: %w", err)
	}
	if !ok {
		return common.ErrInvalidPassword
	}

	hash, err := auth.HashPassword(newPassword, s.passwordCost)
	if err != nil {
		return err
	}
	if err := repo.UpdatePassword(ctx, userID, hash); err != nil {
		return s.userLookupError(err)
	}
	return nil
}

// UpdateAccount replaces the display name and/or email. A blank field keeps
// its current value; both blank is a validation error.
func (s *UserService) UpdateAccount(ctx context.Context, userID, fullName, email string) (*models.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = common.NormalizeHandle(email)
	if fullName == "" && email == "" {
		return nil, fmt.Errorf("%w: fullName or email is required", common.ErrValidation)
	}

	repo := s.repomanager.Users(s.db)
	current, err := repo.GetByID(ctx, userID)
	if err != nil {
		return nil, s.userLookupError(err)
	}
	if fullName == "" {
		fullName = current.FullName
	}
	if email == "" {
		email = current.Email
	}

	updated, err := repo.UpdateAccount(ctx, userID, fullName, email)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		return nil, s.userLookupError(err)
	}
	return updated.Sanitized(), nil
}

func (s *UserService) UpdateAvatar(ctx context.Context, userID, localPath string) (*models.User, error) {
	if localPath == "" {
		return nil, common.ErrAvatarRequired
	}
	return s.replaceMedia(ctx, userID, localPath, "avatar",
		func(u *models.User) string { return u.Avatar.StorageID },
		func(ctx context.Context, m models.Media) (*models.User, error) {
			return s.repomanager.Users(s.db).UpdateAvatar(ctx, userID, m)
		})
}

func (s *UserService) UpdateCoverImage(ctx context.Context, userID, localPath string) (*models.User, error) {
	if localPath == "" {
		return nil, fmt.Errorf("%w: cover image file is missing", common.ErrValidation)
	}
	return s.replaceMedia(ctx, userID, localPath, "cover image",
		func(u *models.User) string {
			if u.CoverImage == nil {
				return ""
			}
			return u.CoverImage.StorageID
		},
		func(ctx context.Context, m models.Media) (*models.User, error) {
			return s.repomanager.Users(s.db).UpdateCoverImage(ctx, userID, m)
		})
}

// replaceMedia uploads the new file, persists its reference and then deletes
// the previous object. The old object is only removed once the new reference
// is stored; failing to remove it is logged, not returned.
func (s *UserService) replaceMedia(ctx context.Context, userID, localPath, kind string,
	previous func(*models.User) string,
	persist func(context.Context, models.Media) (*models.User, error),
) (*models.User, error) {
	current, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, s.userLookupError(err)
	}
	oldID := previous(current)

	uploaded, err := s.media.Upload(ctx, localPath)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", kind, err)
	}

	updated, err := persist(ctx, *uploaded)
	if err != nil {
		s.discardMedia(ctx, uploaded.StorageID)
		return nil, s.userLookupError(err)
	}

	if oldID != uploaded.StorageID {
		s.discardMedia(ctx, oldID)
	}
	return updated.Sanitized(), nil
}

// userLookupError keeps ErrorNotFound recognizable and wraps everything else.
func (s *UserService) userLookupError(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("user store: %w", err)
}
