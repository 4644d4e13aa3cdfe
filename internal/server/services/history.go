package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/videohub/internal/common"
	"github.com/dmitrijs2005/videohub/internal/server/models"
	"github.com/google/uuid"
)

func (s *UserService) GetWatchHistory(ctx context.Context, userID string) ([]models.WatchHistoryEntry, error) {
	h, err := s.repomanager.Users(s.db).GetWatchHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("watch history: %w", err)
	}
	return h, nil
}

// canonicalUUIDLen is the length of the hyphenated form Postgres accepts.
// uuid.Parse also takes urn and braced forms, which the database rejects.
const canonicalUUIDLen = 36

// AddToWatchHistory appends videoID to the user's history. Repeated views are
// kept as separate entries.
func (s *UserService) AddToWatchHistory(ctx context.Context, userID, videoID string) error {
	if len(videoID) != canonicalUUIDLen {
		return common.ErrorNotFound
	}
	if _, err := uuid.Parse(videoID); err != nil {
		return common.ErrorNotFound
	}
	if _, err := s.repomanager.Videos(s.db).GetByID(ctx, videoID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("lookup video: %w", err)
	}
	if err := s.repomanager.Users(s.db).AppendWatchHistory(ctx, userID, videoID); err != nil {
		return fmt.Errorf("append watch history: %w", err)
	}
	return nil
}
