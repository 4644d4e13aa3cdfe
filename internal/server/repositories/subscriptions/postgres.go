package subscriptions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/videohub/internal/common"
	"github.com/dmitrijs2005/videohub/internal/dbx"
	"github.com/dmitrijs2005/videohub/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create is idempotent: subscribing twice leaves a single edge.
func (r *PostgresRepository) Create(ctx context.Context, subscriberID, channelID string) error {
	query :=
		`INSERT INTO subscriptions (subscriber_id, channel_id)
		 VALUES ($1, $2)
		 ON CONFLICT (subscriber_id, channel_id) DO NOTHING
		 `

	if _, err := r.db.ExecContext(ctx, query, subscriberID, channelID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, subscriberID, channelID string) error {
	query :=
		`DELETE FROM subscriptions
		 WHERE subscriber_id = $1 AND channel_id = $2
		 `

	if _, err := r.db.ExecContext(ctx, query, subscriberID, channelID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ChannelProfile(ctx context.Context, username, viewerID string) (*models.ChannelProfile, error) {
	query :=
		`SELECT u.id, u.username, u.email, u.full_name,
		 u.avatar_url, u.avatar_storage_id, u.cover_url, u.cover_storage_id,
		 (SELECT count(*) FROM subscriptions s WHERE s.channel_id = u.id),
		 (SELECT count(*) FROM subscriptions s WHERE s.subscriber_id = u.id),
		 EXISTS (SELECT 1 FROM subscriptions s WHERE s.channel_id = u.id AND s.subscriber_id = $2::uuid)
		 FROM users u
		 WHERE u.username = $1
		 `

	var viewer sql.NullString
	if viewerID != "" {
		viewer = sql.NullString{String: viewerID, Valid: true}
	}

	var (
		p        models.ChannelProfile
		coverURL sql.NullString
		coverID  sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, username, viewer).Scan(
		&p.ID, &p.Username, &p.Email, &p.FullName,
		&p.Avatar.URL, &p.Avatar.StorageID, &coverURL, &coverID,
		&p.SubscribersCount, &p.ChannelsSubscribedToCount, &p.IsSubscribed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if coverURL.Valid && coverURL.String != "" {
		p.CoverImage = &models.Media{URL: coverURL.String, StorageID: coverID.String}
	}

	return &p, nil
}
