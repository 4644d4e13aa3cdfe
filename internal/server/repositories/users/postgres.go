package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/videohub/internal/common"
	"github.com/dmitrijs2005/videohub/internal/dbx"
	"github.com/dmitrijs2005/videohub/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const userColumns = `id, username, email, full_name, password_hash,
		 avatar_url, avatar_storage_id, cover_url, cover_storage_id,
		 refresh_token, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u            models.User
		coverURL     sql.NullString
		coverID      sql.NullString
		refreshToken sql.NullString
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.PasswordHash,
		&u.Avatar.URL, &u.Avatar.StorageID, &coverURL, &coverID,
		&refreshToken, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if coverURL.Valid && coverURL.String != "" {
		u.CoverImage = &models.Media{URL: coverURL.String, StorageID: coverID.String}
	}
	if refreshToken.Valid {
		s := refreshToken.String
		u.RefreshToken = &s
	}
	return &u, nil
}

// mapError translates driver errors into the common sentinels.
func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", common.ErrAlreadyExists, pgErr.ConstraintName)
	}
	return fmt.Errorf("db error: %w", err)
}

func nullMedia(m *models.Media) (url, storageID sql.NullString) {
	if m == nil || m.URL == "" {
		return
	}
	return sql.NullString{String: m.URL, Valid: true}, sql.NullString{String: m.StorageID, Valid: true}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	coverURL, coverID := nullMedia(user.CoverImage)

	query :=
		`INSERT INTO users (username, email, full_name, password_hash,
		 avatar_url, avatar_storage_id, cover_url, cover_storage_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.FullName, user.PasswordHash,
		user.Avatar.URL, user.Avatar.StorageID, coverURL, coverID,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return nil, mapError(err)
	}

	return user, nil
}

func (r *PostgresRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		 WHERE username = $1 OR email = $2
		 LIMIT 1
		 `

	u, err := scanUser(r.db.QueryRowContext(ctx, query, username, email))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		 WHERE username = $1
		 `

	u, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		 WHERE id = $1
		 `

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

// SetRefreshToken stores token as the user's current refresh token. A nil
// token clears it.
func (r *PostgresRepository) SetRefreshToken(ctx context.Context, userID string, token *string) error {
	var value sql.NullString
	if token != nil {
		value = sql.NullString{String: *token, Valid: true}
	}

	query :=
		`UPDATE users SET refresh_token = $2, updated_at = now()
		 WHERE id = $1
		 `

	return r.execOne(ctx, query, userID, value)
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	query :=
		`UPDATE users SET password_hash = $2, updated_at = now()
		 WHERE id = $1
		 `

	return r.execOne(ctx, query, userID, passwordHash)
}

func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) UpdateAccount(ctx context.Context, userID, fullName, email string) (*models.User, error) {
	query := `UPDATE users SET full_name = $2, email = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query, userID, fullName, email))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *PostgresRepository) UpdateAvatar(ctx context.Context, userID string, avatar models.Media) (*models.User, error) {
	query := `UPDATE users SET avatar_url = $2, avatar_storage_id = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query, userID, avatar.URL, avatar.StorageID))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *PostgresRepository) UpdateCoverImage(ctx context.Context, userID string, cover models.Media) (*models.User, error) {
	query := `UPDATE users SET cover_url = $2, cover_storage_id = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query, userID, cover.URL, cover.StorageID))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *PostgresRepository) AppendWatchHistory(ctx context.Context, userID, videoID string) error {
	query :=
		`INSERT INTO watch_history (user_id, video_id)
		 VALUES ($1, $2)
		 `

	if _, err := r.db.ExecContext(ctx, query, userID, videoID); err != nil {
		return mapError(err)
	}
	return nil
}

// GetWatchHistory returns the user's watched videos in the order they were
// appended, each with its owner's public fields.
func (r *PostgresRepository) GetWatchHistory(ctx context.Context, userID string) ([]models.WatchHistoryEntry, error) {
	query :=
		`SELECT v.id, v.owner_id, v.title, v.description, v.video_file_url, v.thumbnail_url,
		 v.duration_seconds, v.views, v.is_published, v.created_at,
		 o.id, o.username, o.full_name, o.avatar_url,
		 wh.watched_at
		 FROM watch_history wh
		 JOIN videos v ON v.id = wh.video_id
		 JOIN users o ON o.id = v.owner_id
		 WHERE wh.user_id = $1
		 ORDER BY wh.id
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	history := make([]models.WatchHistoryEntry, 0)
	for rows.Next() {
		var e models.WatchHistoryEntry
		err := rows.Scan(&e.ID, &e.OwnerID, &e.Title, &e.Description, &e.VideoFileURL, &e.ThumbnailURL,
			&e.DurationSeconds, &e.Views, &e.IsPublished, &e.CreatedAt,
			&e.Owner.ID, &e.Owner.Username, &e.Owner.FullName, &e.Owner.Avatar,
			&e.WatchedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		history = append(history, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return history, nil
}
