package videos

import (
	"context"

	"github.com/dmitrijs2005/videohub/internal/server/models"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*models.Video, error)
}
