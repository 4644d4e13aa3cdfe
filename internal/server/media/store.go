// Package media moves staged uploads into object storage and removes them
// again when they are replaced.
package media

import (
	"context"

	"github.com/dmitrijs2005/videohub/internal/server/models"
)

// Store is the object storage used for avatars and cover images.
type Store interface {
	// Upload copies the file at localPath to remote storage. The local file is
	// left in place.
	Upload(ctx context.Context, localPath string) (*models.Media, error)
	// Delete removes the object. An empty storageID is a no-op.
	Delete(ctx context.Context, storageID string) error
}
