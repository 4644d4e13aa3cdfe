package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/videohub/internal/dbx"
	"github.com/dmitrijs2005/videohub/internal/server/repositories/blacklist"
	"github.com/dmitrijs2005/videohub/internal/server/repositories/subscriptions"
	"github.com/dmitrijs2005/videohub/internal/server/repositories/users"
	"github.com/dmitrijs2005/videohub/internal/server/repositories/videos"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Subscriptions(db dbx.DBTX) subscriptions.Repository
	Videos(db dbx.DBTX) videos.Repository
	Blacklist(db dbx.DBTX) blacklist.Repository
}
