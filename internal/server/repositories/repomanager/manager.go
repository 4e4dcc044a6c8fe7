package repomanager

import (
	"context"
	"database/sql"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/dbx"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/repositories/invitations"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/repositories/photos"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/repositories/reactions"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/repositories/users"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/repositories/walls"
)

// RepositoryManager vends repositories bound to a DBTX, so services can run
// several repositories inside one transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Walls(db dbx.DBTX) walls.Repository
	Photos(db dbx.DBTX) photos.Repository
	Reactions(db dbx.DBTX) reactions.Repository
	Invitations(db dbx.DBTX) invitations.Repository
}
