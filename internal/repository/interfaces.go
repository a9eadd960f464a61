package repository

import (
	"context"
	"errors"

	"github.com/Sliceofbanana/job-tracker-sub001/internal/model"
)

// ErrNotFound is returned when a lookup matches nothing. Resolvers treat it
// as "try the next strategy", unlike a transport error.
var ErrNotFound = errors.New("not found")

// TeamDirectory is the durable store of TeamMember records, keyed by
// normalized email. Writes are last-write-wins; no conflict resolution.
type TeamDirectory interface {
	Get(ctx context.Context, email string) (*model.TeamMember, error)
	GetAll(ctx context.Context) ([]*model.TeamMember, error)
	Create(ctx context.Context, member *model.TeamMember) error
	Update(ctx context.Context, member *model.TeamMember) error
	Delete(ctx context.Context, email string) error
}

// LegacyAdminStore is the single-table admin lookup kept for backward
// compatibility with installations that predate the team directory.
type LegacyAdminStore interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}
