package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Sliceofbanana/job-tracker-sub001/internal/model"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/repository"
)

type legacyAdminStore struct {
	db *sqlx.DB
}

// NewLegacyAdminStore reads the pre-directory admin_records table. Kept so
// installations that never migrated still resolve their admins.
func NewLegacyAdminStore(db *sqlx.DB) repository.LegacyAdminStore {
	return &legacyAdminStore{db: db}
}

func (r *legacyAdminStore) IsAdmin(ctx context.Context, email string) (bool, error) {
	query := `
		SELECT is_admin FROM admin_records
		WHERE email = $1
	`

	var isAdmin bool
	if err := r.db.GetContext(ctx, &isAdmin, query, model.NormalizeEmail(email)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, repository.ErrNotFound
		}
		return false, fmt.Errorf("failed to check admin record: %w", err)
	}

	return isAdmin, nil
}
