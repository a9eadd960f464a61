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

type teamDirectory struct {
	db *sqlx.DB
}

// NewTeamDirectory returns the postgres-backed team directory.
func NewTeamDirectory(db *sqlx.DB) repository.TeamDirectory {
	return &teamDirectory{db: db}
}

func (r *teamDirectory) Get(ctx context.Context, email string) (*model.TeamMember, error) {
	query := `
		SELECT * FROM team_members
		WHERE email = $1
	`

	var member model.TeamMember
	if err := r.db.GetContext(ctx, &member, query, model.NormalizeEmail(email)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get team member: %w", err)
	}

	return &member, nil
}

func (r *teamDirectory) GetAll(ctx context.Context) ([]*model.TeamMember, error) {
	query := `
		SELECT * FROM team_members
		ORDER BY added_at
	`

	var members []*model.TeamMember
	if err := r.db.SelectContext(ctx, &members, query); err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}

	return members, nil
}

func (r *teamDirectory) Create(ctx context.Context, member *model.TeamMember) error {
	query := `
		INSERT INTO team_members (
			id, email, display_name, role, is_active, added_by,
			added_at, last_login, permissions, department, notes
		) VALUES (
			:id, :email, :display_name, :role, :is_active, :added_by,
			:added_at, :last_login, :permissions, :department, :notes
		)
	`

	member.Email = model.NormalizeEmail(member.Email)
	if _, err := r.db.NamedExecContext(ctx, query, member); err != nil {
		return fmt.Errorf("failed to create team member: %w", err)
	}
	return nil
}

func (r *teamDirectory) Update(ctx context.Context, member *model.TeamMember) error {
	// Last write wins: the full row is replaced, no version check.
	query := `
		UPDATE team_members SET
			display_name = :display_name,
			role = :role,
			is_active = :is_active,
			last_login = :last_login,
			permissions = :permissions,
			department = :department,
			notes = :notes
		WHERE email = :email
	`

	member.Email = model.NormalizeEmail(member.Email)
	result, err := r.db.NamedExecContext(ctx, query, member)
	if err != nil {
		return fmt.Errorf("failed to update team member: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *teamDirectory) Delete(ctx context.Context, email string) error {
	query := `
		DELETE FROM team_members
		WHERE email = $1
	`

	result, err := r.db.ExecContext(ctx, query, model.NormalizeEmail(email))
	if err != nil {
		return fmt.Errorf("failed to delete team member: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}
