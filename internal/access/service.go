package access

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Sliceofbanana/job-tracker-sub001/internal/model"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/ratelimit"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/repository"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/sanitize"
	apperrors "github.com/Sliceofbanana/job-tracker-sub001/pkg/errors"
	"github.com/Sliceofbanana/job-tracker-sub001/pkg/logger"
)

// Denial reasons surfaced to callers. The caller decides whether to show
// them or silently no-op.
const (
	reasonNotSuperAdmin    = "only a super admin may manage the team"
	reasonNotAdmin         = "admin access required"
	reasonSelfRemoval      = "you cannot remove yourself from the team"
	reasonRemoveSuperAdmin = "only a super admin may remove a super admin"
	reasonEditSuperAdmin   = "super admin accounts cannot be edited"
	reasonAssignSuperAdmin = "the super admin role cannot be assigned"
	reasonInvalidRole      = "unknown role"
	reasonRateLimited      = "too many admin actions, slow down"
)

// AddMemberInput is the payload for adding a team member.
type AddMemberInput struct {
	Email       string     `json:"email" binding:"required,email"`
	DisplayName string     `json:"display_name" binding:"required"`
	Role        model.Role `json:"role" binding:"required"`
	Department  string     `json:"department"`
	Notes       string     `json:"notes"`
}

// UpdateMemberInput carries the mutable fields of a member. Nil means leave
// unchanged. Permissions are absent on purpose: they are derived from role.
type UpdateMemberInput struct {
	DisplayName *string     `json:"display_name"`
	Role        *model.Role `json:"role"`
	IsActive    *bool       `json:"is_active"`
	Department  *string     `json:"department"`
	Notes       *string     `json:"notes"`
}

// Service enforces the team-management rules over the role hierarchy.
// Every mutation resolves the actor's role first and is counted against the
// admin action limiter.
type Service struct {
	directory repository.TeamDirectory
	resolver  *Resolver
	limiter   *ratelimit.Limiter
	logger    *logger.Logger
	now       func() time.Time
}

func NewService(directory repository.TeamDirectory, resolver *Resolver,
	limiter *ratelimit.Limiter, log *logger.Logger) *Service {
	return &Service{
		directory: directory,
		resolver:  resolver,
		limiter:   limiter,
		logger:    log,
		now:       time.Now,
	}
}

// CanManageTeam reports whether the actor may add, edit or remove members.
func (s *Service) CanManageTeam(ctx context.Context, actor string) bool {
	role, ok := s.resolver.Resolve(ctx, actor)
	return ok && role == model.RoleSuperAdmin
}

// CanAssignRole reports whether the actor may hand out the target role.
// Super admin status is never grantable through this path.
func (s *Service) CanAssignRole(ctx context.Context, actor string, target model.Role) bool {
	if target != model.RoleAdmin {
		return false
	}
	return s.CanManageTeam(ctx, actor)
}

// AddMember creates a new team member. Only super admins may add, only the
// admin role may be assigned, and duplicate emails are rejected.
func (s *Service) AddMember(ctx context.Context, actor string, input AddMemberInput) (*model.TeamMember, error) {
	if err := s.gate(ctx, actor); err != nil {
		return nil, err
	}

	if !input.Role.Valid() {
		return nil, apperrors.Forbidden(reasonInvalidRole)
	}
	if !s.CanAssignRole(ctx, actor, input.Role) {
		return nil, apperrors.Forbidden(reasonAssignSuperAdmin)
	}

	email := model.NormalizeEmail(sanitize.Sanitize(input.Email, sanitize.ClassEmail))

	if _, err := s.directory.Get(ctx, email); err == nil {
		return nil, apperrors.BadRequest(fmt.Sprintf("team member %s already exists", email), nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		// A directory outage must not let a duplicate slip through.
		return nil, fmt.Errorf("failed to check for existing member: %w", err)
	}

	member := &model.TeamMember{
		ID:          uuid.New(),
		Email:       email,
		DisplayName: sanitize.Sanitize(input.DisplayName, sanitize.ClassText),
		Role:        input.Role,
		IsActive:    true,
		AddedBy:     model.NormalizeEmail(actor),
		AddedAt:     s.now(),
		Permissions: model.PermissionsForRole(input.Role),
		Department:  sanitize.Sanitize(input.Department, sanitize.ClassText),
		Notes:       sanitize.Sanitize(input.Notes, sanitize.ClassText),
	}

	if err := s.directory.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to add team member: %w", err)
	}

	s.resolver.Forget(email)
	s.logger.Info("team member added", "email", email, "role", member.Role, "by", actor)
	return member, nil
}

// UpdateMember edits an existing member. Super admin members cannot be
// edited by anyone; a role change recomputes the derived permissions.
func (s *Service) UpdateMember(ctx context.Context, actor, email string, input UpdateMemberInput) (*model.TeamMember, error) {
	if err := s.gate(ctx, actor); err != nil {
		return nil, err
	}

	member, err := s.directory.Get(ctx, email)
	if err != nil {
		return nil, apperrors.NotFound("team member", err)
	}

	if member.Role == model.RoleSuperAdmin {
		return nil, apperrors.Forbidden(reasonEditSuperAdmin)
	}

	if input.Role != nil && *input.Role != member.Role {
		if !s.CanAssignRole(ctx, actor, *input.Role) {
			return nil, apperrors.Forbidden(reasonAssignSuperAdmin)
		}
		member.Role = *input.Role
		member.Permissions = model.PermissionsForRole(member.Role)
	}
	if input.DisplayName != nil {
		member.DisplayName = sanitize.Sanitize(*input.DisplayName, sanitize.ClassText)
	}
	if input.IsActive != nil {
		member.IsActive = *input.IsActive
	}
	if input.Department != nil {
		member.Department = sanitize.Sanitize(*input.Department, sanitize.ClassText)
	}
	if input.Notes != nil {
		member.Notes = sanitize.Sanitize(*input.Notes, sanitize.ClassText)
	}

	if err := s.directory.Update(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to update team member: %w", err)
	}

	s.resolver.Forget(member.Email)
	s.logger.Info("team member updated", "email", member.Email, "by", actor)
	return member, nil
}

// RemoveMember deletes a member. Actors never remove themselves, and only a
// super admin removes another super admin.
func (s *Service) RemoveMember(ctx context.Context, actor, email string) error {
	if err := s.gate(ctx, actor); err != nil {
		return err
	}

	normalized := model.NormalizeEmail(email)
	if normalized == model.NormalizeEmail(actor) {
		return apperrors.Forbidden(reasonSelfRemoval)
	}

	member, err := s.directory.Get(ctx, normalized)
	if err != nil {
		return apperrors.NotFound("team member", err)
	}

	if member.Role == model.RoleSuperAdmin {
		actorRole, ok := s.resolver.Resolve(ctx, actor)
		if !ok || actorRole != model.RoleSuperAdmin {
			return apperrors.Forbidden(reasonRemoveSuperAdmin)
		}
	}

	if err := s.directory.Delete(ctx, normalized); err != nil {
		return fmt.Errorf("failed to remove team member: %w", err)
	}

	s.resolver.Forget(normalized)
	s.logger.Warn("team member removed", "email", normalized, "by", actor)
	return nil
}

// ListMembers returns the whole directory. Requires admin standing, not
// super admin: read access is broader than write access.
func (s *Service) ListMembers(ctx context.Context, actor string) ([]*model.TeamMember, error) {
	if !s.resolver.IsAdmin(ctx, actor) {
		return nil, apperrors.Forbidden(reasonNotAdmin)
	}

	members, err := s.directory.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	return members, nil
}

// GetMember returns one member by email, for any resolved admin.
func (s *Service) GetMember(ctx context.Context, actor, email string) (*model.TeamMember, error) {
	if !s.resolver.IsAdmin(ctx, actor) {
		return nil, apperrors.Forbidden(reasonNotAdmin)
	}

	member, err := s.directory.Get(ctx, email)
	if err != nil {
		return nil, apperrors.NotFound("team member", err)
	}
	return member, nil
}

// gate rate-limits the actor and checks management rights. Every mutation
// counts against the admin action window whether or not it goes on to
// succeed.
func (s *Service) gate(ctx context.Context, actor string) error {
	status, err := s.limiter.Check(ctx, model.NormalizeEmail(actor))
	if err != nil {
		// The limiter is a security gate; storage trouble means deny.
		return fmt.Errorf("admin action limiter unavailable: %w", err)
	}
	if !status.Allowed {
		return apperrors.TooManyRequests(reasonRateLimited)
	}
	if err := s.limiter.Record(ctx, model.NormalizeEmail(actor), false); err != nil {
		return fmt.Errorf("failed to record admin action: %w", err)
	}

	if !s.CanManageTeam(ctx, actor) {
		return apperrors.Forbidden(reasonNotSuperAdmin)
	}
	return nil
}
