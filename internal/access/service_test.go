package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sliceofbanana/job-tracker-sub001/internal/model"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/ratelimit"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/store"
	apperrors "github.com/Sliceofbanana/job-tracker-sub001/pkg/errors"
	"github.com/Sliceofbanana/job-tracker-sub001/pkg/logger"
)

func newTestService(t *testing.T, members ...*model.TeamMember) (*Service, *fakeDirectory) {
	t.Helper()

	dir := &fakeDirectory{members: make(map[string]*model.TeamMember)}
	for _, m := range members {
		dir.members[m.Email] = m
	}

	resolver := NewResolver(dir, &fakeLegacy{}, &fakeVerifier{}, logger.NewNop(), nil)
	limiter := ratelimit.NewLimiter(store.NewMemoryStore(), ratelimit.AdminActionProfile(), logger.NewNop())
	return NewService(dir, resolver, limiter, logger.NewNop()), dir
}

func assertForbidden(t *testing.T, err error) {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
}

func TestCanManageTeam(t *testing.T) {
	svc, _ := newTestService(t,
		member("super@co.com", model.RoleSuperAdmin, true),
		member("admin@co.com", model.RoleAdmin, true),
	)
	ctx := context.Background()

	assert.True(t, svc.CanManageTeam(ctx, "super@co.com"))
	assert.False(t, svc.CanManageTeam(ctx, "admin@co.com"), "plain admins never manage the team")
	assert.False(t, svc.CanManageTeam(ctx, "stranger@co.com"))
}

func TestCanAssignRole(t *testing.T) {
	svc, _ := newTestService(t, member("super@co.com", model.RoleSuperAdmin, true))
	ctx := context.Background()

	assert.True(t, svc.CanAssignRole(ctx, "super@co.com", model.RoleAdmin))
	assert.False(t, svc.CanAssignRole(ctx, "super@co.com", model.RoleSuperAdmin),
		"super admin status is never grantable")
}

func TestAddMember(t *testing.T) {
	svc, dir := newTestService(t, member("super@co.com", model.RoleSuperAdmin, true))

	added, err := svc.AddMember(context.Background(), "super@co.com", AddMemberInput{
		Email:       "New@Co.com",
		DisplayName: "New Admin",
		Role:        model.RoleAdmin,
	})
	require.NoError(t, err)

	assert.Equal(t, "new@co.com", added.Email)
	assert.True(t, added.IsActive)
	assert.Equal(t, "super@co.com", added.AddedBy)
	assert.Equal(t, model.StringList(model.PermissionsForRole(model.RoleAdmin)), added.Permissions)
	assert.Contains(t, dir.members, "new@co.com")
}

func TestAddMemberRejectsNonSuperAdmin(t *testing.T) {
	svc, _ := newTestService(t, member("admin@co.com", model.RoleAdmin, true))

	_, err := svc.AddMember(context.Background(), "admin@co.com", AddMemberInput{
		Email:       "new@co.com",
		DisplayName: "New",
		Role:        model.RoleAdmin,
	})
	assertForbidden(t, err)
}

func TestAddMemberRejectsSuperAdminRole(t *testing.T) {
	svc, _ := newTestService(t, member("super@co.com", model.RoleSuperAdmin, true))

	_, err := svc.AddMember(context.Background(), "super@co.com", AddMemberInput{
		Email:       "new@co.com",
		DisplayName: "New",
		Role:        model.RoleSuperAdmin,
	})
	assertForbidden(t, err)
}

func TestAddMemberFailsWhenDirectoryUnavailable(t *testing.T) {
	svc, dir := newTestService(t, member("super@co.com", model.RoleSuperAdmin, true))
	ctx := context.Background()

	// Prime the resolver cache so only the duplicate check sees the outage.
	require.True(t, svc.CanManageTeam(ctx, "super@co.com"))

	dir.err = errors.New("connection refused")
	_, err := svc.AddMember(ctx, "super@co.com", AddMemberInput{
		Email:       "new@co.com",
		DisplayName: "New",
		Role:        model.RoleAdmin,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to check for existing member",
		"a directory outage must not read as \"member absent\"")

	dir.err = nil
	assert.NotContains(t, dir.members, "new@co.com")
}

func TestAddMemberRejectsDuplicate(t *testing.T) {
	svc, _ := newTestService(t,
		member("super@co.com", model.RoleSuperAdmin, true),
		member("existing@co.com", model.RoleAdmin, true),
	)

	_, err := svc.AddMember(context.Background(), "super@co.com", AddMemberInput{
		Email:       "Existing@Co.com",
		DisplayName: "Dup",
		Role:        model.RoleAdmin,
	})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
}

func TestUpdateMemberRecomputesPermissions(t *testing.T) {
	target := member("staff@co.com", model.RoleAdmin, true)
	svc, _ := newTestService(t, member("super@co.com", model.RoleSuperAdmin, true), target)

	active := false
	updated, err := svc.UpdateMember(context.Background(), "super@co.com", "staff@co.com", UpdateMemberInput{
		IsActive: &active,
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, model.StringList(model.PermissionsForRole(model.RoleAdmin)), updated.Permissions)
}

func TestUpdateMemberForbidsEditingSuperAdmin(t *testing.T) {
	svc, _ := newTestService(t,
		member("super@co.com", model.RoleSuperAdmin, true),
		member("other-super@co.com", model.RoleSuperAdmin, true),
	)

	name := "Renamed"
	_, err := svc.UpdateMember(context.Background(), "super@co.com", "other-super@co.com", UpdateMemberInput{
		DisplayName: &name,
	})
	assertForbidden(t, err)
}

func TestUpdateMemberForbidsSuperAdminRoleAssignment(t *testing.T) {
	svc, _ := newTestService(t,
		member("super@co.com", model.RoleSuperAdmin, true),
		member("staff@co.com", model.RoleAdmin, true),
	)

	super := model.RoleSuperAdmin
	_, err := svc.UpdateMember(context.Background(), "super@co.com", "staff@co.com", UpdateMemberInput{
		Role: &super,
	})
	assertForbidden(t, err)
}

func TestRemoveMember(t *testing.T) {
	svc, dir := newTestService(t,
		member("super@co.com", model.RoleSuperAdmin, true),
		member("staff@co.com", model.RoleAdmin, true),
	)

	require.NoError(t, svc.RemoveMember(context.Background(), "super@co.com", "staff@co.com"))
	assert.NotContains(t, dir.members, "staff@co.com")
}

func TestRemoveMemberForbidsSelfRemoval(t *testing.T) {
	svc, _ := newTestService(t, member("super@co.com", model.RoleSuperAdmin, true))

	err := svc.RemoveMember(context.Background(), "super@co.com", "Super@Co.com")
	assertForbidden(t, err)
}

func TestRemoveMemberByNonSuperAdmin(t *testing.T) {
	svc, _ := newTestService(t,
		member("admin@co.com", model.RoleAdmin, true),
		member("staff@co.com", model.RoleAdmin, true),
	)

	err := svc.RemoveMember(context.Background(), "admin@co.com", "staff@co.com")
	assertForbidden(t, err)
}

func TestListMembersRequiresAdmin(t *testing.T) {
	svc, _ := newTestService(t,
		member("admin@co.com", model.RoleAdmin, true),
		member("super@co.com", model.RoleSuperAdmin, true),
	)
	ctx := context.Background()

	members, err := svc.ListMembers(ctx, "admin@co.com")
	require.NoError(t, err)
	assert.Len(t, members, 2)

	_, err = svc.ListMembers(ctx, "stranger@co.com")
	assertForbidden(t, err)
}

func TestGetMember(t *testing.T) {
	svc, _ := newTestService(t,
		member("admin@co.com", model.RoleAdmin, true),
		member("staff@co.com", model.RoleAdmin, true),
	)

	got, err := svc.GetMember(context.Background(), "admin@co.com", "staff@co.com")
	require.NoError(t, err)
	assert.Equal(t, "staff@co.com", got.Email)
}
