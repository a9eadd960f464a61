package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sliceofbanana/job-tracker-sub001/internal/model"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/repository"
	"github.com/Sliceofbanana/job-tracker-sub001/pkg/logger"
)

type fakeDirectory struct {
	members map[string]*model.TeamMember
	err     error
	calls   int
}

func (d *fakeDirectory) Get(_ context.Context, email string) (*model.TeamMember, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	member, ok := d.members[model.NormalizeEmail(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return member, nil
}

func (d *fakeDirectory) GetAll(_ context.Context) ([]*model.TeamMember, error) {
	if d.err != nil {
		return nil, d.err
	}
	var out []*model.TeamMember
	for _, m := range d.members {
		out = append(out, m)
	}
	return out, nil
}

func (d *fakeDirectory) Create(_ context.Context, member *model.TeamMember) error {
	if d.err != nil {
		return d.err
	}
	if d.members == nil {
		d.members = make(map[string]*model.TeamMember)
	}
	d.members[member.Email] = member
	return nil
}

func (d *fakeDirectory) Update(_ context.Context, member *model.TeamMember) error {
	if d.err != nil {
		return d.err
	}
	d.members[member.Email] = member
	return nil
}

func (d *fakeDirectory) Delete(_ context.Context, email string) error {
	if d.err != nil {
		return d.err
	}
	delete(d.members, model.NormalizeEmail(email))
	return nil
}

type fakeLegacy struct {
	admins map[string]bool
	err    error
	calls  int
}

func (l *fakeLegacy) IsAdmin(_ context.Context, email string) (bool, error) {
	l.calls++
	if l.err != nil {
		return false, l.err
	}
	isAdmin, ok := l.admins[model.NormalizeEmail(email)]
	if !ok {
		return false, repository.ErrNotFound
	}
	return isAdmin, nil
}

type fakeVerifier struct {
	verdicts map[string]bool
	err      error
	calls    int
}

func (v *fakeVerifier) VerifyAdmin(_ context.Context, email string) (bool, error) {
	v.calls++
	if v.err != nil {
		return false, v.err
	}
	return v.verdicts[model.NormalizeEmail(email)], nil
}

func member(email string, role model.Role, active bool) *model.TeamMember {
	return &model.TeamMember{
		Email:       model.NormalizeEmail(email),
		DisplayName: email,
		Role:        role,
		IsActive:    active,
		Permissions: model.PermissionsForRole(role),
	}
}

func TestResolveFromDirectory(t *testing.T) {
	dir := &fakeDirectory{members: map[string]*model.TeamMember{
		"boss@co.com": member("boss@co.com", model.RoleSuperAdmin, true),
	}}
	verifier := &fakeVerifier{}
	resolver := NewResolver(dir, &fakeLegacy{}, verifier, logger.NewNop(), nil)

	role, ok := resolver.Resolve(context.Background(), "Boss@Co.com ")
	assert.True(t, ok)
	assert.Equal(t, model.RoleSuperAdmin, role)
	assert.Zero(t, verifier.calls, "directory hit must not reach the fallback")
}

func TestResolveUsesCacheOnSecondLookup(t *testing.T) {
	dir := &fakeDirectory{members: map[string]*model.TeamMember{
		"boss@co.com": member("boss@co.com", model.RoleSuperAdmin, true),
	}}
	resolver := NewResolver(dir, &fakeLegacy{}, &fakeVerifier{}, logger.NewNop(), nil)

	resolver.Resolve(context.Background(), "boss@co.com")
	resolver.Resolve(context.Background(), "boss@co.com")

	assert.Equal(t, 1, dir.calls, "second lookup should come from cache")
}

func TestResolveFallsBackToLegacy(t *testing.T) {
	legacy := &fakeLegacy{admins: map[string]bool{"old@co.com": true}}
	resolver := NewResolver(&fakeDirectory{}, legacy, &fakeVerifier{}, logger.NewNop(), nil)

	role, ok := resolver.Resolve(context.Background(), "old@co.com")
	assert.True(t, ok)
	assert.Equal(t, model.RoleAdmin, role)
	assert.Equal(t, 1, legacy.calls)
}

func TestResolveFallsBackToRemote(t *testing.T) {
	verifier := &fakeVerifier{verdicts: map[string]bool{"remote@co.com": true}}
	resolver := NewResolver(&fakeDirectory{}, &fakeLegacy{}, verifier, logger.NewNop(), nil)

	role, ok := resolver.Resolve(context.Background(), "remote@co.com")
	assert.True(t, ok)
	assert.Equal(t, model.RoleAdmin, role)
	assert.Equal(t, 1, verifier.calls)
}

func TestResolveDirectoryErrorSkipsToRemote(t *testing.T) {
	dir := &fakeDirectory{err: errors.New("connection refused")}
	legacy := &fakeLegacy{admins: map[string]bool{"boss@co.com": true}}
	verifier := &fakeVerifier{verdicts: map[string]bool{"boss@co.com": true}}
	resolver := NewResolver(dir, legacy, verifier, logger.NewNop(), nil)

	role, ok := resolver.Resolve(context.Background(), "boss@co.com")
	assert.True(t, ok)
	assert.Equal(t, model.RoleAdmin, role)
	assert.Zero(t, legacy.calls, "a directory failure defers straight to verification")
	assert.Equal(t, 1, verifier.calls)
}

func TestResolveDeniesWhenEverythingFails(t *testing.T) {
	dir := &fakeDirectory{err: errors.New("connection refused")}
	verifier := &fakeVerifier{err: errors.New("network unreachable")}
	resolver := NewResolver(dir, &fakeLegacy{}, verifier, logger.NewNop(), nil)

	role, ok := resolver.Resolve(context.Background(), "boss@co.com")
	assert.False(t, ok)
	assert.Empty(t, role)
}

func TestResolveDeniesUnknownEmail(t *testing.T) {
	resolver := NewResolver(&fakeDirectory{}, &fakeLegacy{}, &fakeVerifier{}, logger.NewNop(), nil)

	_, ok := resolver.Resolve(context.Background(), "stranger@co.com")
	assert.False(t, ok)

	_, ok = resolver.Resolve(context.Background(), "")
	assert.False(t, ok)
}

func TestResolveIgnoresInactiveMember(t *testing.T) {
	dir := &fakeDirectory{members: map[string]*model.TeamMember{
		"gone@co.com": member("gone@co.com", model.RoleAdmin, false),
	}}
	resolver := NewResolver(dir, &fakeLegacy{}, &fakeVerifier{}, logger.NewNop(), nil)

	_, ok := resolver.Resolve(context.Background(), "gone@co.com")
	assert.False(t, ok)
}

func TestForgetEvictsCache(t *testing.T) {
	dir := &fakeDirectory{members: map[string]*model.TeamMember{
		"boss@co.com": member("boss@co.com", model.RoleAdmin, true),
	}}
	resolver := NewResolver(dir, &fakeLegacy{}, &fakeVerifier{}, logger.NewNop(), nil)

	resolver.Resolve(context.Background(), "boss@co.com")
	resolver.Forget("boss@co.com")
	resolver.Resolve(context.Background(), "boss@co.com")

	assert.Equal(t, 2, dir.calls)
}
