package access

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/Sliceofbanana/job-tracker-sub001/internal/model"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/repository"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/verify"
	"github.com/Sliceofbanana/job-tracker-sub001/pkg/logger"
	"github.com/Sliceofbanana/job-tracker-sub001/pkg/metrics"
)

const (
	cacheTTL     = 5 * time.Minute
	cacheCleanup = 10 * time.Minute
)

type cachedVerdict struct {
	Role    model.Role
	IsAdmin bool
}

// Resolver answers "what role does this email hold" by walking an ordered
// strategy chain: fresh cache entry, then the team directory, then the
// legacy admin table, then the remote verification endpoint, then deny.
// Directory or legacy failures fall through to remote verification rather
// than failing open; if the fallback also errors the answer is deny.
//
// Concurrent uncached lookups for the same email may each reach the remote
// fallback. That is accepted: the endpoint is idempotent and side-effect
// free, and the cache converges after the first write.
type Resolver struct {
	cache     *gocache.Cache
	directory repository.TeamDirectory
	legacy    repository.LegacyAdminStore
	verifier  verify.Verifier
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewResolver(directory repository.TeamDirectory, legacy repository.LegacyAdminStore,
	verifier verify.Verifier, log *logger.Logger, m *metrics.Metrics) *Resolver {
	return &Resolver{
		cache:     gocache.New(cacheTTL, cacheCleanup),
		directory: directory,
		legacy:    legacy,
		verifier:  verifier,
		logger:    log,
		metrics:   m,
	}
}

// Resolve returns the email's role and whether it holds admin standing at
// all. A (RoleAdmin, false) result never occurs; a deny is ("", false).
func (r *Resolver) Resolve(ctx context.Context, email string) (model.Role, bool) {
	email = model.NormalizeEmail(email)
	if email == "" {
		return "", false
	}

	if entry, found := r.cache.Get(email); found {
		verdict := entry.(cachedVerdict)
		r.count("cache", verdict.IsAdmin)
		return verdict.Role, verdict.IsAdmin
	}

	degraded := false

	member, err := r.directory.Get(ctx, email)
	switch {
	case err == nil:
		if member.IsActive && member.Role.Valid() {
			r.remember(email, member.Role, true)
			r.count("directory", true)
			return member.Role, true
		}
		// Known but inactive or malformed; later strategies may still vouch.
	case errors.Is(err, repository.ErrNotFound):
		// Next strategy.
	default:
		r.logger.Error(err, "directory lookup failed, deferring to verification", "email", email)
		degraded = true
	}

	if !degraded {
		isAdmin, err := r.legacy.IsAdmin(ctx, email)
		switch {
		case err == nil && isAdmin:
			r.remember(email, model.RoleAdmin, true)
			r.count("legacy", true)
			return model.RoleAdmin, true
		case err == nil || errors.Is(err, repository.ErrNotFound):
			// Next strategy.
		default:
			r.logger.Error(err, "legacy admin lookup failed, deferring to verification", "email", email)
		}
	}

	return r.verifyRemote(ctx, email)
}

// IsAdmin is the boolean convenience over Resolve, used by UI gating.
func (r *Resolver) IsAdmin(ctx context.Context, email string) bool {
	_, ok := r.Resolve(ctx, email)
	return ok
}

// Forget evicts one email from the cache, used after team mutations so the
// next check observes the new state immediately.
func (r *Resolver) Forget(email string) {
	r.cache.Delete(model.NormalizeEmail(email))
}

func (r *Resolver) verifyRemote(ctx context.Context, email string) (model.Role, bool) {
	if r.metrics != nil {
		r.metrics.FallbackVerifications.Inc()
	}

	isAdmin, err := r.verifier.VerifyAdmin(ctx, email)
	if err != nil {
		// Fail closed. An unreachable verifier never grants access.
		r.logger.Error(err, "remote verification failed, denying", "email", email)
		r.count("remote", false)
		return "", false
	}

	if !isAdmin {
		r.remember(email, "", false)
		r.count("remote", false)
		return "", false
	}

	r.remember(email, model.RoleAdmin, true)
	r.count("remote", true)
	return model.RoleAdmin, true
}

func (r *Resolver) remember(email string, role model.Role, isAdmin bool) {
	r.cache.Set(email, cachedVerdict{Role: role, IsAdmin: isAdmin}, cacheTTL)
}

func (r *Resolver) count(source string, granted bool) {
	if r.metrics == nil {
		return
	}
	r.metrics.AdminResolutions.WithLabelValues(source).Inc()
	if !granted {
		r.metrics.AdminDenials.Inc()
	}
}
