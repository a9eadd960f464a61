package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Sliceofbanana/job-tracker-sub001/internal/model"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/store"
	"github.com/Sliceofbanana/job-tracker-sub001/pkg/logger"
	"github.com/Sliceofbanana/job-tracker-sub001/pkg/metrics"
)

// Profile fixes the constants of one limiter instance. Every instance runs
// the same state machine; only the constants differ.
type Profile struct {
	Name        string
	MaxAttempts int
	Window      time.Duration
}

// PasswordProfile guards password entry.
func PasswordProfile() Profile {
	return Profile{Name: "password", MaxAttempts: 5, Window: 15 * time.Minute}
}

// AdminActionProfile guards team-management actions.
func AdminActionProfile() Profile {
	return Profile{Name: "admin_action", MaxAttempts: 100, Window: time.Minute}
}

// Limiter is a fixed-window attempt counter keyed by an identifier. Records
// are pruned lazily: an entry whose window has fully elapsed is treated as
// absent on the next check, never evicted proactively.
type Limiter struct {
	store     store.Store
	profile   Profile
	logger    *logger.Logger
	metrics   *metrics.Metrics
	onLockout func(ctx context.Context, identifier string)
	now       func() time.Time
}

func NewLimiter(st store.Store, profile Profile, log *logger.Logger) *Limiter {
	return &Limiter{
		store:   st,
		profile: profile,
		logger:  log,
		now:     time.Now,
	}
}

// WithMetrics attaches attempt and lockout counters. Call at wiring time,
// before the limiter serves traffic.
func (l *Limiter) WithMetrics(m *metrics.Metrics) *Limiter {
	l.metrics = m
	return l
}

// WithLockoutHook registers fn, invoked once per identifier each time its
// count crosses the limit. Used to notify the account owner.
func (l *Limiter) WithLockoutHook(fn func(ctx context.Context, identifier string)) *Limiter {
	l.onLockout = fn
	return l
}

// NewLimiterWithClock lets tests control time.
func NewLimiterWithClock(st store.Store, profile Profile, log *logger.Logger, now func() time.Time) *Limiter {
	l := NewLimiter(st, profile, log)
	l.now = now
	return l
}

func (l *Limiter) key(identifier string) string {
	return fmt.Sprintf("attempts:%s:%s", l.profile.Name, identifier)
}

// Check reports whether the identifier may proceed. Callers must treat a
// returned error as a denial; the limiter is a security gate and fails
// closed on storage trouble.
func (l *Limiter) Check(ctx context.Context, identifier string) (model.AttemptStatus, error) {
	record, err := l.load(ctx, identifier)
	if err != nil {
		return model.AttemptStatus{}, err
	}

	now := l.now()

	if record == nil || l.windowElapsed(*record, now) {
		fresh := model.AttemptRecord{LastReset: now}
		if err := l.save(ctx, identifier, fresh); err != nil {
			return model.AttemptStatus{}, err
		}
		return model.AttemptStatus{Allowed: true, Remaining: l.profile.MaxAttempts}, nil
	}

	if record.Count >= l.profile.MaxAttempts {
		lockoutEnds := record.LastAttempt.Add(l.profile.Window)
		l.logger.Warn("attempt limit reached",
			"profile", l.profile.Name, "identifier", identifier, "lockout_ends", lockoutEnds)
		return model.AttemptStatus{Allowed: false, LockoutEnds: &lockoutEnds}, nil
	}

	return model.AttemptStatus{Allowed: true, Remaining: l.profile.MaxAttempts - record.Count}, nil
}

// Record notes the outcome of one guarded attempt. A success deletes the
// record outright, restoring the full quota; a failure increments the count
// and refreshes the attempt timestamp.
func (l *Limiter) Record(ctx context.Context, identifier string, succeeded bool) error {
	if succeeded {
		if l.metrics != nil {
			l.metrics.AttemptsSeen.WithLabelValues(l.profile.Name, "success").Inc()
		}
		return l.store.Delete(ctx, l.key(identifier))
	}

	record, err := l.load(ctx, identifier)
	if err != nil {
		return err
	}

	now := l.now()
	if record == nil || l.windowElapsed(*record, now) {
		record = &model.AttemptRecord{LastReset: now}
	}

	record.Count++
	record.LastAttempt = now

	if l.metrics != nil {
		l.metrics.AttemptsSeen.WithLabelValues(l.profile.Name, "failure").Inc()
	}
	if record.Count == l.profile.MaxAttempts {
		l.logger.Warn("identifier locked out",
			"profile", l.profile.Name, "identifier", identifier)
		if l.metrics != nil {
			l.metrics.Lockouts.WithLabelValues(l.profile.Name).Inc()
		}
		if l.onLockout != nil {
			l.onLockout(ctx, identifier)
		}
	}

	return l.save(ctx, identifier, *record)
}

func (l *Limiter) windowElapsed(record model.AttemptRecord, now time.Time) bool {
	anchor := record.LastAttempt
	if anchor.IsZero() {
		anchor = record.LastReset
	}
	return now.Sub(anchor) >= l.profile.Window
}

func (l *Limiter) load(ctx context.Context, identifier string) (*model.AttemptRecord, error) {
	data, ok, err := l.store.Get(ctx, l.key(identifier))
	if err != nil {
		return nil, fmt.Errorf("failed to load attempt record: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var record model.AttemptRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode attempt record: %w", err)
	}
	return &record, nil
}

func (l *Limiter) save(ctx context.Context, identifier string, record model.AttemptRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode attempt record: %w", err)
	}
	if err := l.store.Set(ctx, l.key(identifier), data, l.profile.Window); err != nil {
		return fmt.Errorf("failed to save attempt record: %w", err)
	}
	return nil
}
