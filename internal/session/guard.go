package session

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

const (
	// DefaultTimeout is how long a session survives without activity.
	DefaultTimeout = 30 * time.Minute
	// DefaultRefreshThreshold is the idle time after which the upstream
	// credential should be renewed.
	DefaultRefreshThreshold = 5 * time.Minute
)

// AlertSender delivers security notices. Satisfied by email.AlertSender.
type AlertSender interface {
	SendSecurityAlert(ctx context.Context, to, subject, body string) error
}

// Config holds the guard's timing constants.
type Config struct {
	Timeout          time.Duration
	RefreshThreshold time.Duration
}

func DefaultConfig() Config {
	return Config{
		Timeout:          DefaultTimeout,
		RefreshThreshold: DefaultRefreshThreshold,
	}
}

// Guard binds sessions to a device fingerprint and enforces idle timeout.
// State lives in the injected store, keyed by user identifier; expiry is
// observed lazily on validation, never scheduled.
type Guard struct {
	store   store.Store
	cfg     Config
	logger  *logger.Logger
	metrics *metrics.Metrics
	alerts  AlertSender
	now     func() time.Time
}

func NewGuard(st store.Store, cfg Config, log *logger.Logger, m *metrics.Metrics, alerts AlertSender) *Guard {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RefreshThreshold <= 0 {
		cfg.RefreshThreshold = DefaultRefreshThreshold
	}
	return &Guard{
		store:   st,
		cfg:     cfg,
		logger:  log,
		metrics: m,
		alerts:  alerts,
		now:     time.Now,
	}
}

// NewGuardWithClock lets tests control time.
func NewGuardWithClock(st store.Store, cfg Config, log *logger.Logger, m *metrics.Metrics, alerts AlertSender, now func() time.Time) *Guard {
	g := NewGuard(st, cfg, log, m, alerts)
	g.now = now
	return g
}

func sessionKey(userID string) string {
	return "session:" + userID
}

// Initialize computes the device fingerprint and stores a fresh session
// record for the user, replacing any existing one.
func (g *Guard) Initialize(ctx context.Context, userID string, signals model.DeviceSignals) error {
	replaced := false
	if existing, err := g.load(ctx, userID); err == nil && existing != nil {
		replaced = true
	}

	now := g.now()
	record := model.SessionRecord{
		LastActivity: now,
		Fingerprint:  Fingerprint(signals),
		CreatedAt:    now,
		IsValid:      true,
	}
	if err := g.save(ctx, userID, record); err != nil {
		return err
	}

	// Replacing a live session keeps the gauge where it is.
	if g.metrics != nil && !replaced {
		g.metrics.SessionsActive.Inc()
	}
	g.logger.Info("session initialized", "user", userID)
	return nil
}

// Validate reports whether the user's session is fresh and still bound to
// the same device. A stale session is deleted; a fingerprint mismatch is a
// security event: the session is invalidated immediately and never retried.
func (g *Guard) Validate(ctx context.Context, userID string, signals model.DeviceSignals) bool {
	record, err := g.load(ctx, userID)
	if err != nil {
		g.logger.Error(err, "session lookup failed", "user", userID)
		return false
	}
	if record == nil {
		return false
	}

	now := g.now()
	if now.Sub(record.LastActivity) > g.cfg.Timeout {
		g.drop(ctx, userID)
		if g.metrics != nil {
			g.metrics.SessionTimeouts.Inc()
		}
		g.logger.Info("session expired", "user", userID)
		return false
	}

	if Fingerprint(signals) != record.Fingerprint {
		g.drop(ctx, userID)
		if g.metrics != nil {
			g.metrics.FingerprintMismatch.Inc()
		}
		g.logger.Warn("session fingerprint mismatch, possible hijacking", "user", userID)
		g.sendHijackAlert(ctx, userID)
		return false
	}

	record.LastActivity = now
	if err := g.save(ctx, userID, *record); err != nil {
		g.logger.Error(err, "failed to refresh session activity", "user", userID)
	}
	return record.IsValid
}

// Invalidate removes the user's session outright.
func (g *Guard) Invalidate(ctx context.Context, userID string) {
	g.drop(ctx, userID)
	g.logger.Info("session invalidated", "user", userID)
}

// NeedsRefresh reports whether the upstream credential should be renewed:
// true when the session has idled past the refresh threshold, or when no
// session exists at all.
func (g *Guard) NeedsRefresh(ctx context.Context, userID string) bool {
	record, err := g.load(ctx, userID)
	if err != nil || record == nil {
		return true
	}
	return g.now().Sub(record.LastActivity) > g.cfg.RefreshThreshold
}

// Touch refreshes the session's activity timestamp. Wired to the client's
// input-gesture events.
func (g *Guard) Touch(ctx context.Context, userID string) {
	record, err := g.load(ctx, userID)
	if err != nil || record == nil {
		return
	}
	record.LastActivity = g.now()
	if err := g.save(ctx, userID, *record); err != nil {
		g.logger.Error(err, "failed to record session activity", "user", userID)
	}
}

// MarkHidden rolls the activity timestamp back by half the timeout when the
// client view goes to the background, shortening the session's remaining
// life while it is not being watched.
func (g *Guard) MarkHidden(ctx context.Context, userID string) {
	record, err := g.load(ctx, userID)
	if err != nil || record == nil {
		return
	}
	record.LastActivity = record.LastActivity.Add(-g.cfg.Timeout / 2)
	if err := g.save(ctx, userID, *record); err != nil {
		g.logger.Error(err, "failed to record visibility change", "user", userID)
	}
}

func (g *Guard) drop(ctx context.Context, userID string) {
	record, err := g.load(ctx, userID)
	if err != nil {
		g.logger.Error(err, "failed to load session record before delete", "user", userID)
	}
	if err := g.store.Delete(ctx, sessionKey(userID)); err != nil {
		g.logger.Error(err, "failed to delete session record", "user", userID)
		return
	}
	// Only a session that actually existed moves the gauge.
	if g.metrics != nil && record != nil {
		g.metrics.SessionsActive.Dec()
	}
}

func (g *Guard) sendHijackAlert(ctx context.Context, userID string) {
	if g.alerts == nil {
		return
	}
	err := g.alerts.SendSecurityAlert(ctx, userID,
		"Security alert: your session was ended",
		"Your session was ended because it appeared to continue from a different device. If this was not you, change your password.")
	if err != nil {
		g.logger.Error(err, "failed to send hijack alert", "user", userID)
	}
}

func (g *Guard) load(ctx context.Context, userID string) (*model.SessionRecord, error) {
	data, ok, err := g.store.Get(ctx, sessionKey(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to load session record: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var record model.SessionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode session record: %w", err)
	}
	return &record, nil
}

func (g *Guard) save(ctx context.Context, userID string, record model.SessionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode session record: %w", err)
	}
	if err := g.store.Set(ctx, sessionKey(userID), data, g.cfg.Timeout); err != nil {
		return fmt.Errorf("failed to save session record: %w", err)
	}
	return nil
}
