package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all security engine metrics
type Metrics struct {
	// Password policy metrics
	PasswordChecks     *prometheus.CounterVec
	PasswordRejections prometheus.Counter

	// Attempt limiter metrics
	Lockouts     *prometheus.CounterVec
	AttemptsSeen *prometheus.CounterVec

	// Session metrics
	SessionsActive       prometheus.Gauge
	SessionTimeouts      prometheus.Counter
	FingerprintMismatch  prometheus.Counter

	// Admin resolution metrics
	AdminResolutions      *prometheus.CounterVec
	FallbackVerifications prometheus.Counter
	AdminDenials          prometheus.Counter

	// Rate limit collaborator metrics
	RateLimitFailOpen prometheus.Counter
}

// NewMetrics creates and registers all security engine metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		PasswordChecks: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "password_checks_total",
			Help:      "Password policy evaluations by strength tier",
		}, []string{"strength"}),
		PasswordRejections: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "password_rejections_total",
			Help:      "Password candidates rejected by policy",
		}),
		Lockouts: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "lockouts_total",
			Help:      "Identifiers locked out by the attempt limiter",
		}, []string{"profile"}),
		AttemptsSeen: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "attempts_total",
			Help:      "Guarded attempts recorded, by profile and outcome",
		}, []string{"profile", "outcome"}),
		SessionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sessions_active",
			Help:      "Sessions currently tracked by the guard",
		}),
		SessionTimeouts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "session_timeouts_total",
			Help:      "Sessions expired on validation",
		}),
		FingerprintMismatch: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "fingerprint_mismatches_total",
			Help:      "Sessions invalidated because the device fingerprint changed",
		}),
		AdminResolutions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "admin_resolutions_total",
			Help:      "Admin role resolutions by resolving strategy",
		}, []string{"source"}),
		FallbackVerifications: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "fallback_verifications_total",
			Help:      "Resolutions that reached the remote verification endpoint",
		}),
		AdminDenials: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "admin_denials_total",
			Help:      "Admin resolutions that ended in deny",
		}),
		RateLimitFailOpen: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "ratelimit_fail_open_total",
			Help:      "Remote rate-limit calls that failed and were treated as allowed",
		}),
	}
}
