package ratelimit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Sliceofbanana/job-tracker-sub001/pkg/circuitbreaker"
	"github.com/Sliceofbanana/job-tracker-sub001/pkg/logger"
	"github.com/Sliceofbanana/job-tracker-sub001/pkg/metrics"
)

// Class selects which remote quota an action is counted against.
type Class string

const (
	ClassGeneral  Class = "general"
	ClassFeedback Class = "feedback"
	ClassAdmin    Class = "admin"
	ClassAuth     Class = "auth"
)

// Decision is the remote endpoint's verdict for one action.
type Decision struct {
	Allowed   bool      `json:"allowed"`
	Remaining int       `json:"remaining"`
	ResetTime time.Time `json:"reset_time"`
}

// RemoteClient talks to the shared rate-limit endpoint.
//
// This client FAILS OPEN: when the endpoint is unreachable or the breaker is
// open, the action is treated as allowed. That is the opposite of the admin
// resolver's fail-closed posture and is a deliberate per-component policy
// choice (usability over strictness for non-privileged actions), not an
// accident. Do not unify the two.
type RemoteClient struct {
	endpoint string
	client   *http.Client
	breaker  *circuitbreaker.CircuitBreaker
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewRemoteClient(endpoint string, log *logger.Logger, m *metrics.Metrics) *RemoteClient {
	return &RemoteClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 5 * time.Second},
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "rate-limit-endpoint",
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		}),
		logger:  log,
		metrics: m,
	}
}

type rateLimitRequest struct {
	Action       string `json:"action"`
	LimiterClass Class  `json:"limiter_class"`
}

// Allow asks the remote endpoint whether the action may proceed.
func (c *RemoteClient) Allow(ctx context.Context, action string, class Class) Decision {
	var decision Decision

	err := c.breaker.Execute(func() error {
		d, err := c.call(ctx, action, class)
		if err != nil {
			return err
		}
		decision = d
		return nil
	})
	if err != nil {
		c.logger.Warn("rate-limit endpoint unavailable, failing open",
			"action", action, "class", class, "error", err.Error())
		if c.metrics != nil {
			c.metrics.RateLimitFailOpen.Inc()
		}
		return Decision{Allowed: true}
	}

	return decision
}

func (c *RemoteClient) call(ctx context.Context, action string, class Class) (Decision, error) {
	body, err := json.Marshal(rateLimitRequest{Action: action, LimiterClass: class})
	if err != nil {
		return Decision{}, fmt.Errorf("failed to encode rate-limit request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Decision{}, fmt.Errorf("failed to build rate-limit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Decision{}, fmt.Errorf("rate-limit request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Decision{}, fmt.Errorf("rate-limit endpoint returned status %d", resp.StatusCode)
	}

	var decision Decision
	if err := json.NewDecoder(resp.Body).Decode(&decision); err != nil {
		return Decision{}, fmt.Errorf("failed to decode rate-limit response: %w", err)
	}
	return decision, nil
}
