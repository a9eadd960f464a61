package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Sliceofbanana/job-tracker-sub001/internal/model"
	"github.com/Sliceofbanana/job-tracker-sub001/pkg/circuitbreaker"
	"github.com/Sliceofbanana/job-tracker-sub001/pkg/logger"
)

// Verifier answers the authoritative "is this email an admin" question. It
// is the fail-safe of last resort: the resolver only reaches it when cache,
// directory and legacy lookups were all inconclusive, precisely so that no
// value embedded in client-deliverable configuration has to be trusted.
type Verifier interface {
	VerifyAdmin(ctx context.Context, email string) (bool, error)
}

// HTTPVerifier calls the server-side verification endpoint.
type HTTPVerifier struct {
	endpoint string
	client   *http.Client
	breaker  *circuitbreaker.CircuitBreaker
	logger   *logger.Logger
}

func NewHTTPVerifier(endpoint string, log *logger.Logger) *HTTPVerifier {
	return &HTTPVerifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 5 * time.Second},
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "admin-verification",
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		}),
		logger: log,
	}
}

type verifyRequest struct {
	Email string `json:"email"`
}

type verifyResponse struct {
	IsAdmin bool `json:"is_admin"`
}

// VerifyAdmin returns the remote verdict. Any error here means the caller
// must deny; this client never invents an answer.
func (v *HTTPVerifier) VerifyAdmin(ctx context.Context, email string) (bool, error) {
	var verdict bool

	err := v.breaker.Execute(func() error {
		isAdmin, err := v.call(ctx, model.NormalizeEmail(email))
		if err != nil {
			return err
		}
		verdict = isAdmin
		return nil
	})
	if err != nil {
		return false, err
	}

	return verdict, nil
}

func (v *HTTPVerifier) call(ctx context.Context, email string) (bool, error) {
	body, err := json.Marshal(verifyRequest{Email: email})
	if err != nil {
		return false, fmt.Errorf("failed to encode verification request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("failed to build verification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("verification request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("verification endpoint returned status %d", resp.StatusCode)
	}

	var decoded verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return false, fmt.Errorf("failed to decode verification response: %w", err)
	}
	return decoded.IsAdmin, nil
}
