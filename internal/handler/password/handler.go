package password

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sliceofbanana/job-tracker-sub001/internal/handler"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/middleware"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/model"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/password"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/ratelimit"
	"github.com/Sliceofbanana/job-tracker-sub001/pkg/metrics"
)

type Handler struct {
	policy       *password.Policy
	requirements model.PasswordRequirements
	limiter      *ratelimit.Limiter
	metrics      *metrics.Metrics
}

func NewHandler(policy *password.Policy, requirements model.PasswordRequirements,
	limiter *ratelimit.Limiter, m *metrics.Metrics) *Handler {
	return &Handler{
		policy:       policy,
		requirements: requirements,
		limiter:      limiter,
		metrics:      m,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/password/check", h.CheckPassword)
}

type checkPasswordRequest struct {
	Password string `json:"password" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Name     string `json:"name"`
}

// CheckPassword evaluates a candidate password against the policy. The
// check itself is rate limited per caller so the endpoint cannot be used as
// a guessing oracle.
func (h *Handler) CheckPassword(c *gin.Context) {
	var req checkPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	identifier := c.ClientIP()
	if principal := middleware.PrincipalFrom(c); principal != nil {
		identifier = principal.Email
	}

	status, err := h.limiter.Check(c.Request.Context(), identifier)
	if err != nil || !status.Allowed {
		c.JSON(http.StatusTooManyRequests, handler.NewErrorResponse("too many password checks, try again later"))
		return
	}

	var info *model.PersonalInfo
	if req.Email != "" || req.Name != "" {
		info = &model.PersonalInfo{Email: req.Email, Name: req.Name}
	}

	result := h.policy.Validate(req.Password, h.requirements, info)

	if h.metrics != nil {
		h.metrics.PasswordChecks.WithLabelValues(string(result.Strength)).Inc()
		if !result.IsValid {
			h.metrics.PasswordRejections.Inc()
		}
	}

	// Only failed evaluations consume quota; a valid candidate clears it.
	if err := h.limiter.Record(c.Request.Context(), identifier, result.IsValid); err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("internal server error"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}
