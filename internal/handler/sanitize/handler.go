package sanitize

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sliceofbanana/job-tracker-sub001/internal/handler"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/ratelimit"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/sanitize"
	"github.com/Sliceofbanana/job-tracker-sub001/pkg/validator"
)

type Handler struct {
	remote *ratelimit.RemoteClient
}

func NewHandler(remote *ratelimit.RemoteClient) *Handler {
	return &Handler{remote: remote}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/sanitize", h.Sanitize)
	r.POST("/encode", h.EncodeStrict)
}

type sanitizeRequest struct {
	Input string         `json:"input"`
	Class sanitize.Class `json:"class" binding:"required"`
}

type sanitizeResponse struct {
	Output string `json:"output"`
	Valid  *bool  `json:"valid,omitempty"`
}

// Sanitize normalizes untrusted input for the requested content class and,
// where the class has a validity predicate, reports whether the sanitized
// value is also semantically valid. The two are decoupled on purpose.
func (h *Handler) Sanitize(c *gin.Context) {
	var req sanitizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if decision := h.remote.Allow(c.Request.Context(), "sanitize", ratelimit.ClassGeneral); !decision.Allowed {
		c.JSON(http.StatusTooManyRequests, handler.NewErrorResponse("rate limit exceeded"))
		return
	}

	resp := sanitizeResponse{Output: sanitize.Sanitize(req.Input, req.Class)}

	switch req.Class {
	case sanitize.ClassEmail:
		valid := validator.IsValidEmail(resp.Output)
		resp.Valid = &valid
	case sanitize.ClassURL:
		valid := validator.IsValidURL(resp.Output)
		resp.Valid = &valid
	case sanitize.ClassPhone:
		valid := validator.IsValidPhoneNumber(resp.Output)
		resp.Valid = &valid
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(resp))
}

type encodeRequest struct {
	Input string `json:"input"`
}

// EncodeStrict entity-encodes the full reserved set, for contexts where no
// markup may ever survive.
func (h *Handler) EncodeStrict(c *gin.Context) {
	var req encodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(sanitizeResponse{
		Output: sanitize.EncodeStrict(req.Input),
	}))
}
