package session

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sliceofbanana/job-tracker-sub001/internal/handler"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/middleware"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/model"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/session"
)

type Handler struct {
	guard *session.Guard
}

func NewHandler(guard *session.Guard) *Handler {
	return &Handler{guard: guard}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	sessions := r.Group("/sessions")
	{
		sessions.POST("", h.Initialize)
		sessions.GET("/current", h.Validate)
		sessions.DELETE("/current", h.Invalidate)
		sessions.POST("/heartbeat", h.Heartbeat)
	}
}

type initializeRequest struct {
	Signals model.DeviceSignals `json:"signals" binding:"required"`
}

func (h *Handler) Initialize(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not authenticated"))
		return
	}

	var req initializeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.guard.Initialize(c.Request.Context(), principal.Email, req.Signals); err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to initialize session"))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(gin.H{
		"needs_refresh": false,
	}))
}

func (h *Handler) Validate(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not authenticated"))
		return
	}

	signals, ok := middleware.DeviceSignalsFrom(c)
	if !ok {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("missing device signals"))
		return
	}

	valid := h.guard.Validate(c.Request.Context(), principal.Email, signals)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"valid":         valid,
		"needs_refresh": h.guard.NeedsRefresh(c.Request.Context(), principal.Email),
	}))
}

func (h *Handler) Invalidate(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not authenticated"))
		return
	}

	h.guard.Invalidate(c.Request.Context(), principal.Email)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

type heartbeatRequest struct {
	// Event is "activity" for input gestures, "hidden" when the view goes
	// to the background.
	Event string `json:"event" binding:"required,oneof=activity hidden"`
}

func (h *Handler) Heartbeat(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not authenticated"))
		return
	}

	var req heartbeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	switch req.Event {
	case "activity":
		h.guard.Touch(c.Request.Context(), principal.Email)
	case "hidden":
		h.guard.MarkHidden(c.Request.Context(), principal.Email)
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
