package team

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sliceofbanana/job-tracker-sub001/internal/access"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/handler"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/middleware"
)

type Handler struct {
	service *access.Service
}

func NewHandler(service *access.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	team := r.Group("/team")
	{
		team.GET("", h.ListMembers)
		team.POST("", h.AddMember)
		team.GET("/:email", h.GetMember)
		team.PUT("/:email", h.UpdateMember)
		team.DELETE("/:email", h.RemoveMember)
	}
}

func (h *Handler) ListMembers(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not authenticated"))
		return
	}

	members, err := h.service.ListMembers(c.Request.Context(), principal.Email)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(members))
}

func (h *Handler) AddMember(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not authenticated"))
		return
	}

	var input access.AddMemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	member, err := h.service.AddMember(c.Request.Context(), principal.Email, input)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(member))
}

func (h *Handler) GetMember(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not authenticated"))
		return
	}

	member, err := h.service.GetMember(c.Request.Context(), principal.Email, c.Param("email"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(member))
}

func (h *Handler) UpdateMember(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not authenticated"))
		return
	}

	var input access.UpdateMemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	member, err := h.service.UpdateMember(c.Request.Context(), principal.Email, c.Param("email"), input)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(member))
}

func (h *Handler) RemoveMember(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not authenticated"))
		return
	}

	if err := h.service.RemoveMember(c.Request.Context(), principal.Email, c.Param("email")); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
