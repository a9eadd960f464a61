package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Sliceofbanana/job-tracker-sub001/internal/access"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/handler"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/identity"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/model"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/session"
)

const (
	// ContextPrincipal is the gin context key holding the authenticated principal.
	ContextPrincipal = "principal"
	// HeaderDeviceSignals carries the client's JSON-encoded device signals.
	HeaderDeviceSignals = "X-Device-Signals"
)

type AuthMiddleware struct {
	provider identity.Provider
	guard    *session.Guard
	resolver *access.Resolver
}

func NewAuthMiddleware(provider identity.Provider, guard *session.Guard, resolver *access.Resolver) *AuthMiddleware {
	return &AuthMiddleware{
		provider: provider,
		guard:    guard,
		resolver: resolver,
	}
}

// Authenticate verifies the identity provider's bearer token and sets the
// principal in context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		principal, err := m.provider.PrincipalFromToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		c.Set(ContextPrincipal, principal)
		c.Next()
	}
}

// RequireSession checks that the principal holds a live session still bound
// to the device described by the X-Device-Signals header.
func (m *AuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := PrincipalFrom(c)
		if principal == nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not authenticated"))
			c.Abort()
			return
		}

		signals, ok := DeviceSignalsFrom(c)
		if !ok {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("missing device signals"))
			c.Abort()
			return
		}

		if !m.guard.Validate(c.Request.Context(), principal.Email, signals) {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("session expired or invalid"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAdmin gates a route on the resolver's verdict for the principal.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := PrincipalFrom(c)
		if principal == nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not authenticated"))
			c.Abort()
			return
		}

		if !m.resolver.IsAdmin(c.Request.Context(), principal.Email) {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("admin access required"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// PrincipalFrom returns the authenticated principal, or nil.
func PrincipalFrom(c *gin.Context) *model.Principal {
	value, exists := c.Get(ContextPrincipal)
	if !exists {
		return nil
	}
	principal, ok := value.(*model.Principal)
	if !ok {
		return nil
	}
	return principal
}

// DeviceSignalsFrom decodes the device signals header.
func DeviceSignalsFrom(c *gin.Context) (model.DeviceSignals, bool) {
	raw := c.GetHeader(HeaderDeviceSignals)
	if raw == "" {
		return model.DeviceSignals{}, false
	}

	var signals model.DeviceSignals
	if err := json.Unmarshal([]byte(raw), &signals); err != nil {
		return model.DeviceSignals{}, false
	}
	return signals, true
}
