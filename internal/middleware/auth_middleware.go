package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushub/backend/internal/app/models"
	"github.com/campushub/backend/internal/app/models/dto"
	"github.com/campushub/backend/internal/app/services"
	"github.com/campushub/backend/internal/pkg/apperrors"
	"github.com/campushub/backend/internal/pkg/auth"
)

// Context keys set by JWTAuth.
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextRole   = "role"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	users      services.UserService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, users services.UserService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
	}
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, message))
}

// tokenFromRequest reads the access token from the auth cookie or, failing
// that, the Authorization header.
func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(auth.CookieName); err == nil && cookie != "" {
		return cookie
	}
	if header := c.GetHeader("Authorization"); header != "" {
		if token, err := auth.ExtractBearerToken(header); err == nil {
			return token
		}
	}
	return ""
}

// JWTAuth validates the access token and loads the caller's identity into
// the request context. Disabled accounts are rejected even with a valid
// token.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			unauthorized(c, "authentication required")
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			if err == auth.ErrExpiredToken {
				unauthorized(c, "token expired")
			} else {
				unauthorized(c, "invalid token")
			}
			return
		}

		user, err := m.users.GetProfile(c.Request.Context(), claims.UserID)
		if err != nil {
			unauthorized(c, "account no longer exists")
			return
		}
		if !user.IsActive {
			HandleAPIError(c, apperrors.ErrAccountDisabled)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, user.Role)

		c.Next()
	}
}

// OptionalJWTAuth loads the caller's identity when a valid token is present
// but lets anonymous requests through. Used on public endpoints whose
// response is richer for signed-in staff.
func (m *AuthMiddleware) OptionalJWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			c.Next()
			return
		}

		user, err := m.users.GetProfile(c.Request.Context(), claims.UserID)
		if err != nil || !user.IsActive {
			c.Next()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, user.Role)

		c.Next()
	}
}

// RequireRoles allows only the listed roles past this point.
func (m *AuthMiddleware) RequireRoles(roles ...models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			unauthorized(c, "authentication required")
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		HandleAPIError(c, apperrors.ErrPermissionDenied)
	}
}

// ActorFromContext reads the authenticated caller set by JWTAuth.
func ActorFromContext(c *gin.Context) (services.Actor, bool) {
	id, ok := c.Get(ContextUserID)
	if !ok {
		return services.Actor{}, false
	}
	role, ok := c.Get(ContextRole)
	if !ok {
		return services.Actor{}, false
	}
	userID, ok := id.(int64)
	if !ok {
		return services.Actor{}, false
	}
	roleType, ok := role.(models.RoleType)
	if !ok {
		return services.Actor{}, false
	}
	return services.Actor{ID: userID, Role: roleType}, true
}
