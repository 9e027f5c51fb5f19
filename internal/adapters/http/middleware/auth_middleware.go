package middleware

import (
	"strings"

	"citidesk/internal/config"
	"citidesk/internal/core/domain"
	"citidesk/internal/core/services"
	"citidesk/internal/pkg/jwt"
	"citidesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Try to get token from cookie first
		accessToken = c.Cookies("access_token")

		// 2. If not in cookie, try Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Set user info in context
		c.Locals("userID", claims.UserID)
		c.Locals("username", claims.Username)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// RequireRole creates authorization middleware that checks the caller's role
// against a minimum in the role hierarchy.
func RequireRole(min domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleStr, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		if !domain.ParseRole(roleStr).MeetsMinimum(min) {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}

		return c.Next()
	}
}

// StaffOnly allows STAFF and above
func StaffOnly() fiber.Handler {
	return RequireRole(domain.RoleStaff)
}

// AdminOnly allows ADMIN and above
func AdminOnly() fiber.Handler {
	return RequireRole(domain.RoleAdmin)
}

// ActorFromCtx builds the acting user from locals set by AuthMiddleware.
// Returns a zero actor (RoleNone) when the request is unauthenticated.
func ActorFromCtx(c *fiber.Ctx) services.Actor {
	actor := services.Actor{Role: domain.RoleNone}

	if userID, ok := c.Locals("userID").(uint); ok {
		actor.UserID = userID
	}
	if roleStr, ok := c.Locals("role").(string); ok {
		actor.Role = domain.ParseRole(roleStr)
	}

	return actor
}
