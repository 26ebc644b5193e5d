package middleware

import (
	"strings"

	"showcase/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SessionCookie carries the session token for browser clients.
const SessionCookie = "session"

// Keys of the claims stored in the Fiber context.
const (
	LocalUserID   = "user_id"
	LocalUsername = "username"
)

// Guards are the route-level authentication middlewares.
type Guards struct {
	// Required rejects requests without a valid session.
	Required fiber.Handler
	// Optional resolves a session when one is present and never rejects.
	Optional fiber.Handler
}

// NewGuards builds both guards over authService.
func NewGuards(authService *services.AuthService, log *zap.Logger) Guards {
	return Guards{
		Required: AuthRequired(authService, log),
		Optional: OptionalAuth(authService),
	}
}

// tokenFrom reads the bearer token, falling back to the session cookie.
// ok is false when an Authorization header is present but malformed.
func tokenFrom(c *fiber.Ctx) (token string, ok bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Cookies(SessionCookie), true
	}
	// Expected format: "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") {
		return "", false
	}
	return parts[1], true
}

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(authService *services.AuthService, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := tokenFrom(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication is required",
			})
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			log.Debug("jwt validation failed", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		// Store claims in Fiber context for subsequent handlers
		c.Locals(LocalUserID, claims["user_id"])
		c.Locals(LocalUsername, claims["username"])

		return c.Next()
	}
}

// OptionalAuth stores the caller's claims when a valid token is sent and
// lets anonymous requests through untouched.
func OptionalAuth(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := tokenFrom(c)
		if ok && tokenString != "" {
			if claims, err := authService.ValidateToken(tokenString); err == nil {
				c.Locals(LocalUserID, claims["user_id"])
				c.Locals(LocalUsername, claims["username"])
			}
		}
		return c.Next()
	}
}

// UserID returns the authenticated caller's id, or "" for anonymous requests.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}
