package handlers

import (
	"crypto/subtle"
	"fmt"
	"time"

	"showcase/internal/apperrors"
	"showcase/internal/middleware"
	"showcase/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// stateCookie holds the OAuth state between login and callback.
const stateCookie = "oauth_state"

const stateTTL = 10 * time.Minute

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	log         *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Get("/github/login", h.HandleLogin)
	authRoutes.Get("/github/callback", h.HandleCallback)
	authRoutes.Post("/logout", h.HandleLogout)
}

// HandleLogin redirects the browser to GitHub.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	url, state, err := h.authService.LoginURL()
	if err != nil {
		return respondError(c, h.log, "Sign-in is unavailable", err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		Expires:  time.Now().Add(stateTTL),
		HTTPOnly: true,
		Secure:   c.Protocol() == "https",
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(url, fiber.StatusTemporaryRedirect)
}

// HandleCallback completes the GitHub sign-in and issues a session.
func (h *AuthHandler) HandleCallback(c *fiber.Ctx) error {
	state := c.Query("state")
	expected := c.Cookies(stateCookie)
	c.ClearCookie(stateCookie)
	if state == "" || expected == "" || subtle.ConstantTimeCompare([]byte(state), []byte(expected)) != 1 {
		return respondError(c, h.log, "Authentication failed", fmt.Errorf("oauth state mismatch: %w", apperrors.ErrUnauthorized))
	}

	token, user, err := h.authService.Callback(c.UserContext(), c.Query("code"))
	if err != nil {
		return respondError(c, h.log, "Authentication failed", err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.authService.TokenTTL()),
		HTTPOnly: true,
		Secure:   c.Protocol() == "https",
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// HandleLogout drops the session cookie.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	c.ClearCookie(middleware.SessionCookie)
	return c.JSON(fiber.Map{
		"message": "Logged out",
	})
}
