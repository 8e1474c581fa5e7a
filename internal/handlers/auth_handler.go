package handlers

import (
	"fmt"
	"log/slog"
	"net/url"

	"storefront/internal/apperrors"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles the OAuth login redirects.
type AuthHandler struct {
	authService *services.AuthService
	frontendURL string
}

// NewAuthHandler creates a new AuthHandler. Logins finish by redirecting to frontendURL.
func NewAuthHandler(authService *services.AuthService, frontendURL string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		frontendURL: frontendURL,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Get("/me", middleware.AuthRequired(h.authService), h.HandleMe)
	authRoutes.Get("/:provider", h.HandleLogin)
	authRoutes.Get("/:provider/callback", h.HandleCallback)
}

// HandleLogin sends the browser to the provider's sign-in page.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	provider := c.Params("provider")
	authURL, err := h.authService.BeginLogin(c.UserContext(), provider)
	if err != nil {
		return h.redirectError(c, apperrors.MessageOf(err, loginFailed(provider)))
	}
	return c.Redirect(authURL, fiber.StatusFound)
}

// HandleCallback finishes the login and hands the token to the frontend.
func (h *AuthHandler) HandleCallback(c *fiber.Ctx) error {
	provider := c.Params("provider")

	if providerErr := c.Query("error"); providerErr != "" {
		description := c.Query("error_description", providerErr)
		slog.WarnContext(c.UserContext(), "oauth provider returned an error",
			"provider", provider, "error", providerErr, "description", description)
		return h.redirectError(c, description)
	}

	token, err := h.authService.CompleteLogin(c.UserContext(), provider, c.Query("code"), c.Query("state"))
	if err != nil {
		return h.redirectError(c, apperrors.MessageOf(err, loginFailed(provider)))
	}
	return c.Redirect(h.frontendURL+"/login/success?token="+url.QueryEscape(token), fiber.StatusFound)
}

// HandleMe returns the claims of the bearer token.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	claims, ok := c.Locals(middleware.ClaimsKey).(*models.Claims)
	if !ok {
		return RespondError(c, apperrors.Unauthorized("missing token claims"))
	}
	return c.JSON(fiber.Map{"user": claims})
}

func (h *AuthHandler) redirectError(c *fiber.Ctx, message string) error {
	return c.Redirect(h.frontendURL+"/login?error="+url.QueryEscape(message), fiber.StatusFound)
}

func loginFailed(provider string) string {
	return fmt.Sprintf("an error occurred while processing %s login", provider)
}
