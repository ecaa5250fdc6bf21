package middleware

import (
	"errors"
	"log"
	"strings"

	"laptopshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// TokenCookie is the HttpOnly cookie that carries the admin session token.
const TokenCookie = "admin_token"

// AdminGate protects every path below prefix with a valid JWT, except the
// exact paths listed in publicPaths (the login endpoint). The token is read
// from the admin_token cookie or from an "Authorization: Bearer" header.
// Paths are compared case-insensitively, like the router matches them.
// The account is reloaded on every request so a deactivated, locked or
// re-roled user is judged by its stored state, not by the token claims.
func AdminGate(authService *services.AuthService, prefix string, publicPaths ...string) fiber.Handler {
	prefix = strings.ToLower(strings.TrimRight(prefix, "/"))
	public := make(map[string]bool, len(publicPaths))
	for _, p := range publicPaths {
		public[strings.ToLower(strings.TrimRight(p, "/"))] = true
	}

	return func(c *fiber.Ctx) error {
		path := strings.ToLower(strings.TrimRight(c.Path(), "/"))
		if !underPrefix(path, prefix) || public[path] {
			return c.Next()
		}

		tokenString, err := bearerToken(c)
		if err != nil {
			return unauthorized(c, err.Error())
		}

		user, err := authService.Authenticate(c.UserContext(), tokenString)
		switch {
		case err == nil:
		case errors.Is(err, services.ErrInvalidCredentials):
			log.Printf("JWT validation failed: %v", err)
			return unauthorized(c, "Invalid or expired token")
		case errors.Is(err, services.ErrAccountInactive):
			return forbidden(c, "Account is inactive")
		case errors.Is(err, services.ErrAccountLocked):
			return forbidden(c, "Account is locked")
		default:
			log.Printf("Failed to load account for token: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Internal server error",
			})
		}

		// Store the current account state in Fiber context for subsequent handlers
		c.Locals("user_id", user.ID)
		c.Locals("email", user.Email)
		c.Locals("role", user.Role)

		return c.Next()
	}
}

func underPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func bearerToken(c *fiber.Ctx) (string, error) {
	if token := c.Cookies(TokenCookie); token != "" {
		return token, nil
	}

	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Authentication required")
	}

	// Expected format: "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Authorization header format must be 'Bearer <token>'")
	}
	return parts[1], nil
}

// RequireRole allows the request only when the authenticated user has one of
// roles. It must run after AdminGate.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return forbidden(c, "Insufficient permissions")
	}
}

// UserID returns the authenticated user id stored by AdminGate.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func forbidden(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
