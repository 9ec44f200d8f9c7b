package middleware

import (
	"strings"

	"go-pm/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates JWT tokens and injects user claims into context.
// There is no fallback identity: a request without a valid token is rejected.
func AuthMiddleware(skipAuth bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if skipAuth {
			claims := &utils.UserClaims{
				UserID: "dev-user",
				Name:   "Developer",
				Role:   "Office",
			}
			c.Locals(utils.UserClaimsKey, claims)
			c.SetUserContext(WithClaims(c.UserContext(), claims))
			return c.Next()
		}

		token := bearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		claims, err := utils.ValidateToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		c.Locals(utils.UserClaimsKey, claims)
		c.SetUserContext(WithClaims(c.UserContext(), claims))
		return c.Next()
	}
}

// bearerToken reads "Authorization: Bearer <token>", falling back to the
// access_token query parameter used by browser websocket clients.
func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
			return ""
		}
		return strings.TrimSpace(authHeader[7:])
	}
	return c.Query("access_token")
}

// CurrentUser returns the authenticated caller or nil.
func CurrentUser(c *fiber.Ctx) *utils.UserClaims {
	claims, _ := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	return claims
}
