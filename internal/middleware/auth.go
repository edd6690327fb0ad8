package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"lms_backend/pkg/utils/jwt"
)

// ClaimsKey is the fiber.Ctx local holding the validated *jwt.Claims.
const ClaimsKey = "user"

// AuthMiddleware requires a valid "Authorization: Bearer <token>" header.
// EventSource clients cannot set headers, so the token query parameter is
// accepted as well.
func AuthMiddleware(signer *jwt.Signer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization token",
			})
		}

		claims, err := signer.ValidateToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(ClaimsKey, claims)
		return c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
