package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/scheduling-dashboard/configs"
	"github.com/maheshrc27/scheduling-dashboard/pkg/utils"
)

type AuthMiddleware struct {
	cfg config.Config
}

func NewAuthMiddleware(cfg config.Config) *AuthMiddleware {
	return &AuthMiddleware{cfg: cfg}
}

// AuthMiddleware accepts the session cookie or an Authorization bearer token.
// With no SECRET_KEY configured every request passes as the local user.
func (m *AuthMiddleware) AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m.cfg.SecretKey == "" {
			c.Locals("user_id", "local")
			return c.Next()
		}

		tokenString := c.Cookies(m.cfg.CookieName)
		fromCookie := tokenString != ""
		if !fromCookie {
			tokenString = bearerToken(c.Get(fiber.HeaderAuthorization))
		}

		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing token or cookie",
			})
		}

		claims, err := utils.ValidateToken(m.cfg.SecretKey, tokenString)
		if err != nil {
			if fromCookie {
				c.Cookie(&fiber.Cookie{
					Name:   m.cfg.CookieName,
					Value:  "",
					Path:   "/",
					MaxAge: -1, // Delete cookie
				})
			}

			log.Printf("Token validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("user_id", claims.UserID)
		return c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
