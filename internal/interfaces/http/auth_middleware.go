package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/msp-invoices/internal/application/dto"
	"github.com/jhoicas/msp-invoices/pkg/jwt"
)

// LocalSubject key de Locals con el subject del token.
const LocalSubject = "subject"

// AuthMiddleware valida el Bearer Token JWT de la API JSON y deja el subject en c.Locals.
// Solo se monta si API_JWT_SECRET está configurado.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header required"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "format: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "empty token"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "invalid or expired token"})
		}
		c.Locals(LocalSubject, claims.Subject)
		return c.Next()
	}
}

// GetSubject devuelve el subject del token (después de AuthMiddleware).
func GetSubject(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalSubject).(string)
	return s
}

// clientKey clave de coalescencia de búsquedas: X-Client-ID, si no el subject del token.
// La clave sobrevive a la petición (mapa de búsquedas en curso), así que se copia.
func clientKey(c *fiber.Ctx) string {
	if id := strings.TrimSpace(c.Get("X-Client-ID")); id != "" {
		return utils.CopyString(id)
	}
	return GetSubject(c)
}
