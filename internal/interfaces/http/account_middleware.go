package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-pipeline-api/internal/application/dto"
)

// accountChecker es el contrato mínimo que necesita el middleware para verificar la cuenta.
// Lo implementa *auth.AuthUseCase.
type accountChecker interface {
	IsActive(ctx context.Context, userID string) (bool, error)
}

// RequireActiveAccount rechaza tokens de cuentas suspendidas o inactivas.
// Debe usarse DESPUÉS de AuthMiddleware (necesita LocalUserID).
//
// Comportamiento:
//   - 403 Forbidden  → cuenta inactiva, suspendida o eliminada.
//   - 503 Service Unavailable → fallo de infraestructura al consultar la DB.
//   - Sin user_id en el contexto responde 401.
func RequireActiveAccount(checker accountChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "user_id no encontrado en el token",
			})
		}

		active, err := checker.IsActive(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "ACCOUNT_CHECK_FAILED",
				Message: "no se pudo verificar la cuenta, intente más tarde",
			})
		}

		if !active {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "ACCOUNT_DISABLED",
				Message: "la cuenta no está activa",
			})
		}

		return c.Next()
	}
}
