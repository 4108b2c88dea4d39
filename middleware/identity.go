package middleware

import (
	authutils "expense-approval-backend/lib/utils/auth-utils"
	"expense-approval-backend/models"

	"github.com/gofiber/fiber/v2"
)

// GetIdentity - текущий пользователь запроса, пустой если токена нет
func GetIdentity(ctx *fiber.Ctx) models.Identity {
	identity := authutils.GetIdentity(ctx)
	if identity == nil {
		return models.Identity{}
	}
	return *identity
}
