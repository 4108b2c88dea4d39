package middleware

import (
	"expense-approval-backend/lib/rbac"
	apimodels "expense-approval-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

func RbacMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		identity := GetIdentity(ctx)
		if identity.IsEmpty() {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError(rbac.MsgUnauthorized))
		}

		// Ищем обработчик
		handler, found := rbac.Instance.GetRuleFunc(ctx.Method(), ctx.Path())
		if !found {
			return ctx.Next()
		}

		if err := rbac.Check(&identity, rbac.FirstLoginPassed()); err != nil {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError(rbac.MsgMustSetPassword))
		}

		// Выполняем проверку
		if !handler(identity, ctx.Path()) {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError(rbac.MsgForbidden))
		}

		return ctx.Next()
	}
}
