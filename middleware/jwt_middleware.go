package middleware

import (
	"expense-approval-backend/config"
	"expense-approval-backend/fiberlog"
	"expense-approval-backend/lib/rbac"
	authutils "expense-approval-backend/lib/utils/auth-utils"
	apimodels "expense-approval-backend/models/api"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AuthorizationRequired - access токен из заголовка Authorization или из cookie
func AuthorizationRequired() fiber.Handler {
	return jwtware.New(jwtware.Config{
		Claims: jwt.MapClaims{},
		SigningKey: jwtware.SigningKey{
			JWTAlg: "HS256",
			Key:    []byte(config.Conf.Auth.JWTSecret),
		},
		// при своем TokenLookup схема по умолчанию не подставляется
		TokenLookup: "header:Authorization,cookie:" + config.Conf.Auth.AccessCookie,
		AuthScheme:  "Bearer",
		SuccessHandler: func(ctx *fiber.Ctx) error {
			identity := authutils.GetIdentity(ctx)
			if identity == nil {
				return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError(rbac.MsgUnauthorized))
			}
			ctx.Locals(fiberlog.TagUserID, identity.ID)
			return ctx.Next()
		},
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError(rbac.MsgUnauthorized))
		},
	})
}
