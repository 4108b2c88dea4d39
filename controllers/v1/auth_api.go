package apiv1

import (
	"time"

	"expense-approval-backend/config"
	"expense-approval-backend/controllers"
	authhandler "expense-approval-backend/lib/auth"
	"expense-approval-backend/middleware"
	apimodels "expense-approval-backend/models/api"
	authapimodels "expense-approval-backend/models/api/auth"

	"github.com/gofiber/fiber/v2"
)

type authApiController struct {
	controllers.BaseAPIController
}

func InitAuthApiRouters(app *fiber.App) {
	controller := authApiController{}
	app.Route("auth", func(router fiber.Router) {
		router.Post("login", controller.login)
		router.Post("logout", controller.logout)
		router.Post("refresh-token", controller.refreshToken)
		router.Get("me", middleware.AuthorizationRequired(), controller.me)
		router.Post("set-password", middleware.AuthorizationRequired(), controller.setPassword)
	})
}

// @Summary Аутентификация пользователя
// @Tags Аутентификация пользователей
// @Description Аутентификация пользователя, токены возвращаются в ответе и в cookie
// @Param	body				body		authapimodels.LoginRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=authapimodels.JWTResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/auth/login [post]
func (c *authApiController) login(ctx *fiber.Ctx) error {
	var payload authapimodels.LoginRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, err := authhandler.Instance.Login(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка входа")
	}
	setAuthCookies(ctx, resp)
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Выход
// @Tags Аутентификация пользователей
// @Description Очистка cookie с токенами
// @Success 200 {object} apimodels.Response
// @router /api/v1/auth/logout [post]
func (c *authApiController) logout(ctx *fiber.Ctx) error {
	clearAuthCookies(ctx)
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Получить информацию о текущем пользователе
// @Tags Аутентификация пользователей
// @Description Текущий пользователь и права его роли
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=authapimodels.MeView}
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/auth/me [get]
func (c *authApiController) me(ctx *fiber.Ctx) error {
	resp, err := authhandler.Instance.Me(middleware.GetIdentity(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения пользователя")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Установка пароля при первом входе
// @Tags Аутентификация пользователей
// @Description Установка постоянного пароля, токены выпускаются заново
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		authapimodels.SetPasswordRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=authapimodels.JWTResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/auth/set-password [post]
func (c *authApiController) setPassword(ctx *fiber.Ctx) error {
	var payload authapimodels.SetPasswordRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, err := authhandler.Instance.SetPassword(middleware.GetIdentity(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка установки пароля")
	}
	setAuthCookies(ctx, resp)
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Обновить JWT
// @Tags Аутентификация пользователей
// @Description Обновить JWT, refresh токен берется из тела или из cookie
// @Param	body				body		authapimodels.JWTRefreshRequest	false	"request body"
// @Success 200 {object} apimodels.Response{data=authapimodels.JWTResponse}
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/auth/refresh-token [post]
func (c *authApiController) refreshToken(ctx *fiber.Ctx) error {
	var payload authapimodels.JWTRefreshRequest
	if len(ctx.Body()) != 0 {
		if err := c.BodyParser(ctx, &payload); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
	}
	if payload.RefreshToken == "" {
		payload.RefreshToken = ctx.Cookies(config.Conf.Auth.RefreshCookie)
	}

	resp, err := authhandler.Instance.Refresh(payload.RefreshToken)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка обновления токена")
	}
	setAuthCookies(ctx, resp)
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

func setAuthCookies(ctx *fiber.Ctx, resp authapimodels.JWTResponse) {
	now := time.Now()
	ctx.Cookie(authCookie(config.Conf.Auth.AccessCookie, resp.Token,
		now.Add(time.Duration(config.Conf.Auth.JWTExpireInSec)*time.Second)))
	ctx.Cookie(authCookie(config.Conf.Auth.RefreshCookie, resp.RefreshToken,
		now.Add(time.Duration(config.Conf.Auth.JWTRefreshExpireInSec)*time.Second)))
}

func clearAuthCookies(ctx *fiber.Ctx) {
	expired := time.Unix(0, 0)
	ctx.Cookie(authCookie(config.Conf.Auth.AccessCookie, "", expired))
	ctx.Cookie(authCookie(config.Conf.Auth.RefreshCookie, "", expired))
}

func authCookie(name, value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   config.Conf.App.CookieDomain,
		Expires:  expires,
		Secure:   config.Conf.App.CookieSecure != nil && *config.Conf.App.CookieSecure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}
