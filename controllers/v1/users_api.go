package apiv1

import (
	"expense-approval-backend/controllers"
	usershandler "expense-approval-backend/lib/users"
	"expense-approval-backend/middleware"
	apimodels "expense-approval-backend/models/api"
	usersapimodels "expense-approval-backend/models/api/users"

	"github.com/gofiber/fiber/v2"
)

type usersApiController struct {
	controllers.BaseAPIController
}

func InitUsersApiRouters(app *fiber.App) {
	controller := usersApiController{}
	app.Route("users", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired(), middleware.RbacMiddleware())

		router.Post("", controller.create)
		router.Get("", controller.list)
		router.Route("me", func(meRoute fiber.Router) {
			meRoute.Post("change-password", controller.changePassword)
			meRoute.Post("avatar", controller.setAvatar)
			meRoute.Get("avatar/url", controller.avatarUrl)
		})
		router.Post(":id/reset-temp-password", controller.resetTempPassword)
	})
}

// @Summary Создание пользователя
// @Tags Пользователи
// @Description Создание пользователя с временным паролем, пароль возвращается один раз
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 usersapimodels.CreateUserRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=usersapimodels.TempPasswordView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users [post]
func (c *usersApiController) create(ctx *fiber.Ctx) error {
	var payload usersapimodels.CreateUserRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, err := usershandler.Instance.CreateUser(middleware.GetIdentity(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания пользователя")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Список пользователей
// @Tags Пользователи
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]usersapimodels.UserView}
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users [get]
func (c *usersApiController) list(ctx *fiber.Ctx) error {
	resp, err := usershandler.Instance.ListUsers(middleware.GetIdentity(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка пользователей")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Выдать временный пароль
// @Tags Пользователи
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "user ID"
// @Success 200 {object} apimodels.Response{data=usersapimodels.TempPasswordView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/{id}/reset-temp-password [post]
func (c *usersApiController) resetTempPassword(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, err := usershandler.Instance.ResetTempPassword(middleware.GetIdentity(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка сброса пароля")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Смена пароля
// @Tags Профиль
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 usersapimodels.ChangePasswordRequest	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/me/change-password [post]
func (c *usersApiController) changePassword(ctx *fiber.Ctx) error {
	var payload usersapimodels.ChangePasswordRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	err := usershandler.Instance.ChangePassword(middleware.GetIdentity(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка смены пароля")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Загрузка аватара
// @Tags Профиль
// @Description Только изображения, в ответе временная ссылка
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   file				formData	file	true	"изображение"
// @Success 200 {object} apimodels.Response{data=usersapimodels.AvatarUrlView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/me/avatar [post]
func (c *usersApiController) setAvatar(ctx *fiber.Ctx) error {
	files, err := c.GetUploadFiles(ctx, "file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, err := usershandler.Instance.SetAvatar(ctx.UserContext(), middleware.GetIdentity(ctx), files[0])
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка загрузки аватара")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Ссылка на аватар
// @Tags Профиль
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=usersapimodels.AvatarUrlView}
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/me/avatar/url [get]
func (c *usersApiController) avatarUrl(ctx *fiber.Ctx) error {
	resp, err := usershandler.Instance.GetAvatarURL(ctx.UserContext(), middleware.GetIdentity(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения ссылки на аватар")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
