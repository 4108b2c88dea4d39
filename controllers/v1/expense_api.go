package apiv1

import (
	"expense-approval-backend/controllers"
	expensehandler "expense-approval-backend/lib/expense"
	"expense-approval-backend/middleware"
	"expense-approval-backend/models"
	apimodels "expense-approval-backend/models/api"
	expenseapimodels "expense-approval-backend/models/api/expense"

	"github.com/gofiber/fiber/v2"
)

type expenseApiController struct {
	controllers.BaseAPIController
}

func InitExpenseApiRouters(app *fiber.App) {
	controller := expenseApiController{}
	app.Route("expenses", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired(), middleware.RbacMiddleware())

		router.Post("", controller.create)
		router.Get("", controller.listAll)
		router.Get("my", controller.listMine)
		router.Get("visible", controller.listVisible)
		router.Get("accounting/list", controller.listForAccounting)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Post("files", controller.attachFiles)
			idRoute.Get("files/:fileId/url", controller.fileUrl)
			idRoute.Patch("approve", controller.approve)
			idRoute.Patch("reject", controller.reject)
			idRoute.Patch("process", controller.process)
			idRoute.Patch("status", controller.changeStatus)
		})
	})
}

// @Summary Создание заявки
// @Tags Заявки на возмещение
// @Description Создание заявки, владелец - текущий пользователь
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 expenseapimodels.ExpenseCreateData	true	"request body"
// @Success 200 {object} apimodels.Response{data=expenseapimodels.ExpenseView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/expenses [post]
func (c *expenseApiController) create(ctx *fiber.Ctx) error {
	var payload expenseapimodels.ExpenseCreateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, err := expensehandler.Instance.Create(middleware.GetIdentity(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Мои заявки
// @Tags Заявки на возмещение
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]expenseapimodels.ExpenseView}
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/expenses/my [get]
func (c *expenseApiController) listMine(ctx *fiber.Ctx) error {
	resp, err := expensehandler.Instance.ListMine(middleware.GetIdentity(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка заявок")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Все заявки
// @Tags Заявки на возмещение
// @Description Все заявки с данными сотрудника, только для менеджера
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]expenseapimodels.ExpenseView}
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/expenses [get]
func (c *expenseApiController) listAll(ctx *fiber.Ctx) error {
	resp, err := expensehandler.Instance.ListAll(middleware.GetIdentity(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка заявок")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Заявки для бухгалтерии
// @Tags Заявки на возмещение
// @Description Одобренные и обработанные заявки
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]expenseapimodels.ExpenseView}
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/expenses/accounting/list [get]
func (c *expenseApiController) listForAccounting(ctx *fiber.Ctx) error {
	resp, err := expensehandler.Instance.ListForAccounting(middleware.GetIdentity(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка заявок")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Доступные заявки
// @Tags Заявки на возмещение
// @Description Список заявок в зависимости от роли
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]expenseapimodels.ExpenseView}
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/expenses/visible [get]
func (c *expenseApiController) listVisible(ctx *fiber.Ctx) error {
	resp, err := expensehandler.Instance.ListVisible(middleware.GetIdentity(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка заявок")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Карточка заявки
// @Tags Заявки на возмещение
// @Description Заявка с файлами, у каждого файла подписанная ссылка или null
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "expense ID"
// @Success 200 {object} apimodels.Response{data=expenseapimodels.ExpenseDetailView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/expenses/{id} [get]
func (c *expenseApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, err := expensehandler.Instance.GetDetail(ctx.UserContext(), middleware.GetIdentity(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Загрузка файлов
// @Tags Заявки на возмещение
// @Description Загрузка чеков, результат по каждому файлу
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "expense ID"
// @Param   files				formData	file	true	"файлы"
// @Success 200 {object} apimodels.Response{data=[]expenseapimodels.UploadResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/expenses/{id}/files [post]
func (c *expenseApiController) attachFiles(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	files, err := c.GetUploadFiles(ctx, "files")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, err := expensehandler.Instance.AttachFiles(ctx.UserContext(), middleware.GetIdentity(ctx), id, files)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка загрузки файлов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Ссылка на файл
// @Tags Заявки на возмещение
// @Description Временная ссылка на файл заявки
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "expense ID"
// @Param   fileId         		path    string  				    	true         "file ID"
// @Success 200 {object} apimodels.Response{data=expenseapimodels.SignedUrlView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/expenses/{id}/files/{fileId}/url [get]
func (c *expenseApiController) fileUrl(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	fileID, err := c.GetIDByKey(ctx, "fileId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, err := expensehandler.Instance.SignFileURL(ctx.UserContext(), middleware.GetIdentity(ctx), id, fileID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения ссылки на файл")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Одобрить заявку
// @Tags Заявки на возмещение
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "expense ID"
// @Param	body body	 expenseapimodels.CommentData	false	"request body"
// @Success 200 {object} apimodels.Response{data=expenseapimodels.ExpenseView}
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/expenses/{id}/approve [patch]
func (c *expenseApiController) approve(ctx *fiber.Ctx) error {
	return c.transition(ctx, models.ExpenseStatusApproved)
}

// @Summary Отклонить заявку
// @Tags Заявки на возмещение
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "expense ID"
// @Param	body body	 expenseapimodels.CommentData	false	"request body"
// @Success 200 {object} apimodels.Response{data=expenseapimodels.ExpenseView}
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/expenses/{id}/reject [patch]
func (c *expenseApiController) reject(ctx *fiber.Ctx) error {
	return c.transition(ctx, models.ExpenseStatusRejected)
}

// @Summary Отметить заявку обработанной
// @Tags Заявки на возмещение
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "expense ID"
// @Param	body body	 expenseapimodels.CommentData	false	"request body"
// @Success 200 {object} apimodels.Response{data=expenseapimodels.ExpenseView}
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/expenses/{id}/process [patch]
func (c *expenseApiController) process(ctx *fiber.Ctx) error {
	return c.transition(ctx, models.ExpenseStatusProcessed)
}

// @Summary Смена статуса заявки
// @Tags Заявки на возмещение
// @Description Смена статуса, допустимость перехода зависит от роли и текущего статуса
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "expense ID"
// @Param	body body	 expenseapimodels.TransitionData	true	"request body"
// @Success 200 {object} apimodels.Response{data=expenseapimodels.ExpenseView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/expenses/{id}/status [patch]
func (c *expenseApiController) changeStatus(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload expenseapimodels.TransitionData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, err := expensehandler.Instance.Transition(middleware.GetIdentity(ctx), id, payload.Status, payload.Comment)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка смены статуса заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

func (c *expenseApiController) transition(ctx *fiber.Ctx, next models.ExpenseStatus) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload expenseapimodels.CommentData
	if len(ctx.Body()) != 0 {
		if err = c.BodyParser(ctx, &payload); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
	}

	resp, err := expensehandler.Instance.Transition(middleware.GetIdentity(ctx), id, next, payload.Comment)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка смены статуса заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
