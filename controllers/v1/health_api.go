package apiv1

import (
	"context"

	"expense-approval-backend/controllers"
	"expense-approval-backend/db"
	filestorage "expense-approval-backend/lib/file-storage"
	apimodels "expense-approval-backend/models/api"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

type HealthView struct {
	Database bool `json:"database"`
	Storage  bool `json:"storage"`
}

type healthApiController struct {
	controllers.BaseAPIController
	dbPing      func(ctx context.Context) error
	storagePing func(ctx context.Context) error
}

func InitHealthApiRouters(app *fiber.App) {
	controller := healthApiController{
		dbPing: db.PingDB,
		storagePing: func(ctx context.Context) error {
			return filestorage.Instance.Ping(ctx)
		},
	}
	app.Get("health", controller.health)
}

// @Summary Состояние сервиса
// @Tags Сервис
// @Description Доступность БД и хранилища файлов
// @Success 200 {object} apimodels.Response{data=HealthView}
// @Failure 503 {object} apimodels.Response{data=HealthView}
// @router /api/v1/health [get]
func (c *healthApiController) health(ctx *fiber.Ctx) error {
	resp := HealthView{Database: true, Storage: true}
	if err := c.dbPing(ctx.UserContext()); err != nil {
		log.WithError(err).Warn("БД недоступна")
		resp.Database = false
	}
	if err := c.storagePing(ctx.UserContext()); err != nil {
		log.WithError(err).Warn("хранилище файлов недоступно")
		resp.Storage = false
	}
	if !resp.Database || !resp.Storage {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(apimodels.Response{
			Status:  "fail",
			Message: "сервис недоступен",
			Data:    resp,
		})
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
