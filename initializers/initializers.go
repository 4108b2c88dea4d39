package initializers

import (
	"context"

	"expense-approval-backend/config"
	"expense-approval-backend/db"
	"expense-approval-backend/fiberlog"
	attachmenturl "expense-approval-backend/lib/attachment-url"
	authhandler "expense-approval-backend/lib/auth"
	expensehandler "expense-approval-backend/lib/expense"
	filestorage "expense-approval-backend/lib/file-storage"
	"expense-approval-backend/lib/rbac"
	usershandler "expense-approval-backend/lib/users"
	initchecker "expense-approval-backend/lib/utils/init-checker"

	log "github.com/sirupsen/logrus"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection(*config.Conf.Database.MigrateOnStart)
	InitS3(ctx)
	InitHandlers()
	SeedManager()
}

func InitHandlers() {
	initchecker.CheckInit(
		"db", db.DB,
		"filestorage", filestorage.Instance,
	)
	rbac.NewHandler()
	attachmenturl.NewHandler()
	expensehandler.NewHandler()
	usershandler.NewHandler()
	authhandler.NewHandler()
}

// SeedManager - учетная запись руководителя из настроек MANAGER_EMAIL/MANAGER_PASSWORD
func SeedManager() {
	if config.Conf.Manager.Email == "" {
		log.Warn("руководитель не добавлен, отсутствует настройка MANAGER_EMAIL")
		return
	}
	err := usershandler.Instance.SeedManager(config.Conf.Manager.Email, config.Conf.Manager.Password)
	if err != nil {
		log.WithError(err).Error("ошибка добавления руководителя")
	}
}
