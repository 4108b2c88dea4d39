package initializers

import (
	"expense-approval-backend/config"
	"expense-approval-backend/db"
)

func InitDBConnection(migrate bool) {
	err := db.Connect(config.Conf.Database.Host, config.Conf.Database.Port, config.Conf.Database.Name,
		config.Conf.Database.User, config.Conf.Database.Password, *config.Conf.Database.DebugMode, migrate)
	if err != nil {
		panic(err.Error())
	}
}
