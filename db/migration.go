package db

import (
	dbmodels "expense-approval-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func AutoMigrateDB() error {
	return Migrate(DB)
}

func Migrate(tx *gorm.DB) error {
	tx.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("Запуск миграций")
	if err := tx.AutoMigrate(&dbmodels.User{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры User")
	}
	if err := tx.AutoMigrate(&dbmodels.Expense{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Expense")
	}
	if err := tx.AutoMigrate(&dbmodels.ExpenseFile{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ExpenseFile")
	}
	log.Info("Миграция прошла успешно")
	return nil
}
