package initializers

import (
	"context"
	"time"

	"expense-approval-backend/config"
	filestorage "expense-approval-backend/lib/file-storage"
	s3client "expense-approval-backend/s3"

	log "github.com/sirupsen/logrus"
)

func InitS3(ctx context.Context) {
	minioClient, err := s3client.NewMinioClient()
	if err != nil {
		log.WithError(err).Error("Ошибка инициализации клиента S3")
		panic(err.Error())
	}
	s3client.Client = minioClient
	filestorage.NewInstance(minioClient)

	// Проверка соединения и создание бакетов
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err = filestorage.Instance.MakeBuckets(ctx); err != nil {
		log.WithError(err).
			WithField("endpoint", config.Conf.S3.Endpoint).
			Error("S3 соединение не удалось, бакеты не созданы")
		return
	}
	log.Info("S3 клиент успешно инициализирован")
}
