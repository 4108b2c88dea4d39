package filestorage

import (
	"context"
	"expense-approval-backend/config"
	"expense-approval-backend/models"
	s3client "expense-approval-backend/s3"
	"io"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

// objectKeySpace - пространство имен для ключей объектов, менять нельзя: ключи уже загруженных файлов не найдутся
var objectKeySpace = uuid.MustParse("6f1d2c3b-8a4e-5b7f-9c0d-1e2f3a4b5c6d")

// Provider - хранилище файлов: запись по пути и выдача временных ссылок
type Provider interface {
	Upload(ctx context.Context, namespace models.FileNamespace, path string, fileReader io.Reader, fileSize int64, contentType string) error
	SignURL(ctx context.Context, namespace models.FileNamespace, path string, ttl time.Duration) (string, error)
	MakeBuckets(ctx context.Context) error
	Ping(ctx context.Context) error
}

var Instance Provider

type impl struct {
	s3client *minio.Client
	buckets  s3client.Provider
}

func NewInstance(client *minio.Client) {
	Instance = NewProvider(client)
}

func NewProvider(client *minio.Client) Provider {
	return &impl{
		s3client: client,
		buckets:  s3client.NewClient(client),
	}
}

// ObjectKey - ключ объекта в бакете, путь из БД в подписанную ссылку не попадает
func ObjectKey(namespace models.FileNamespace, path string) string {
	return uuid.NewSHA1(objectKeySpace, []byte(string(namespace)+"/"+path)).String()
}

func (i impl) Upload(ctx context.Context, namespace models.FileNamespace, path string, fileReader io.Reader, fileSize int64, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := i.s3client.PutObject(ctx, i.getBucketName(namespace), ObjectKey(namespace, path), fileReader, fileSize, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrapf(err, "ошибка загрузки файла %s", path)
	}
	return nil
}

func (i impl) SignURL(ctx context.Context, namespace models.FileNamespace, path string, ttl time.Duration) (string, error) {
	u, err := i.s3client.PresignedGetObject(ctx, i.getBucketName(namespace), ObjectKey(namespace, path), ttl, url.Values{})
	if err != nil {
		return "", errors.Wrap(err, "ошибка подписи ссылки")
	}
	return u.String(), nil
}

func (i impl) MakeBuckets(ctx context.Context) error {
	for _, namespace := range []models.FileNamespace{models.ReceiptsNamespace, models.AvatarsNamespace} {
		bucketName := i.getBucketName(namespace)
		if err := i.buckets.MakeBucket(ctx, bucketName); err != nil {
			return errors.Wrapf(err, "ошибка создания бакета %s", bucketName)
		}
	}
	return nil
}

func (i impl) Ping(ctx context.Context) error {
	bucketName := i.getBucketName(models.ReceiptsNamespace)
	exists, err := i.buckets.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if !exists {
		return errors.Errorf("бакет %s не найден", bucketName)
	}
	return nil
}

func (i impl) getBucketName(namespace models.FileNamespace) string {
	if namespace == models.AvatarsNamespace {
		return config.Conf.S3.AvatarsBucket
	}
	return config.Conf.S3.ReceiptsBucket
}
