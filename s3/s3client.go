package s3client

import (
	"context"
	"expense-approval-backend/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var Client *minio.Client

type Provider interface {
	MakeBucket(ctx context.Context, bucketName string) error
	BucketExists(ctx context.Context, bucketName string) (bool, error)
}

type s3client struct {
	minioClient *minio.Client
}

func (s s3client) MakeBucket(ctx context.Context, bucketName string) error {
	exists, err := s.minioClient.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = s.minioClient.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: config.Conf.S3.Region})
	if err != nil {
		return err
	}
	return nil
}

func (s s3client) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return s.minioClient.BucketExists(ctx, bucketName)
}

func NewMinioClient() (*minio.Client, error) {
	// регион указан явно, иначе подпись ссылки делает сетевой запрос за регионом бакета
	return minio.New(config.Conf.S3.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.Conf.S3.AccessKeyID, config.Conf.S3.SecretAccessKey, ""),
		Secure: *config.Conf.S3.UseSSL,
		Region: config.Conf.S3.Region,
	})
}

func NewClient(minioClient *minio.Client) Provider {
	return &s3client{minioClient: minioClient}
}
