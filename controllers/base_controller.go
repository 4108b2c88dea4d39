package controllers

import (
	"io"
	"mime/multipart"

	apperrors "expense-approval-backend/lib/utils/app-errors"
	authutils "expense-approval-backend/lib/utils/auth-utils"
	"expense-approval-backend/models"
	apimodels "expense-approval-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	return c.GetIDByKey(ctx, "id")
}

func (c *BaseAPIController) GetIDByKey(ctx *fiber.Ctx, key string) (string, error) {
	id := ctx.Params(key)
	if id == "" {
		return "", errors.Errorf("не указан идентификатор %s", key)
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", errors.Errorf("некорректный идентификатор %s", key)
	}
	return id, nil
}

// GetUploadFiles - файлы multipart формы из поля key
func (c *BaseAPIController) GetUploadFiles(ctx *fiber.Ctx, key string) ([]models.UploadFile, error) {
	form, err := ctx.MultipartForm()
	if err != nil {
		log.WithError(err).Error("ошибка чтения формы")
		return nil, errors.New("не удалось получить файлы из запроса")
	}
	headers := form.File[key]
	if len(headers) == 0 {
		return nil, errors.Errorf("не переданы файлы в поле %s", key)
	}
	result := make([]models.UploadFile, 0, len(headers))
	for _, header := range headers {
		result = append(result, uploadFile(header))
	}
	return result, nil
}

func uploadFile(header *multipart.FileHeader) models.UploadFile {
	return models.UploadFile{
		FileName:     header.Filename,
		DeclaredType: header.Header.Get(fiber.HeaderContentType),
		Size:         header.Size,
		Open: func() (io.ReadCloser, error) {
			return header.Open()
		},
	}
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	logger := log.WithField("path", ctx.Path()).
		WithField("method", ctx.Method())
	if requestID := ctx.GetRespHeader(fiber.HeaderXRequestID); requestID != "" {
		logger = logger.WithField("request_id", requestID)
	}
	if identity := authutils.GetIdentity(ctx); identity != nil {
		logger = logger.WithField("user_id", identity.ID)
	}
	return logger
}

// SendError - ответ по типу ошибки, детали отказов БД/хранилища только в лог
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, msg string) error {
	status := StatusByKind(apperrors.KindOf(err))
	if status >= fiber.StatusInternalServerError {
		logger.WithError(err).Error(msg)
	} else {
		logger.WithError(err).Info(msg)
	}
	return ctx.Status(status).JSON(apimodels.NewError(apperrors.UserMessage(err, msg)))
}

func StatusByKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return fiber.StatusBadRequest
	case apperrors.KindUnauthorized:
		return fiber.StatusUnauthorized
	case apperrors.KindForbidden:
		return fiber.StatusForbidden
	case apperrors.KindNotFound:
		return fiber.StatusNotFound
	case apperrors.KindConflict:
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}
