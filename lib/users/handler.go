package usershandler

import (
	"context"
	"expense-approval-backend/config"
	"expense-approval-backend/db"
	attachmenturl "expense-approval-backend/lib/attachment-url"
	filestorage "expense-approval-backend/lib/file-storage"
	"expense-approval-backend/lib/rbac"
	usersstore "expense-approval-backend/lib/users/store"
	apperrors "expense-approval-backend/lib/utils/app-errors"
	authutils "expense-approval-backend/lib/utils/auth-utils"
	"expense-approval-backend/lib/utils/helpers"
	"expense-approval-backend/lib/utils/metrics"
	"expense-approval-backend/models"
	usersapimodels "expense-approval-backend/models/api/users"
	dbmodels "expense-approval-backend/models/db"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	CreateUser(identity models.Identity, data usersapimodels.CreateUserRequest) (usersapimodels.TempPasswordView, error)
	ListUsers(identity models.Identity) ([]usersapimodels.UserView, error)
	ResetTempPassword(identity models.Identity, userID string) (usersapimodels.TempPasswordView, error)
	ChangePassword(identity models.Identity, data usersapimodels.ChangePasswordRequest) error
	SetAvatar(ctx context.Context, identity models.Identity, file models.UploadFile) (usersapimodels.AvatarUrlView, error)
	GetAvatarURL(ctx context.Context, identity models.Identity) (usersapimodels.AvatarUrlView, error)
	SeedManager(email, password string) error
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(
		usersstore.NewInstance(db.DB),
		filestorage.Instance,
		attachmenturl.Instance,
		config.Conf.Expense.MaxFileSizeMb*1024*1024,
	)
}

func NewInstance(store usersstore.Provider, storage filestorage.Provider, composer attachmenturl.Provider, maxAvatarSize int64) Provider {
	return impl{
		store:         store,
		storage:       storage,
		composer:      composer,
		maxAvatarSize: maxAvatarSize,
	}
}

type impl struct {
	store         usersstore.Provider
	storage       filestorage.Provider
	composer      attachmenturl.Provider
	maxAvatarSize int64
}

func (i impl) getLogger(userID string) *log.Entry {
	return log.WithField("user_id", userID)
}

func (i impl) CreateUser(identity models.Identity, data usersapimodels.CreateUserRequest) (usersapimodels.TempPasswordView, error) {
	if err := rbac.Require(&identity, models.UsersModule, models.ManagePermission); err != nil {
		return usersapimodels.TempPasswordView{}, err
	}
	data.Email = usersstore.NormalizeEmail(data.Email)
	if err := data.Validate(); err != nil {
		return usersapimodels.TempPasswordView{}, err
	}
	existing, err := i.store.GetByEmail(data.Email)
	if err != nil {
		return usersapimodels.TempPasswordView{}, errors.Wrap(err, "ошибка поиска пользователя")
	}
	if existing != nil {
		return usersapimodels.TempPasswordView{}, apperrors.NewConflict("пользователь с такой почтой уже существует")
	}
	tempPassword, hash, err := newTempPassword()
	if err != nil {
		return usersapimodels.TempPasswordView{}, err
	}
	rec := dbmodels.User{
		Email:           data.Email,
		Role:            data.Role,
		PasswordHash:    hash,
		MustSetPassword: true,
		FullName:        data.FullName,
	}
	id, err := i.store.Create(rec)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return usersapimodels.TempPasswordView{}, apperrors.NewConflict("пользователь с такой почтой уже существует")
		}
		return usersapimodels.TempPasswordView{}, errors.Wrap(err, "ошибка создания пользователя")
	}
	created, err := i.getUser(id)
	if err != nil {
		return usersapimodels.TempPasswordView{}, err
	}
	i.getLogger(id).WithField("created_by", identity.ID).Info("создан пользователь")
	return usersapimodels.TempPasswordView{
		User:         usersapimodels.UserConvert(*created),
		TempPassword: tempPassword,
	}, nil
}

func (i impl) ListUsers(identity models.Identity) ([]usersapimodels.UserView, error) {
	if err := rbac.Require(&identity, models.UsersModule, models.ManagePermission); err != nil {
		return nil, err
	}
	list, err := i.store.List()
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка пользователей")
	}
	result := make([]usersapimodels.UserView, 0, len(list))
	for _, rec := range list {
		result = append(result, usersapimodels.UserConvert(rec))
	}
	return result, nil
}

func (i impl) ResetTempPassword(identity models.Identity, userID string) (usersapimodels.TempPasswordView, error) {
	if err := rbac.Require(&identity, models.UsersModule, models.ManagePermission); err != nil {
		return usersapimodels.TempPasswordView{}, err
	}
	rec, err := i.getUser(userID)
	if err != nil {
		return usersapimodels.TempPasswordView{}, err
	}
	tempPassword, hash, err := newTempPassword()
	if err != nil {
		return usersapimodels.TempPasswordView{}, err
	}
	err = i.store.Update(userID, map[string]interface{}{
		"password_hash":     hash,
		"must_set_password": true,
	})
	if err != nil {
		return usersapimodels.TempPasswordView{}, errors.Wrap(err, "ошибка сброса пароля")
	}
	rec.MustSetPassword = true
	i.getLogger(userID).WithField("reset_by", identity.ID).Info("выдан временный пароль")
	return usersapimodels.TempPasswordView{
		User:         usersapimodels.UserConvert(*rec),
		TempPassword: tempPassword,
	}, nil
}

func (i impl) ChangePassword(identity models.Identity, data usersapimodels.ChangePasswordRequest) error {
	if err := rbac.Require(&identity, models.ProfileModule, models.EditPermission); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}
	rec, err := i.getUser(identity.ID)
	if err != nil {
		return err
	}
	if !authutils.CheckPassword(rec.PasswordHash, data.CurrentPassword) {
		return apperrors.NewUnauthorized("неверный текущий пароль")
	}
	hash, err := authutils.HashPassword(data.NewPassword)
	if err != nil {
		return err
	}
	err = i.store.Update(identity.ID, map[string]interface{}{
		"password_hash":     hash,
		"must_set_password": false,
	})
	if err != nil {
		return errors.Wrap(err, "ошибка смены пароля")
	}
	i.getLogger(identity.ID).Info("пароль изменен")
	return nil
}

func (i impl) SetAvatar(ctx context.Context, identity models.Identity, file models.UploadFile) (usersapimodels.AvatarUrlView, error) {
	if err := rbac.Require(&identity, models.ProfileModule, models.EditPermission); err != nil {
		return usersapimodels.AvatarUrlView{}, err
	}
	if file.Size <= 0 {
		return usersapimodels.AvatarUrlView{}, apperrors.NewFieldValidation("file", "пустой файл")
	}
	if i.maxAvatarSize > 0 && file.Size > i.maxAvatarSize {
		return usersapimodels.AvatarUrlView{}, apperrors.NewFieldValidation("file", fmt.Sprintf("размер файла превышает допустимый (%d байт)", i.maxAvatarSize))
	}
	if _, err := i.getUser(identity.ID); err != nil {
		return usersapimodels.AvatarUrlView{}, err
	}
	reader, err := file.Open()
	if err != nil {
		return usersapimodels.AvatarUrlView{}, errors.Wrap(err, "ошибка чтения файла")
	}
	defer reader.Close()
	body, contentType, err := helpers.SniffReader(reader, file.DeclaredType)
	if err != nil {
		return usersapimodels.AvatarUrlView{}, err
	}
	if !helpers.IsImage(contentType) {
		return usersapimodels.AvatarUrlView{}, apperrors.NewFieldValidation("file", "допускаются только изображения")
	}

	now := time.Now()
	path := helpers.BuildStoragePath(identity.ID, file.FileName, now)
	if err = i.storage.Upload(ctx, models.AvatarsNamespace, path, body, file.Size, contentType); err != nil {
		metrics.UploadedFiles.WithLabelValues(string(models.AvatarsNamespace), metrics.ResultError).Inc()
		return usersapimodels.AvatarUrlView{}, apperrors.NewUpstream(err, "не удалось сохранить аватар")
	}
	metrics.UploadedFiles.WithLabelValues(string(models.AvatarsNamespace), metrics.ResultSuccess).Inc()
	err = i.store.Update(identity.ID, map[string]interface{}{
		"avatar_path":       path,
		"avatar_mime":       contentType,
		"avatar_updated_at": now,
	})
	if err != nil {
		return usersapimodels.AvatarUrlView{}, errors.Wrap(err, "ошибка сохранения аватара")
	}
	url, expiresIn := i.composer.SignAvatar(ctx, path)
	return usersapimodels.AvatarUrlView{URL: url, ExpiresIn: expiresIn}, nil
}

func (i impl) GetAvatarURL(ctx context.Context, identity models.Identity) (usersapimodels.AvatarUrlView, error) {
	if err := rbac.Require(&identity, models.ProfileModule, models.EditPermission); err != nil {
		return usersapimodels.AvatarUrlView{}, err
	}
	rec, err := i.getUser(identity.ID)
	if err != nil {
		return usersapimodels.AvatarUrlView{}, err
	}
	if rec.AvatarPath == nil || *rec.AvatarPath == "" {
		return usersapimodels.AvatarUrlView{}, apperrors.NewNotFound("аватар не загружен")
	}
	url, expiresIn := i.composer.SignAvatar(ctx, *rec.AvatarPath)
	return usersapimodels.AvatarUrlView{URL: url, ExpiresIn: expiresIn}, nil
}

// SeedManager создает или обновляет учетную запись руководителя из конфигурации
func (i impl) SeedManager(email, password string) error {
	if email == "" || password == "" {
		log.Info("учетная запись руководителя не задана, пропускаем")
		return nil
	}
	if len(password) < 8 {
		return apperrors.NewFieldValidation("password", "не менее 8 символов")
	}
	hash, err := authutils.HashPassword(password)
	if err != nil {
		return err
	}
	err = i.store.Upsert(dbmodels.User{
		Email:           email,
		Role:            models.ManagerRole,
		PasswordHash:    hash,
		MustSetPassword: false,
	})
	if err != nil {
		return errors.Wrap(err, "ошибка создания учетной записи руководителя")
	}
	log.WithField("email", usersstore.NormalizeEmail(email)).Info("учетная запись руководителя готова")
	return nil
}

func (i impl) getUser(id string) (*dbmodels.User, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения пользователя")
	}
	if rec == nil {
		return nil, apperrors.NewNotFound("пользователь не найден")
	}
	return rec, nil
}

func newTempPassword() (password, hash string, err error) {
	password, err = authutils.GenerateTempPassword()
	if err != nil {
		return "", "", err
	}
	hash, err = authutils.HashPassword(password)
	if err != nil {
		return "", "", err
	}
	return password, hash, nil
}
