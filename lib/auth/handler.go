package authhandler

import (
	"expense-approval-backend/db"
	"expense-approval-backend/lib/rbac"
	usersstore "expense-approval-backend/lib/users/store"
	apperrors "expense-approval-backend/lib/utils/app-errors"
	authutils "expense-approval-backend/lib/utils/auth-utils"
	"expense-approval-backend/models"
	authapimodels "expense-approval-backend/models/api/auth"
	usersapimodels "expense-approval-backend/models/api/users"
	dbmodels "expense-approval-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const msgInvalidCredentials = "неверные учетные данные"

type Provider interface {
	Login(data authapimodels.LoginRequest) (authapimodels.JWTResponse, error)
	Me(identity models.Identity) (authapimodels.MeView, error)
	SetPassword(identity models.Identity, data authapimodels.SetPasswordRequest) (authapimodels.JWTResponse, error)
	Refresh(refreshToken string) (authapimodels.JWTResponse, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(usersstore.NewInstance(db.DB))
}

func NewInstance(store usersstore.Provider) Provider {
	return impl{
		store: store,
	}
}

type impl struct {
	store usersstore.Provider
}

func (i impl) Login(data authapimodels.LoginRequest) (authapimodels.JWTResponse, error) {
	data.Email = usersstore.NormalizeEmail(data.Email)
	if err := data.Validate(); err != nil {
		return authapimodels.JWTResponse{}, err
	}
	rec, err := i.store.GetByEmail(data.Email)
	if err != nil {
		return authapimodels.JWTResponse{}, errors.Wrap(err, "ошибка поиска пользователя")
	}
	if rec == nil || !authutils.CheckPassword(rec.PasswordHash, data.Password) {
		log.WithField("email", data.Email).Info("неудачная попытка входа")
		return authapimodels.JWTResponse{}, apperrors.NewUnauthorized(msgInvalidCredentials)
	}
	return i.issueTokens(*rec)
}

func (i impl) Me(identity models.Identity) (authapimodels.MeView, error) {
	if err := rbac.Check(&identity, rbac.Authenticated()); err != nil {
		return authapimodels.MeView{}, err
	}
	rec, err := i.store.GetByID(identity.ID)
	if err != nil {
		return authapimodels.MeView{}, errors.Wrap(err, "ошибка получения пользователя")
	}
	if rec == nil {
		return authapimodels.MeView{}, apperrors.NewUnauthorized(rbac.MsgUnauthorized)
	}
	return authapimodels.MeView{
		User:        usersapimodels.UserConvert(*rec),
		Permissions: rbac.Instance.GetPermissions(rec.Role),
	}, nil
}

// SetPassword - единственная операция, доступная до установки постоянного пароля
func (i impl) SetPassword(identity models.Identity, data authapimodels.SetPasswordRequest) (authapimodels.JWTResponse, error) {
	if err := rbac.Check(&identity, rbac.Authenticated()); err != nil {
		return authapimodels.JWTResponse{}, err
	}
	if err := data.Validate(); err != nil {
		return authapimodels.JWTResponse{}, err
	}
	rec, err := i.store.GetByID(identity.ID)
	if err != nil {
		return authapimodels.JWTResponse{}, errors.Wrap(err, "ошибка получения пользователя")
	}
	if rec == nil {
		return authapimodels.JWTResponse{}, apperrors.NewNotFound("пользователь не найден")
	}
	hash, err := authutils.HashPassword(data.NewPassword)
	if err != nil {
		return authapimodels.JWTResponse{}, err
	}
	err = i.store.Update(identity.ID, map[string]interface{}{
		"password_hash":     hash,
		"must_set_password": false,
	})
	if err != nil {
		return authapimodels.JWTResponse{}, errors.Wrap(err, "ошибка установки пароля")
	}
	rec.MustSetPassword = false
	log.WithField("user_id", identity.ID).Info("пароль установлен")
	return i.issueTokens(*rec)
}

func (i impl) Refresh(refreshToken string) (authapimodels.JWTResponse, error) {
	userID, err := authutils.ParseRefreshToken(refreshToken)
	if err != nil {
		return authapimodels.JWTResponse{}, apperrors.NewUnauthorized(rbac.MsgUnauthorized)
	}
	rec, err := i.store.GetByID(userID)
	if err != nil {
		return authapimodels.JWTResponse{}, errors.Wrap(err, "ошибка получения пользователя")
	}
	if rec == nil {
		return authapimodels.JWTResponse{}, apperrors.NewUnauthorized(rbac.MsgUnauthorized)
	}
	return i.issueTokens(*rec)
}

func (i impl) issueTokens(rec dbmodels.User) (authapimodels.JWTResponse, error) {
	identity := rec.ToIdentity()
	token, err := authutils.GetToken(identity)
	if err != nil {
		return authapimodels.JWTResponse{}, errors.Wrap(err, "ошибка выпуска токена")
	}
	refreshToken, err := authutils.GetRefreshToken(rec.ID)
	if err != nil {
		return authapimodels.JWTResponse{}, errors.Wrap(err, "ошибка выпуска токена")
	}
	return authapimodels.JWTResponse{
		Token:        token,
		RefreshToken: refreshToken,
		User:         identity,
	}, nil
}
