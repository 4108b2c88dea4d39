package authapimodels

import (
	"expense-approval-backend/models"
	apimodels "expense-approval-backend/models/api"
	usersapimodels "expense-approval-backend/models/api/users"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r LoginRequest) Validate() error {
	return apimodels.ValidateStruct(r)
}

type SetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8"` // не менее 8 символов
}

func (r SetPasswordRequest) Validate() error {
	return apimodels.ValidateStruct(r)
}

type JWTRefreshRequest struct {
	RefreshToken string `json:"refresh_token"` // если не указан, берется из cookie
}

type JWTResponse struct {
	Token        string          `json:"token"`
	RefreshToken string          `json:"refresh_token"`
	User         models.Identity `json:"user"`
}

type MeView struct {
	User        usersapimodels.UserView               `json:"user"`
	Permissions map[models.Module][]models.Permission `json:"permissions"`
}
