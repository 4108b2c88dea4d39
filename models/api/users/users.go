package usersapimodels

import (
	apperrors "expense-approval-backend/lib/utils/app-errors"
	"expense-approval-backend/models"
	apimodels "expense-approval-backend/models/api"
	dbmodels "expense-approval-backend/models/db"
	"time"
)

type CreateUserRequest struct {
	Email    string          `json:"email" validate:"required,email"`
	Role     models.UserRole `json:"role" validate:"required"`
	FullName *string         `json:"full_name" validate:"omitempty,max=255"`
}

func (r CreateUserRequest) Validate() error {
	if err := apimodels.ValidateStruct(r); err != nil {
		return err
	}
	if !r.Role.IsValid() {
		return apperrors.NewFieldValidation("role", "неизвестная роль")
	}
	return nil
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

func (r ChangePasswordRequest) Validate() error {
	return apimodels.ValidateStruct(r)
}

type UserView struct {
	ID              string          `json:"id"`
	Email           string          `json:"email"`
	Role            models.UserRole `json:"role"`
	RoleName        string          `json:"role_name"`
	FullName        *string         `json:"full_name"`
	MustSetPassword bool            `json:"must_set_password"`
	HasAvatar       bool            `json:"has_avatar"`
	CreatedAt       time.Time       `json:"created_at"`
}

// TempPasswordView - временный пароль возвращается только один раз
type TempPasswordView struct {
	User         UserView `json:"user"`
	TempPassword string   `json:"temp_password"`
}

type AvatarUrlView struct {
	URL       *string `json:"url"`
	ExpiresIn int     `json:"expires_in"`
}

func UserConvert(rec dbmodels.User) UserView {
	return UserView{
		ID:              rec.ID,
		Email:           rec.Email,
		Role:            rec.Role,
		RoleName:        rec.Role.ToHuman(),
		FullName:        rec.FullName,
		MustSetPassword: rec.MustSetPassword,
		HasAvatar:       rec.AvatarPath != nil && *rec.AvatarPath != "",
		CreatedAt:       rec.CreatedAt,
	}
}
