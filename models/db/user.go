package dbmodels

import (
	"expense-approval-backend/models"
	"time"
)

type User struct {
	BaseModel
	Email           string          `gorm:"type:varchar(255);uniqueIndex;not null"`
	Role            models.UserRole `gorm:"type:varchar(20);not null;default:EMPLOYEE;check:chk_users_role,role IN ('EMPLOYEE','MANAGER','ACCOUNTING')"`
	PasswordHash    string          `gorm:"not null"`
	MustSetPassword bool            `gorm:"not null;default:false"` // нулевое значение gorm не вставляет, default должен совпадать с ним
	FullName        *string         `gorm:"type:varchar(255)"`
	AvatarPath      *string
	AvatarMime      *string
	AvatarUpdatedAt *time.Time
}

func (r User) ToIdentity() models.Identity {
	return models.Identity{
		ID:              r.ID,
		Email:           r.Email,
		Role:            r.Role,
		MustSetPassword: r.MustSetPassword,
	}
}
