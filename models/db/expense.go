package dbmodels

import (
	"expense-approval-backend/models"
	"time"
)

type Expense struct {
	ID                string               `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Title             string               `gorm:"type:varchar(200);not null"`
	Comment           *string              `gorm:"type:text"`
	Status            models.ExpenseStatus `gorm:"type:varchar(20);not null;default:CREATED;index;check:chk_expenses_status,status IN ('CREATED','APPROVED','REJECTED','PROCESSED')"`
	SubmittedAt       time.Time            `gorm:"not null;index;autoCreateTime"`
	EmployeeID        string               `gorm:"type:uuid;not null;index"`
	Employee          *User                `gorm:"foreignKey:EmployeeID;constraint:OnDelete:RESTRICT"`
	ManagerComment    *string              `gorm:"type:text"`
	AccountingComment *string              `gorm:"type:text"`
	UpdatedAt         time.Time            `gorm:"autoUpdateTime"`
	Files             []ExpenseFile        `gorm:"foreignKey:ExpenseID;constraint:OnDelete:CASCADE"`
}

type ExpenseFile struct {
	ID          string    `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ExpenseID   string    `gorm:"type:uuid;not null;index"`
	StoragePath string    `gorm:"not null"`
	MimeType    string    `gorm:"type:varchar(255)"`
	FileName    string    `gorm:"type:varchar(255)"`
	SizeBytes   int64     `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}
