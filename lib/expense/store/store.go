package expensestore

import (
	"expense-approval-backend/models"
	dbmodels "expense-approval-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type ListFilter struct {
	EmployeeID string
	Statuses   []models.ExpenseStatus
}

type Provider interface {
	Create(rec dbmodels.Expense) (id string, err error)
	GetByID(id string) (rec *dbmodels.Expense, err error)
	List(filter ListFilter) (list []dbmodels.Expense, err error)
	// UpdateStatus применяет изменения только если заявка все еще в статусе from
	UpdateStatus(id string, from models.ExpenseStatus, updMap map[string]interface{}) (updated bool, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Expense) (id string, err error) {
	err = i.db.
		Omit("Employee", "Files").
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Expense, error) {
	rec := dbmodels.Expense{}
	err := i.db.
		Where("id = ?", id).
		Preload("Employee", employeeSummary).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) List(filter ListFilter) (list []dbmodels.Expense, err error) {
	list = []dbmodels.Expense{}
	tx := i.db.
		Model(&dbmodels.Expense{}).
		Preload("Employee", employeeSummary).
		Order("submitted_at DESC")
	if filter.EmployeeID != "" {
		tx = tx.Where("employee_id = ?", filter.EmployeeID)
	}
	if len(filter.Statuses) != 0 {
		tx = tx.Where("status IN ?", filter.Statuses)
	}
	err = tx.Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) UpdateStatus(id string, from models.ExpenseStatus, updMap map[string]interface{}) (updated bool, err error) {
	if len(updMap) == 0 {
		return false, nil
	}
	tx := i.db.
		Model(&dbmodels.Expense{}).
		Where("id = ?", id).
		Where("status = ?", from).
		Updates(updMap)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// в списках и карточке нужен только id и email сотрудника
func employeeSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "email")
}
