package filesdbstorage

import (
	dbmodels "expense-approval-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Provider - записи о файлах заявок. Файлы только добавляются
type Provider interface {
	SaveFile(rec dbmodels.ExpenseFile) (id string, err error)
	GetFile(expenseID, fileID string) (*dbmodels.ExpenseFile, error)
	GetFileList(expenseID string) (list []dbmodels.ExpenseFile, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) SaveFile(rec dbmodels.ExpenseFile) (id string, err error) {
	err = i.db.Create(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetFile(expenseID, fileID string) (*dbmodels.ExpenseFile, error) {
	rec := dbmodels.ExpenseFile{}
	err := i.db.
		Where("id = ?", fileID).
		Where("expense_id = ?", expenseID).
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

func (i impl) GetFileList(expenseID string) (list []dbmodels.ExpenseFile, err error) {
	list = []dbmodels.ExpenseFile{}
	err = i.db.
		Model(&dbmodels.ExpenseFile{}).
		Where("expense_id = ?", expenseID).
		Order("created_at ASC").
		Find(&list).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return list, nil
}
