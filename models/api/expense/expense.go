package expenseapimodels

import (
	apperrors "expense-approval-backend/lib/utils/app-errors"
	"expense-approval-backend/models"
	apimodels "expense-approval-backend/models/api"
	dbmodels "expense-approval-backend/models/db"
	"strings"
	"time"
)

type ExpenseCreateData struct {
	Title   string  `json:"title" validate:"required,max=200"` // Краткое описание расхода
	Comment *string `json:"comment"`                           // Комментарий сотрудника
}

func (r ExpenseCreateData) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return apperrors.NewFieldValidation("title", "обязательное поле")
	}
	return apimodels.ValidateStruct(r)
}

type TransitionData struct {
	Status  models.ExpenseStatus `json:"status" validate:"required"` // Новый статус: APPROVED, REJECTED, PROCESSED
	Comment *string              `json:"comment"`
}

func (r TransitionData) Validate() error {
	if err := apimodels.ValidateStruct(r); err != nil {
		return err
	}
	if !r.Status.IsValid() {
		return apperrors.NewFieldValidation("status", "неизвестный статус")
	}
	if !r.Status.IsRequestable() {
		return apperrors.NewFieldValidation("status", "переход в этот статус невозможен")
	}
	return nil
}

type CommentData struct {
	Comment *string `json:"comment"`
}

type EmployeeSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type ExpenseView struct {
	ID                string               `json:"id"`
	Title             string               `json:"title"`
	Comment           *string              `json:"comment"`
	Status            models.ExpenseStatus `json:"status"`
	StatusName        string               `json:"status_name"`
	SubmittedAt       time.Time            `json:"submitted_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
	EmployeeID        string               `json:"employee_id"`
	Employee          *EmployeeSummary     `json:"employee,omitempty"`
	ManagerComment    *string              `json:"manager_comment"`
	AccountingComment *string              `json:"accounting_comment"`
}

type FileView struct {
	ID        string    `json:"id"`
	FileName  string    `json:"file_name"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
	URL       *string   `json:"url"` // подписанная ссылка, null если подписать не удалось
}

type ExpenseDetailView struct {
	ExpenseView
	Files []FileView `json:"files"`
}

type SignedUrlView struct {
	URL       *string `json:"url"`        // null если подписать не удалось
	ExpiresIn int     `json:"expires_in"` // срок жизни ссылки в секундах
}

type UploadResult struct {
	FileName string  `json:"file_name"`
	ID       *string `json:"id,omitempty"`
	Error    string  `json:"error,omitempty"`
}

func ExpenseConvert(rec dbmodels.Expense) ExpenseView {
	result := ExpenseView{
		ID:                rec.ID,
		Title:             rec.Title,
		Comment:           rec.Comment,
		Status:            rec.Status,
		StatusName:        rec.Status.ToHuman(),
		SubmittedAt:       rec.SubmittedAt,
		UpdatedAt:         rec.UpdatedAt,
		EmployeeID:        rec.EmployeeID,
		ManagerComment:    rec.ManagerComment,
		AccountingComment: rec.AccountingComment,
	}
	if rec.Employee != nil {
		result.Employee = &EmployeeSummary{
			ID:    rec.Employee.ID,
			Email: rec.Employee.Email,
		}
	}
	return result
}

// FileConvert не переносит storage_path: путь в хранилище клиенту не отдается
func FileConvert(rec dbmodels.ExpenseFile, url *string) FileView {
	return FileView{
		ID:        rec.ID,
		FileName:  rec.FileName,
		MimeType:  rec.MimeType,
		SizeBytes: rec.SizeBytes,
		CreatedAt: rec.CreatedAt,
		URL:       url,
	}
}
