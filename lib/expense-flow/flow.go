package expenseflow

import (
	"fmt"

	"expense-approval-backend/lib/rbac"
	apperrors "expense-approval-backend/lib/utils/app-errors"
	"expense-approval-backend/models"
)

type edge struct {
	from models.ExpenseStatus
	to   models.ExpenseStatus
}

// edges - разрешенные переходы по ролям, все остальное запрещено
var edges = map[models.UserRole][]edge{
	models.ManagerRole: {
		{from: models.ExpenseStatusCreated, to: models.ExpenseStatusApproved},
		{from: models.ExpenseStatusCreated, to: models.ExpenseStatusRejected},
	},
	models.AccountingRole: {
		{from: models.ExpenseStatusApproved, to: models.ExpenseStatusProcessed},
	},
}

func CanTransition(role models.UserRole, current, next models.ExpenseStatus) bool {
	for _, e := range edges[role] {
		if e.from == current && e.to == next {
			return true
		}
	}
	return false
}

// CheckTransition проверяет переход от текущего сохраненного статуса
func CheckTransition(role models.UserRole, current, next models.ExpenseStatus) error {
	if !next.IsValid() || !next.IsRequestable() {
		return apperrors.NewFieldValidation("status", "переход в этот статус невозможен")
	}
	if !CanTransition(role, current, next) {
		return apperrors.NewForbidden(fmt.Sprintf("переход %s -> %s недоступен для роли %s",
			current.ToHuman(), next.ToHuman(), role.ToHuman()))
	}
	return nil
}

// Edge - шаг цепочки доступа для проверки перехода
func Edge(current, next models.ExpenseStatus) rbac.Step {
	return func(identity *models.Identity) error {
		return CheckTransition(identity.Role, current, next)
	}
}

// RequiredPermission - право, которое нужно роли для запроса перехода в статус
func RequiredPermission(next models.ExpenseStatus) models.Permission {
	if next == models.ExpenseStatusProcessed {
		return models.ProcessPermission
	}
	return models.ApprovePermission
}

// TargetsFrom - статусы, в которые роль может перевести заявку из текущего
func TargetsFrom(role models.UserRole, current models.ExpenseStatus) []models.ExpenseStatus {
	result := []models.ExpenseStatus{}
	for _, e := range edges[role] {
		if e.from == current {
			result = append(result, e.to)
		}
	}
	return result
}
