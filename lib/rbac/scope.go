package rbac

import "expense-approval-backend/models"

type ScopeKind string

const (
	ScopeNone     ScopeKind = "NONE"
	ScopeOwn      ScopeKind = "OWN"
	ScopeAll      ScopeKind = "ALL"
	ScopeStatusIn ScopeKind = "STATUS_IN"
)

// Scope - какие заявки роль может видеть в списке
type Scope struct {
	Kind     ScopeKind
	Statuses []models.ExpenseStatus
}

func VisibleScope(role models.UserRole) Scope {
	switch {
	case CanAct(role, models.ExpenseModule, models.ViewAllPermission):
		return Scope{Kind: ScopeAll}
	case CanAct(role, models.ExpenseModule, models.ViewAccountingPermission):
		return Scope{Kind: ScopeStatusIn, Statuses: append([]models.ExpenseStatus{}, models.AccountingStatuses...)}
	case CanAct(role, models.ExpenseModule, models.ViewOwnPermission):
		return Scope{Kind: ScopeOwn}
	}
	return Scope{Kind: ScopeNone}
}
