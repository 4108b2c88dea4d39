package models

type ExpenseStatus string

const (
	ExpenseStatusCreated   ExpenseStatus = "CREATED"
	ExpenseStatusApproved  ExpenseStatus = "APPROVED"
	ExpenseStatusRejected  ExpenseStatus = "REJECTED"
	ExpenseStatusProcessed ExpenseStatus = "PROCESSED"
)

var expenseStatusHumanName = map[ExpenseStatus]string{
	ExpenseStatusCreated:   "Создана",
	ExpenseStatusApproved:  "Согласована",
	ExpenseStatusRejected:  "Отклонена",
	ExpenseStatusProcessed: "Обработана",
}

func (s ExpenseStatus) ToHuman() string {
	if human, exist := expenseStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s ExpenseStatus) IsValid() bool {
	_, ok := expenseStatusHumanName[s]
	return ok
}

// IsTerminal - из статуса нет ни одного перехода
func (s ExpenseStatus) IsTerminal() bool {
	return s == ExpenseStatusRejected || s == ExpenseStatusProcessed
}

// IsRequestable - статус, который можно запросить переходом (в CREATED вернуться нельзя)
func (s ExpenseStatus) IsRequestable() bool {
	return s == ExpenseStatusApproved || s == ExpenseStatusRejected || s == ExpenseStatusProcessed
}

// AccountingStatuses - статусы, которые видит бухгалтерия
var AccountingStatuses = []ExpenseStatus{ExpenseStatusApproved, ExpenseStatusProcessed}
