package models

type UserRole string

const (
	EmployeeRole   UserRole = "EMPLOYEE"
	ManagerRole    UserRole = "MANAGER"
	AccountingRole UserRole = "ACCOUNTING"
)

var roleHumanName = map[UserRole]string{
	EmployeeRole:   "Сотрудник",
	ManagerRole:    "Руководитель",
	AccountingRole: "Бухгалтерия",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsValid() bool {
	_, ok := roleHumanName[r]
	return ok
}

var AllRoles = []UserRole{EmployeeRole, ManagerRole, AccountingRole}
