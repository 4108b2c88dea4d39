package rbac

import (
	"expense-approval-backend/models"
	"slices"
)

// abilities - единственный источник прав ролей, из него строятся и правила маршрутов, и ответ для фронта
var abilities = map[models.UserRole]map[models.Module][]models.Permission{
	models.EmployeeRole: {
		models.ExpenseModule: {models.CreatePermission, models.ViewOwnPermission, models.ViewPermission, models.FilesPermission},
		models.ProfileModule: {models.EditPermission},
	},
	models.ManagerRole: {
		models.ExpenseModule: {models.CreatePermission, models.ViewOwnPermission, models.ViewAllPermission, models.ViewPermission,
			models.ApprovePermission, models.FilesPermission},
		models.UsersModule:   {models.ManagePermission},
		models.ProfileModule: {models.EditPermission},
	},
	models.AccountingRole: {
		models.ExpenseModule: {models.CreatePermission, models.ViewOwnPermission, models.ViewAccountingPermission, models.ViewPermission,
			models.ProcessPermission, models.FilesPermission},
		models.ProfileModule: {models.EditPermission},
	},
}

func CanAct(role models.UserRole, module models.Module, permission models.Permission) bool {
	modules, ok := abilities[role]
	if !ok {
		return false
	}
	return slices.Contains(modules[module], permission)
}

// RolesFor - роли, которым разрешено действие, в порядке models.AllRoles
func RolesFor(module models.Module, permissions ...models.Permission) []models.UserRole {
	result := []models.UserRole{}
	for _, role := range models.AllRoles {
		for _, permission := range permissions {
			if CanAct(role, module, permission) {
				result = append(result, role)
				break
			}
		}
	}
	return result
}
