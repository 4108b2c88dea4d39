package rbac

import (
	"expense-approval-backend/models"
)

func (i *impl) initRules() {
	i.expense()
	i.users()
	i.profile()
}

func (i *impl) register(module models.Module, permission models.Permission, swaggerPattern string, extra ...models.Permission) {
	if err := i.RegisterRule(module, swaggerPattern, append([]models.Permission{permission}, extra...)...); err != nil {
		panic(err.Error())
	}
}

func (i *impl) expense() {
	// CREATE
	i.register(models.ExpenseModule, models.CreatePermission, "/api/v1/expenses [post]")
	// VIEW
	i.register(models.ExpenseModule, models.ViewOwnPermission, "/api/v1/expenses/my [get]")
	i.register(models.ExpenseModule, models.ViewAllPermission, "/api/v1/expenses [get]")
	i.register(models.ExpenseModule, models.ViewAccountingPermission, "/api/v1/expenses/accounting/list [get]")
	i.register(models.ExpenseModule, models.ViewPermission, "/api/v1/expenses/visible [get]")
	i.register(models.ExpenseModule, models.ViewPermission, "/api/v1/expenses/{id} [get]")
	i.register(models.ExpenseModule, models.ViewPermission, "/api/v1/expenses/{id}/files/{fileId}/url [get]")
	// FILES
	i.register(models.ExpenseModule, models.FilesPermission, "/api/v1/expenses/{id}/files [post]")
	// FLOW
	i.register(models.ExpenseModule, models.ApprovePermission, "/api/v1/expenses/{id}/approve [patch]")
	i.register(models.ExpenseModule, models.ApprovePermission, "/api/v1/expenses/{id}/reject [patch]")
	i.register(models.ExpenseModule, models.ProcessPermission, "/api/v1/expenses/{id}/process [patch]")
	// конкретный переход проверяется в обработчике по запрошенному статусу
	i.register(models.ExpenseModule, models.ApprovePermission, "/api/v1/expenses/{id}/status [patch]", models.ProcessPermission)
}

func (i *impl) users() {
	// MANAGE
	i.register(models.UsersModule, models.ManagePermission, "/api/v1/users [post]")
	i.register(models.UsersModule, models.ManagePermission, "/api/v1/users [get]")
	i.register(models.UsersModule, models.ManagePermission, "/api/v1/users/{id}/reset-temp-password [post]")
}

func (i *impl) profile() {
	// EDIT
	i.register(models.ProfileModule, models.EditPermission, "/api/v1/users/me/change-password [post]")
	i.register(models.ProfileModule, models.EditPermission, "/api/v1/users/me/avatar [post]")
	i.register(models.ProfileModule, models.EditPermission, "/api/v1/users/me/avatar/url [get]")
}
