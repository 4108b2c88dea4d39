package models

type RbacFunc func(identity Identity, path string) bool

type Module string

const (
	ExpenseModule Module = "EXPENSE"
	UsersModule   Module = "USERS"
	ProfileModule Module = "PROFILE"
)

type Permission string

const (
	CreatePermission         Permission = "CREATE"
	ViewOwnPermission        Permission = "VIEW_OWN"
	ViewAllPermission        Permission = "VIEW_ALL"
	ViewAccountingPermission Permission = "VIEW_ACCOUNTING"
	ViewPermission           Permission = "VIEW"
	ApprovePermission        Permission = "APPROVE"
	ProcessPermission        Permission = "PROCESS"
	FilesPermission          Permission = "FILES"
	ManagePermission         Permission = "MANAGE"
	EditPermission           Permission = "EDIT"
)
