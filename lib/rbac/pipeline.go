package rbac

import (
	apperrors "expense-approval-backend/lib/utils/app-errors"
	"expense-approval-backend/models"
)

const (
	MsgUnauthorized    = "требуется авторизация"
	MsgMustSetPassword = "необходимо установить пароль при первом входе"
	MsgForbidden       = "операция недоступна"
)

// Step - шаг проверки доступа, nil означает что шаг пройден
type Step func(identity *models.Identity) error

// Check выполняет шаги по порядку и возвращает первую ошибку
func Check(identity *models.Identity, steps ...Step) error {
	for _, step := range steps {
		if err := step(identity); err != nil {
			return err
		}
	}
	return nil
}

func Authenticated() Step {
	return func(identity *models.Identity) error {
		if identity.IsEmpty() {
			return apperrors.NewUnauthorized(MsgUnauthorized)
		}
		return nil
	}
}

// FirstLoginPassed блокирует все, кроме установки пароля, пока не задан постоянный пароль
func FirstLoginPassed() Step {
	return func(identity *models.Identity) error {
		if identity.MustSetPassword {
			return apperrors.NewForbidden(MsgMustSetPassword)
		}
		return nil
	}
}

func Allowed(module models.Module, permission models.Permission) Step {
	return func(identity *models.Identity) error {
		if !CanAct(identity.Role, module, permission) {
			return apperrors.NewForbidden(MsgForbidden)
		}
		return nil
	}
}

// Require - стандартная цепочка для операций доступных после первого входа
func Require(identity *models.Identity, module models.Module, permission models.Permission) error {
	return Check(identity, Authenticated(), FirstLoginPassed(), Allowed(module, permission))
}
