package apimodels

import (
	apperrors "expense-approval-backend/lib/utils/app-errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonTagName)
	})
	return validate
}

// ValidateStruct проверяет теги validate и возвращает ошибку валидации по первому неверному полю
func ValidateStruct(s interface{}) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return apperrors.NewValidation("некорректные данные запроса")
	}
	fe := fieldErrors[0]
	return apperrors.NewFieldValidation(fe.Field(), fieldMessage(fe))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "обязательное поле"
	case "max":
		return fmt.Sprintf("не более %s символов", fe.Param())
	case "min":
		return fmt.Sprintf("не менее %s символов", fe.Param())
	case "email":
		return "почта имеет неправильный формат"
	case "oneof":
		return fmt.Sprintf("допустимые значения: %s", fe.Param())
	case "uuid":
		return "некорректный идентификатор"
	}
	return "некорректное значение"
}

func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}
