package models

// Identity - текущий пользователь запроса, передается в каждую операцию явно
type Identity struct {
	ID              string   `json:"id"`
	Email           string   `json:"email"`
	Role            UserRole `json:"role"`
	MustSetPassword bool     `json:"must_set_password"`
}

func (i *Identity) IsEmpty() bool {
	return i == nil || i.ID == ""
}
