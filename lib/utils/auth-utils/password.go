package authutils

import (
	"crypto/rand"
	"math/big"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost         = 10
	tempPasswordLength = 12
	tempPasswordChars  = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", errors.Wrap(err, "ошибка хеширования пароля")
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateTempPassword - временный пароль для первого входа
func GenerateTempPassword() (string, error) {
	result := make([]byte, tempPasswordLength)
	limit := big.NewInt(int64(len(tempPasswordChars)))
	for i := range result {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", errors.Wrap(err, "ошибка генерации временного пароля")
		}
		result[i] = tempPasswordChars[n.Int64()]
	}
	return string(result), nil
}
