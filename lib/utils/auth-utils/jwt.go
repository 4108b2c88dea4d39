package authutils

import (
	"expense-approval-backend/config"
	"expense-approval-backend/models"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const refreshTokenType = "refresh"

func GetToken(identity models.Identity) (tokenString string, err error) {
	claims := jwt.MapClaims{
		"sub":               identity.ID,
		"email":             identity.Email,
		"role":              string(identity.Role),
		"must_set_password": identity.MustSetPassword,
		"exp":               time.Now().Add(time.Second * time.Duration(config.Conf.Auth.JWTExpireInSec)).Unix(),
		"iat":               time.Now().Unix(),
	}
	if config.Conf.Auth.JWTSecret == "" {
		return "", config.ErrEmptyJWTSecret
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Conf.Auth.JWTSecret))
}

func GetRefreshToken(userID string) (tokenString string, err error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"typ": refreshTokenType,
		"exp": time.Now().Add(time.Second * time.Duration(config.Conf.Auth.JWTRefreshExpireInSec)).Unix(),
		"iat": time.Now().Unix(),
	}
	if refreshSecret() == "" {
		return "", config.ErrEmptyJWTSecret
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(refreshSecret()))
}

// ParseRefreshToken возвращает id пользователя из refresh токена
func ParseRefreshToken(tokenString string) (userID string, err error) {
	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(refreshSecret()), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", errors.Wrap(err, "некорректный refresh токен")
	}
	if typ, _ := claims["typ"].(string); typ != refreshTokenType {
		return "", errors.New("токен не является refresh токеном")
	}
	userID, _ = claims["sub"].(string)
	if userID == "" {
		return "", errors.New("в токене не указан пользователь")
	}
	return userID, nil
}

func refreshSecret() string {
	if config.Conf.Auth.JWTRefreshSecret != "" {
		return config.Conf.Auth.JWTRefreshSecret
	}
	return config.Conf.Auth.JWTSecret
}

func GetClaims(ctx *fiber.Ctx) jwt.MapClaims {
	token, ok := ctx.Locals("user").(*jwt.Token)
	if !ok {
		return jwt.MapClaims{}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return jwt.MapClaims{}
	}
	return claims
}

// IdentityFromClaims собирает текущего пользователя из access токена
func IdentityFromClaims(claims jwt.MapClaims) *models.Identity {
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil
	}
	// refresh токен не дает доступа к api
	if typ, _ := claims["typ"].(string); typ == refreshTokenType {
		return nil
	}
	identity := &models.Identity{ID: sub}
	identity.Email, _ = claims["email"].(string)
	if role, ok := claims["role"].(string); ok {
		identity.Role = models.UserRole(role)
	}
	identity.MustSetPassword, _ = claims["must_set_password"].(bool)
	return identity
}

func GetIdentity(ctx *fiber.Ctx) *models.Identity {
	return IdentityFromClaims(GetClaims(ctx))
}
