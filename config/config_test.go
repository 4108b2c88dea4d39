package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	conf := Configuration{}
	require.ErrorIs(t, conf.Validate(), ErrEmptyJWTSecret)

	conf.Auth.JWTSecret = "access-secret"
	require.NoError(t, conf.Validate())
}

func TestInitConfigRequiresSecret(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "")
	Conf = nil
	defer func() { Conf = nil }()

	require.Panics(t, InitConfig)
	require.Nil(t, Conf)
}
