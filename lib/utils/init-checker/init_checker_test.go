package initchecker

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type provider interface {
	Ping() error
}

func TestCheckInit(t *testing.T) {
	var db *gorm.DB
	var instance provider

	require.PanicsWithValue(t, "db dependency not initialized", func() {
		CheckInit("db", db)
	})
	require.PanicsWithValue(t, "storage dependency not initialized", func() {
		CheckInit("db", &gorm.DB{}, "storage", instance)
	})
	require.PanicsWithValue(t, "CheckInit: odd number of arguments", func() {
		CheckInit("db")
	})
	require.NotPanics(t, func() {
		CheckInit("db", &gorm.DB{}, "ttl", 3600)
	})
}
