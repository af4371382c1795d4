package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectSQLiteInMemory(t *testing.T) {
	db, err := Connect(Config{
		Driver: "sqlite",
		Name:   ":memory:",
	})
	assert.NoError(t, err)
	assert.NotNil(t, db)

	sqlDB, err := db.DB()
	assert.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())
}

func TestConnectMySQLUnreachable(t *testing.T) {
	_, err := Connect(Config{
		Driver:         "mysql",
		Host:           "127.0.0.1",
		Port:           1, // nothing listens here
		User:           "root",
		Name:           "lv_inventory",
		TimeoutSeconds: 1,
	})
	assert.Error(t, err)
}
