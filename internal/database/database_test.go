package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appconfig "github.com/GTDGit/promo_api/internal/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(&appconfig.DatabaseConfig{
		Host: "db", Port: "5432", User: "promo", Password: "p@ss word", Name: "promo", SSLMode: "disable",
	})
	assert.Equal(t, "postgres://promo:p%40ss+word@db:5432/promo?sslmode=disable", dsn)
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, 500*time.Millisecond, backoff(1))
	assert.Equal(t, 2*time.Second, backoff(3))
	assert.Equal(t, 5*time.Second, backoff(5))
}

func TestConnect_NilConfig(t *testing.T) {
	_, err := Connect(context.Background(), nil)
	assert.Error(t, err)
}
