package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, 0.1, c.PaymentFailureRate)
	assert.True(t, c.SeedDemoData)
}

func TestDSN(t *testing.T) {
	c := App{
		DBHost: "localhost", DBPort: "5433", DBUser: "program",
		DBPassword: "secret", DBName: "warehub",
	}
	assert.Equal(t,
		"host=localhost user=program password=secret dbname=warehub port=5433 sslmode=disable TimeZone=UTC",
		c.DSN())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("PAYMENT_FAILURE_RATE", "0.5")
	t.Setenv("SEED_DEMO_DATA", "false")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", c.HTTPAddr)
	assert.Equal(t, 0.5, c.PaymentFailureRate)
	assert.False(t, c.SeedDemoData)
}
