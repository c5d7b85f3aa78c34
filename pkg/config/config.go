package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type App struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"program"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"test"`
	DBName     string `envconfig:"DB_NAME" default:"warehub"`

	// Decline probability of the simulated card gateway.
	PaymentFailureRate float64 `envconfig:"PAYMENT_FAILURE_RATE" default:"0.1"`

	SeedDemoData bool `envconfig:"SEED_DEMO_DATA" default:"true"`
}

// Load reads a local .env if present, then the process environment.
func Load() (App, error) {
	_ = godotenv.Load()
	var c App
	err := envconfig.Process("", &c)
	return c, err
}

func (c App) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}
