package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "turnero-api", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_NAME", "clinic_test")
	t.Setenv("SERVER_READ_TIMEOUT", "5s")
	t.Setenv("TRACING_ENABLED", "true")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "clinic_test", cfg.Database.Name)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.True(t, cfg.Tracing.Enabled)
}

func TestValidateProductionRequirements(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_PASSWORD", "")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_SSLMODE", "disable")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("DB_SSLMODE", "require")
	_, err = Load()
	assert.NoError(t, err)
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "db.internal", Port: 5433, Name: "turnero",
		User: "svc", Password: "pw", SSLMode: "require",
	}
	assert.Equal(t,
		"host=db.internal user=svc password=pw dbname=turnero port=5433 sslmode=require TimeZone=UTC",
		d.DSN(),
	)
}
