package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mycrm-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.AI.MaxTokens)
	assert.InDelta(t, 0.7, cfg.AI.Temperature, 1e-9)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.True(t, cfg.SMTP.UseTLS)
	assert.Equal(t, "MyCRM System", cfg.SMTP.SenderName)
	assert.True(t, cfg.Security.EnableHIPAACompliance)
	assert.True(t, cfg.Security.EnableAICompliance)
	assert.Equal(t, "MyCRM Team", cfg.Email.Signature)
	assert.Equal(t, 5*time.Second, cfg.DB.ConnectTimeout)
	assert.False(t, cfg.DB.AutoMigrate)
}

func TestLoad_EnvTienePrioridad(t *testing.T) {
	t.Setenv("AI_PROVIDER", "Gemini")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("AI_TEMPERATURE", "0.2")
	t.Setenv("ENABLE_HIPAA_COMPLIANCE", "off")
	t.Setenv("ENABLE_AI_COMPLIANCE", "no-es-bool")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("DB_CONNECT_TIMEOUT_SECONDS", "2")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, "g-key", cfg.AI.APIKey())
	assert.InDelta(t, 0.2, cfg.AI.Temperature, 1e-9)
	assert.False(t, cfg.Security.EnableHIPAACompliance)
	assert.True(t, cfg.Security.EnableAICompliance, "un valor no reconocido deja el valor por defecto")
	assert.Equal(t, 465, cfg.SMTP.Port)
	assert.Equal(t, 2*time.Second, cfg.DB.ConnectTimeout)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "crm", Password: "p@ss word", DBName: "crm", SSLMode: "disable", ConnectTimeout: 3 * time.Second}
	assert.Equal(t, "postgres://crm:p%40ss%20word@db:5432/crm?connect_timeout=3&sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://u@h/d"
	assert.Equal(t, "postgres://u@h/d", c.ConnectionString())
	assert.True(t, c.Configured())
	assert.False(t, config.DBConfig{}.Configured())
}
