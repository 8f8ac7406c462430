package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearProviderKeys(t *testing.T) {
	t.Helper()
	for _, env := range []string{"GEMINI_API_KEY", "API_KEY", "OPENAI_API_KEY", "APP_LLM_API_KEY"} {
		t.Setenv(env, "")
	}
}

func TestLoadConfig(t *testing.T) {
	viper.Reset()
	t.Setenv("ENV", "test")
	t.Setenv("APP_SESSION_JWT_SECRET", "test-secret")
	t.Setenv("APP_REDIS_ADDRESS", "redis:6380")
	clearProviderKeys(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, 20*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "redis:6380", cfg.Redis.Address, "environment overrides the file")
	assert.Equal(t, "sqlite3", cfg.DB.Driver)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 0.7, cfg.LLM.PlanTemperature)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "test-secret", cfg.Session.JWTSecret)
	assert.Equal(t, 90*time.Second, cfg.Draft.LockTTL)
	assert.Equal(t, time.Hour, cfg.Draft.CacheTTL)
}

func TestLoadConfig_RequiresJWTSecret(t *testing.T) {
	viper.Reset()
	t.Setenv("ENV", "test")
	t.Setenv("APP_SESSION_JWT_SECRET", "")
	clearProviderKeys(t)

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "session.jwt_secret")
}

func TestLoadConfig_ProviderKeyFallback(t *testing.T) {
	viper.Reset()
	t.Setenv("ENV", "test")
	t.Setenv("APP_SESSION_JWT_SECRET", "test-secret")
	clearProviderKeys(t)
	t.Setenv("GEMINI_API_KEY", "gemini-key")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "gemini-key", cfg.LLMAPIKey())

	cfg.SetLLMAPIKey("rotated")
	assert.Equal(t, "rotated", cfg.LLMAPIKey())
}

func TestGetDSN(t *testing.T) {
	sqlite := &Config{DB: DBConfig{Driver: "sqlite3", Path: "/tmp/plans.db"}}
	assert.Equal(t, "/tmp/plans.db", sqlite.GetDSN())

	oracle := &Config{DB: DBConfig{
		Driver:   "oracle",
		Host:     "db",
		Port:     1521,
		User:     "brand",
		Password: "secret",
		DBName:   "FREEPDB1",
	}}
	assert.Equal(t, "oracle://brand:secret@db:1521/FREEPDB1", oracle.GetDSN())
}
