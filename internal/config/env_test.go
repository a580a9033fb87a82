package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvDefaults(t *testing.T) {
	env, err := LoadEnv()
	require.NoError(t, err)
	assert.True(t, env.FrontendEnabled)
	assert.Equal(t, "/api", env.BasePath)
	assert.Equal(t, "8090", env.HTTPPort)
	assert.Equal(t, EngineTypeLocal, env.EngineEnv.Type)
	assert.Equal(t, 10*time.Second, env.Timeout)
	assert.Equal(t, "BASIC", env.LoginType)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CURO_FRONTEND_ENABLED", "false")
	t.Setenv("CURO_BASE_PATH", "/curo-api/")
	t.Setenv("CURO_ENGINE_TYPE", "camunda")
	t.Setenv("CURO_AUTH_LOGIN_TYPE", "oauth2")

	env, err := LoadEnv()
	require.NoError(t, err)
	assert.False(t, env.FrontendEnabled)
	assert.Equal(t, "/curo-api", env.BasePath)
	assert.Equal(t, EngineTypeCamunda, env.EngineEnv.Type)
	assert.Equal(t, "OAUTH2", env.LoginType)
}

func TestLoadEnvRejectsInvalid(t *testing.T) {
	t.Setenv("CURO_ENGINE_TYPE", "zeebe")
	_, err := LoadEnv()
	assert.Error(t, err)
}

func TestLoadEnvRequiresBucketForS3(t *testing.T) {
	t.Setenv("CURO_STORAGE_TYPE", "s3")
	_, err := LoadEnv()
	assert.Error(t, err)
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, (&BaseEnv{LogLevel: "warn"}).SlogLevel())
	assert.Equal(t, slog.LevelDebug, (&BaseEnv{LogLevel: "nope"}).SlogLevel())
	assert.Equal(t, slog.LevelDebug, (*BaseEnv)(nil).SlogLevel())
}
