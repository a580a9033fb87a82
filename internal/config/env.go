package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type BaseEnv struct {
	Env      string `envconfig:"ENV" default:"local"`
	HTTPHost string `envconfig:"HTTP_HOST" default:""`
	HTTPPort string `envconfig:"HTTP_PORT" default:"8090"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"debug"`
	BasePath string `envconfig:"BASE_PATH" default:"/api"`
	// FrontendEnabled serves the bundled UI from FrontendDir at "/".
	FrontendEnabled bool   `envconfig:"FRONTEND_ENABLED" default:"true"`
	FrontendDir     string `envconfig:"FRONTEND_DIR" default:"frontend/dist"`
	TraceOutput     string `envconfig:"TRACE_OUTPUT" default:""`
}

type AuthEnv struct {
	LoginType string `envconfig:"AUTH_LOGIN_TYPE" default:"BASIC"`
}

const (
	EngineTypeLocal   = "local"
	EngineTypeCamunda = "camunda"
)

type EngineEnv struct {
	Type     string        `envconfig:"ENGINE_TYPE" default:"local"`
	URL      string        `envconfig:"ENGINE_URL" default:"http://localhost:8080/engine-rest"`
	User     string        `envconfig:"ENGINE_USER"`
	Password string        `envconfig:"ENGINE_PASSWORD"`
	Timeout  time.Duration `envconfig:"ENGINE_TIMEOUT" default:"10s"`
}

type StorageEnv struct {
	Type    string `envconfig:"STORAGE_TYPE" default:"local"`
	BaseDir string `envconfig:"STORAGE_BASE_DIR" default:".curo/data"`
	// S3 settings (used when Type == "s3")
	S3Bucket string `envconfig:"S3_BUCKET"`
	S3Prefix string `envconfig:"S3_PREFIX" default:"curo/"`
	S3Region string `envconfig:"S3_REGION" default:"eu-central-1"`
}

type PermissionEnv struct {
	PolicyFile string `envconfig:"PERMISSION_POLICY_FILE" default:".curo/permissions.yaml"`
}

type DemoEnv struct {
	Seed bool `envconfig:"DEMO_SEED" default:"false"`
}

type Env struct {
	BaseEnv
	AuthEnv
	EngineEnv
	StorageEnv
	PermissionEnv
	DemoEnv
}

const namespace = "CURO"

func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process(namespace, &env); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	if err := env.validate(); err != nil {
		return nil, err
	}
	return &env, nil
}

func (e *Env) validate() error {
	switch e.EngineEnv.Type {
	case EngineTypeLocal, EngineTypeCamunda:
	default:
		return fmt.Errorf("unsupported engine type %q", e.EngineEnv.Type)
	}
	if e.StorageEnv.Type == "s3" && e.S3Bucket == "" {
		return fmt.Errorf("%s_S3_BUCKET is required for s3 storage", namespace)
	}
	if !strings.HasPrefix(e.BasePath, "/") {
		return fmt.Errorf("base path %q must start with /", e.BasePath)
	}
	e.BasePath = strings.TrimSuffix(e.BasePath, "/")
	if e.BasePath == "" {
		return fmt.Errorf("base path must not be /")
	}
	e.LoginType = strings.ToUpper(e.LoginType)
	return nil
}

func (e *BaseEnv) SlogLevel() slog.Level {
	if e == nil {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(e.LogLevel)); err != nil {
		return slog.LevelDebug
	}
	return level
}
