package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	server "github.com/curo-bpm/curo/internal"
	"github.com/curo-bpm/curo/internal/auth"
	"github.com/curo-bpm/curo/internal/camunda"
	"github.com/curo-bpm/curo/internal/config"
	"github.com/curo-bpm/curo/internal/demo"
	"github.com/curo-bpm/curo/internal/permission"
	permissionrepo "github.com/curo-bpm/curo/internal/permission/repositoryimpl"
	"github.com/curo-bpm/curo/internal/process"
	processrepo "github.com/curo-bpm/curo/internal/process/repositoryimpl"
	"github.com/curo-bpm/curo/internal/task"
	taskrepo "github.com/curo-bpm/curo/internal/task/repositoryimpl"
	"github.com/curo-bpm/curo/internal/user"
	userrepo "github.com/curo-bpm/curo/internal/user/repositoryimpl"
	"github.com/curo-bpm/curo/pkg/clog"
	"github.com/curo-bpm/curo/pkg/panicerr"
	"github.com/curo-bpm/curo/pkg/storage"
	"github.com/curo-bpm/curo/pkg/tracing"
)

var version = "dev"

type repositories struct {
	tasks       task.Repository
	users       user.Repository
	permissions permission.Repository
	processes   process.Repository
}

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		slog.Error("failed to load env", "error", err)
		os.Exit(1)
	}

	// Setup logger
	level := env.SlogLevel()
	var handler slog.Handler
	if env.Env == "local" {
		handler = clog.NewTextHandler(os.Stderr, clog.WithLevel(level))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(clog.NewAttributesHandler(handler)))

	if err := run(env); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(env *config.Env) error {
	shutdownTracing, err := tracing.Init("curo-server", version, env.TraceOutput)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			slog.Error("failed to flush traces", "error", err)
		}
	}()

	repos, err := setupRepositories(env)
	if err != nil {
		return err
	}

	policy, err := permission.LoadPolicy(env.PolicyFile)
	if err != nil {
		return err
	}

	srv := server.NewServer(
		env,
		auth.NewAuthenticator(repos.users),
		auth.NewServer(env.LoginType),
		task.NewServer(repos.tasks),
		user.NewServer(repos.users),
		permission.NewServer(repos.permissions, policy),
		process.NewServer(repos.processes),
	)

	// Graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	group := panicerr.NewGroup()
	group.Go(ctx, func(ctx context.Context) error {
		if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	group.Go(ctx, policy.Watch)

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-group.Errors():
		cancel()
	}
	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	group.Wait()
	return runErr
}

func setupRepositories(env *config.Env) (*repositories, error) {
	if env.EngineEnv.Type == config.EngineTypeCamunda {
		client := camunda.New(env.EngineEnv.URL,
			camunda.WithBasicAuth(env.EngineEnv.User, env.EngineEnv.Password),
			camunda.WithTimeout(env.Timeout),
		)
		slog.Info("using camunda engine", "url", env.EngineEnv.URL)
		return &repositories{
			tasks:       taskrepo.NewCamundaRepository(client),
			users:       userrepo.NewCamundaRepository(client),
			permissions: permissionrepo.NewCamundaRepository(client),
			processes:   processrepo.NewCamundaRepository(client),
		}, nil
	}

	store, err := setupStorage(env)
	if err != nil {
		return nil, err
	}
	tasks := taskrepo.NewYAMLRepository(store)
	users := userrepo.NewYAMLRepository(store)
	grants := permissionrepo.NewYAMLRepository(store)
	processes := processrepo.NewYAMLRepository(store, tasks)

	if env.Seed {
		err := demo.Seed(context.Background(), demo.Stores{
			Users:        users,
			Grants:       grants,
			Definitions:  processes,
			Tasks:        tasks,
			HashPassword: userrepo.HashPassword,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}
	slog.Info("using local engine", "storage", env.StorageEnv.Type)
	return &repositories{
		tasks:       tasks,
		users:       users,
		permissions: grants,
		processes:   processes,
	}, nil
}

func setupStorage(env *config.Env) (storage.Storage, error) {
	switch env.StorageEnv.Type {
	case "s3":
		store, err := storage.NewS3Storage(context.Background(), env.S3Bucket, env.S3Prefix, env.S3Region)
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 storage: %w", err)
		}
		return store, nil
	default:
		store, err := storage.NewLocalStorage(env.BaseDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create local storage: %w", err)
		}
		return store, nil
	}
}
