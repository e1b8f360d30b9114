// Where: internal/usecase/workflow/workflow.go
// What: Orchestrator wiring and shared helpers.
// Why: Keep validation, composition and execution order in one place for every command.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anibalxyz/reconciler/cli/internal/domain/environment"
	"github.com/anibalxyz/reconciler/cli/internal/domain/registry"
	"github.com/anibalxyz/reconciler/cli/internal/infra/compose"
	"github.com/anibalxyz/reconciler/cli/internal/infra/config"
	"github.com/anibalxyz/reconciler/cli/internal/infra/ui"
	"github.com/google/uuid"
)

var (
	errRegistryNotConfigured = errors.New("service registry is not configured")
	errRunnerNotConfigured   = errors.New("command runner is not configured")
	errEnvNotConfigured      = errors.New("environment resolver is not configured")
)

// EnvResolver reads and switches the active environment.
type EnvResolver interface {
	Current() (environment.Environment, error)
	Set(name string) (config.SetResult, error)
}

// EnvFileEnsurer prepares env files before the runtime reads them.
type EnvFileEnsurer interface {
	Ensure(ctx context.Context, files []string) error
}

// Orchestrator drives validation, composition and execution of runtime commands.
type Orchestrator struct {
	Registry *registry.Registry
	Composer compose.Composer
	Runner   compose.CommandRunner
	Env      EnvResolver
	// EnvFiles is optional; when nil env files are assumed present.
	EnvFiles EnvFileEnsurer
	UI       ui.UserInterface
	Logger   *slog.Logger
}

func (o Orchestrator) check() error {
	if o.Registry == nil {
		return errRegistryNotConfigured
	}
	if o.Runner == nil {
		return errRunnerNotConfigured
	}
	if o.Env == nil {
		return errEnvNotConfigured
	}
	return nil
}

// begin resolves the active environment and returns a logger tagged with a
// run id for the workflow.
func (o Orchestrator) begin(name string) (environment.Environment, *slog.Logger, error) {
	if err := o.check(); err != nil {
		return "", nil, err
	}
	env, err := o.Env.Current()
	if err != nil {
		return "", nil, err
	}
	logger := o.logger().With("workflow", name, "run_id", uuid.NewString(), "env", env.String())
	logger.Debug("workflow started")
	return env, logger, nil
}

func (o Orchestrator) ensureEnvFiles(ctx context.Context, env environment.Environment) error {
	if o.EnvFiles == nil {
		return nil
	}
	return o.EnvFiles.Ensure(ctx, o.Registry.EnvFiles(env))
}

func (o Orchestrator) runAll(ctx context.Context, logger *slog.Logger, cmds []compose.Command) error {
	for _, cmd := range cmds {
		logger.Debug("dispatch", "cmd", cmd.String())
		if err := o.Runner.Run(ctx, cmd); err != nil {
			return err
		}
	}
	return nil
}

// lifecycleSubset keeps the services of sel that take part in env's lifecycle.
// The second result lists the ones that do not.
func (o Orchestrator) lifecycleSubset(sel registry.Selection) (registry.Selection, []registry.Service) {
	subset := registry.Selection{Class: registry.ClassLifecycle, Env: sel.Env}
	var skipped []registry.Service
	for _, svc := range sel.Services {
		if o.Registry.IsEligible(svc, registry.ClassLifecycle, sel.Env) {
			subset.Services = append(subset.Services, svc)
			continue
		}
		skipped = append(skipped, svc)
	}
	return subset, skipped
}

// mergeCleanup folds a cleanup failure into the workflow result. The first
// failure wins; later ones are only reported.
func (o Orchestrator) mergeCleanup(err *error, step string, cleanupErr error) {
	if cleanupErr == nil {
		return
	}
	if *err == nil {
		*err = fmt.Errorf("%s: %w", step, cleanupErr)
		return
	}
	o.warn(fmt.Sprintf("%s failed: %v", step, cleanupErr))
}

func (o Orchestrator) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o Orchestrator) info(msg string) {
	if o.UI != nil && msg != "" {
		o.UI.Info(msg)
	}
}

func (o Orchestrator) warn(msg string) {
	if o.UI != nil {
		o.UI.Warn(msg)
	}
}

func (o Orchestrator) success(msg string) {
	if o.UI != nil {
		o.UI.Success(msg)
	}
}
