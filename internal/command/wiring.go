// Where: internal/command/wiring.go
// What: Per-invocation object graph for command handlers.
// Why: Build the resolver, composer and orchestrator once the project root is known.
package command

import (
	"fmt"
	"log/slog"

	"github.com/anibalxyz/reconciler/cli/internal/domain/registry"
	"github.com/anibalxyz/reconciler/cli/internal/infra/compose"
	"github.com/anibalxyz/reconciler/cli/internal/infra/config"
	"github.com/anibalxyz/reconciler/cli/internal/infra/envfile"
	"github.com/anibalxyz/reconciler/cli/internal/infra/runtime"
	"github.com/anibalxyz/reconciler/cli/internal/infra/ui"
	envusecase "github.com/anibalxyz/reconciler/cli/internal/usecase/environment"
	"github.com/anibalxyz/reconciler/cli/internal/usecase/workflow"
)

type application struct {
	deps         Dependencies
	console      *ui.Console
	registry     *registry.Registry
	resolver     envusecase.Resolver
	envFiles     envfile.Setup
	orchestrator workflow.Orchestrator
	inspector    workflow.Inspector
}

func newApplication(deps Dependencies, settings config.Settings, console *ui.Console, logger *slog.Logger) (*application, error) {
	wd, err := deps.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	root, err := config.ResolveProjectRoot(deps.Fs, settings, wd)
	if err != nil {
		return nil, err
	}
	reg, err := registry.Default()
	if err != nil {
		return nil, err
	}
	logger = logger.With("project_root", root)

	runner := deps.Runner
	if runner == nil {
		runner = runtime.ExecRunner{In: deps.In, Out: deps.Out, ErrOut: deps.ErrOut, Logger: logger}
	}

	resolver := envusecase.Resolver{
		Store:    config.NewStore(deps.Fs, settings.ConfigPath(root)),
		Reporter: console,
	}
	composer := compose.Composer{
		Registry: reg,
		Root:     root,
		Runtime:  settings.Runtime,
		Fs:       deps.Fs,
	}
	envFiles := envfile.Setup{
		Fs:          deps.Fs,
		Root:        root,
		Prompter:    deps.Prompter,
		Interactive: deps.Interactive,
		Editor:      settings.Editor,
		Runner:      runner,
		UI:          console,
	}

	return &application{
		deps:     deps,
		console:  console,
		registry: reg,
		resolver: resolver,
		envFiles: envFiles,
		orchestrator: workflow.Orchestrator{
			Registry: reg,
			Composer: composer,
			Runner:   runner,
			Env:      resolver,
			EnvFiles: envFiles,
			UI:       console,
			Logger:   logger,
		},
		inspector: workflow.Inspector{
			Registry: reg,
			Composer: composer,
			Env:      resolver,
			UI:       console,
		},
	}, nil
}
