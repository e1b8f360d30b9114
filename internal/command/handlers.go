// Where: internal/command/handlers.go
// What: Command handlers for the kong command tree.
// Why: Translate parsed flags into workflow calls; rendering stays in the use cases.
package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/anibalxyz/reconciler/cli/internal/domain/environment"
	"github.com/anibalxyz/reconciler/cli/internal/infra/compose"
	"github.com/anibalxyz/reconciler/cli/internal/infra/interaction"
	"github.com/anibalxyz/reconciler/cli/internal/infra/ui"
	"github.com/anibalxyz/reconciler/cli/internal/usecase/workflow"
	"github.com/anibalxyz/reconciler/cli/internal/version"
)

var errEnvNameRequired = fmt.Errorf("environment name is required (available: development, production, test): %w", interaction.ErrNotInteractive)

type commandHandler func(context.Context, CLI, *application) error

func commandHandlers() map[string]commandHandler {
	return map[string]commandHandler{
		"get env": runGetEnv,
		"set env": runSetEnv,

		"compose up":       runLifecycle(compose.VerbUp, func(c CLI) []string { return c.Compose.Up.Services }),
		"compose down":     runLifecycle(compose.VerbDown, func(c CLI) []string { return c.Compose.Down.Services }),
		"compose start":    runLifecycle(compose.VerbStart, func(c CLI) []string { return c.Compose.Start.Services }),
		"compose stop":     runLifecycle(compose.VerbStop, func(c CLI) []string { return c.Compose.Stop.Services }),
		"compose restart":  runLifecycle(compose.VerbRestart, func(c CLI) []string { return c.Compose.Restart.Services }),
		"compose logs":     runLifecycle(compose.VerbLogs, func(c CLI) []string { return c.Compose.Logs.Services }),
		"compose rebuild":  runRebuild,
		"compose test":     runTest,
		"compose services": runServices,
		"compose status":   runStatus,

		"image build": runImageBuild,
		"image push":  runImageTransfer(compose.ImagePush, func(c CLI) []string { return c.Image.Push.Services }),
		"image pull":  runImageTransfer(compose.ImagePull, func(c CLI) []string { return c.Image.Pull.Services }),

		"resource list":  runResourceList,
		"resource prune": runResourcePrune,
	}
}

// runVersion prints the version information of the CLI.
func runVersion(console *ui.Console) int {
	console.Info(version.GetVersion())
	return 0
}

func runGetEnv(_ context.Context, _ CLI, app *application) error {
	env, err := app.resolver.Current()
	if err != nil {
		return err
	}
	app.console.Header("▶", fmt.Sprintf("Current environment: '%s'", env))
	return nil
}

func runSetEnv(ctx context.Context, cli CLI, app *application) error {
	name := strings.TrimSpace(cli.Set.Env.Name)
	if name == "" {
		if !app.deps.Interactive() {
			return errEnvNameRequired
		}
		selected, err := app.deps.Prompter.Select("Select environment", environment.Names())
		if err != nil {
			return err
		}
		name = selected
	}

	result, err := app.resolver.Set(name)
	if err != nil {
		return err
	}
	app.console.Info(result.Message())

	if !cli.Set.Env.Init {
		return nil
	}
	env, err := environment.Parse(result.Value)
	if err != nil {
		return err
	}
	if err := app.envFiles.Ensure(ctx, app.registry.EnvFiles(env)); err != nil {
		return err
	}
	app.console.Success(fmt.Sprintf("Env files for '%s' are ready.", env))
	return nil
}

func runLifecycle(verb compose.Verb, services func(CLI) []string) commandHandler {
	return func(ctx context.Context, cli CLI, app *application) error {
		return app.orchestrator.Lifecycle(ctx, verb, services(cli))
	}
}

func runRebuild(ctx context.Context, cli CLI, app *application) error {
	return app.orchestrator.Rebuild(ctx, cli.Compose.Rebuild.Services, workflow.RebuildOptions{
		NoCache: cli.Compose.Rebuild.NoCache,
	})
}

func runTest(ctx context.Context, cli CLI, app *application) error {
	return app.orchestrator.TestRun(ctx, workflow.TestRunOptions{NoCache: cli.Compose.Test.NoCache})
}

func runServices(ctx context.Context, _ CLI, app *application) error {
	_, err := app.inspector.Services(ctx)
	return err
}

func runStatus(ctx context.Context, _ CLI, app *application) error {
	client, err := app.deps.Docker()
	if err != nil {
		return err
	}
	inspector := app.inspector
	inspector.Docker = client
	_, err = inspector.Status(ctx)
	return err
}

func runImageBuild(ctx context.Context, cli CLI, app *application) error {
	return app.orchestrator.Image(ctx, compose.ImageBuild, cli.Image.Build.Services, workflow.ImageOptions{
		NoCache: !cli.Image.Build.Cache,
	})
}

func runImageTransfer(verb compose.ImageVerb, services func(CLI) []string) commandHandler {
	return func(ctx context.Context, cli CLI, app *application) error {
		return app.orchestrator.Image(ctx, verb, services(cli), workflow.ImageOptions{})
	}
}

func runResourceList(ctx context.Context, cli CLI, app *application) error {
	kind, err := compose.ParseResourceKind(cli.Resource.List.Kind)
	if err != nil {
		return err
	}
	return app.orchestrator.Resource(ctx, compose.ResourceList, kind)
}

func runResourcePrune(ctx context.Context, cli CLI, app *application) error {
	kind, err := compose.ParseResourceKind(cli.Resource.Prune.Kind)
	if err != nil {
		return err
	}
	return app.orchestrator.Resource(ctx, compose.ResourcePrune, kind)
}
