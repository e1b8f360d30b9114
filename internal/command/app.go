// Where: internal/command/app.go
// What: CLI entrypoint logic.
// Why: Provide a testable command dispatcher.
package command

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/anibalxyz/reconciler/cli/internal/infra/compose"
	"github.com/anibalxyz/reconciler/cli/internal/infra/config"
	"github.com/anibalxyz/reconciler/cli/internal/infra/interaction"
	"github.com/anibalxyz/reconciler/cli/internal/infra/runtime"
	"github.com/anibalxyz/reconciler/cli/internal/infra/ui"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// Dependencies holds all injected dependencies required for CLI command execution.
// Nil fields fall back to the real process environment.
type Dependencies struct {
	Out         io.Writer
	ErrOut      io.Writer
	In          io.Reader
	Fs          afero.Fs
	Getwd       func() (string, error)
	Prompter    interaction.Prompter
	Interactive func() bool
	Settings    func() (config.Settings, error)
	CheckBinary func(string) error
	// Runner executes composed commands; defaults to an ExecRunner on the CLI streams.
	Runner compose.CommandRunner
	Docker DockerClientFactory
}

// DockerClientFactory opens a Docker SDK client on demand.
type DockerClientFactory func() (compose.DockerClient, error)

// CLI defines the command-line interface structure parsed by Kong.
// It contains global flags and all subcommand definitions.
type CLI struct {
	Verbose bool   `short:"v" help:"Enable debug logging"`
	NoColor bool   `name:"no-color" help:"Disable colored output"`
	EnvFile string `name:"env-file" help:"Path to .env file"`

	Get      GetCmd      `cmd:"" help:"Show configuration values"`
	Set      SetCmd      `cmd:"" help:"Change configuration values"`
	Compose  ComposeCmd  `cmd:"" help:"Run compose workflows in the active environment"`
	Image    ImageCmd    `cmd:"" help:"Build, push and pull service images"`
	Resource ResourceCmd `cmd:"" help:"List or prune container runtime resources"`
	Version  VersionCmd  `cmd:"" help:"Show version information"`
	Complete CompleteCmd `cmd:"" name:"__complete" hidden:""`
}

type (
	GetCmd struct {
		Env GetEnvCmd `cmd:"" help:"Print the active environment"`
	}

	GetEnvCmd struct{}

	SetCmd struct {
		Env SetEnvCmd `cmd:"" help:"Switch the active environment"`
	}

	SetEnvCmd struct {
		Name string `arg:"" optional:"" help:"Environment name (development, production, test)"`
		Init bool   `help:"Create missing env files for the environment"`
	}

	ComposeCmd struct {
		Up       ServicesArg        `cmd:"" help:"Create and start services"`
		Down     ServicesArg        `cmd:"" help:"Stop and remove services"`
		Start    ServicesArg        `cmd:"" help:"Start existing services"`
		Stop     ServicesArg        `cmd:"" help:"Stop running services"`
		Restart  ServicesArg        `cmd:"" help:"Restart services"`
		Logs     ServicesArg        `cmd:"" help:"Follow service logs"`
		Rebuild  RebuildCmd         `cmd:"" help:"Tear down, rebuild and bring services back up"`
		Test     TestCmd            `cmd:"" help:"Run the test stack and report the target's exit code"`
		Services ComposeServicesCmd `cmd:"" help:"List services declared by the compose files"`
		Status   ComposeStatusCmd   `cmd:"" help:"Show containers of the active project"`
	}

	ServicesArg struct {
		Services []string `arg:"" optional:"" help:"Services to target (default: every eligible service, or 'all')"`
	}

	RebuildCmd struct {
		Services []string `arg:"" optional:"" help:"Services to rebuild"`
		NoCache  bool     `name:"no-cache" help:"Do not use cache when building images"`
	}

	TestCmd struct {
		NoCache bool `name:"no-cache" help:"Do not use cache when building images"`
	}

	ComposeServicesCmd struct{}

	ComposeStatusCmd struct{}

	ImageCmd struct {
		Build ImageBuildCmd `cmd:"" help:"Build service images"`
		Push  ServicesArg   `cmd:"" help:"Push images to the registry (production only)"`
		Pull  ServicesArg   `cmd:"" help:"Pull images from the registry (production only)"`
	}

	ImageBuildCmd struct {
		Services []string `arg:"" optional:"" help:"Services to build"`
		Cache    bool     `default:"true" negatable:"" help:"Use the build cache"`
	}

	ResourceCmd struct {
		List  ResourceListCmd  `cmd:"" help:"List resources"`
		Prune ResourcePruneCmd `cmd:"" help:"Remove unused resources"`
	}

	ResourceListCmd struct {
		Kind string `arg:"" optional:"" default:"all" help:"images, containers, volumes, networks or all"`
	}

	ResourcePruneCmd struct {
		Kind string `arg:"" help:"images, containers, volumes, networks or all"`
	}

	VersionCmd struct{}

	CompleteCmd struct {
		Topic string `arg:"" enum:"env,lifecycle,buildable,registry"`
	}
)

// Run is the main entry point for CLI command execution.
// It parses the command-line arguments, identifies the requested command,
// and dispatches to the appropriate handler. Returns the process exit code.
func Run(ctx context.Context, args []string, deps Dependencies) int {
	deps = deps.withDefaults()

	if len(args) == 0 {
		return runNoArgs(deps.Out)
	}

	cli := CLI{}
	parser, err := kong.New(
		&cli,
		kong.Name(cliName()),
		kong.Description("Environment-scoped docker compose workflows."),
		kong.Writers(deps.Out, deps.ErrOut),
	)
	if err != nil {
		return exitWithError(errorConsole(deps, false), err)
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return handleParseError(err, deps)
	}

	console := ui.NewWithOptions(deps.Out, true, !cli.NoColor)
	errConsole := errorConsole(deps, cli.NoColor)

	// Load environment file if provided or if .env exists in current directory
	if cli.EnvFile != "" {
		if err := godotenv.Load(cli.EnvFile); err != nil {
			console.Warn(fmt.Sprintf("Warning: failed to load env file %s: %v", cli.EnvFile, err))
		}
	} else if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			console.Warn(fmt.Sprintf("Warning: failed to load .env: %v", err))
		}
	}

	logger := newLogger(deps.ErrOut, cli.Verbose)
	command := commandPath(kctx.Command())
	logger.Debug("dispatch", "command", command)

	if command == "version" {
		return runVersion(console)
	}

	settings, err := deps.Settings()
	if err != nil {
		return exitWithError(errConsole, err)
	}

	if command == "__complete" {
		return runComplete(deps, settings, cli.Complete.Topic)
	}

	if err := deps.CheckBinary(settings.Runtime); err != nil {
		return exitWithError(errConsole, err)
	}

	app, err := newApplication(deps, settings, console, logger)
	if err != nil {
		return exitWithError(errConsole, err)
	}

	handler, ok := commandHandlers()[command]
	if !ok {
		console.Warn("unknown command")
		return 1
	}
	if err := handler(ctx, cli, app); err != nil {
		return exitWithError(errConsole, err)
	}
	return 0
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Out == nil {
		d.Out = os.Stdout
	}
	if d.ErrOut == nil {
		d.ErrOut = os.Stderr
	}
	if d.In == nil {
		d.In = os.Stdin
	}
	if d.Fs == nil {
		d.Fs = afero.NewOsFs()
	}
	if d.Getwd == nil {
		d.Getwd = os.Getwd
	}
	if d.Prompter == nil {
		d.Prompter = interaction.HuhPrompter{}
	}
	if d.Interactive == nil {
		d.Interactive = interaction.Interactive
	}
	if d.Settings == nil {
		d.Settings = config.LoadSettings
	}
	if d.CheckBinary == nil {
		d.CheckBinary = runtime.CheckBinary
	}
	if d.Docker == nil {
		d.Docker = compose.NewDockerClient
	}
	return d
}

func newLogger(out io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
}

// commandPath drops the "<arg>" placeholders kong appends for positional
// arguments, leaving only command names.
func commandPath(command string) string {
	fields := strings.Fields(command)
	names := fields[:0]
	for _, field := range fields {
		if strings.HasPrefix(field, "<") {
			continue
		}
		names = append(names, field)
	}
	return strings.Join(names, " ")
}

// runNoArgs prints a short usage summary when the CLI is invoked without arguments.
func runNoArgs(out io.Writer) int {
	console := ui.New(out)
	cmd := cliName()
	console.Info("Usage:")
	console.Info(fmt.Sprintf("  %s get env", cmd))
	console.Info(fmt.Sprintf("  %s set env [development|production|test] [--init]", cmd))
	console.Info(fmt.Sprintf("  %s compose <up|down|start|stop|restart|logs|rebuild|test|services|status> [services...]", cmd))
	console.Info(fmt.Sprintf("  %s image <build|push|pull> [services...]", cmd))
	console.Info(fmt.Sprintf("  %s resource <list|prune> [images|containers|volumes|networks|all]", cmd))
	console.Info("")
	console.Info(fmt.Sprintf("Try: %s --help", cmd))
	return 0
}

// handleParseError provides user-friendly error messages for parse failures.
func handleParseError(err error, deps Dependencies) int {
	console := errorConsole(deps, false)
	msg := err.Error()
	cmd := cliName()
	switch {
	case strings.Contains(msg, "expected \"<kind>\""):
		console.Warn("`resource prune` expects a resource kind.")
		console.Info(fmt.Sprintf("Example: %s resource prune images", cmd))
		return 1
	case strings.Contains(msg, "--env-file") && strings.Contains(msg, "expected string value"):
		console.Warn("`--env-file` expects a value. Provide a file path.")
		console.Info(fmt.Sprintf("Example: %s --env-file .env.local compose up", cmd))
		return 1
	}
	return exitWithError(console, err)
}
