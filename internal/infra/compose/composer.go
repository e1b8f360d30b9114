// Where: internal/infra/compose/composer.go
// What: Deterministic argv construction for lifecycle, image and resource commands.
// Why: Every environment must get its own compose files, env files, project name and image tags.
package compose

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/anibalxyz/reconciler/cli/internal/domain/environment"
	"github.com/anibalxyz/reconciler/cli/internal/domain/registry"
	"github.com/anibalxyz/reconciler/cli/internal/meta"
	"github.com/spf13/afero"
)

// Verb is a compose lifecycle verb.
type Verb string

const (
	VerbUp      Verb = "up"
	VerbDown    Verb = "down"
	VerbStart   Verb = "start"
	VerbStop    Verb = "stop"
	VerbRestart Verb = "restart"
	VerbLogs    Verb = "logs"
)

// ImageVerb is a per-service image operation.
type ImageVerb string

const (
	ImageBuild ImageVerb = "build"
	ImagePush  ImageVerb = "push"
	ImagePull  ImageVerb = "pull"
)

// LifecycleOptions tunes a lifecycle command.
type LifecycleOptions struct {
	// ExitCodeFrom runs "up" attached and propagates this service's exit code.
	ExitCodeFrom string
}

// Composer builds runtime commands for one project root.
type Composer struct {
	Registry *registry.Registry
	Root     string
	// Runtime is the container runtime binary; defaults to docker.
	Runtime string
	// Fs is probed for environment-specific Dockerfiles; defaults to the OS filesystem.
	Fs afero.Fs
}

func (c Composer) runtime() string {
	if strings.TrimSpace(c.Runtime) == "" {
		return meta.RuntimeBinary
	}
	return c.Runtime
}

func (c Composer) fs() afero.Fs {
	if c.Fs == nil {
		return afero.NewOsFs()
	}
	return c.Fs
}

func (c Composer) check() error {
	if c.Registry == nil {
		return errRegistryNil
	}
	if strings.TrimSpace(c.Root) == "" {
		return errRootDirRequired
	}
	return nil
}

// ComposeFiles returns the base file followed by the environment overlay.
func ComposeFiles(env environment.Environment) []string {
	return []string{meta.ComposeBaseFile, fmt.Sprintf("compose.%s.yaml", env)}
}

// EnvOverlay is the environment contract handed to every env-scoped command.
func EnvOverlay(env environment.Environment) []string {
	return []string{meta.EnvVarAppEnv + "=" + env.String()}
}

// ProjectArgs returns the global compose arguments for env:
// compose files, env files and the project name.
func (c Composer) ProjectArgs(env environment.Environment) ([]string, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	project, err := c.Registry.ProjectName(env)
	if err != nil {
		return nil, err
	}

	args := []string{"compose"}
	for _, file := range ComposeFiles(env) {
		args = append(args, "-f", file)
	}
	for _, file := range c.Registry.EnvFiles(env) {
		args = append(args, "--env-file", file)
	}
	args = append(args, "--project-name", project)
	return args, nil
}

// Lifecycle composes a compose verb over a validated lifecycle selection.
// The service list is omitted when the selection covers the whole whitelist.
func (c Composer) Lifecycle(verb Verb, sel registry.Selection, opts LifecycleOptions) (Command, error) {
	flags, err := verbFlags(verb, opts)
	if err != nil {
		return Command{}, err
	}
	args, err := c.ProjectArgs(sel.Env)
	if err != nil {
		return Command{}, err
	}
	args = append(args, string(verb))
	args = append(args, flags...)
	if !sel.All {
		if len(sel.Services) == 0 {
			return Command{}, errEmptySelection
		}
		args = append(args, sel.Names()...)
	}
	return Command{
		Name: c.runtime(),
		Args: args,
		Env:  EnvOverlay(sel.Env),
		Dir:  c.Root,
	}, nil
}

func verbFlags(verb Verb, opts LifecycleOptions) ([]string, error) {
	switch verb {
	case VerbUp:
		if target := strings.TrimSpace(opts.ExitCodeFrom); target != "" {
			return []string{"--exit-code-from", target}, nil
		}
		return []string{"--detach"}, nil
	case VerbDown:
		return []string{"--remove-orphans"}, nil
	case VerbLogs:
		return []string{"--follow", "--tail=50"}, nil
	case VerbStart, VerbStop, VerbRestart:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnsupportedVerb, verb)
	}
}

// Build composes an image build for svc. Dockerfile.<env> is used when it
// exists next to the service, the plain Dockerfile otherwise.
func (c Composer) Build(env environment.Environment, svc registry.Service, noCache bool) (Command, error) {
	if err := c.check(); err != nil {
		return Command{}, err
	}
	tag, err := c.Registry.ImageTag(env, svc)
	if err != nil {
		return Command{}, err
	}

	args := []string{"build"}
	if noCache {
		args = append(args, "--no-cache")
	}
	args = append(args, "-f", c.dockerfile(env, svc), "-t", tag, svc.Path)
	return Command{
		Name: c.runtime(),
		Args: args,
		Env:  EnvOverlay(env),
		Dir:  c.Root,
	}, nil
}

func (c Composer) dockerfile(env environment.Environment, svc registry.Service) string {
	specific := filepath.Join(svc.Path, "Dockerfile."+env.String())
	if ok, err := afero.Exists(c.fs(), filepath.Join(c.Root, specific)); err == nil && ok {
		return specific
	}
	return filepath.Join(svc.Path, "Dockerfile")
}

// Transfer composes a registry push or pull of svc's image for env.
func (c Composer) Transfer(verb ImageVerb, env environment.Environment, svc registry.Service) (Command, error) {
	if verb != ImagePush && verb != ImagePull {
		return Command{}, fmt.Errorf("%w: %q", errUnsupportedVerb, verb)
	}
	if err := c.check(); err != nil {
		return Command{}, err
	}
	tag, err := c.Registry.ImageTag(env, svc)
	if err != nil {
		return Command{}, err
	}
	return Command{
		Name: c.runtime(),
		Args: []string{string(verb), tag},
		Env:  EnvOverlay(env),
		Dir:  c.Root,
	}, nil
}
