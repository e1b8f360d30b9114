// Where: internal/command/complete.go
// What: Hidden completion endpoint used by shell completion scripts.
// Why: Offer only the services valid for the active environment without side effects.
package command

import (
	"fmt"

	"github.com/anibalxyz/reconciler/cli/internal/domain/environment"
	"github.com/anibalxyz/reconciler/cli/internal/domain/registry"
	"github.com/anibalxyz/reconciler/cli/internal/infra/config"
	envusecase "github.com/anibalxyz/reconciler/cli/internal/usecase/environment"
)

var completionClasses = map[string]registry.OpClass{
	"lifecycle": registry.ClassLifecycle,
	"buildable": registry.ClassBuildable,
	"registry":  registry.ClassRegistry,
}

// runComplete prints one candidate per line. Failures produce no output so a
// broken project never pollutes the shell.
func runComplete(deps Dependencies, settings config.Settings, topic string) int {
	if topic == "env" {
		for _, name := range environment.Names() {
			fmt.Fprintln(deps.Out, name)
		}
		return 0
	}
	class, ok := completionClasses[topic]
	if !ok {
		return 1
	}
	reg, err := registry.Default()
	if err != nil {
		return 1
	}
	env := completionEnv(deps, settings)
	// Push and pull are rejected outside production; offer nothing there.
	if class == registry.ClassRegistry && env != environment.Production {
		return 0
	}
	for _, choice := range reg.Choices(class, env) {
		fmt.Fprintln(deps.Out, choice)
	}
	return 0
}

// completionEnv reads the active environment without the self-heal write.
func completionEnv(deps Dependencies, settings config.Settings) environment.Environment {
	wd, err := deps.Getwd()
	if err != nil {
		return environment.Default
	}
	root, err := config.ResolveProjectRoot(deps.Fs, settings, wd)
	if err != nil {
		return environment.Default
	}
	value, found, err := config.NewStore(deps.Fs, settings.ConfigPath(root)).Get(envusecase.Key)
	if err != nil || !found {
		return environment.Default
	}
	env, err := environment.Parse(value)
	if err != nil {
		return environment.Default
	}
	return env
}
