// Where: internal/usecase/workflow/inspect.go
// What: Read-only reports on the compose definition and running containers.
// Why: Show how the registry whitelists line up with what compose declares and runs.
package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/anibalxyz/reconciler/cli/internal/domain/registry"
	"github.com/anibalxyz/reconciler/cli/internal/infra/compose"
	"github.com/anibalxyz/reconciler/cli/internal/infra/ui"
)

var errDockerNotConfigured = errors.New("docker client is not configured")

// Inspector renders reports for the active environment.
type Inspector struct {
	Registry *registry.Registry
	Composer compose.Composer
	Env      EnvResolver
	Docker   compose.DockerClient
	UI       ui.UserInterface
}

// ServiceEntry is one service declared by the compose definition.
type ServiceEntry struct {
	Name      string
	Lifecycle bool
}

// Services lists the services of the merged compose definition, marking the
// lifecycle-eligible ones, and warns about whitelisted services compose lacks.
func (i Inspector) Services(ctx context.Context) ([]ServiceEntry, error) {
	if i.Registry == nil {
		return nil, errRegistryNotConfigured
	}
	if i.Env == nil {
		return nil, errEnvNotConfigured
	}
	env, err := i.Env.Current()
	if err != nil {
		return nil, err
	}
	def, err := i.Composer.LoadDefinition(ctx, env)
	if err != nil {
		return nil, err
	}
	eligible, err := i.Registry.Eligible(registry.ClassLifecycle, env)
	if err != nil {
		return nil, err
	}
	whitelisted := map[string]bool{}
	for _, name := range registry.Names(eligible) {
		whitelisted[name] = true
	}

	entries := make([]ServiceEntry, 0, len(def.Services))
	rows := make([]ui.KeyValue, 0, len(def.Services))
	for _, name := range def.Services {
		entry := ServiceEntry{Name: name, Lifecycle: whitelisted[name]}
		entries = append(entries, entry)
		state := "not managed"
		if entry.Lifecycle {
			state = "lifecycle"
		}
		rows = append(rows, ui.KeyValue{Key: name, Value: state})
	}
	if i.UI != nil {
		i.UI.Block("📦", fmt.Sprintf("Services in %s (%s)", def.Project, env), rows)
		for _, name := range registry.Names(eligible) {
			if !def.HasService(name) {
				i.UI.Warn(fmt.Sprintf("'%s' is whitelisted for %s but not declared in %v", name, env, def.Files))
			}
		}
	}
	return entries, nil
}

// Status lists the containers of the active environment's compose project.
func (i Inspector) Status(ctx context.Context) ([]compose.ContainerInfo, error) {
	if i.Registry == nil {
		return nil, errRegistryNotConfigured
	}
	if i.Env == nil {
		return nil, errEnvNotConfigured
	}
	if i.Docker == nil {
		return nil, errDockerNotConfigured
	}
	env, err := i.Env.Current()
	if err != nil {
		return nil, err
	}
	project, err := i.Registry.ProjectName(env)
	if err != nil {
		return nil, err
	}
	containers, err := compose.ListContainersByProject(ctx, i.Docker, project)
	if err != nil {
		return nil, err
	}
	if i.UI == nil {
		return containers, nil
	}
	if len(containers) == 0 {
		i.UI.Info(fmt.Sprintf("No containers found for project %s.", project))
		return containers, nil
	}
	rows := make([]ui.KeyValue, 0, len(containers))
	for _, ctr := range containers {
		rows = append(rows, ui.KeyValue{Key: ctr.Service, Value: fmt.Sprintf("%-10s %s (%s)", ctr.State, ctr.Name, ctr.Status)})
	}
	i.UI.Block("🐳", fmt.Sprintf("Containers in %s", project), rows)
	return containers, nil
}
