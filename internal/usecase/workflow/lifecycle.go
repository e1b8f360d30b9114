// Where: internal/usecase/workflow/lifecycle.go
// What: Lifecycle, image and resource dispatch.
// Why: Single-step operations share the resolve, validate, compose, run sequence.
package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/anibalxyz/reconciler/cli/internal/domain/registry"
	"github.com/anibalxyz/reconciler/cli/internal/infra/compose"
)

// ImageOptions tunes image operations.
type ImageOptions struct {
	NoCache bool
}

// Lifecycle runs a compose verb over the requested services of the active environment.
func (o Orchestrator) Lifecycle(ctx context.Context, verb compose.Verb, names []string) error {
	env, logger, err := o.begin("lifecycle")
	if err != nil {
		return err
	}
	if err := o.ensureEnvFiles(ctx, env); err != nil {
		return err
	}
	sel, err := o.Registry.Validate(names, registry.ClassLifecycle, env)
	if err != nil {
		return err
	}
	cmd, err := o.Composer.Lifecycle(verb, sel, compose.LifecycleOptions{})
	if err != nil {
		return err
	}
	return o.runAll(ctx, logger, []compose.Command{cmd})
}

// Image builds, pushes or pulls one image per requested service, in request
// order. The first failure stops the sequence.
func (o Orchestrator) Image(ctx context.Context, verb compose.ImageVerb, names []string, opts ImageOptions) error {
	env, logger, err := o.begin("image-" + string(verb))
	if err != nil {
		return err
	}
	class := registry.ClassRegistry
	if verb == compose.ImageBuild {
		class = registry.ClassBuildable
	}
	sel, err := o.Registry.Validate(names, class, env)
	if err != nil {
		return err
	}
	cmds, err := o.imageCommands(verb, sel, opts)
	if err != nil {
		return err
	}
	if err := o.runAll(ctx, logger, cmds); err != nil {
		return err
	}
	o.success(fmt.Sprintf("%s finished for %s (%s)", verb, strings.Join(sel.Names(), ", "), env))
	return nil
}

func (o Orchestrator) imageCommands(verb compose.ImageVerb, sel registry.Selection, opts ImageOptions) ([]compose.Command, error) {
	cmds := make([]compose.Command, 0, len(sel.Services))
	for _, svc := range sel.Services {
		var (
			cmd compose.Command
			err error
		)
		if verb == compose.ImageBuild {
			cmd, err = o.Composer.Build(sel.Env, svc, opts.NoCache)
		} else {
			cmd, err = o.Composer.Transfer(verb, sel.Env, svc)
		}
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

// Resource lists or prunes runtime objects. "all" walks every kind with a
// blank line between them.
func (o Orchestrator) Resource(ctx context.Context, verb compose.ResourceVerb, kind compose.ResourceKind) error {
	if o.Runner == nil {
		return errRunnerNotConfigured
	}
	kinds := []compose.ResourceKind{kind}
	if kind == compose.KindAll {
		kinds = compose.ResourceKinds()
	}
	cmds := make([]compose.Command, 0, len(kinds))
	for _, k := range kinds {
		cmd, err := o.Composer.Resource(verb, k)
		if err != nil {
			return err
		}
		cmds = append(cmds, cmd)
	}

	logger := o.logger().With("workflow", "resource-"+string(verb))
	for i, cmd := range cmds {
		if i > 0 {
			o.blank()
		}
		if err := o.runAll(ctx, logger, []compose.Command{cmd}); err != nil {
			return err
		}
	}
	return nil
}

func (o Orchestrator) blank() {
	if o.UI != nil {
		o.UI.Blank()
	}
}
