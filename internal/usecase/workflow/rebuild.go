// Where: internal/usecase/workflow/rebuild.go
// What: Teardown, rebuild and bring-up of selected services.
// Why: A failed build must not leave previously running services down.
package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/anibalxyz/reconciler/cli/internal/domain/registry"
	"github.com/anibalxyz/reconciler/cli/internal/infra/compose"
)

// RebuildOptions tunes a rebuild.
type RebuildOptions struct {
	NoCache bool
}

// Rebuild tears down the lifecycle part of the selection, rebuilds every
// selected image and brings the lifecycle part back up. Once teardown has
// succeeded the bring-up always runs, even when a build fails.
func (o Orchestrator) Rebuild(ctx context.Context, names []string, opts RebuildOptions) (err error) {
	env, logger, err := o.begin("rebuild")
	if err != nil {
		return err
	}
	sel, err := o.Registry.Validate(names, registry.ClassBuildable, env)
	if err != nil {
		return err
	}

	subset, buildOnly := o.lifecycleSubset(sel)
	for _, svc := range buildOnly {
		o.info(fmt.Sprintf("'%s' is not part of the %s lifecycle; it will only be rebuilt.", svc.Name(), env))
	}

	builds, err := o.imageCommands(compose.ImageBuild, sel, ImageOptions{NoCache: opts.NoCache})
	if err != nil {
		return err
	}

	if len(subset.Services) == 0 {
		o.info("No running lifecycle services selected; skipping teardown and bring-up.")
		logger.Debug("state", "phase", "building")
		if err := o.runAll(ctx, logger, builds); err != nil {
			return err
		}
		o.success(fmt.Sprintf("Rebuilt %s", strings.Join(sel.Names(), ", ")))
		return nil
	}

	down, err := o.Composer.Lifecycle(compose.VerbDown, subset, compose.LifecycleOptions{})
	if err != nil {
		return err
	}
	up, err := o.Composer.Lifecycle(compose.VerbUp, subset, compose.LifecycleOptions{})
	if err != nil {
		return err
	}

	logger.Debug("state", "phase", "tearing_down")
	if err := o.runAll(ctx, logger, []compose.Command{down}); err != nil {
		return err
	}

	defer func() {
		logger.Debug("state", "phase", "bringing_up")
		o.mergeCleanup(&err, "bring services back up", o.runAll(context.WithoutCancel(ctx), logger, []compose.Command{up}))
		if err == nil {
			o.success(fmt.Sprintf("Rebuilt %s", strings.Join(sel.Names(), ", ")))
		}
		logger.Debug("state", "phase", "done", "error", err)
	}()

	logger.Debug("state", "phase", "building")
	return o.runAll(ctx, logger, builds)
}
