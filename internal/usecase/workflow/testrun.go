// Where: internal/usecase/workflow/testrun.go
// What: Ephemeral test-environment run with guaranteed teardown and restore.
// Why: Running the suite must leave neither test containers nor a switched environment behind.
package workflow

import (
	"context"
	"fmt"

	"github.com/anibalxyz/reconciler/cli/internal/domain/environment"
	"github.com/anibalxyz/reconciler/cli/internal/domain/registry"
	"github.com/anibalxyz/reconciler/cli/internal/infra/compose"
)

// TestRunOptions tunes a test run.
type TestRunOptions struct {
	NoCache bool
}

type testRunPlan struct {
	builds   []compose.Command
	deps     []compose.Command
	target   compose.Command
	teardown compose.Command
}

// TestRun switches to the test environment, builds the test images, starts the
// dependencies detached and runs the target attached so its exit code decides
// the result. Teardown always runs, then the previous environment is restored.
func (o Orchestrator) TestRun(ctx context.Context, opts TestRunOptions) (err error) {
	if err := o.check(); err != nil {
		return err
	}
	if err := o.ensureEnvFiles(ctx, environment.Test); err != nil {
		return err
	}
	plan, err := o.planTestRun(opts)
	if err != nil {
		return err
	}

	previous, logger, err := o.begin("test-run")
	if err != nil {
		return err
	}
	cleanupCtx := context.WithoutCancel(ctx)
	defer func() {
		if err == nil {
			o.success("Test run passed")
		}
	}()

	if previous != environment.Test {
		logger.Debug("state", "phase", "switching_to_test", "previous", previous.String())
		result, setErr := o.Env.Set(environment.Test.String())
		if setErr != nil {
			return setErr
		}
		o.info(result.Message())

		defer func() {
			logger.Debug("state", "phase", "restoring_env", "previous", previous.String())
			restored, restoreErr := o.Env.Set(previous.String())
			if restoreErr == nil {
				o.info(restored.Message())
			}
			o.mergeCleanup(&err, fmt.Sprintf("restore environment '%s'", previous), restoreErr)
			logger.Debug("state", "phase", "done", "error", err)
		}()
	}

	return o.runTestStack(ctx, cleanupCtx, plan)
}

func (o Orchestrator) runTestStack(ctx, cleanupCtx context.Context, plan testRunPlan) (err error) {
	logger := o.logger().With("workflow", "test-run", "env", environment.Test.String())
	defer func() {
		logger.Debug("state", "phase", "tearing_down")
		o.mergeCleanup(&err, "tear down test stack", o.runAll(cleanupCtx, logger, []compose.Command{plan.teardown}))
	}()

	logger.Debug("state", "phase", "building")
	if err := o.runAll(ctx, logger, plan.builds); err != nil {
		return err
	}
	logger.Debug("state", "phase", "starting_dependencies")
	if err := o.runAll(ctx, logger, plan.deps); err != nil {
		return err
	}
	logger.Debug("state", "phase", "starting_target")
	return o.runAll(ctx, logger, []compose.Command{plan.target})
}

// planTestRun composes every command up front so nothing is spawned when the
// registry cannot describe the run.
func (o Orchestrator) planTestRun(opts TestRunOptions) (testRunPlan, error) {
	env := environment.Test

	buildable, err := o.Registry.Validate(nil, registry.ClassBuildable, env)
	if err != nil {
		return testRunPlan{}, err
	}
	builds, err := o.imageCommands(compose.ImageBuild, buildable, ImageOptions{NoCache: opts.NoCache})
	if err != nil {
		return testRunPlan{}, err
	}

	var depsCmds []compose.Command
	// An empty dependency list would expand to the whole whitelist.
	if names := registry.Names(o.Registry.TestDependencies()); len(names) > 0 {
		deps, err := o.Registry.Validate(names, registry.ClassLifecycle, env)
		if err != nil {
			return testRunPlan{}, err
		}
		cmd, err := o.Composer.Lifecycle(compose.VerbUp, deps, compose.LifecycleOptions{})
		if err != nil {
			return testRunPlan{}, err
		}
		depsCmds = append(depsCmds, cmd)
	}

	target := o.Registry.TestTarget()
	targetSel, err := o.Registry.Validate([]string{target.Name()}, registry.ClassLifecycle, env)
	if err != nil {
		return testRunPlan{}, err
	}
	targetCmd, err := o.Composer.Lifecycle(compose.VerbUp, targetSel, compose.LifecycleOptions{ExitCodeFrom: target.Name()})
	if err != nil {
		return testRunPlan{}, err
	}

	all, err := o.Registry.Validate(nil, registry.ClassLifecycle, env)
	if err != nil {
		return testRunPlan{}, err
	}
	teardown, err := o.Composer.Lifecycle(compose.VerbDown, all, compose.LifecycleOptions{})
	if err != nil {
		return testRunPlan{}, err
	}

	return testRunPlan{builds: builds, deps: depsCmds, target: targetCmd, teardown: teardown}, nil
}
