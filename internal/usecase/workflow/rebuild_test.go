package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/anibalxyz/reconciler/cli/internal/domain/environment"
	"github.com/anibalxyz/reconciler/cli/internal/domain/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const devAPIBuild = "docker build -f backend/api/Dockerfile -t anibalxyz/reconciler-development-api backend/api"

func TestRebuildCyclesLifecycleServices(t *testing.T) {
	h := newHarness(t, environment.Development)

	require.NoError(t, h.orch.Rebuild(context.Background(), []string{"api"}, RebuildOptions{}))
	assert.Equal(t, []string{
		composePrefix("development") + " down --remove-orphans api",
		devAPIBuild,
		composePrefix("development") + " up --detach api",
	}, h.log.events)
}

func TestRebuildBuildableOnlyServiceSkipsTeardown(t *testing.T) {
	h := newHarness(t, environment.Development)

	require.NoError(t, h.orch.Rebuild(context.Background(), []string{"frontend"}, RebuildOptions{}))
	assert.Equal(t, []string{
		"docker build -f frontend/Dockerfile -t anibalxyz/reconciler-development-frontend frontend",
	}, h.log.events)
	assert.Contains(t, h.out.String(), "'frontend' is not part of the development lifecycle")
	assert.Contains(t, h.out.String(), "skipping teardown and bring-up")
}

func TestRebuildMixedSelectionOnlyCyclesLifecyclePart(t *testing.T) {
	h := newHarness(t, environment.Development)

	require.NoError(t, h.orch.Rebuild(context.Background(), []string{"frontend", "api"}, RebuildOptions{}))
	assert.Equal(t, []string{
		composePrefix("development") + " down --remove-orphans api",
		"docker build -f frontend/Dockerfile -t anibalxyz/reconciler-development-frontend frontend",
		devAPIBuild,
		composePrefix("development") + " up --detach api",
	}, h.log.events)
}

func TestRebuildBringsServicesBackUpWhenBuildFails(t *testing.T) {
	h := newHarness(t, environment.Development)
	buildErr := errors.New("build failed")
	h.runner.failOn["docker build"] = buildErr

	err := h.orch.Rebuild(context.Background(), []string{"api"}, RebuildOptions{})
	require.ErrorIs(t, err, buildErr)
	assert.Equal(t, []string{
		composePrefix("development") + " down --remove-orphans api",
		devAPIBuild,
		composePrefix("development") + " up --detach api",
	}, h.log.events)
}

func TestRebuildTeardownFailureSkipsBuildAndBringUp(t *testing.T) {
	h := newHarness(t, environment.Development)
	downErr := errors.New("down failed")
	h.runner.failOn[" down "] = downErr

	err := h.orch.Rebuild(context.Background(), []string{"api"}, RebuildOptions{})
	require.ErrorIs(t, err, downErr)
	assert.Len(t, h.log.events, 1)
}

func TestRebuildBringUpFailureSurfacesWhenBuildSucceeded(t *testing.T) {
	h := newHarness(t, environment.Development)
	upErr := errors.New("up failed")
	h.runner.failOn[" up "] = upErr

	err := h.orch.Rebuild(context.Background(), []string{"api"}, RebuildOptions{})
	require.ErrorIs(t, err, upErr)
	assert.Len(t, h.log.events, 3)
}

func TestRebuildRejectsNonBuildableService(t *testing.T) {
	h := newHarness(t, environment.Development)

	err := h.orch.Rebuild(context.Background(), []string{"db"}, RebuildOptions{})
	var invalid *registry.InvalidServiceError
	require.ErrorAs(t, err, &invalid)
	assert.Empty(t, h.log.events)
}
