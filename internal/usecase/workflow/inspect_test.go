package workflow

import (
	"bytes"
	"context"
	"testing"

	"github.com/anibalxyz/reconciler/cli/internal/domain/environment"
	"github.com/anibalxyz/reconciler/cli/internal/domain/registry"
	"github.com/anibalxyz/reconciler/cli/internal/infra/compose"
	"github.com/anibalxyz/reconciler/cli/internal/infra/ui"
	"github.com/docker/docker/api/types/container"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDocker struct {
	containers []container.Summary
}

func (f fakeDocker) ContainerList(context.Context, container.ListOptions) ([]container.Summary, error) {
	return f.containers, nil
}

func newInspector(t *testing.T, env environment.Environment, docker compose.DockerClient) (Inspector, afero.Fs, *bytes.Buffer) {
	t.Helper()
	reg, err := registry.Default()
	require.NoError(t, err)
	fs := afero.NewMemMapFs()
	out := &bytes.Buffer{}
	return Inspector{
		Registry: reg,
		Composer: compose.Composer{Registry: reg, Root: "/srv/app", Fs: fs},
		Env:      &fakeEnv{log: &eventLog{}, current: env},
		Docker:   docker,
		UI:       ui.NewWithOptions(out, false, false),
	}, fs, out
}

func TestInspectorServicesMarksLifecycleAndWarnsMissing(t *testing.T) {
	inspector, fs, out := newInspector(t, environment.Test, nil)
	require.NoError(t, afero.WriteFile(fs, "/srv/app/compose.yaml", []byte(`
services:
  db:
    image: postgres:16
  api:
    image: anibalxyz/reconciler-test-api
  mailhog:
    image: mailhog/mailhog
`), 0o644))

	entries, err := inspector.Services(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []ServiceEntry{
		{Name: "api", Lifecycle: true},
		{Name: "db", Lifecycle: true},
		{Name: "mailhog", Lifecycle: false},
	}, entries)
	assert.Contains(t, out.String(), "Services in reconciler-test (test)")
	assert.Contains(t, out.String(), "'flyway' is whitelisted for test but not declared")
}

func TestInspectorStatusListsProjectContainers(t *testing.T) {
	docker := fakeDocker{containers: []container.Summary{
		{
			Names:  []string{"/reconciler-production-nginx-1"},
			State:  "running",
			Status: "Up 2 hours",
			Labels: map[string]string{
				"com.docker.compose.project": "reconciler-production",
				"com.docker.compose.service": "nginx",
			},
		},
	}}
	inspector, _, out := newInspector(t, environment.Production, docker)

	containers, err := inspector.Status(context.Background())
	require.NoError(t, err)
	require.Len(t, containers, 1)
	assert.Equal(t, "nginx", containers[0].Service)
	assert.Contains(t, out.String(), "Containers in reconciler-production")
	assert.Contains(t, out.String(), "reconciler-production-nginx-1 (Up 2 hours)")
}

func TestInspectorStatusWithoutContainers(t *testing.T) {
	inspector, _, out := newInspector(t, environment.Development, fakeDocker{})

	containers, err := inspector.Status(context.Background())
	require.NoError(t, err)
	assert.Empty(t, containers)
	assert.Contains(t, out.String(), "No containers found for project reconciler-development.")
}

func TestInspectorStatusRequiresDocker(t *testing.T) {
	inspector, _, _ := newInspector(t, environment.Development, nil)

	_, err := inspector.Status(context.Background())
	require.ErrorIs(t, err, errDockerNotConfigured)
}
