// Where: internal/infra/compose/docker_test.go
// What: Tests for Docker SDK wrappers.
// Why: Ensure container listing stays scoped to one compose project.
package compose

import (
	"context"
	"errors"
	"testing"

	"github.com/docker/docker/api/types/container"
)

type fakeDockerClient struct {
	containers []container.Summary
	opts       container.ListOptions
	err        error
	calls      int
}

func (f *fakeDockerClient) ContainerList(_ context.Context, opts container.ListOptions) ([]container.Summary, error) {
	f.calls++
	f.opts = opts
	return f.containers, f.err
}

func TestListContainersByProject(t *testing.T) {
	client := &fakeDockerClient{
		containers: []container.Summary{
			{
				Names:  []string{"/reconciler-test-db-1"},
				Image:  "postgres:16",
				State:  "running",
				Status: "Up 3 minutes",
				Labels: map[string]string{
					"com.docker.compose.project": "reconciler-test",
					"com.docker.compose.service": "db",
				},
			},
			{
				Names: []string{"/reconciler-test-api-1"},
				State: "exited",
				Labels: map[string]string{
					"com.docker.compose.project": "reconciler-test",
					"com.docker.compose.service": "api",
				},
			},
			{State: "running", Labels: map[string]string{"com.docker.compose.project": "reconciler-development"}},
			{State: "created", Labels: map[string]string{"other": "value"}},
		},
	}

	containers, err := ListContainersByProject(context.Background(), client, "reconciler-test")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(containers) != 2 {
		t.Fatalf("expected 2 containers, got %d", len(containers))
	}
	if containers[0].Service != "api" || containers[0].State != "exited" {
		t.Fatalf("unexpected first container: %+v", containers[0])
	}
	want := ContainerInfo{Name: "reconciler-test-db-1", Service: "db", Image: "postgres:16", State: "running", Status: "Up 3 minutes"}
	if containers[1] != want {
		t.Fatalf("unexpected second container: %+v", containers[1])
	}
	if !client.opts.All {
		t.Fatal("expected stopped containers to be included")
	}
	if !client.opts.Filters.ExactMatch("label", "com.docker.compose.project=reconciler-test") {
		t.Fatalf("expected project label filter, got %v", client.opts.Filters)
	}
}

func TestListContainersByProjectErrors(t *testing.T) {
	if _, err := ListContainersByProject(context.Background(), nil, "reconciler-test"); !errors.Is(err, errDockerClientNil) {
		t.Fatalf("expected nil client error, got %v", err)
	}
	client := &fakeDockerClient{err: errors.New("daemon down")}
	if _, err := ListContainersByProject(context.Background(), client, " "); !errors.Is(err, errProjectRequired) {
		t.Fatalf("expected project error, got %v", err)
	}
	if client.calls != 0 {
		t.Fatal("client must not be called without a project")
	}
	if _, err := ListContainersByProject(context.Background(), client, "reconciler-test"); err == nil {
		t.Fatal("expected daemon error")
	}
}
