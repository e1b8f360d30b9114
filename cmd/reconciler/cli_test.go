// Where: cmd/reconciler/cli_test.go
// What: Tests for CLI dependency wiring.
// Why: Ensure buildDependencies stays lazy about the Docker client.
package main

import (
	"context"
	"errors"
	"testing"

	"github.com/anibalxyz/reconciler/cli/internal/infra/compose"
	"github.com/docker/docker/api/types/container"
)

type fakeDockerClient struct {
	closed bool
}

func (f *fakeDockerClient) ContainerList(_ context.Context, _ container.ListOptions) ([]container.Summary, error) {
	return nil, nil
}

func (f *fakeDockerClient) Close() error {
	f.closed = true
	return nil
}

var errDockerUnavailable = errors.New("docker unavailable")

func withDockerFactory(t *testing.T, factory func() (compose.DockerClient, error)) {
	t.Helper()
	orig := newDockerClient
	newDockerClient = factory
	t.Cleanup(func() { newDockerClient = orig })
}

func TestBuildDependenciesOpensDockerLazily(t *testing.T) {
	calls := 0
	client := &fakeDockerClient{}
	withDockerFactory(t, func() (compose.DockerClient, error) {
		calls++
		return client, nil
	})

	deps, closer := buildDependencies()
	if calls != 0 {
		t.Fatalf("docker client must not be opened eagerly")
	}
	if deps.Docker == nil || deps.Settings == nil || deps.CheckBinary == nil {
		t.Fatalf("expected wired dependencies: %+v", deps)
	}

	for i := 0; i < 2; i++ {
		got, err := deps.Docker()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != client {
			t.Fatalf("unexpected client")
		}
	}
	if calls != 1 {
		t.Fatalf("expected a single open, got %d", calls)
	}

	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !client.closed {
		t.Fatalf("expected client closed")
	}
}

func TestBuildDependenciesCloseWithoutClient(t *testing.T) {
	withDockerFactory(t, func() (compose.DockerClient, error) {
		return nil, errDockerUnavailable
	})

	deps, closer := buildDependencies()
	if _, err := deps.Docker(); !errors.Is(err, errDockerUnavailable) {
		t.Fatalf("expected factory error, got %v", err)
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
