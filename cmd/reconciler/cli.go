// Where: cmd/reconciler/cli.go
// What: CLI dependency wiring helpers.
// Why: Centralize construction for testability.
package main

import (
	"io"
	"os"
	"sync"

	"github.com/anibalxyz/reconciler/cli/internal/command"
	"github.com/anibalxyz/reconciler/cli/internal/infra/compose"
	"github.com/anibalxyz/reconciler/cli/internal/infra/config"
	"github.com/anibalxyz/reconciler/cli/internal/infra/interaction"
	"github.com/anibalxyz/reconciler/cli/internal/infra/runtime"
	"github.com/spf13/afero"
)

var (
	getwd           = os.Getwd
	newDockerClient = compose.NewDockerClient
)

// buildDependencies constructs the runtime dependencies required by the CLI.
// The Docker client is opened lazily, only by commands that inspect containers;
// the returned closer releases it if it was opened.
func buildDependencies() (command.Dependencies, io.Closer) {
	docker := &lazyDocker{open: newDockerClient}
	deps := command.Dependencies{
		Out:         os.Stdout,
		ErrOut:      os.Stderr,
		In:          os.Stdin,
		Fs:          afero.NewOsFs(),
		Getwd:       getwd,
		Prompter:    interaction.HuhPrompter{},
		Interactive: interaction.Interactive,
		Settings:    config.LoadSettings,
		CheckBinary: runtime.CheckBinary,
		Docker:      docker.Get,
	}
	return deps, docker
}

type lazyDocker struct {
	open   func() (compose.DockerClient, error)
	once   sync.Once
	client compose.DockerClient
	err    error
}

func (l *lazyDocker) Get() (compose.DockerClient, error) {
	l.once.Do(func() {
		l.client, l.err = l.open()
	})
	return l.client, l.err
}

// Close releases the client when it was opened and supports closing.
func (l *lazyDocker) Close() error {
	if closer := asCloser(l.client); closer != nil {
		return closer.Close()
	}
	return nil
}

// asCloser attempts to cast the Docker client to an io.Closer.
// Returns nil if the client does not implement the Closer interface.
func asCloser(client compose.DockerClient) io.Closer {
	if closer, ok := client.(io.Closer); ok {
		return closer
	}
	return nil
}
