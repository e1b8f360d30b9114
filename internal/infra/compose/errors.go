// Where: internal/infra/compose/errors.go
// What: Shared error definitions for compose infra.
// Why: Ensure consistent error wrapping without dynamic error creation.
package compose

import "errors"

var (
	errRegistryNil       = errors.New("service registry is nil")
	errRootDirRequired   = errors.New("root dir is required")
	errUnsupportedVerb   = errors.New("unsupported verb")
	errUnsupportedKind   = errors.New("unsupported resource kind")
	errEmptySelection    = errors.New("no services selected")
	errDockerClientNil   = errors.New("docker client is nil")
	errProjectRequired   = errors.New("compose project is required")
	errComposeFileAbsent = errors.New("compose file not found")
)
