// Where: internal/domain/registry/errors.go
// What: Validation failures raised by the registry.
// Why: Let the command layer report offenders and pick exit codes with errors.As.
package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/anibalxyz/reconciler/cli/internal/domain/environment"
)

var (
	errUnknownClass    = errors.New("unknown operation class")
	errEmptyDocument   = errors.New("registry document is empty")
	errMissingTemplate = errors.New("naming template is empty")
)

// InvalidServiceError lists every requested name that is not eligible for the
// operation class in the environment.
type InvalidServiceError struct {
	Names     []string
	Class     OpClass
	Env       environment.Environment
	Available []string
}

func (e *InvalidServiceError) Error() string {
	subject := fmt.Sprintf("invalid service(s) for %s in %s", e.Class, e.Env)
	if e.Class == ClassRegistry {
		subject = "service(s) not allowed for registry operations"
	}
	msg := fmt.Sprintf("%s: %s", subject, strings.Join(e.Names, ", "))
	if len(e.Available) > 0 {
		msg += fmt.Sprintf(" (available: %s)", strings.Join(e.Available, ", "))
	}
	return msg
}

// OperationNotPermittedError rejects registry operations outside production.
type OperationNotPermittedError struct {
	Class OpClass
	Env   environment.Environment
}

func (e *OperationNotPermittedError) Error() string {
	return fmt.Sprintf("%s operations are only allowed in %s (current: %s)", e.Class, environment.Production, e.Env)
}
