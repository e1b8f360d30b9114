// Where: internal/domain/environment/environment.go
// What: The enumerated deployment environments.
// Why: Give every layer one validated Environment type instead of raw strings.
package environment

import (
	"fmt"
	"strings"
)

// Environment names one deployment target of the stack.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
	Test        Environment = "test"
)

// Default is used when the persisted environment is missing or invalid.
const Default = Development

var all = []Environment{Development, Production, Test}

// All returns the environments in declaration order.
func All() []Environment {
	return append([]Environment(nil), all...)
}

// Names returns the environment names in declaration order.
func Names() []string {
	names := make([]string, 0, len(all))
	for _, env := range all {
		names = append(names, env.String())
	}
	return names
}

// String implements fmt.Stringer.
func (e Environment) String() string {
	return string(e)
}

// Valid reports whether e is one of the enumerated environments.
func (e Environment) Valid() bool {
	for _, candidate := range all {
		if e == candidate {
			return true
		}
	}
	return false
}

// Parse validates name against the enumerated set. Surrounding whitespace is
// ignored; matching is otherwise exact.
func Parse(name string) (Environment, error) {
	env := Environment(strings.TrimSpace(name))
	if !env.Valid() {
		return "", &InvalidError{Name: name}
	}
	return env, nil
}

// InvalidError reports an environment name outside the enumerated set.
type InvalidError struct {
	Name string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid environment: %q (available: %s)", e.Name, strings.Join(Names(), ", "))
}
