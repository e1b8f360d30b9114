// Where: internal/usecase/environment/resolver.go
// What: Active environment resolution with self-healing default.
// Why: Every command needs a valid environment even when cli.cfg is missing or edited by hand.
package environment

import (
	"fmt"

	"github.com/anibalxyz/reconciler/cli/internal/domain/environment"
	"github.com/anibalxyz/reconciler/cli/internal/infra/config"
)

// Key is the cli.cfg entry holding the active environment.
const Key = "ENV"

// Store is the subset of the config store the resolver needs.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) (config.SetResult, error)
	Path() string
}

// Reporter receives user-facing notices.
type Reporter interface {
	Info(msg string)
	Warn(msg string)
}

// Resolver reads and writes the active environment.
type Resolver struct {
	Store    Store
	Reporter Reporter
}

// Current returns the active environment. An absent or invalid value is
// replaced by the default, which is written back and reported.
func (r Resolver) Current() (environment.Environment, error) {
	value, found, err := r.Store.Get(Key)
	if err != nil {
		return "", fmt.Errorf("read active environment: %w", err)
	}
	if found {
		if env, err := environment.Parse(value); err == nil {
			return env, nil
		}
	}

	r.warn(fmt.Sprintf("Invalid or missing '%s' in '%s'. Resetting to default: '%s'.", Key, r.Store.Path(), environment.Default))
	result, err := r.Store.Set(Key, environment.Default.String())
	if err != nil {
		return "", fmt.Errorf("reset active environment: %w", err)
	}
	r.info(result.Message())
	return environment.Default, nil
}

// Set makes name the active environment. Invalid names are rejected without
// touching the store.
func (r Resolver) Set(name string) (config.SetResult, error) {
	env, err := environment.Parse(name)
	if err != nil {
		return config.SetResult{}, err
	}
	result, err := r.Store.Set(Key, env.String())
	if err != nil {
		return config.SetResult{}, fmt.Errorf("set active environment: %w", err)
	}
	return result, nil
}

func (r Resolver) info(msg string) {
	if r.Reporter != nil && msg != "" {
		r.Reporter.Info(msg)
	}
}

func (r Resolver) warn(msg string) {
	if r.Reporter != nil {
		r.Reporter.Warn(msg)
	}
}
