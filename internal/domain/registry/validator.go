// Where: internal/domain/registry/validator.go
// What: Requested-service validation against whitelists.
// Why: Reject ineligible services before any command is spawned.
package registry

import (
	"strings"

	"github.com/anibalxyz/reconciler/cli/internal/domain/environment"
	"github.com/samber/lo"
)

// Wildcard selects the full whitelist. It is offered for completion and never stored.
const Wildcard = "all"

// Selection is a validated service set.
// When All is set, Services holds the whole whitelist and callers may omit
// the explicit list (compose applies to every service).
type Selection struct {
	Class    OpClass
	Env      environment.Environment
	Services []Service
	All      bool
}

// Names returns the user-facing names of the selected services.
func (s Selection) Names() []string {
	return Names(s.Services)
}

// Validate checks requested names against the whitelist of class in env.
// Every offender is reported at once; no partial selection is returned.
func (r *Registry) Validate(requested []string, class OpClass, env environment.Environment) (Selection, error) {
	if class == ClassRegistry && env != environment.Production {
		return Selection{}, &OperationNotPermittedError{Class: class, Env: env}
	}
	eligible, err := r.Eligible(class, env)
	if err != nil {
		return Selection{}, err
	}

	wildcard := false
	var invalid []string
	var picked []Service
	for _, raw := range requested {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if strings.EqualFold(name, Wildcard) {
			wildcard = true
			continue
		}
		svc, ok := r.Lookup(name)
		if ok {
			ok = lo.ContainsBy(eligible, func(candidate Service) bool { return candidate.Key == svc.Key })
		}
		if !ok {
			invalid = append(invalid, name)
			continue
		}
		picked = append(picked, svc)
	}

	if len(invalid) > 0 {
		return Selection{}, &InvalidServiceError{
			Names:     lo.Uniq(invalid),
			Class:     class,
			Env:       env,
			Available: Names(eligible),
		}
	}
	if wildcard || len(picked) == 0 {
		return Selection{Class: class, Env: env, Services: eligible, All: true}, nil
	}
	return Selection{
		Class:    class,
		Env:      env,
		Services: lo.UniqBy(picked, func(svc Service) string { return svc.Key }),
	}, nil
}
