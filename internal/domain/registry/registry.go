// Where: internal/domain/registry/registry.go
// What: Immutable service registry with per-environment whitelists.
// Why: Decide which services take part in lifecycle, build and registry operations.
package registry

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"text/template"

	"github.com/anibalxyz/reconciler/cli/assets"
	"github.com/anibalxyz/reconciler/cli/internal/domain/environment"
	"github.com/samber/lo"
)

// OpClass groups operations that share one whitelist.
type OpClass string

const (
	ClassLifecycle OpClass = "lifecycle"
	ClassBuildable OpClass = "buildable"
	ClassRegistry  OpClass = "registry"
)

// Service is a logical stack member located at Path relative to the project root.
type Service struct {
	Key  string
	Path string
}

// Name is the user-facing service name, also used as the compose service name.
func (s Service) Name() string {
	return path.Base(filepath.ToSlash(s.Path))
}

// Registry holds the service table and whitelists. It is never mutated after Load.
type Registry struct {
	namespace  string
	prefix     string
	envDirs    []string
	services   []Service
	byKey      map[string]Service
	whitelists map[OpClass]map[environment.Environment][]Service
	registry   []Service
	testDeps   []Service
	testTarget Service
	imageTmpl  *template.Template
	projTmpl   *template.Template
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// Default returns the registry compiled into the binary.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultRegistry, defaultErr = Load(assets.RegistryYAML)
	})
	return defaultRegistry, defaultErr
}

// Load validates and decodes a registry document.
func Load(content []byte) (*Registry, error) {
	doc, err := decodeDocument(content)
	if err != nil {
		return nil, err
	}

	reg := &Registry{
		namespace:  strings.TrimSpace(doc.Namespace),
		prefix:     strings.TrimSpace(doc.ProjectPrefix),
		envDirs:    append([]string(nil), doc.EnvDirs...),
		byKey:      make(map[string]Service, len(doc.Services)),
		whitelists: map[OpClass]map[environment.Environment][]Service{},
	}
	for _, svc := range doc.Services {
		if _, dup := reg.byKey[svc.Key]; dup {
			return nil, fmt.Errorf("duplicate service key %q", svc.Key)
		}
		reg.byKey[svc.Key] = svc
		reg.services = append(reg.services, svc)
	}

	for class, table := range map[OpClass]map[string][]string{
		ClassLifecycle: doc.Lifecycle,
		ClassBuildable: doc.Buildable,
	} {
		perEnv := make(map[environment.Environment][]Service, len(table))
		for name, keys := range table {
			env, err := environment.Parse(name)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", class, err)
			}
			services, err := reg.resolveKeys(keys, fmt.Sprintf("%s.%s", class, env))
			if err != nil {
				return nil, err
			}
			perEnv[env] = services
		}
		reg.whitelists[class] = perEnv
	}

	if reg.registry, err = reg.resolveKeys(doc.Registry, string(ClassRegistry)); err != nil {
		return nil, err
	}
	if reg.testDeps, err = reg.resolveKeys(doc.TestRun.Dependencies, "test_run.dependencies"); err != nil {
		return nil, err
	}
	target, err := reg.resolveKeys([]string{doc.TestRun.Target}, "test_run.target")
	if err != nil {
		return nil, err
	}
	reg.testTarget = target[0]

	if reg.imageTmpl, err = parseNamingTemplate("image", doc.Naming.Image); err != nil {
		return nil, err
	}
	if reg.projTmpl, err = parseNamingTemplate("project", doc.Naming.Project); err != nil {
		return nil, err
	}
	return reg, nil
}

// resolveKeys maps whitelist keys to services, dropping repeats but keeping
// first-seen order.
func (r *Registry) resolveKeys(keys []string, where string) ([]Service, error) {
	unique := lo.Uniq(keys)
	services := make([]Service, 0, len(unique))
	for _, key := range unique {
		svc, ok := r.byKey[key]
		if !ok {
			return nil, fmt.Errorf("%s references unknown service %q", where, key)
		}
		services = append(services, svc)
	}
	return services, nil
}

// Services returns every declared service in declaration order.
func (r *Registry) Services() []Service {
	return append([]Service(nil), r.services...)
}

// Eligible returns the whitelist for class in env. The registry class is not
// environment-scoped; its production-only guard lives in Validate.
func (r *Registry) Eligible(class OpClass, env environment.Environment) ([]Service, error) {
	switch class {
	case ClassRegistry:
		return append([]Service(nil), r.registry...), nil
	case ClassLifecycle, ClassBuildable:
		return append([]Service(nil), r.whitelists[class][env]...), nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownClass, class)
	}
}

// IsEligible reports whether svc is whitelisted for class in env.
func (r *Registry) IsEligible(svc Service, class OpClass, env environment.Environment) bool {
	eligible, err := r.Eligible(class, env)
	if err != nil {
		return false
	}
	return lo.ContainsBy(eligible, func(candidate Service) bool { return candidate.Key == svc.Key })
}

// Lookup resolves a user-supplied name to a declared service. Matching ignores
// case and treats '-' and '_' alike.
func (r *Registry) Lookup(name string) (Service, bool) {
	key := canonicalKey(name)
	if key == "" {
		return Service{}, false
	}
	if svc, ok := r.byKey[key]; ok {
		return svc, true
	}
	return lo.Find(r.services, func(svc Service) bool { return canonicalKey(svc.Name()) == key })
}

// Choices lists the names offered for completion, followed by the wildcard.
func (r *Registry) Choices(class OpClass, env environment.Environment) []string {
	eligible, err := r.Eligible(class, env)
	if err != nil {
		return nil
	}
	return append(Names(eligible), Wildcard)
}

// EnvFiles returns the env-file paths (relative to the project root) injected
// for env, one per env-file directory.
func (r *Registry) EnvFiles(env environment.Environment) []string {
	files := make([]string, 0, len(r.envDirs))
	for _, dir := range r.envDirs {
		files = append(files, filepath.Join(dir, ".env."+env.String()))
	}
	return files
}

// TestDependencies returns the services started detached before the test target.
func (r *Registry) TestDependencies() []Service {
	return append([]Service(nil), r.testDeps...)
}

// TestTarget returns the service whose exit status decides a test run.
func (r *Registry) TestTarget() Service {
	return r.testTarget
}

// Names maps services to their user-facing names.
func Names(services []Service) []string {
	return lo.Map(services, func(svc Service, _ int) string { return svc.Name() })
}

func canonicalKey(name string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "-", "_"))
}
