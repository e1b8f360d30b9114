// Where: internal/infra/compose/resource.go
// What: Host-wide resource listing and pruning commands.
// Why: Offer one entry point for image, container, volume and network housekeeping.
package compose

import (
	"fmt"
	"strings"
)

// ResourceKind names a runtime object type as the user types it.
type ResourceKind string

const (
	KindImages     ResourceKind = "images"
	KindContainers ResourceKind = "containers"
	KindVolumes    ResourceKind = "volumes"
	KindNetworks   ResourceKind = "networks"
	// KindAll expands to every kind above, in that order.
	KindAll ResourceKind = "all"
)

// ResourceVerb is either a listing or a prune.
type ResourceVerb string

const (
	ResourceList  ResourceVerb = "list"
	ResourcePrune ResourceVerb = "prune"
)

// ResourceKinds returns the concrete kinds in iteration order.
func ResourceKinds() []ResourceKind {
	return []ResourceKind{KindImages, KindContainers, KindVolumes, KindNetworks}
}

// ParseResourceKind validates a user-supplied kind, including "all".
func ParseResourceKind(raw string) (ResourceKind, error) {
	kind := ResourceKind(strings.ToLower(strings.TrimSpace(raw)))
	if kind == KindAll {
		return kind, nil
	}
	for _, candidate := range ResourceKinds() {
		if kind == candidate {
			return kind, nil
		}
	}
	return "", fmt.Errorf("%w: %q (available: images, containers, volumes, networks, all)", errUnsupportedKind, raw)
}

// Resource composes "docker <object> ls" or "docker <object> prune -f".
func (c Composer) Resource(verb ResourceVerb, kind ResourceKind) (Command, error) {
	if kind == KindAll {
		return Command{}, fmt.Errorf("%w: expand %q before composing", errUnsupportedKind, kind)
	}
	if _, err := ParseResourceKind(string(kind)); err != nil {
		return Command{}, err
	}
	object := strings.TrimSuffix(string(kind), "s")

	var args []string
	switch verb {
	case ResourceList:
		args = []string{object, "ls"}
	case ResourcePrune:
		args = []string{object, "prune", "-f"}
	default:
		return Command{}, fmt.Errorf("%w: %q", errUnsupportedVerb, verb)
	}
	return Command{Name: c.runtime(), Args: args, Dir: c.Root}, nil
}
