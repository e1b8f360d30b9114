// Where: internal/architecture/layering_cycles_test.go
// What: Import cycle guard for internal packages.
// Why: Detect cyclic coupling early and keep package boundaries maintainable.
package architecture

import (
	"go/parser"
	"sort"
	"strings"
	"testing"
)

func TestNoInternalImportCycles(t *testing.T) {
	t.Parallel()

	graph := map[string]map[string]struct{}{}
	scanSources(t, parser.ImportsOnly, func(file sourceFile) {
		sourcePkg := internalImportPrefix + file.pkg
		if _, ok := graph[sourcePkg]; !ok {
			graph[sourcePkg] = map[string]struct{}{}
		}
		for _, importPath := range file.imports() {
			if !strings.HasPrefix(importPath, internalImportPrefix) {
				continue
			}
			graph[sourcePkg][importPath] = struct{}{}
			if _, ok := graph[importPath]; !ok {
				graph[importPath] = map[string]struct{}{}
			}
		}
	})

	cycles := detectCycles(graph)
	if len(cycles) > 0 {
		sort.Strings(cycles)
		t.Fatalf("internal import cycles detected:\n%s", strings.Join(cycles, "\n"))
	}
}

func TestDetectCyclesReportsLoop(t *testing.T) {
	t.Parallel()

	graph := map[string]map[string]struct{}{
		"a": {"b": {}},
		"b": {"c": {}},
		"c": {"a": {}},
		"d": {"a": {}},
	}
	cycles := detectCycles(graph)
	if len(cycles) != 1 || cycles[0] != "a -> b -> c -> a" {
		t.Fatalf("unexpected cycles: %v", cycles)
	}
}

// detectCycles runs a depth-first walk in sorted order and reports each
// back edge as the path from its target to the current node.
func detectCycles(graph map[string]map[string]struct{}) []string {
	const (
		unvisited = iota
		visiting
		done
	)

	state := map[string]int{}
	stack := []string{}
	seen := map[string]struct{}{}
	cycles := []string{}

	var walk func(string)
	walk = func(node string) {
		state[node] = visiting
		stack = append(stack, node)

		for _, next := range sortedKeys(graph[node]) {
			switch state[next] {
			case unvisited:
				walk(next)
			case visiting:
				start := lastIndex(stack, next)
				if start < 0 {
					continue
				}
				cycle := strings.Join(append(append([]string{}, stack[start:]...), next), " -> ")
				if _, ok := seen[cycle]; !ok {
					seen[cycle] = struct{}{}
					cycles = append(cycles, cycle)
				}
			}
		}

		stack = stack[:len(stack)-1]
		state[node] = done
	}

	for _, node := range sortedKeys(graph) {
		if state[node] == unvisited {
			walk(node)
		}
	}
	return cycles
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func lastIndex(stack []string, node string) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == node {
			return i
		}
	}
	return -1
}
