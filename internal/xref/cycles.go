// # internal/xref/cycles.go
package xref

import (
	"fmt"
	"sort"
	"strings"

	"polyscan/internal/fact"
)

// detectCycles builds the file-level dependency graph and walks it from
// every node with an explicit-stack depth-first search. Each start node
// keeps its own visited set, so a cycle reachable from several files is
// reported once per entry point; callers that want unique structural cycles
// must dedupe themselves.
func (e *Engine) detectCycles() []fact.Cycle {
	adjacency := e.buildFileGraph()

	nodes := make([]string, 0, len(adjacency))
	for node := range adjacency {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)

	var cycles []fact.Cycle
	for _, start := range nodes {
		cycles = append(cycles, dfsCycles(start, adjacency)...)
	}
	return cycles
}

// buildFileGraph resolves each import's module identity to a target file.
// Unresolved imports and self-edges contribute no edge.
func (e *Engine) buildFileGraph() map[string][]string {
	adjacency := make(map[string][]string)

	for _, file := range e.files {
		targets := make(map[string]bool)
		for _, imp := range e.importsByFile[file] {
			target, ok := e.resolveModule(imp.Module)
			if !ok || target == file {
				continue
			}
			targets[target] = true
		}

		edges := make([]string, 0, len(targets))
		for target := range targets {
			edges = append(edges, target)
		}
		sort.Strings(edges)
		adjacency[file] = edges
	}

	return adjacency
}

type dfsFrame struct {
	node string
	next int
}

// dfsCycles records a cycle whenever traversal reaches a node currently on
// the recursion stack. The stack is explicit, so deep or dense graphs never
// exhaust the call stack.
func dfsCycles(start string, adjacency map[string][]string) []fact.Cycle {
	var cycles []fact.Cycle

	stack := []dfsFrame{{node: start}}
	path := []string{start}
	onPath := map[string]int{start: 0}
	visited := map[string]bool{start: true}

	for len(stack) > 0 {
		frame := &stack[len(stack)-1]
		edges := adjacency[frame.node]

		if frame.next < len(edges) {
			next := edges[frame.next]
			frame.next++

			if at, ok := onPath[next]; ok {
				cyclePath := make([]string, 0, len(path)-at+1)
				cyclePath = append(cyclePath, path[at:]...)
				cyclePath = append(cyclePath, next)
				cycles = append(cycles, fact.Cycle{
					Path:        cyclePath,
					Description: fmt.Sprintf("circular import: %s", strings.Join(cyclePath, " -> ")),
				})
				continue
			}
			if visited[next] {
				continue
			}

			visited[next] = true
			onPath[next] = len(path)
			path = append(path, next)
			stack = append(stack, dfsFrame{node: next})
			continue
		}

		delete(onPath, frame.node)
		path = path[:len(path)-1]
		stack = stack[:len(stack)-1]
	}

	return cycles
}
