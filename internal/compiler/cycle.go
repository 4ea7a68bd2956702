package compiler

import (
	"fmt"
	"strings"
)

// Cycle is an inheritance cycle found in the declarations.
//
// The host type system guarantees finite base chains, and the rule engine
// relies on it. Cycles in the input are therefore compile errors, never
// something the rules see.
type Cycle struct {
	Kind string   `json:"kind"` // "class" or "interface"
	Path []string `json:"path"` // e.g. ["A", "B", "A"]
}

func (c Cycle) String() string {
	return fmt.Sprintf("%s inheritance cycle: %s", c.Kind, strings.Join(c.Path, " → "))
}

// dependencyGraph maps a type name to the names it inherits from.
// nodes keeps declaration order so results are deterministic.
type dependencyGraph struct {
	nodes []string
	edges map[string][]string
}

func newDependencyGraph() *dependencyGraph {
	return &dependencyGraph{edges: make(map[string][]string)}
}

func (g *dependencyGraph) addNode(name string) {
	if _, ok := g.edges[name]; ok {
		return
	}
	g.nodes = append(g.nodes, name)
	g.edges[name] = []string{}
}

func (g *dependencyGraph) addEdge(from, to string) {
	g.addNode(from)
	g.addNode(to)
	g.edges[from] = append(g.edges[from], to)
}

// findCycles reports every strongly connected component of size > 1 and
// every self-loop as a Cycle, in declaration order of the first member.
func findCycles(kind string, g *dependencyGraph) []Cycle {
	var cycles []Cycle
	for _, scc := range tarjanSCC(g) {
		if len(scc) > 1 || hasSelfLoop(scc[0], g) {
			cycles = append(cycles, Cycle{Kind: kind, Path: reconstructCyclePath(scc, g)})
		}
	}
	return cycles
}

func hasSelfLoop(node string, g *dependencyGraph) bool {
	for _, neighbor := range g.edges[node] {
		if neighbor == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Single-node SCCs without self-loops are not cycles.
func tarjanSCC(g *dependencyGraph) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.edges[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, node := range g.nodes {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}

// reconstructCyclePath builds a closed path through an SCC, starting at the
// member declared first.
func reconstructCyclePath(scc []string, g *dependencyGraph) []string {
	sccSet := make(map[string]bool, len(scc))
	for _, node := range scc {
		sccSet[node] = true
	}

	start := scc[0]
	for _, node := range g.nodes {
		if sccSet[node] {
			start = node
			break
		}
	}

	path := []string{start}
	visited := map[string]bool{}
	current := start
	for {
		visited[current] = true

		var next string
		for _, neighbor := range g.edges[current] {
			if sccSet[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}
		if next == "" {
			break
		}

		path = append(path, next)
		if next == start {
			break
		}
		current = next
	}

	return path
}
