package compiler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/dispatchgen/internal/ir"
)

// HierarchyWarning reports an inheritance cycle among event declarations.
//
// A cycle has no root-to-leaf chain, so the hierarchy cannot be resolved
// and no dispatch can be generated until it is broken.
type HierarchyWarning struct {
	Path    []string `json:"path"`    // Cycle path following parent links: ["A", "B", "A"]
	Message string   `json:"message"` // Human-readable description
	Level   string   `json:"level"`   // always "error"
}

// AnalyzeHierarchy performs static cycle analysis on event declarations.
//
// The algorithm:
//  1. Build the child → parent graph from declared parents
//  2. Use Tarjan's algorithm to find strongly connected components
//  3. Report each SCC with size > 1 or self-loops as a cycle
//
// An acyclic hierarchy returns an empty list. Results are ordered by the
// first name on each cycle path, so output is stable across runs.
func AnalyzeHierarchy(decls []ir.EventTypeDecl) []HierarchyWarning {
	if len(decls) == 0 {
		return []HierarchyWarning{}
	}

	graph := buildParentGraph(decls)
	sccs := tarjanSCC(graph)

	warnings := []HierarchyWarning{}
	for _, scc := range sccs {
		if len(scc) > 1 || (len(scc) == 1 && hasSelfLoop(scc[0], graph)) {
			warnings = append(warnings, cycleSCCToWarning(scc, graph))
		}
	}
	sort.Slice(warnings, func(i, j int) bool {
		return warnings[i].Path[0] < warnings[j].Path[0]
	})

	return warnings
}

// parentGraph maps event name → declared parent. Every event has at most one
// outgoing edge.
type parentGraph map[string][]string

func buildParentGraph(decls []ir.EventTypeDecl) parentGraph {
	graph := make(parentGraph, len(decls))
	for _, d := range decls {
		if graph[d.Name] == nil {
			graph[d.Name] = []string{}
		}
		if d.Parent != "" {
			graph[d.Name] = append(graph[d.Name], d.Parent)
		}
	}
	return graph
}

// hasSelfLoop checks if a node has an edge to itself.
func hasSelfLoop(node string, graph parentGraph) bool {
	for _, neighbor := range graph[node] {
		if neighbor == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
//
// Nodes are visited in name order so component membership order is
// deterministic. Single-node SCCs without self-loops are NOT cycles.
func tarjanSCC(graph parentGraph) [][]string {
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

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		// v is a root node: pop the stack and create an SCC
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

	nodes := make([]string, 0, len(graph))
	for node := range graph {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	for _, node := range nodes {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}

// cycleSCCToWarning converts an SCC to a HierarchyWarning. The path starts
// at the smallest name in the SCC and follows parent links back to it.
func cycleSCCToWarning(scc []string, graph parentGraph) HierarchyWarning {
	start := scc[0]
	for _, n := range scc[1:] {
		if n < start {
			start = n
		}
	}

	members := make(map[string]bool, len(scc))
	for _, n := range scc {
		members[n] = true
	}

	path := []string{start}
	current := start
	for len(path) <= len(scc) {
		next := ""
		for _, parent := range graph[current] {
			if members[parent] {
				next = parent
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

	return HierarchyWarning{
		Path:    path,
		Message: fmt.Sprintf("inheritance cycle: %s", strings.Join(path, " → ")),
		Level:   "error",
	}
}
