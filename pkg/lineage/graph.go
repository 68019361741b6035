package lineage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/credence-labs/credence/pkg/compliance"
)

// Graph is an in-memory lineage DAG. It is safe for concurrent use.
type Graph struct {
	mu       sync.RWMutex
	children map[string][]string
	parents  map[string][]string
	erasure  map[string]compliance.Opinion
	exempt   map[string]bool

	// defaultBaseRate is the prior used for the vacuous opinion returned
	// for unknown nodes.
	defaultBaseRate float64
}

// NewGraph creates an empty lineage graph. Unknown-node erasure opinions
// default to the vacuous opinion with the given base rate.
func NewGraph(defaultBaseRate float64) *Graph {
	return &Graph{
		children:        make(map[string][]string),
		parents:         make(map[string][]string),
		erasure:         make(map[string]compliance.Opinion),
		exempt:          make(map[string]bool),
		defaultBaseRate: defaultBaseRate,
	}
}

// AddEdge records a derivation edge from parent to child.
func (g *Graph) AddEdge(parent, child string) error {
	if parent == "" || child == "" {
		return fmt.Errorf("lineage: edge endpoints must be non-empty")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.children[parent] = append(g.children[parent], child)
	g.parents[child] = append(g.parents[child], parent)
	return nil
}

// SetErasureOpinion records the erasure opinion observed for a node.
func (g *Graph) SetErasureOpinion(node string, op compliance.Opinion) error {
	if err := op.Validate(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.erasure[node] = op
	return nil
}

// SetExempt marks or unmarks a node as exempt from erasure scopes.
func (g *Graph) SetExempt(node string, exempt bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if exempt {
		g.exempt[node] = true
	} else {
		delete(g.exempt, node)
	}
}

// Descendants returns the transitive descendants of node, sorted.
func (g *Graph) Descendants(_ context.Context, node string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return closure(node, g.children), nil
}

// Ancestors returns the transitive ancestors of node, sorted.
func (g *Graph) Ancestors(_ context.Context, node string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return closure(node, g.parents), nil
}

// ErasureOpinion returns the recorded erasure opinion for node, or the
// vacuous default for an unknown node.
func (g *Graph) ErasureOpinion(_ context.Context, node string) (compliance.Opinion, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if op, ok := g.erasure[node]; ok {
		return op, nil
	}
	return compliance.Vacuous(g.defaultBaseRate), nil
}

// ExemptNodes returns a copy of the exemption set.
func (g *Graph) ExemptNodes(_ context.Context) (map[string]bool, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	exempt := make(map[string]bool, len(g.exempt))
	for node := range g.exempt {
		exempt[node] = true
	}
	return exempt, nil
}

// Scope returns the erasure scope of source.
func (g *Graph) Scope(ctx context.Context, source string) ([]string, error) {
	return scopeOf(ctx, g, source)
}

// closure walks the edge relation breadth-first with an explicit frontier,
// so depth never hits the call stack. The start node is not included.
func closure(start string, edges map[string][]string) []string {
	visited := map[string]bool{start: true}
	frontier := []string{start}
	var reached []string

	for len(frontier) > 0 {
		next := frontier[:0:0]
		for _, node := range frontier {
			for _, neighbor := range edges[node] {
				if visited[neighbor] {
					continue
				}
				visited[neighbor] = true
				reached = append(reached, neighbor)
				next = append(next, neighbor)
			}
		}
		frontier = next
	}

	sort.Strings(reached)
	return reached
}
