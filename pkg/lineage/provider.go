// Package lineage supplies the data-derivation adapter protocol the
// compliance algebra reads lineage from, plus in-memory and SQL-backed
// implementations. The algebra only ever reads through Provider; it never
// mutates lineage data.
package lineage

import (
	"context"
	"sort"

	"github.com/credence-labs/credence/pkg/compliance"
)

// Provider is the narrow read-only contract between the compliance algebra
// and an externally owned lineage graph. Implementations may be backed by
// memory, a database, or a remote store; they may block and they may fail,
// and callers propagate whatever they return.
//
// Traversal methods compute transitive closures and must do so iteratively
// (explicit frontier and visited set): lineage graphs can be deep, and
// recursion depth must not depend on chain length.
type Provider interface {
	// Descendants returns the transitive descendants of node, sorted.
	Descendants(ctx context.Context, node string) ([]string, error)

	// Ancestors returns the transitive ancestors of node, sorted.
	Ancestors(ctx context.Context, node string) ([]string, error)

	// ErasureOpinion returns the erasure opinion recorded for node. For an
	// unknown node it returns the vacuous opinion — the epistemically
	// honest default for a node nothing is known about, not an error.
	ErasureOpinion(ctx context.Context, node string) (compliance.Opinion, error)

	// ExemptNodes returns the nodes excluded from erasure scopes, for
	// example under a legal-hold or archival exemption.
	ExemptNodes(ctx context.Context) (map[string]bool, error)

	// Scope returns the erasure scope of source: the source itself plus
	// its transitive descendants, minus exempt nodes, sorted.
	Scope(ctx context.Context, source string) ([]string, error)
}

// scopeOf assembles {source} ∪ descendants(source) \ exempt. Shared by the
// Provider implementations in this package.
func scopeOf(ctx context.Context, p Provider, source string) ([]string, error) {
	descendants, err := p.Descendants(ctx, source)
	if err != nil {
		return nil, err
	}
	exempt, err := p.ExemptNodes(ctx)
	if err != nil {
		return nil, err
	}

	scope := make([]string, 0, len(descendants)+1)
	if !exempt[source] {
		scope = append(scope, source)
	}
	for _, node := range descendants {
		if !exempt[node] {
			scope = append(scope, node)
		}
	}
	sort.Strings(scope)
	return scope, nil
}
