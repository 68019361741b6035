package lineage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/credence-labs/credence/pkg/compliance"
)

// SQLiteStore is a lineage Provider persisted in SQLite. Nodes carry their
// erasure opinion and exemption flag; edges carry the derivation relation.
type SQLiteStore struct {
	db              *sql.DB
	defaultBaseRate float64
}

// NewSQLiteStore creates the store and runs its migration. Unknown-node
// erasure opinions default to the vacuous opinion with defaultBaseRate.
func NewSQLiteStore(db *sql.DB, defaultBaseRate float64) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db, defaultBaseRate: defaultBaseRate}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS lineage_nodes (
		node_id TEXT PRIMARY KEY,
		lawfulness REAL NOT NULL,
		violation REAL NOT NULL,
		uncertainty REAL NOT NULL,
		base_rate REAL NOT NULL,
		exempt INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS lineage_edges (
		parent_id TEXT NOT NULL,
		child_id TEXT NOT NULL,
		PRIMARY KEY (parent_id, child_id)
	);
	CREATE INDEX IF NOT EXISTS idx_lineage_edges_child ON lineage_edges (child_id);`
	_, err := s.db.ExecContext(context.Background(), query)
	return err
}

// UpsertNode writes a node's erasure opinion and exemption flag.
func (s *SQLiteStore) UpsertNode(ctx context.Context, node string, op compliance.Opinion, exempt bool) error {
	if err := op.Validate(); err != nil {
		return err
	}
	query := `INSERT INTO lineage_nodes (node_id, lawfulness, violation, uncertainty, base_rate, exempt)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (node_id) DO UPDATE SET
			lawfulness = excluded.lawfulness,
			violation = excluded.violation,
			uncertainty = excluded.uncertainty,
			base_rate = excluded.base_rate,
			exempt = excluded.exempt`
	_, err := s.db.ExecContext(ctx, query,
		node, op.Lawfulness(), op.Violation(), op.Uncertainty, op.BaseRate, boolToInt(exempt))
	if err != nil {
		return fmt.Errorf("upsert lineage node %q: %w", node, err)
	}
	return nil
}

// AddEdge records a derivation edge from parent to child.
func (s *SQLiteStore) AddEdge(ctx context.Context, parent, child string) error {
	query := `INSERT INTO lineage_edges (parent_id, child_id) VALUES (?, ?)
		ON CONFLICT (parent_id, child_id) DO NOTHING`
	if _, err := s.db.ExecContext(ctx, query, parent, child); err != nil {
		return fmt.Errorf("insert lineage edge %q -> %q: %w", parent, child, err)
	}
	return nil
}

// Descendants returns the transitive descendants of node, sorted.
func (s *SQLiteStore) Descendants(ctx context.Context, node string) ([]string, error) {
	return s.closure(ctx, node, `SELECT child_id FROM lineage_edges WHERE parent_id = ?`)
}

// Ancestors returns the transitive ancestors of node, sorted.
func (s *SQLiteStore) Ancestors(ctx context.Context, node string) ([]string, error) {
	return s.closure(ctx, node, `SELECT parent_id FROM lineage_edges WHERE child_id = ?`)
}

// closure walks the edge relation level by level with an explicit frontier.
func (s *SQLiteStore) closure(ctx context.Context, start, neighborQuery string) ([]string, error) {
	visited := map[string]bool{start: true}
	frontier := []string{start}
	var reached []string

	for len(frontier) > 0 {
		var next []string
		for _, node := range frontier {
			neighbors, err := s.queryStrings(ctx, neighborQuery, node)
			if err != nil {
				return nil, err
			}
			for _, neighbor := range neighbors {
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
	return reached, nil
}

// ErasureOpinion returns the stored opinion for node, or the vacuous default
// when the node is unknown.
func (s *SQLiteStore) ErasureOpinion(ctx context.Context, node string) (compliance.Opinion, error) {
	query := `SELECT lawfulness, violation, uncertainty, base_rate FROM lineage_nodes WHERE node_id = ?`
	row := s.db.QueryRowContext(ctx, query, node)

	var lawfulness, violation, uncertainty, baseRate float64
	err := row.Scan(&lawfulness, &violation, &uncertainty, &baseRate)
	if err == sql.ErrNoRows {
		return compliance.Vacuous(s.defaultBaseRate), nil
	}
	if err != nil {
		return compliance.Opinion{}, fmt.Errorf("read lineage node %q: %w", node, err)
	}
	return compliance.New(lawfulness, violation, uncertainty, baseRate)
}

// ExemptNodes returns the set of nodes flagged exempt.
func (s *SQLiteStore) ExemptNodes(ctx context.Context) (map[string]bool, error) {
	nodes, err := s.queryStrings(ctx, `SELECT node_id FROM lineage_nodes WHERE exempt = 1`)
	if err != nil {
		return nil, err
	}
	exempt := make(map[string]bool, len(nodes))
	for _, node := range nodes {
		exempt[node] = true
	}
	return exempt, nil
}

// Scope returns the erasure scope of source.
func (s *SQLiteStore) Scope(ctx context.Context, source string) ([]string, error) {
	return scopeOf(ctx, s, source)
}

func (s *SQLiteStore) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
