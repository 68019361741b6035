package lineage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	_ "github.com/lib/pq"

	"github.com/credence-labs/credence/pkg/compliance"
)

// PostgresStore is a lineage Provider persisted in PostgreSQL. It offers the
// same contract as SQLiteStore for deployments with a shared database.
type PostgresStore struct {
	db              *sql.DB
	defaultBaseRate float64
}

// NewPostgresStore creates the store and runs its migration.
func NewPostgresStore(db *sql.DB, defaultBaseRate float64) (*PostgresStore, error) {
	s := &PostgresStore{db: db, defaultBaseRate: defaultBaseRate}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS lineage_nodes (
		node_id TEXT PRIMARY KEY,
		lawfulness DOUBLE PRECISION NOT NULL,
		violation DOUBLE PRECISION NOT NULL,
		uncertainty DOUBLE PRECISION NOT NULL,
		base_rate DOUBLE PRECISION NOT NULL,
		exempt BOOLEAN NOT NULL DEFAULT FALSE
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
func (s *PostgresStore) UpsertNode(ctx context.Context, node string, op compliance.Opinion, exempt bool) error {
	if err := op.Validate(); err != nil {
		return err
	}
	query := `INSERT INTO lineage_nodes (node_id, lawfulness, violation, uncertainty, base_rate, exempt)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (node_id) DO UPDATE SET
			lawfulness = EXCLUDED.lawfulness,
			violation = EXCLUDED.violation,
			uncertainty = EXCLUDED.uncertainty,
			base_rate = EXCLUDED.base_rate,
			exempt = EXCLUDED.exempt`
	_, err := s.db.ExecContext(ctx, query,
		node, op.Lawfulness(), op.Violation(), op.Uncertainty, op.BaseRate, exempt)
	if err != nil {
		return fmt.Errorf("upsert lineage node %q: %w", node, err)
	}
	return nil
}

// AddEdge records a derivation edge from parent to child.
func (s *PostgresStore) AddEdge(ctx context.Context, parent, child string) error {
	query := `INSERT INTO lineage_edges (parent_id, child_id) VALUES ($1, $2)
		ON CONFLICT (parent_id, child_id) DO NOTHING`
	if _, err := s.db.ExecContext(ctx, query, parent, child); err != nil {
		return fmt.Errorf("insert lineage edge %q -> %q: %w", parent, child, err)
	}
	return nil
}

// Descendants returns the transitive descendants of node, sorted.
func (s *PostgresStore) Descendants(ctx context.Context, node string) ([]string, error) {
	return s.closure(ctx, node, `SELECT child_id FROM lineage_edges WHERE parent_id = $1`)
}

// Ancestors returns the transitive ancestors of node, sorted.
func (s *PostgresStore) Ancestors(ctx context.Context, node string) ([]string, error) {
	return s.closure(ctx, node, `SELECT parent_id FROM lineage_edges WHERE child_id = $1`)
}

func (s *PostgresStore) closure(ctx context.Context, start, neighborQuery string) ([]string, error) {
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
func (s *PostgresStore) ErasureOpinion(ctx context.Context, node string) (compliance.Opinion, error) {
	query := `SELECT lawfulness, violation, uncertainty, base_rate FROM lineage_nodes WHERE node_id = $1`
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
func (s *PostgresStore) ExemptNodes(ctx context.Context) (map[string]bool, error) {
	nodes, err := s.queryStrings(ctx, `SELECT node_id FROM lineage_nodes WHERE exempt = TRUE`)
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
func (s *PostgresStore) Scope(ctx context.Context, source string) ([]string, error) {
	return scopeOf(ctx, s, source)
}

func (s *PostgresStore) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
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
