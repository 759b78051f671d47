package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the node table and its indexes if they don't exist.
// Sibling positions are unique per parent; the check is deferred to commit so
// a position batch may pass through transient duplicates. Requires Postgres 15.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	if _, err := pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`); err != nil {
		return fmt.Errorf("enable uuid-ossp: %w", err)
	}

	createNodes := `
		CREATE TABLE IF NOT EXISTS ` + tables.Nodes + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			project_id TEXT NOT NULL,
			parent_id UUID REFERENCES ` + tables.Nodes + `(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			document_type TEXT NOT NULL CHECK (document_type IN ('folder', 'text', 'markdown', 'binary')),
			collapsed BOOLEAN NOT NULL DEFAULT FALSE,
			order_position INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT ` + tables.Prefix + `nodes_sibling_position
				UNIQUE NULLS NOT DISTINCT (project_id, parent_id, order_position)
				DEFERRABLE INITIALLY DEFERRED
		)
	`
	if _, err := pool.Exec(ctx, createNodes); err != nil {
		return fmt.Errorf("create %s: %w", tables.Nodes, err)
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tables.Prefix + `nodes_project_parent ON ` + tables.Nodes + `(project_id, parent_id, order_position)`,
	}
	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	return nil
}

// DropSchema drops every table owned by this service
func DropSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+tables.Nodes+" CASCADE"); err != nil {
		return fmt.Errorf("drop %s: %w", tables.Nodes, err)
	}
	return nil
}

// ClearProject deletes every node of a project
func ClearProject(ctx context.Context, pool *pgxpool.Pool, tables *TableNames, projectID string) (int64, error) {
	tag, err := pool.Exec(ctx, "DELETE FROM "+tables.Nodes+" WHERE project_id = $1", projectID)
	if err != nil {
		return 0, fmt.Errorf("clear project %s: %w", projectID, err)
	}
	return tag.RowsAffected(), nil
}
