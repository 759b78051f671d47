package doctree

import (
	"fmt"

	"doctree/internal/domain"
	"doctree/internal/repository/postgres"
)

// nodeQueries holds the SQL for one node table
type nodeQueries struct {
	fetchTree      string
	updatePosition string
	create         string
	remove         string
	rename         string
	toggleCollapse string
}

func newNodeQueries(table string) nodeQueries {
	return nodeQueries{
		fetchTree: fmt.Sprintf(`
		SELECT id, parent_id, title, document_type, collapsed, order_position, created_at, updated_at
		FROM %s
		WHERE project_id = $1
		ORDER BY parent_id NULLS FIRST, order_position ASC, created_at ASC
	`, table),

		updatePosition: fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1, order_position = $2, updated_at = NOW()
		WHERE id = $3 AND project_id = $4
	`, table),

		// No row comes back when the parent is missing, belongs to another
		// project, or is not a folder.
		create: fmt.Sprintf(`
		INSERT INTO %[1]s (project_id, parent_id, title, document_type, order_position)
		SELECT $1, $2::uuid, $3, $4, COALESCE((
			SELECT MAX(order_position) + 1
			FROM %[1]s
			WHERE project_id = $1 AND parent_id IS NOT DISTINCT FROM $2::uuid
		), 0)
		WHERE $2::uuid IS NULL OR EXISTS (
			SELECT 1 FROM %[1]s
			WHERE id = $2::uuid AND project_id = $1 AND document_type = 'folder'
		)
		RETURNING id
	`, table),

		remove: fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND project_id = $2`, table),

		rename: fmt.Sprintf(`
		UPDATE %s SET title = $1, updated_at = NOW()
		WHERE id = $2 AND project_id = $3
	`, table),

		toggleCollapse: fmt.Sprintf(`
		UPDATE %s SET collapsed = NOT collapsed, updated_at = NOW()
		WHERE id = $1 AND project_id = $2 AND document_type = 'folder'
	`, table),
	}
}

// translateError maps driver errors to domain errors. op and id name the
// failed operation in the message.
func translateError(err error, op, id string) error {
	switch {
	case postgres.IsPgNoRowsError(err),
		postgres.IsPgForeignKeyError(err),
		postgres.IsPgInvalidInputError(err):
		return fmt.Errorf("%s %s: %w", op, id, domain.ErrNotFound)
	case postgres.IsPgDuplicateError(err):
		return &domain.ConflictError{
			Message:      fmt.Sprintf("%s %s: sibling position taken by a concurrent change", op, id),
			ResourceType: "node",
			ResourceID:   id,
		}
	default:
		return fmt.Errorf("%s %s: %w", op, id, err)
	}
}
