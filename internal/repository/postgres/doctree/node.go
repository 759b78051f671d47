package doctree

import (
	"context"
	"fmt"
	"log/slog"

	"doctree/internal/domain"
	models "doctree/internal/domain/models/doctree"
	"doctree/internal/domain/repositories"
	docrepo "doctree/internal/domain/repositories/doctree"
	"doctree/internal/repository/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresNodeRepository implements the NodeRepository interface
type PostgresNodeRepository struct {
	pool      *pgxpool.Pool
	queries   nodeQueries
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewNodeRepository creates a new node repository
func NewNodeRepository(config *postgres.RepositoryConfig, txManager repositories.TransactionManager) docrepo.NodeRepository {
	return &PostgresNodeRepository{
		pool:      config.Pool,
		queries:   newNodeQueries(config.Tables.Nodes),
		txManager: txManager,
		logger:    config.Logger,
	}
}

// FetchTree returns all nodes of a project ordered by parent and position
func (r *PostgresNodeRepository) FetchTree(ctx context.Context, projectID string) ([]models.FlatItem, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, r.queries.fetchTree, projectID)
	if err != nil {
		return nil, fmt.Errorf("fetch tree: %w", err)
	}
	defer rows.Close()

	items := make([]models.FlatItem, 0)
	for rows.Next() {
		var (
			item    models.FlatItem
			docType string
		)
		if err := rows.Scan(
			&item.ID,
			&item.ParentID,
			&item.Title,
			&docType,
			&item.Collapsed,
			&item.OrderPosition,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		item.DocumentType, err = models.ParseDocumentType(docType)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", item.ID, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nodes: %w", err)
	}

	return items, nil
}

// BatchUpdatePositions sends every update in one pgx.Batch inside a transaction.
// A single missing row rolls the whole batch back.
func (r *PostgresNodeRepository) BatchUpdatePositions(ctx context.Context, projectID string, updates []models.PositionUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	err := r.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		batch := &pgx.Batch{}
		for _, u := range updates {
			batch.Queue(r.queries.updatePosition, u.ParentID, u.OrderPosition, u.ID, projectID)
		}

		results := postgres.GetExecutor(txCtx, r.pool).SendBatch(txCtx, batch)
		for _, u := range updates {
			tag, err := results.Exec()
			if err != nil {
				results.Close()
				return translateError(err, "move node", u.ID)
			}
			if tag.RowsAffected() == 0 {
				results.Close()
				return &domain.NotFoundError{Message: fmt.Sprintf("node %s not found", u.ID)}
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("close batch: %w", err)
		}

		r.logger.Debug("position batch applied", "project_id", projectID, "update_count", len(updates))
		return nil
	})
	if postgres.IsPgDuplicateError(err) {
		// Deferred sibling check fired at commit
		return translateError(err, "move nodes in project", projectID)
	}
	return err
}

// Create inserts a node after its last sibling. The parent must be a folder
// in the same project.
func (r *PostgresNodeRepository) Create(ctx context.Context, projectID string, parentID *string, title string, docType models.DocumentType) (string, error) {
	var id string
	err := postgres.GetExecutor(ctx, r.pool).
		QueryRow(ctx, r.queries.create, projectID, parentID, title, docType.String()).
		Scan(&id)
	if err != nil {
		return "", translateError(err, "create under parent", deref(parentID))
	}

	return id, nil
}

// Remove deletes a node; the foreign key cascades to descendants
func (r *PostgresNodeRepository) Remove(ctx context.Context, projectID, id string) error {
	tag, err := postgres.GetExecutor(ctx, r.pool).Exec(ctx, r.queries.remove, id, projectID)
	if err != nil {
		return translateError(err, "delete node", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("node %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Rename updates a node's title
func (r *PostgresNodeRepository) Rename(ctx context.Context, projectID, id, title string) error {
	tag, err := postgres.GetExecutor(ctx, r.pool).Exec(ctx, r.queries.rename, title, id, projectID)
	if err != nil {
		return translateError(err, "rename node", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("node %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ToggleCollapse flips the collapsed flag of a folder
func (r *PostgresNodeRepository) ToggleCollapse(ctx context.Context, projectID, id string) error {
	tag, err := postgres.GetExecutor(ctx, r.pool).Exec(ctx, r.queries.toggleCollapse, id, projectID)
	if err != nil {
		return translateError(err, "toggle collapse of", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return "<root>"
	}
	return *s
}
