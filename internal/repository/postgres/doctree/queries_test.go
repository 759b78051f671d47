package doctree

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"doctree/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNodeQueries(t *testing.T) {
	q := newNodeQueries("test_nodes")

	for name, query := range map[string]string{
		"fetchTree":      q.fetchTree,
		"updatePosition": q.updatePosition,
		"create":         q.create,
		"remove":         q.remove,
		"rename":         q.rename,
		"toggleCollapse": q.toggleCollapse,
	} {
		t.Run(name, func(t *testing.T) {
			assert.Contains(t, query, "test_nodes")
			assert.Contains(t, query, "project_id", "every statement is scoped to one project")
			assert.NotContains(t, query, "%!", "format verbs resolved")
		})
	}

	t.Run("create only adopts folders of the same project", func(t *testing.T) {
		assert.Contains(t, q.create, "id = $2::uuid AND project_id = $1 AND document_type = 'folder'")
		assert.Contains(t, q.create, "RETURNING id")
	})

	t.Run("collapse only touches folders", func(t *testing.T) {
		assert.True(t, strings.HasSuffix(strings.TrimSpace(q.toggleCollapse), "document_type = 'folder'"))
	})
}

func TestTranslateError(t *testing.T) {
	driverDown := errors.New("connection reset")

	tests := []struct {
		name         string
		err          error
		wantNotFound bool
		wantConflict bool
		wantCause    error
		wantCode     string
	}{
		{name: "no rows", err: pgx.ErrNoRows, wantNotFound: true},
		{name: "wrapped no rows", err: fmt.Errorf("scan: %w", pgx.ErrNoRows), wantNotFound: true},
		{name: "foreign key", err: &pgconn.PgError{Code: "23503"}, wantNotFound: true},
		{name: "malformed uuid", err: &pgconn.PgError{Code: "22P02"}, wantNotFound: true},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, wantConflict: true},
		{name: "other pg error", err: &pgconn.PgError{Code: "40001"}, wantCode: "40001"},
		{name: "driver error", err: driverDown, wantCause: driverDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.err, "rename node", "n-1")
			require.Error(t, got)
			assert.Contains(t, got.Error(), "rename node n-1")

			assert.Equal(t, tt.wantNotFound, errors.Is(got, domain.ErrNotFound))
			assert.Equal(t, tt.wantConflict, errors.Is(got, domain.ErrConflict))

			if tt.wantConflict {
				var conflict *domain.ConflictError
				require.ErrorAs(t, got, &conflict)
				assert.Equal(t, "node", conflict.ResourceType)
				assert.Equal(t, "n-1", conflict.ResourceID)
			}
			if tt.wantCause != nil {
				assert.ErrorIs(t, got, tt.wantCause)
			}
			if tt.wantCode != "" {
				var pgErr *pgconn.PgError
				require.ErrorAs(t, got, &pgErr)
				assert.Equal(t, tt.wantCode, pgErr.Code)
			}
		})
	}
}

func TestDeref(t *testing.T) {
	id := "n-1"
	assert.Equal(t, "n-1", deref(&id))
	assert.Equal(t, "<root>", deref(nil))
}
