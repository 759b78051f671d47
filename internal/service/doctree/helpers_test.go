package doctree

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	models "doctree/internal/domain/models/doctree"
	docrepo "doctree/internal/domain/repositories/doctree"
	"doctree/internal/repository/memory"

	"github.com/stretchr/testify/require"
)

const testProject = "proj-1"

var errDatabaseDown = errors.New("database down")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOptions() TreeOptions {
	return TreeOptions{MaxDepth: 3, IndentationWidth: 50}
}

// seedSample builds A(folder)[B(folder)[C], D], E, F(folder) and returns
// the memory repository plus a title -> id map.
func seedSample(t *testing.T) (*memory.NodeRepository, map[string]string) {
	t.Helper()
	ctx := context.Background()
	repo := memory.NewNodeRepository(discardLogger())
	ids := map[string]string{}

	create := func(title string, parent string, docType models.DocumentType) {
		var parentID *string
		if parent != "" {
			p := ids[parent]
			parentID = &p
		}
		id, err := repo.Create(ctx, testProject, parentID, title, docType)
		require.NoError(t, err)
		ids[title] = id
	}

	text := models.Document(models.ContentText)
	create("A", "", models.Folder())
	create("B", "A", models.Folder())
	create("C", "B", text)
	create("D", "A", text)
	create("E", "", text)
	create("F", "", models.Folder())
	return repo, ids
}

func titlesOf(items []models.FlatItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func strPtr(s string) *string { return &s }

// recordingRepo counts batches and can fail or block them
type recordingRepo struct {
	docrepo.NodeRepository

	mu        sync.Mutex
	batches   int
	failWith  error
	toggleErr error
	entered   chan struct{}
	proceed   chan struct{}
}

func (r *recordingRepo) ToggleCollapse(ctx context.Context, projectID, id string) error {
	r.mu.Lock()
	toggleErr := r.toggleErr
	r.mu.Unlock()
	if toggleErr != nil {
		return toggleErr
	}
	return r.NodeRepository.ToggleCollapse(ctx, projectID, id)
}

func (r *recordingRepo) BatchUpdatePositions(ctx context.Context, projectID string, updates []models.PositionUpdate) error {
	r.mu.Lock()
	r.batches++
	failWith := r.failWith
	r.mu.Unlock()

	if r.entered != nil {
		r.entered <- struct{}{}
		<-r.proceed
	}
	if failWith != nil {
		return failWith
	}
	return r.NodeRepository.BatchUpdatePositions(ctx, projectID, updates)
}

func (r *recordingRepo) batchCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.batches
}
