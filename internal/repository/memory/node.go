// Package memory holds in-process implementations of the repository
// interfaces, used for single-instance deployments and tests.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"doctree/internal/domain"
	models "doctree/internal/domain/models/doctree"
	docrepo "doctree/internal/domain/repositories/doctree"

	"github.com/google/uuid"
)

type nodeRecord struct {
	models.Node
	parentID *string
	seq      int
}

// NodeRepository is a mutex-guarded in-memory NodeRepository
type NodeRepository struct {
	mu       sync.RWMutex
	projects map[string]map[string]*nodeRecord
	seq      int
	now      func() time.Time
	logger   *slog.Logger
}

// NewNodeRepository creates an empty in-memory repository
func NewNodeRepository(logger *slog.Logger) *NodeRepository {
	return &NodeRepository{
		projects: make(map[string]map[string]*nodeRecord),
		now:      time.Now,
		logger:   logger,
	}
}

var _ docrepo.NodeRepository = (*NodeRepository)(nil)

// FetchTree returns the project's nodes ordered by parent, position and insertion
func (r *NodeRepository) FetchTree(ctx context.Context, projectID string) ([]models.FlatItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	nodes := r.projects[projectID]
	records := make([]*nodeRecord, 0, len(nodes))
	for _, rec := range nodes {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if pa, pb := parentSortKey(a.parentID), parentSortKey(b.parentID); pa != pb {
			return pa < pb
		}
		if a.OrderPosition != b.OrderPosition {
			return a.OrderPosition < b.OrderPosition
		}
		return a.seq < b.seq
	})

	items := make([]models.FlatItem, 0, len(records))
	for _, rec := range records {
		items = append(items, models.FlatItem{Node: rec.Node, ParentID: copyID(rec.parentID)})
	}
	return items, nil
}

// BatchUpdatePositions checks every id before touching anything
func (r *NodeRepository) BatchUpdatePositions(ctx context.Context, projectID string, updates []models.PositionUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	nodes := r.projects[projectID]
	for _, u := range updates {
		if _, ok := nodes[u.ID]; !ok {
			return &domain.NotFoundError{Message: fmt.Sprintf("node %s not found", u.ID)}
		}
		if u.ParentID != nil {
			if _, ok := nodes[*u.ParentID]; !ok {
				return fmt.Errorf("parent %s: %w", *u.ParentID, domain.ErrNotFound)
			}
		}
	}

	now := r.now()
	for _, u := range updates {
		rec := nodes[u.ID]
		rec.parentID = copyID(u.ParentID)
		rec.OrderPosition = u.OrderPosition
		rec.UpdatedAt = now
	}

	r.logger.Debug("position batch applied", "project_id", projectID, "update_count", len(updates))
	return nil
}

// Create appends a node after its last sibling
func (r *NodeRepository) Create(ctx context.Context, projectID string, parentID *string, title string, docType models.DocumentType) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	nodes, ok := r.projects[projectID]
	if !ok {
		nodes = make(map[string]*nodeRecord)
		r.projects[projectID] = nodes
	}
	if parentID != nil {
		if _, ok := nodes[*parentID]; !ok {
			return "", fmt.Errorf("parent %s: %w", *parentID, domain.ErrNotFound)
		}
	}

	next := 0
	for _, rec := range nodes {
		if sameParent(rec.parentID, parentID) && rec.OrderPosition >= next {
			next = rec.OrderPosition + 1
		}
	}

	now := r.now()
	r.seq++
	rec := &nodeRecord{
		Node: models.Node{
			ID:            uuid.NewString(),
			Title:         title,
			DocumentType:  docType,
			OrderPosition: next,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		parentID: copyID(parentID),
		seq:      r.seq,
	}
	nodes[rec.ID] = rec
	return rec.ID, nil
}

// Remove deletes a node and all of its descendants
func (r *NodeRepository) Remove(ctx context.Context, projectID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	nodes := r.projects[projectID]
	if _, ok := nodes[id]; !ok {
		return fmt.Errorf("node %s: %w", id, domain.ErrNotFound)
	}

	doomed := map[string]struct{}{id: {}}
	for grew := true; grew; {
		grew = false
		for nid, rec := range nodes {
			if _, done := doomed[nid]; done || rec.parentID == nil {
				continue
			}
			if _, ok := doomed[*rec.parentID]; ok {
				doomed[nid] = struct{}{}
				grew = true
			}
		}
	}
	for nid := range doomed {
		delete(nodes, nid)
	}
	return nil
}

// Rename updates a node's title
func (r *NodeRepository) Rename(ctx context.Context, projectID, id, title string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.projects[projectID][id]
	if !ok {
		return fmt.Errorf("node %s: %w", id, domain.ErrNotFound)
	}
	rec.Title = title
	rec.UpdatedAt = r.now()
	return nil
}

// ToggleCollapse flips the collapsed flag; only folders qualify
func (r *NodeRepository) ToggleCollapse(ctx context.Context, projectID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.projects[projectID][id]
	if !ok || !rec.DocumentType.IsFolder() {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	rec.Collapsed = !rec.Collapsed
	rec.UpdatedAt = r.now()
	return nil
}

func parentSortKey(id *string) string {
	if id == nil {
		return ""
	}
	return *id
}

func copyID(id *string) *string {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
