// Package doctree implements the tree and node services on top of the pure
// tree engine and a NodeRepository.
package doctree

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"doctree/internal/config"
	"doctree/internal/domain"
	models "doctree/internal/domain/models/doctree"
	"doctree/internal/domain/repositories"
	docrepo "doctree/internal/domain/repositories/doctree"
	docsvc "doctree/internal/domain/services/doctree"
	"doctree/internal/treeengine"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// TreeOptions holds the tree limits shared by the services
type TreeOptions struct {
	MaxDepth         int     // Deepest allowed depth index; <= 0 means unlimited
	IndentationWidth float64 // Pixels per nesting level
}

// OptionsFromConfig reads TreeOptions from the loaded configuration
func OptionsFromConfig(cfg *config.Config) TreeOptions {
	return TreeOptions{
		MaxDepth:         cfg.MaxTreeDepth,
		IndentationWidth: cfg.IndentationWidth,
	}
}

// DragOptionsFromConfig reads the drag gesture parameters used by
// TreeController and published to clients
func DragOptionsFromConfig(cfg *config.Config) treeengine.DragOptions {
	return treeengine.DragOptions{
		IndentationWidth:   cfg.IndentationWidth,
		MaxDepth:           cfg.MaxTreeDepth,
		ActivationDistance: cfg.DragActivationDistance,
	}
}

type treeService struct {
	nodeRepo docrepo.NodeRepository
	lock     repositories.CommitLock
	opts     TreeOptions
	logger   *slog.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(
	nodeRepo docrepo.NodeRepository,
	lock repositories.CommitLock,
	opts TreeOptions,
	logger *slog.Logger,
) docsvc.TreeService {
	return &treeService{
		nodeRepo: nodeRepo,
		lock:     lock,
		opts:     opts,
		logger:   logger,
	}
}

// loadTree fetches a project and derives depth and sibling index
func loadTree(ctx context.Context, repo docrepo.NodeRepository, projectID string) ([]*models.TreeNode, []models.FlatItem, error) {
	raw, err := repo.FetchTree(ctx, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch tree: %w", err)
	}
	tree := treeengine.BuildTree(raw)
	return tree, treeengine.FlattenTree(tree), nil
}

func findItem(items []models.FlatItem, id string) (models.FlatItem, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return models.FlatItem{}, false
}

// GetTree returns the nested, flat and visible forms of one read
func (s *treeService) GetTree(ctx context.Context, projectID string) (*docsvc.TreeSnapshot, error) {
	if err := validateProjectID(projectID); err != nil {
		return nil, err
	}

	tree, items, err := loadTree(ctx, s.nodeRepo, projectID)
	if err != nil {
		return nil, err
	}

	return &docsvc.TreeSnapshot{
		Tree:    tree,
		Items:   items,
		Visible: treeengine.VisibleItems(items, ""),
	}, nil
}

// VisibleItems returns the rendered list for an optional active drag
func (s *treeService) VisibleItems(ctx context.Context, projectID, activeID string) ([]models.FlatItem, error) {
	if err := validateProjectID(projectID); err != nil {
		return nil, err
	}

	_, items, err := loadTree(ctx, s.nodeRepo, projectID)
	if err != nil {
		return nil, err
	}
	if activeID != "" {
		if _, ok := findItem(items, activeID); !ok {
			return nil, fmt.Errorf("node %s: %w", activeID, domain.ErrNotFound)
		}
	}

	return treeengine.VisibleItems(items, activeID), nil
}

// Project computes a projection against the current rendered list
func (s *treeService) Project(ctx context.Context, req *docsvc.ProjectionRequest) (*models.Projection, error) {
	if err := validateProjectionRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	_, items, err := loadTree(ctx, s.nodeRepo, req.ProjectID)
	if err != nil {
		return nil, err
	}
	for _, id := range []string{req.ActiveID, req.OverID} {
		if _, ok := findItem(items, id); !ok {
			return nil, fmt.Errorf("node %s: %w", id, domain.ErrNotFound)
		}
	}

	rendered := treeengine.VisibleItems(items, req.ActiveID)
	if _, ok := findItem(rendered, req.OverID); !ok {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("node %s is hidden and cannot be a drop target", req.OverID)}
	}

	projection := treeengine.GetProjection(rendered, req.ActiveID, req.OverID, req.OffsetX, treeengine.ProjectionOptions{
		IndentationWidth: s.opts.IndentationWidth,
		MaxDepth:         s.opts.MaxDepth,
		SubtreeHeight:    treeengine.SubtreeHeight(items, req.ActiveID),
	})
	return &projection, nil
}

// Move applies a drop as a single repository batch under the project's
// commit lock. No-op moves never reach the repository.
func (s *treeService) Move(ctx context.Context, req *docsvc.MoveRequest) (*docsvc.MoveResult, error) {
	if err := validateMoveRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}

	release, err := s.lock.Acquire(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("commit lock release failed", "project_id", req.ProjectID, "error", err)
		}
	}()

	_, items, err := loadTree(ctx, s.nodeRepo, req.ProjectID)
	if err != nil {
		return nil, err
	}

	result, err := treeengine.Reorder(items, req.ActiveID, req.OverID, req.ParentID, req.Depth,
		treeengine.ReorderOptions{MaxDepth: s.opts.MaxDepth})
	if err != nil {
		var structural *domain.StructuralError
		if errors.As(err, &structural) {
			s.logger.Info("move rejected",
				"project_id", req.ProjectID,
				"node_id", req.ActiveID,
				"reason", structural.Reason,
			)
		}
		return nil, err
	}
	if result.NoOp {
		return &docsvc.MoveResult{Items: result.Items, Updates: result.Updates, NoOp: true}, nil
	}

	if err := s.nodeRepo.BatchUpdatePositions(ctx, req.ProjectID, result.Updates); err != nil {
		s.logger.Error("position batch failed",
			"project_id", req.ProjectID,
			"node_id", req.ActiveID,
			"update_count", len(result.Updates),
			"error", err,
		)
		return nil, &domain.CommitError{ProjectID: req.ProjectID, UpdateCount: len(result.Updates), Err: err}
	}

	s.logger.Info("node moved",
		"project_id", req.ProjectID,
		"node_id", req.ActiveID,
		"parent_id", req.ParentID,
		"depth", req.Depth,
		"update_count", len(result.Updates),
	)

	return &docsvc.MoveResult{Items: result.Items, Updates: result.Updates}, nil
}

// ChildCount returns how many nodes sit below nodeID
func (s *treeService) ChildCount(ctx context.Context, projectID, nodeID string) (int, error) {
	if err := validateProjectID(projectID); err != nil {
		return 0, err
	}

	tree, _, err := loadTree(ctx, s.nodeRepo, projectID)
	if err != nil {
		return 0, err
	}
	if treeengine.FindNode(tree, nodeID) == nil {
		return 0, fmt.Errorf("node %s: %w", nodeID, domain.ErrNotFound)
	}
	return treeengine.GetChildCount(tree, nodeID), nil
}

func validateProjectID(projectID string) error {
	err := validation.Validate(projectID,
		validation.Required,
		validation.Length(1, config.MaxProjectIDLength),
	)
	if err != nil {
		return &domain.ValidationError{Message: "project id: " + err.Error()}
	}
	return nil
}

func finite(value interface{}) error {
	if f, ok := value.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return errors.New("must be a finite number")
	}
	return nil
}

func validateProjectionRequest(req *docsvc.ProjectionRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ProjectID, validation.Required, validation.Length(1, config.MaxProjectIDLength)),
		validation.Field(&req.ActiveID, validation.Required),
		validation.Field(&req.OverID, validation.Required),
		validation.Field(&req.OffsetX, validation.By(finite)),
	)
}

func validateMoveRequest(req *docsvc.MoveRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ProjectID, validation.Required, validation.Length(1, config.MaxProjectIDLength)),
		validation.Field(&req.ActiveID, validation.Required),
		validation.Field(&req.OverID, validation.Required),
		validation.Field(&req.Depth, validation.Min(0)),
	)
}
