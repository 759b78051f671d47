package doctree

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"doctree/internal/config"
	"doctree/internal/domain"
	models "doctree/internal/domain/models/doctree"
	"doctree/internal/domain/repositories"
	docrepo "doctree/internal/domain/repositories/doctree"
	docsvc "doctree/internal/domain/services/doctree"
	"doctree/internal/treeengine"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type nodeService struct {
	nodeRepo docrepo.NodeRepository
	lock     repositories.CommitLock
	opts     TreeOptions
	logger   *slog.Logger
}

// NewNodeService creates a new node service
func NewNodeService(
	nodeRepo docrepo.NodeRepository,
	lock repositories.CommitLock,
	opts TreeOptions,
	logger *slog.Logger,
) docsvc.NodeService {
	return &nodeService{
		nodeRepo: nodeRepo,
		lock:     lock,
		opts:     opts,
		logger:   logger,
	}
}

// CreateNode validates the parent and appends the node after its siblings
func (s *nodeService) CreateNode(ctx context.Context, req *docsvc.CreateNodeRequest) (*models.FlatItem, error) {
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}
	req.Title = strings.TrimSpace(req.Title)

	if err := validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	docType, err := models.ParseDocumentType(req.DocumentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	_, items, err := loadTree(ctx, s.nodeRepo, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := treeengine.ValidateParentChildRelationship(items, req.ParentID, docType); err != nil {
		return nil, err
	}
	if req.ParentID != nil && s.opts.MaxDepth > 0 {
		parent, _ := findItem(items, *req.ParentID)
		if parent.Depth+1 > s.opts.MaxDepth {
			return nil, domain.NewStructuralError(domain.ReasonMaxDepth,
				"folder %s is already at the maximum depth of %d", parent.ID, s.opts.MaxDepth)
		}
	}

	id, err := s.nodeRepo.Create(ctx, req.ProjectID, req.ParentID, req.Title, docType)
	if err != nil {
		return nil, err
	}

	s.logger.Info("node created",
		"project_id", req.ProjectID,
		"node_id", id,
		"document_type", docType.String(),
	)

	return s.reload(ctx, req.ProjectID, id)
}

// RenameNode changes a node's title
func (s *nodeService) RenameNode(ctx context.Context, req *docsvc.RenameNodeRequest) (*models.FlatItem, error) {
	req.Title = strings.TrimSpace(req.Title)

	if err := validateRenameRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.nodeRepo.Rename(ctx, req.ProjectID, req.NodeID, req.Title); err != nil {
		return nil, err
	}

	s.logger.Info("node renamed", "project_id", req.ProjectID, "node_id", req.NodeID)

	return s.reload(ctx, req.ProjectID, req.NodeID)
}

// DeleteNode removes a node and its subtree. It takes the commit lock so a
// delete never races a position batch for the same tree.
func (s *nodeService) DeleteNode(ctx context.Context, projectID, nodeID string) (int, error) {
	if err := validateProjectID(projectID); err != nil {
		return 0, err
	}

	release, err := s.lock.Acquire(ctx, projectID)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("commit lock release failed", "project_id", projectID, "error", err)
		}
	}()

	tree, _, err := loadTree(ctx, s.nodeRepo, projectID)
	if err != nil {
		return 0, err
	}
	if treeengine.FindNode(tree, nodeID) == nil {
		return 0, fmt.Errorf("node %s: %w", nodeID, domain.ErrNotFound)
	}
	removed := treeengine.GetChildCount(tree, nodeID) + 1

	if err := s.nodeRepo.Remove(ctx, projectID, nodeID); err != nil {
		return 0, err
	}

	s.logger.Info("node deleted",
		"project_id", projectID,
		"node_id", nodeID,
		"removed", removed,
	)

	return removed, nil
}

// ToggleCollapse flips a folder's collapsed flag
func (s *nodeService) ToggleCollapse(ctx context.Context, projectID, nodeID string) (bool, error) {
	if err := validateProjectID(projectID); err != nil {
		return false, err
	}

	_, items, err := loadTree(ctx, s.nodeRepo, projectID)
	if err != nil {
		return false, err
	}
	item, ok := findItem(items, nodeID)
	if !ok {
		return false, fmt.Errorf("node %s: %w", nodeID, domain.ErrNotFound)
	}
	if !item.IsFolder() {
		return false, &domain.ValidationError{Message: "only folders can be collapsed"}
	}

	if err := s.nodeRepo.ToggleCollapse(ctx, projectID, nodeID); err != nil {
		return false, err
	}

	s.logger.Debug("folder collapse toggled",
		"project_id", projectID,
		"node_id", nodeID,
		"collapsed", !item.Collapsed,
	)

	return !item.Collapsed, nil
}

func (s *nodeService) reload(ctx context.Context, projectID, nodeID string) (*models.FlatItem, error) {
	_, items, err := loadTree(ctx, s.nodeRepo, projectID)
	if err != nil {
		return nil, err
	}
	item, ok := findItem(items, nodeID)
	if !ok {
		return nil, fmt.Errorf("node %s: %w", nodeID, domain.ErrNotFound)
	}
	return &item, nil
}

func validateCreateRequest(req *docsvc.CreateNodeRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ProjectID, validation.Required, validation.Length(1, config.MaxProjectIDLength)),
		validation.Field(&req.Title,
			validation.Required,
			validation.RuneLength(1, config.MaxNodeTitleLength),
		),
		validation.Field(&req.DocumentType,
			validation.Required,
			validation.In("folder", "text", "markdown", "binary"),
		),
	)
}

func validateRenameRequest(req *docsvc.RenameNodeRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ProjectID, validation.Required, validation.Length(1, config.MaxProjectIDLength)),
		validation.Field(&req.NodeID, validation.Required),
		validation.Field(&req.Title,
			validation.Required,
			validation.RuneLength(1, config.MaxNodeTitleLength),
		),
	)
}
