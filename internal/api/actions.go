package api

import (
	"context"
	"net/http"

	"distrotui/internal/domain"
)

// BuildRequest queues one build
type BuildRequest struct {
	PackageID  domain.ID `json:"package_id"`
	OnlyBranch string    `json:"only_branch,omitempty"`
	Scratch    bool      `json:"scratch,omitempty"`
}

// ImportRequest queues one import
type ImportRequest struct {
	PackageID domain.ID `json:"package_id"`
}

// BatchRequest creates an import or build batch. The build-only fields are
// left out of import batches.
type BatchRequest struct {
	Packages       []domain.Target `json:"packages"`
	ShouldPrecheck bool            `json:"should_precheck"`
	Scratch        bool            `json:"scratch,omitempty"`
	IgnoreModules  bool            `json:"ignore_modules,omitempty"`
	ArchOverride   string          `json:"arch_override,omitempty"`
	ForceTag       string          `json:"force_tag,omitempty"`
}

type newBatchResponse struct {
	ID domain.ID `json:"id"`
}

// CreateBuild queues a build of one package
func (c *Client) CreateBuild(ctx context.Context, req BuildRequest) error {
	return c.doRequest(ctx, http.MethodPost, domain.CollectionBuilds.Path(), req, nil)
}

// CreateImport queues an import of one package
func (c *Client) CreateImport(ctx context.Context, req ImportRequest) error {
	return c.doRequest(ctx, http.MethodPost, domain.CollectionImports.Path(), req, nil)
}

// CreateBatch creates a batch and returns its id
func (c *Client) CreateBatch(ctx context.Context, kind domain.BatchKind, req BatchRequest) (domain.ID, error) {
	if kind == domain.BatchImports {
		req.Scratch = false
		req.IgnoreModules = false
		req.ArchOverride = ""
		req.ForceTag = ""
	}
	var out newBatchResponse
	if err := c.doRequest(ctx, http.MethodPost, kind.Collection().Path(), req, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// CancelBatch cancels every pending item of a batch
func (c *Client) CancelBatch(ctx context.Context, kind domain.BatchKind, id domain.ID) error {
	return c.doRequest(ctx, http.MethodPost, kind.Collection().ItemPath(id)+"/cancel", nil, nil)
}

// RetryFailed creates a new batch from the failed items of a batch and
// returns the new batch id
func (c *Client) RetryFailed(ctx context.Context, kind domain.BatchKind, id domain.ID) (domain.ID, error) {
	var out newBatchResponse
	if err := c.doRequest(ctx, http.MethodPost, kind.Collection().ItemPath(id)+"/retry_failed", nil, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// ResetLatestBuild forgets the latest build of a package
func (c *Client) ResetLatestBuild(ctx context.Context, id domain.ID) error {
	return c.doRequest(ctx, http.MethodPost, domain.CollectionPackages.ItemPath(id)+"/reset_latest_build", nil, nil)
}
