package api

import (
	"context"
	"fmt"
	"net/url"

	"distrotui/internal/browser"
	"distrotui/internal/domain"
)

// PageSource reads pages of one entity type through the client
type PageSource[T any] struct {
	Client *Client
}

// NewPageSource returns a browser.PageSource backed by c
func NewPageSource[T any](c *Client) PageSource[T] {
	return PageSource[T]{Client: c}
}

// FetchPage implements browser.PageSource
func (s PageSource[T]) FetchPage(ctx context.Context, collection domain.Collection, params url.Values) (domain.Page[T], error) {
	return List[T](ctx, s.Client, collection, params)
}

// Submitter sends confirmed workflow actions to the API
type Submitter struct {
	Client *Client
}

// NewSubmitter returns a browser.Submitter backed by c
func NewSubmitter(c *Client) *Submitter {
	return &Submitter{Client: c}
}

// Submit implements browser.Submitter
func (s *Submitter) Submit(ctx context.Context, req browser.ActionRequest) (domain.ID, error) {
	switch req.Kind {
	case browser.ActionCancel:
		return "", s.Client.CancelBatch(ctx, req.BatchKind, req.BatchID)
	case browser.ActionRetryFailed:
		return s.Client.RetryFailed(ctx, req.BatchKind, req.BatchID)
	case browser.ActionResetBuild:
		pkg, err := singleTarget(req)
		if err != nil {
			return "", err
		}
		return "", s.Client.ResetLatestBuild(ctx, pkg)
	case browser.ActionImport, browser.ActionBuild:
	default:
		return "", fmt.Errorf("unsupported action %q", req.Kind)
	}

	if req.Single {
		pkg, err := singleTarget(req)
		if err != nil {
			return "", err
		}
		if req.Kind == browser.ActionBuild {
			return "", s.Client.CreateBuild(ctx, BuildRequest{
				PackageID:  pkg,
				OnlyBranch: req.Options.OnlyBranch,
				Scratch:    req.Options.Scratch,
			})
		}
		return "", s.Client.CreateImport(ctx, ImportRequest{PackageID: pkg})
	}

	return s.Client.CreateBatch(ctx, req.Kind.BatchKind(), BatchRequest{
		Packages:       req.Targets,
		ShouldPrecheck: req.Options.ShouldPrecheck,
		Scratch:        req.Options.Scratch,
		IgnoreModules:  req.Options.IgnoreModules,
		ArchOverride:   req.Options.ArchOverride,
		ForceTag:       req.Options.ForceTag,
	})
}

func singleTarget(req browser.ActionRequest) (domain.ID, error) {
	if len(req.Targets) != 1 || req.Targets[0].PackageID.IsZero() {
		return "", &Error{Code: ErrCodeValidation, Detail: "exactly one package is required"}
	}
	return req.Targets[0].PackageID, nil
}
