package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"distrotui/internal/browser"
	"distrotui/internal/domain"
)

// Package list filters understood by the server.
const (
	FilterModulesOnly              = "modules_only"
	FilterNonModulesOnly           = "non_modules_only"
	FilterExcludeModularCandidates = "exclude_modular_candidates"
	FilterNoBuildsOnly             = "no_builds_only"
	FilterWithBuildsOnly           = "with_builds_only"
	FilterNoImportsOnly            = "no_imports_only"
	FilterWithImportsOnly          = "with_imports_only"
)

// PackageConstraints pairs the package filters that exclude each other.
func PackageConstraints() browser.Constraints {
	return browser.NewConstraints(
		[]string{FilterModulesOnly, FilterNonModulesOnly},
		[]string{FilterNoBuildsOnly, FilterWithBuildsOnly},
		[]string{FilterNoImportsOnly, FilterWithImportsOnly},
	)
}

// PackageDefaults are the filters a package listing starts with.
func PackageDefaults() browser.Filters {
	return browser.NewFilters(map[string]bool{FilterExcludeModularCandidates: true})
}

// recentSize is how many imports and builds the dashboard shows.
const recentSize = 5

// ListOptions are the parameters of a listing call made outside a browser.
type ListOptions struct {
	Page  int // zero-based
	Size  int
	Name  string
	Flags map[string]bool
}

// Values encodes the options as query parameters.
func (o ListOptions) Values() url.Values {
	params := url.Values{}
	params.Set("page", strconv.Itoa(o.Page))
	if o.Size > 0 {
		params.Set("size", strconv.Itoa(o.Size))
	}
	if o.Name != "" {
		params.Set("name", o.Name)
	}
	for name, on := range o.Flags {
		params.Set(name, strconv.FormatBool(on))
	}
	return params
}

// ListPackages reads a page of packages.
func (c *Client) ListPackages(ctx context.Context, opts ListOptions) (domain.Page[domain.Package], error) {
	return List[domain.Package](ctx, c, domain.CollectionPackages, opts.Values())
}

// ListBuilds reads a page of builds.
func (c *Client) ListBuilds(ctx context.Context, opts ListOptions) (domain.Page[domain.Build], error) {
	return List[domain.Build](ctx, c, domain.CollectionBuilds, opts.Values())
}

// ListImports reads a page of imports.
func (c *Client) ListImports(ctx context.Context, opts ListOptions) (domain.Page[domain.Import], error) {
	return List[domain.Import](ctx, c, domain.CollectionImports, opts.Values())
}

// ListBatchImports reads a page of import batches.
func (c *Client) ListBatchImports(ctx context.Context, opts ListOptions) (domain.Page[domain.BatchImport], error) {
	return List[domain.BatchImport](ctx, c, domain.CollectionBatchImports, opts.Values())
}

// ListBatchBuilds reads a page of build batches.
func (c *Client) ListBatchBuilds(ctx context.Context, opts ListOptions) (domain.Page[domain.BatchBuild], error) {
	return List[domain.BatchBuild](ctx, c, domain.CollectionBatchBuilds, opts.Values())
}

// GetPackage reads one package with its imports and builds.
func (c *Client) GetPackage(ctx context.Context, id domain.ID) (*domain.Package, error) {
	return Get[domain.Package](ctx, c, domain.CollectionPackages, id)
}

// GetBuild reads one build.
func (c *Client) GetBuild(ctx context.Context, id domain.ID) (*domain.Build, error) {
	return Get[domain.Build](ctx, c, domain.CollectionBuilds, id)
}

// GetImport reads one import.
func (c *Client) GetImport(ctx context.Context, id domain.ID) (*domain.Import, error) {
	return Get[domain.Import](ctx, c, domain.CollectionImports, id)
}

// GetBatchImport reads one import batch.
func (c *Client) GetBatchImport(ctx context.Context, id domain.ID) (*domain.BatchImport, error) {
	b, err := Get[domain.BatchImport](ctx, c, domain.CollectionBatchImports, id)
	if err == nil && b.ID.IsZero() {
		return nil, &Error{Code: ErrCodeNotFound, Status: http.StatusNotFound, Detail: "batch import does not exist"}
	}
	return b, err
}

// GetBatchBuild reads one build batch.
func (c *Client) GetBatchBuild(ctx context.Context, id domain.ID) (*domain.BatchBuild, error) {
	b, err := Get[domain.BatchBuild](ctx, c, domain.CollectionBatchBuilds, id)
	if err == nil && b.ID.IsZero() {
		return nil, &Error{Code: ErrCodeNotFound, Status: http.StatusNotFound, Detail: "batch build does not exist"}
	}
	return b, err
}

// ImportLogs returns the plain-text log of an import.
func (c *Client) ImportLogs(ctx context.Context, id domain.ID) (string, error) {
	resp, err := c.send(ctx, http.MethodGet, domain.CollectionImports.ItemPath(id)+"/logs", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Code: ErrCodeTransport, Err: err}
	}
	return string(data), nil
}

// Dashboard reads the most recent imports and builds concurrently.
func (c *Client) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	var dash domain.Dashboard
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := c.ListImports(ctx, ListOptions{Size: recentSize})
		if err != nil {
			return fmt.Errorf("recent imports: %w", err)
		}
		dash.Imports = page
		return nil
	})
	g.Go(func() error {
		page, err := c.ListBuilds(ctx, ListOptions{Size: recentSize})
		if err != nil {
			return fmt.Errorf("recent builds: %w", err)
		}
		dash.Builds = page
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dash, nil
}
