package cli

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"distrotui/internal/api"
	"distrotui/internal/browser"
	"distrotui/internal/domain"
)

// listCollections get a "<name> list" command
var listCollections = []domain.Collection{
	domain.CollectionPackages,
	domain.CollectionBuilds,
	domain.CollectionImports,
}

// packageFlags maps the package filter flags to server filter names
var packageFlags = []struct {
	flag   string
	filter string
	usage  string
}{
	{"modules-only", api.FilterModulesOnly, "Only modules"},
	{"non-modules-only", api.FilterNonModulesOnly, "Only packages that are not modules"},
	{"no-builds-only", api.FilterNoBuildsOnly, "Only packages never built"},
	{"with-builds-only", api.FilterWithBuildsOnly, "Only packages built at least once"},
	{"no-imports-only", api.FilterNoImportsOnly, "Only packages never imported"},
	{"with-imports-only", api.FilterWithImportsOnly, "Only packages imported at least once"},
}

const flagIncludeModularCandidates = "include-modular-candidates"

// newCollectionCmd creates "<collection> list"
func newCollectionCmd(a *app, c domain.Collection) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(c),
		Short: fmt.Sprintf("Browse %s", c),
	}
	cmd.AddCommand(newListCmd(a, c))
	return cmd
}

func newListCmd(a *app, c domain.Collection) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s", c),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, a, c)
		},
	}
	addPageFlags(cmd)
	if c == domain.CollectionPackages {
		cmd.Flags().String("search", "", "Filter by package name")
		for _, f := range packageFlags {
			cmd.Flags().Bool(f.flag, false, f.usage)
		}
		cmd.Flags().Bool(flagIncludeModularCandidates, false, "Include packages that are modular candidates")
	}
	return cmd
}

func addPageFlags(cmd *cobra.Command) {
	cmd.Flags().Int("page", 1, "Page number, starting at 1")
	cmd.Flags().Int("size", browser.DefaultPageSize, "Page size: 25, 50 or 100")
}

// listAddress turns the list flags into the address a browser would show
func listAddress(cmd *cobra.Command, c domain.Collection) *browser.Address {
	page, _ := cmd.Flags().GetInt("page")
	size, _ := cmd.Flags().GetInt("size")
	params := url.Values{}
	params.Set(browser.ParamPage, strconv.Itoa(page))
	params.Set(browser.ParamSize, strconv.Itoa(size))
	if f := cmd.Flags().Lookup("search"); f != nil && f.Value.String() != "" {
		params.Set(browser.ParamSearch, f.Value.String())
	}
	return &browser.Address{Path: "/" + string(c), Values: params}
}

// packageFilters reads the filter flags, rejecting contradictory ones
func packageFilters(cmd *cobra.Command) (browser.Filters, error) {
	flags := map[string]bool{}
	for _, f := range packageFlags {
		if on, _ := cmd.Flags().GetBool(f.flag); on {
			flags[f.filter] = true
		}
	}
	include, _ := cmd.Flags().GetBool(flagIncludeModularCandidates)
	flags[api.FilterExcludeModularCandidates] = !include

	filters := browser.NewFilters(flags)
	if err := api.PackageConstraints().Validate(filters); err != nil {
		return browser.Filters{}, err
	}
	return filters, nil
}

func runList(cmd *cobra.Command, a *app, c domain.Collection) error {
	switch c {
	case domain.CollectionPackages:
		filters, err := packageFilters(cmd)
		if err != nil {
			return err
		}
		page, err := fetchPage[domain.Package](cmd, a, c, filters)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), a.output, page, func() tableData {
			data := tableData{header: []string{"ID", "Name", "Kind", "Responsible", "Last import", "Last build"}}
			for _, p := range page.Items {
				data.rows = append(data.rows, []string{p.ID.String(), p.Name, p.Kind(), p.ResponsibleUsername, timeString(p.LastImport), timeString(p.LastBuild)})
			}
			data.footer = pageFooter(page.Page, page.PageCount(), page.Total)
			return data
		})
	case domain.CollectionBuilds:
		page, err := fetchPage[domain.Build](cmd, a, c, browser.Filters{})
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), a.output, page, func() tableData {
			data := tableData{header: []string{"ID", "Package", "Status", "Koji/MBS", "Executor", "Created"}}
			for _, b := range page.Items {
				data.rows = append(data.rows, []string{b.ID.String(), packageName(b.Package), b.Status.Label(), buildRef(b), b.ExecutorUsername, b.CreatedAt.String()})
			}
			data.footer = pageFooter(page.Page, page.PageCount(), page.Total)
			return data
		})
	case domain.CollectionImports:
		page, err := fetchPage[domain.Import](cmd, a, c, browser.Filters{})
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), a.output, page, func() tableData {
			data := tableData{header: []string{"ID", "Package", "Status", "Version", "Executor", "Created"}}
			for _, i := range page.Items {
				data.rows = append(data.rows, []string{i.ID.String(), packageName(i.Package), i.Status.Label(), strconv.Itoa(i.Version), i.ExecutorUsername, i.CreatedAt.String()})
			}
			data.footer = pageFooter(page.Page, page.PageCount(), page.Total)
			return data
		})
	case domain.CollectionBatchImports:
		page, err := fetchPage[domain.BatchImport](cmd, a, c, browser.Filters{})
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), a.output, page, func() tableData {
			data := tableData{header: []string{"ID", "Items", "Succeeded", "Failed", "Pending", "Created"}}
			for _, b := range page.Items {
				data.rows = append(data.rows, progressRow(b.ID, b.Statuses(), b.CreatedAt))
			}
			data.footer = pageFooter(page.Page, page.PageCount(), page.Total)
			return data
		})
	case domain.CollectionBatchBuilds:
		page, err := fetchPage[domain.BatchBuild](cmd, a, c, browser.Filters{})
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), a.output, page, func() tableData {
			data := tableData{header: []string{"ID", "Items", "Succeeded", "Failed", "Pending", "Created"}}
			for _, b := range page.Items {
				data.rows = append(data.rows, progressRow(b.ID, b.Statuses(), b.CreatedAt))
			}
			data.footer = pageFooter(page.Page, page.PageCount(), page.Total)
			return data
		})
	}
	return fmt.Errorf("cannot list %s", c)
}

// fetchPage reads one page through a browser, so the flags are normalized
// exactly as a location typed in the TUI would be
func fetchPage[T browser.Keyed](cmd *cobra.Command, a *app, c domain.Collection, filters browser.Filters) (domain.Page[T], error) {
	b := browser.New[T](browser.Config{
		Collection:  c,
		Constraints: constraintsFor(c),
		Defaults:    filters,
		Publisher:   a.bus,
	}, listAddress(cmd, c), api.NewPageSource[T](a.client))

	req := b.Init()
	ctx, cancel := requestContext(cmd)
	defer cancel()

	res := b.Fetcher.Do(ctx, req)
	if b.Apply(res) == browser.Failed {
		return domain.Page[T]{}, fmt.Errorf("failed to list %s: %s", c, browser.ErrorMessage(res.Err, ""))
	}
	return b.Fetcher.Page(), nil
}

func constraintsFor(c domain.Collection) browser.Constraints {
	if c == domain.CollectionPackages {
		return api.PackageConstraints()
	}
	return browser.Constraints{}
}

func pageFooter(page, pages, total int) string {
	// The server counts pages from zero
	return fmt.Sprintf("page %d of %d · %d total", page+1, max(1, pages), total)
}

func progressRow(id domain.ID, statuses []domain.Status, created domain.Time) []string {
	p := browser.ProgressOf(statuses)
	return []string{
		id.String(),
		strconv.Itoa(p.Total),
		strconv.Itoa(p.Succeeded),
		strconv.Itoa(p.Failed),
		strconv.Itoa(p.Pending()),
		created.String(),
	}
}

func packageName(p *domain.Package) string {
	if p == nil {
		return "-"
	}
	return p.Name
}

func buildRef(b domain.Build) string {
	switch {
	case b.Mbs && b.MbsID != nil:
		return "mbs:" + strconv.FormatInt(*b.MbsID, 10)
	case b.KojiID != nil:
		return strconv.FormatInt(*b.KojiID, 10)
	}
	return "-"
}

func timeString(t *domain.Time) string {
	if t == nil || t.IsZero() {
		return "never"
	}
	return t.String()
}

// idArg validates a numeric entity id argument
func idArg(s string) (domain.ID, error) {
	s = strings.TrimSpace(s)
	if _, err := strconv.ParseInt(s, 10, 64); err != nil {
		return "", fmt.Errorf("invalid id %q: must be a number", s)
	}
	return domain.ParseID(s), nil
}
