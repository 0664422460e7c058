package ui

import (
	"fmt"
	"strconv"

	"distrotui/internal/api"
	"distrotui/internal/browser"
	"distrotui/internal/domain"
	"distrotui/internal/ui/views"
)

func packagesSpec() listSpec[domain.Package] {
	return listSpec[domain.Package]{
		title:       "Packages",
		collection:  domain.CollectionPackages,
		constraints: api.PackageConstraints(),
		defaults:    api.PackageDefaults(),
		filters: []filterKey{
			{key: "1", name: api.FilterModulesOnly, label: "modules"},
			{key: "2", name: api.FilterNonModulesOnly, label: "non-modules"},
			{key: "3", name: api.FilterNoBuildsOnly, label: "no builds"},
			{key: "4", name: api.FilterWithBuildsOnly, label: "with builds"},
			{key: "5", name: api.FilterNoImportsOnly, label: "no imports"},
			{key: "6", name: api.FilterWithImportsOnly, label: "with imports"},
			{key: "7", name: api.FilterExcludeModularCandidates, label: "hide modular candidates"},
		},
		searchable: true,
		columns: []column[domain.Package]{
			{title: "ID", width: 7, cell: func(p domain.Package, _ *views.Styles) views.Cell { return views.Text(p.ID.String()) }},
			{title: "Name", cell: func(p domain.Package, _ *views.Styles) views.Cell { return views.Text(p.Name) }},
			{title: "Kind", width: 16, cell: func(p domain.Package, _ *views.Styles) views.Cell { return views.Text(p.Kind()) }},
			{title: "Responsible", width: 16, cell: func(p domain.Package, _ *views.Styles) views.Cell { return views.Text(p.ResponsibleUsername) }},
			{title: "Last import", width: 16, cell: func(p domain.Package, s *views.Styles) views.Cell { return timeCell(p.LastImport, s) }},
			{title: "Last build", width: 16, cell: func(p domain.Package, s *views.Styles) views.Cell { return timeCell(p.LastBuild, s) }},
		},
		target: func(p domain.Package) domain.Target { return domain.Target{PackageID: p.ID} },
		open:   func(p domain.Package) string { return domain.CollectionPackages.ItemPath(p.ID) },
	}
}

func buildsSpec() listSpec[domain.Build] {
	return listSpec[domain.Build]{
		title:      "Builds",
		collection: domain.CollectionBuilds,
		columns: []column[domain.Build]{
			{title: "ID", width: 7, cell: func(b domain.Build, _ *views.Styles) views.Cell { return views.Text(b.ID.String()) }},
			{title: "Package", cell: func(b domain.Build, _ *views.Styles) views.Cell { return views.Text(packageName(b.Package)) }},
			{title: "Status", width: 12, cell: func(b domain.Build, s *views.Styles) views.Cell { return statusCell(b.Status, s) }},
			{title: "Koji/MBS", width: 10, cell: func(b domain.Build, _ *views.Styles) views.Cell { return views.Text(buildRef(b)) }},
			{title: "Executor", width: 16, cell: func(b domain.Build, _ *views.Styles) views.Cell { return views.Text(b.ExecutorUsername) }},
			{title: "Created", width: 16, cell: func(b domain.Build, _ *views.Styles) views.Cell { return views.Text(b.CreatedAt.String()) }},
		},
		open: func(b domain.Build) string { return domain.CollectionBuilds.ItemPath(b.ID) },
	}
}

func importsSpec() listSpec[domain.Import] {
	return listSpec[domain.Import]{
		title:      "Imports",
		collection: domain.CollectionImports,
		columns: []column[domain.Import]{
			{title: "ID", width: 7, cell: func(i domain.Import, _ *views.Styles) views.Cell { return views.Text(i.ID.String()) }},
			{title: "Package", cell: func(i domain.Import, _ *views.Styles) views.Cell { return views.Text(packageName(i.Package)) }},
			{title: "Status", width: 12, cell: func(i domain.Import, s *views.Styles) views.Cell { return statusCell(i.Status, s) }},
			{title: "Version", width: 8, cell: func(i domain.Import, _ *views.Styles) views.Cell { return views.Text(strconv.Itoa(i.Version)) }},
			{title: "Executor", width: 16, cell: func(i domain.Import, _ *views.Styles) views.Cell { return views.Text(i.ExecutorUsername) }},
			{title: "Created", width: 16, cell: func(i domain.Import, _ *views.Styles) views.Cell { return views.Text(i.CreatedAt.String()) }},
		},
		open: func(i domain.Import) string { return domain.CollectionImports.ItemPath(i.ID) },
	}
}

func batchImportsSpec() listSpec[domain.BatchImport] {
	return listSpec[domain.BatchImport]{
		title:      "Batch imports",
		collection: domain.CollectionBatchImports,
		newBatch:   domain.BatchImports,
		columns: []column[domain.BatchImport]{
			{title: "ID", width: 7, cell: func(b domain.BatchImport, _ *views.Styles) views.Cell { return views.Text(b.ID.String()) }},
			{title: "Progress", cell: func(b domain.BatchImport, s *views.Styles) views.Cell { return progressCell(b.Statuses(), s) }},
			{title: "Created", width: 16, cell: func(b domain.BatchImport, _ *views.Styles) views.Cell { return views.Text(b.CreatedAt.String()) }},
		},
		open: func(b domain.BatchImport) string { return domain.CollectionBatchImports.ItemPath(b.ID) },
	}
}

func batchBuildsSpec() listSpec[domain.BatchBuild] {
	return listSpec[domain.BatchBuild]{
		title:      "Batch builds",
		collection: domain.CollectionBatchBuilds,
		newBatch:   domain.BatchBuilds,
		columns: []column[domain.BatchBuild]{
			{title: "ID", width: 7, cell: func(b domain.BatchBuild, _ *views.Styles) views.Cell { return views.Text(b.ID.String()) }},
			{title: "Progress", cell: func(b domain.BatchBuild, s *views.Styles) views.Cell { return progressCell(b.Statuses(), s) }},
			{title: "Created", width: 16, cell: func(b domain.BatchBuild, _ *views.Styles) views.Cell { return views.Text(b.CreatedAt.String()) }},
		},
		open: func(b domain.BatchBuild) string { return domain.CollectionBatchBuilds.ItemPath(b.ID) },
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

func timeCell(t *domain.Time, s *views.Styles) views.Cell {
	if t == nil || t.IsZero() {
		return views.Styled("never", s.Dim)
	}
	return views.Text(t.String())
}

func statusCell(st domain.Status, s *views.Styles) views.Cell {
	return views.Styled(st.Label(), s.StatusStyle(st))
}

func progressCell(statuses []domain.Status, s *views.Styles) views.Cell {
	p := browser.ProgressOf(statuses)
	text := fmt.Sprintf("%d%%  %d ok · %d failed · %d pending", p.Percent(), p.Succeeded, p.Failed, p.Pending())
	switch {
	case p.Failed > 0:
		return views.Styled(text, s.StatusError)
	case p.Pending() == 0 && p.Total > 0:
		return views.Styled(text, s.StatusSuccess)
	}
	return views.Text(text)
}
