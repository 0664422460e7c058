package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"distrotui/internal/browser"
	"distrotui/internal/domain"
	"distrotui/internal/ui/views"
)

var dashboardKeys = struct {
	Packages     key.Binding
	Builds       key.Binding
	Imports      key.Binding
	BatchImports key.Binding
	BatchBuilds  key.Binding
}{
	Packages:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "packages")),
	Builds:       key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "builds")),
	Imports:      key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "imports")),
	BatchImports: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "batch imports")),
	BatchBuilds:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "batch builds")),
}

// dashboardScreen shows the latest imports and builds
type dashboardScreen struct {
	env     *env
	spinner spinner.Model
	data    *domain.Dashboard
	err     error
	cursor  int
}

func newDashboardScreen(e *env) *dashboardScreen {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = e.styles.StatusLoading
	return &dashboardScreen{env: e, spinner: sp}
}

func (d *dashboardScreen) Title() string    { return "Dashboard" }
func (d *dashboardScreen) Location() string { return "/" }
func (d *dashboardScreen) Capturing() bool  { return false }

func (d *dashboardScreen) Keys() []key.Binding {
	return []key.Binding{
		keys.Up, keys.Down, keys.Open, keys.Refresh,
		dashboardKeys.Packages, dashboardKeys.Builds, dashboardKeys.Imports,
		dashboardKeys.BatchImports, dashboardKeys.BatchBuilds,
	}
}

func (d *dashboardScreen) Init() tea.Cmd {
	return tea.Batch(d.load(), d.spinner.Tick)
}

func (d *dashboardScreen) load() tea.Cmd {
	client := d.env.client
	return d.env.load(func(ctx context.Context) (interface{}, error) {
		return client.Dashboard(ctx)
	})
}

// rows returns the locations of the listed entries, imports first
func (d *dashboardScreen) rows() []string {
	if d.data == nil {
		return nil
	}
	var out []string
	for _, imp := range d.data.Imports.Items {
		out = append(out, domain.CollectionImports.ItemPath(imp.ID))
	}
	for _, b := range d.data.Builds.Items {
		out = append(out, domain.CollectionBuilds.ItemPath(b.ID))
	}
	return out
}

func (d *dashboardScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.gen != d.env.gen {
			return nil
		}
		if msg.err != nil {
			d.err = msg.err
			d.env.logger.Warn("dashboard load failed", "error", msg.err)
			return statusErr("Could not load dashboard: " + browser.ErrorMessage(msg.err, ""))
		}
		d.err = nil
		d.data = msg.value.(*domain.Dashboard)
		d.cursor = min(d.cursor, max(0, len(d.rows())-1))
		return nil

	case spinner.TickMsg:
		if d.data != nil || d.err != nil {
			return nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return cmd

	case tea.KeyMsg:
		rows := d.rows()
		switch {
		case key.Matches(msg, keys.Up):
			if d.cursor > 0 {
				d.cursor--
			}
		case key.Matches(msg, keys.Down):
			if d.cursor < len(rows)-1 {
				d.cursor++
			}
		case key.Matches(msg, keys.Open):
			if d.cursor < len(rows) {
				return navigate(rows[d.cursor])
			}
		case key.Matches(msg, keys.Refresh):
			return d.load()
		case key.Matches(msg, dashboardKeys.Packages):
			return navigate(domain.CollectionPackages.Path())
		case key.Matches(msg, dashboardKeys.Builds):
			return navigate(domain.CollectionBuilds.Path())
		case key.Matches(msg, dashboardKeys.Imports):
			return navigate(domain.CollectionImports.Path())
		case key.Matches(msg, dashboardKeys.BatchImports):
			return navigate(domain.CollectionBatchImports.Path())
		case key.Matches(msg, dashboardKeys.BatchBuilds):
			return navigate(domain.CollectionBatchBuilds.Path())
		}
	}
	return nil
}

func (d *dashboardScreen) View(width, height int) string {
	st := d.env.styles
	if d.data == nil {
		if d.err != nil {
			return st.StatusError.Render("Dashboard unavailable. ctrl+r to retry.")
		}
		return d.spinner.View() + " Loading dashboard..."
	}

	half := max(3, (height-6)/2)
	var b strings.Builder

	b.WriteString(st.Header.Render("Latest imports"))
	b.WriteString("\n")
	imports := views.Table{
		Columns: []views.Column{{Title: "ID", Width: 7}, {Title: "Package"}, {Title: "Status", Width: 12}, {Title: "Created", Width: 16}},
		Width:   width,
		Height:  half,
		Cursor:  -1,
		Empty:   "No imports yet.",
	}
	for _, imp := range d.data.Imports.Items {
		imports.Rows = append(imports.Rows, []views.Cell{
			views.Text(imp.ID.String()), views.Text(packageName(imp.Package)), statusCell(imp.Status, st), views.Text(imp.CreatedAt.String()),
		})
	}
	if d.cursor < len(d.data.Imports.Items) {
		imports.Cursor = d.cursor
	}
	b.WriteString(imports.Render(st))
	b.WriteString("\n\n")

	b.WriteString(st.Header.Render("Latest builds"))
	b.WriteString("\n")
	builds := views.Table{
		Columns: []views.Column{{Title: "ID", Width: 7}, {Title: "Package"}, {Title: "Status", Width: 12}, {Title: "Created", Width: 16}},
		Width:   width,
		Height:  half,
		Cursor:  -1,
		Empty:   "No builds yet.",
	}
	for _, build := range d.data.Builds.Items {
		builds.Rows = append(builds.Rows, []views.Cell{
			views.Text(build.ID.String()), views.Text(packageName(build.Package)), statusCell(build.Status, st), views.Text(build.CreatedAt.String()),
		})
	}
	if n := len(d.data.Imports.Items); d.cursor >= n {
		builds.Cursor = d.cursor - n
	}
	b.WriteString(builds.Render(st))
	return b.String()
}
