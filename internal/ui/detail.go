package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"distrotui/internal/api"
	"distrotui/internal/browser"
	"distrotui/internal/domain"
	"distrotui/internal/ui/views"
)

// field renders one label/value line of a detail screen
func field(s *views.Styles, label, value string) string {
	if value == "" {
		value = "-"
	}
	return s.Label.Render(fmt.Sprintf("%-14s", label)) + " " + value + "\n"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func optional(p *int64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatInt(*p, 10)
}

// loadFailure maps a failed entity read to a status command
func loadFailure(e *env, what string, id domain.ID, err error) tea.Cmd {
	if api.IsNotFound(err) {
		return statusErr(fmt.Sprintf("%s %s not found", what, id))
	}
	e.logger.Warn("load failed", "entity", what, "id", id, "error", err)
	return statusErr(fmt.Sprintf("Could not load %s %s: %s", strings.ToLower(what), id, browser.ErrorMessage(err, "")))
}

// packageScreen shows one package and its single-package actions
type packageScreen struct {
	env      *env
	id       domain.ID
	pkg      *domain.Package
	err      error
	cursor   int
	workflow *browser.Workflow
	confirm  *confirmModal
}

func newPackageScreen(e *env, id domain.ID) *packageScreen {
	w := browser.NewWorkflow(nil)
	browser.PublishTransitions(w, e.publisher)
	return &packageScreen{env: e, id: id, workflow: w, confirm: newConfirmModal(w)}
}

func (p *packageScreen) Title() string {
	if p.pkg != nil {
		return "Package " + p.pkg.Name
	}
	return "Package " + p.id.String()
}

func (p *packageScreen) Location() string { return domain.CollectionPackages.ItemPath(p.id) }
func (p *packageScreen) Capturing() bool  { return p.confirm.visible() }

func (p *packageScreen) Keys() []key.Binding {
	return []key.Binding{keys.Up, keys.Down, keys.Open, keys.Refresh, keys.QueueBuild, keys.QueueImp, keys.Reset}
}

func (p *packageScreen) Init() tea.Cmd {
	return p.load()
}

func (p *packageScreen) load() tea.Cmd {
	client, id := p.env.client, p.id
	return p.env.load(func(ctx context.Context) (interface{}, error) {
		return client.GetPackage(ctx, id)
	})
}

// rows are the locations of the package's imports then builds
func (p *packageScreen) rows() []string {
	if p.pkg == nil {
		return nil
	}
	var out []string
	for _, imp := range p.pkg.Imports {
		out = append(out, domain.CollectionImports.ItemPath(imp.ID))
	}
	for _, b := range p.pkg.Builds {
		out = append(out, domain.CollectionBuilds.ItemPath(b.ID))
	}
	return out
}

func (p *packageScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.gen != p.env.gen {
			return nil
		}
		if msg.err != nil {
			p.err = msg.err
			return loadFailure(p.env, "Package", p.id, msg.err)
		}
		p.err = nil
		p.pkg = msg.value.(*domain.Package)
		return nil

	case submitMsg:
		if msg.gen != p.env.gen {
			return nil
		}
		return finish(p.workflow, msg, queuedText(p.workflow.Action()))

	case tea.KeyMsg:
		if p.confirm.visible() {
			return p.confirm.update(msg, p.env)
		}
		rows := p.rows()
		switch {
		case key.Matches(msg, keys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
		case key.Matches(msg, keys.Down):
			if p.cursor < len(rows)-1 {
				p.cursor++
			}
		case key.Matches(msg, keys.Open):
			if p.cursor < len(rows) {
				return navigate(rows[p.cursor])
			}
		case key.Matches(msg, keys.Refresh):
			return p.load()
		case key.Matches(msg, keys.QueueBuild):
			return p.request(browser.ActionBuild)
		case key.Matches(msg, keys.QueueImp):
			return p.request(browser.ActionImport)
		case key.Matches(msg, keys.Reset):
			return p.request(browser.ActionResetBuild)
		}
	}
	return nil
}

func (p *packageScreen) request(kind browser.ActionKind) tea.Cmd {
	if p.pkg == nil {
		return nil
	}
	if cmd := p.env.requireAuth(); cmd != nil {
		return cmd
	}
	action := browser.Action{
		Kind:      kind,
		BatchKind: kind.BatchKind(),
		Targets:   []domain.Target{{PackageID: p.pkg.ID}},
		Single:    true,
	}
	title := fmt.Sprintf("%s %s?", kind.Verb(), p.pkg.Name)
	var body []string
	if kind == browser.ActionResetBuild {
		body = []string{"The latest build record is cleared so the package can be built again."}
	}
	if err := p.confirm.open(action, title, body...); err != nil {
		return statusErr(browser.ErrorMessage(err, kind))
	}
	if kind == browser.ActionBuild {
		return p.confirm.withField("Only branch (optional)", "e.g. c8-stream-rhel")
	}
	return nil
}

func (p *packageScreen) View(width, height int) string {
	st := p.env.styles
	if p.pkg == nil {
		if p.err != nil {
			return st.StatusError.Render("Package unavailable. ctrl+r to retry.")
		}
		return st.Dim.Render("Loading package...")
	}
	pkg := p.pkg

	var b strings.Builder
	b.WriteString(st.Title.Render(pkg.Name))
	b.WriteString("\n\n")
	b.WriteString(field(st, "ID", pkg.ID.String()))
	b.WriteString(field(st, "Kind", pkg.Kind()))
	b.WriteString(field(st, "Responsible", pkg.ResponsibleUsername))
	b.WriteString(field(st, "Repo", pkg.Repo))
	b.WriteString(field(st, "EL8 / EL9", yesNo(pkg.EL8)+" / "+yesNo(pkg.EL9)))
	b.WriteString(field(st, "Last import", timeText(pkg.LastImport)))
	b.WriteString(field(st, "Last build", timeText(pkg.LastBuild)))
	b.WriteString("\n")

	half := max(3, (height-16)/2)
	b.WriteString(st.Header.Render("Imports"))
	b.WriteString("\n")
	imports := views.Table{
		Columns: []views.Column{{Title: "ID", Width: 7}, {Title: "Status", Width: 12}, {Title: "Version", Width: 8}, {Title: "Commit"}, {Title: "Created", Width: 16}},
		Width:   width,
		Height:  half,
		Cursor:  -1,
		Empty:   "Never imported.",
	}
	for _, imp := range pkg.Imports {
		imports.Rows = append(imports.Rows, []views.Cell{
			views.Text(imp.ID.String()), statusCell(imp.Status, st), views.Text(strconv.Itoa(imp.Version)), views.Text(imp.Commit), views.Text(imp.CreatedAt.String()),
		})
	}
	if p.cursor < len(pkg.Imports) {
		imports.Cursor = p.cursor
	}
	b.WriteString(imports.Render(st))
	b.WriteString("\n\n")

	b.WriteString(st.Header.Render("Builds"))
	b.WriteString("\n")
	builds := views.Table{
		Columns: []views.Column{{Title: "ID", Width: 7}, {Title: "Status", Width: 12}, {Title: "Koji/MBS", Width: 10}, {Title: "Branch"}, {Title: "Created", Width: 16}},
		Width:   width,
		Height:  half,
		Cursor:  -1,
		Empty:   "Never built.",
	}
	for _, build := range pkg.Builds {
		builds.Rows = append(builds.Rows, []views.Cell{
			views.Text(build.ID.String()), statusCell(build.Status, st), views.Text(buildRef(build)), views.Text(build.Branch), views.Text(build.CreatedAt.String()),
		})
	}
	if n := len(pkg.Imports); p.cursor >= n {
		builds.Cursor = p.cursor - n
	}
	b.WriteString(builds.Render(st))

	content := b.String()
	if p.confirm.visible() {
		return views.NewPopupRenderer(st).RenderPopupOverlay(content, p.confirm.view(st), height, width)
	}
	return content
}

func timeText(t *domain.Time) string {
	if t == nil || t.IsZero() {
		return "never"
	}
	return t.String()
}

// buildScreen shows one build
type buildScreen struct {
	env   *env
	id    domain.ID
	build *domain.Build
	err   error
}

func newBuildScreen(e *env, id domain.ID) *buildScreen {
	return &buildScreen{env: e, id: id}
}

func (s *buildScreen) Title() string       { return "Build " + s.id.String() }
func (s *buildScreen) Location() string    { return domain.CollectionBuilds.ItemPath(s.id) }
func (s *buildScreen) Capturing() bool     { return false }
func (s *buildScreen) Keys() []key.Binding { return []key.Binding{keys.Open, keys.Refresh} }

func (s *buildScreen) Init() tea.Cmd {
	client, id := s.env.client, s.id
	return s.env.load(func(ctx context.Context) (interface{}, error) {
		return client.GetBuild(ctx, id)
	})
}

func (s *buildScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.gen != s.env.gen {
			return nil
		}
		if msg.err != nil {
			s.err = msg.err
			return loadFailure(s.env, "Build", s.id, msg.err)
		}
		s.err = nil
		s.build = msg.value.(*domain.Build)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Refresh):
			return s.Init()
		case key.Matches(msg, keys.Open):
			if s.build != nil && s.build.Package != nil {
				return navigate(domain.CollectionPackages.ItemPath(s.build.Package.ID))
			}
		}
	}
	return nil
}

func (s *buildScreen) View(width, height int) string {
	st := s.env.styles
	if s.build == nil {
		if s.err != nil {
			return st.StatusError.Render("Build unavailable. ctrl+r to retry.")
		}
		return st.Dim.Render("Loading build...")
	}
	b := s.build
	var out strings.Builder
	out.WriteString(st.Title.Render("Build " + b.ID.String()))
	out.WriteString("\n\n")
	out.WriteString(field(st, "Package", packageName(b.Package)))
	out.WriteString(field(st, "Status", st.RenderStatus(b.Status)))
	if b.Mbs {
		out.WriteString(field(st, "MBS ID", optional(b.MbsID)))
	} else {
		out.WriteString(field(st, "Koji ID", optional(b.KojiID)))
	}
	out.WriteString(field(st, "Branch", b.Branch))
	out.WriteString(field(st, "Commit", b.Commit))
	if b.ForceTag != nil {
		out.WriteString(field(st, "Force tag", *b.ForceTag))
	}
	out.WriteString(field(st, "Executor", b.ExecutorUsername))
	out.WriteString(field(st, "Created", b.CreatedAt.String()))
	if b.Package != nil {
		out.WriteString("\n")
		out.WriteString(st.Help.Render("enter open package"))
	}
	return out.String()
}

// importScreen shows one import and its logs
type importScreen struct {
	env *env
	id  domain.ID
	imp *domain.Import
	err error
}

func newImportScreen(e *env, id domain.ID) *importScreen {
	return &importScreen{env: e, id: id}
}

func (s *importScreen) Title() string    { return "Import " + s.id.String() }
func (s *importScreen) Location() string { return domain.CollectionImports.ItemPath(s.id) }
func (s *importScreen) Capturing() bool  { return false }

func (s *importScreen) Keys() []key.Binding {
	return []key.Binding{keys.Open, keys.Logs, keys.Refresh}
}

func (s *importScreen) Init() tea.Cmd {
	client, id := s.env.client, s.id
	return s.env.load(func(ctx context.Context) (interface{}, error) {
		return client.GetImport(ctx, id)
	})
}

func (s *importScreen) logs() tea.Cmd {
	ctx, gen, client, id := s.env.ctx, s.env.gen, s.env.client, s.id
	return func() tea.Msg {
		text, err := client.ImportLogs(ctx, id)
		return logsMsg{gen: gen, id: id, text: text, err: err}
	}
}

func (s *importScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.gen != s.env.gen {
			return nil
		}
		if msg.err != nil {
			s.err = msg.err
			return loadFailure(s.env, "Import", s.id, msg.err)
		}
		s.err = nil
		s.imp = msg.value.(*domain.Import)
	case logsMsg:
		if msg.gen != s.env.gen {
			return nil
		}
		if msg.err != nil {
			return statusErr("Could not load logs: " + browser.ErrorMessage(msg.err, ""))
		}
		if strings.TrimSpace(msg.text) == "" {
			return status("No logs for this import yet")
		}
		text := msg.text
		return func() tea.Msg {
			return pagerMsg{title: "Import " + msg.id.String() + " logs", content: text}
		}
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Refresh):
			return s.Init()
		case key.Matches(msg, keys.Logs):
			return tea.Batch(status("Loading logs..."), s.logs())
		case key.Matches(msg, keys.Open):
			if s.imp != nil && s.imp.Package != nil {
				return navigate(domain.CollectionPackages.ItemPath(s.imp.Package.ID))
			}
		}
	}
	return nil
}

func (s *importScreen) View(width, height int) string {
	st := s.env.styles
	if s.imp == nil {
		if s.err != nil {
			return st.StatusError.Render("Import unavailable. ctrl+r to retry.")
		}
		return st.Dim.Render("Loading import...")
	}
	i := s.imp
	var out strings.Builder
	out.WriteString(st.Title.Render("Import " + i.ID.String()))
	out.WriteString("\n\n")
	out.WriteString(field(st, "Package", packageName(i.Package)))
	out.WriteString(field(st, "Status", st.RenderStatus(i.Status)))
	out.WriteString(field(st, "Module", yesNo(i.Module)))
	out.WriteString(field(st, "Version", strconv.Itoa(i.Version)))
	out.WriteString(field(st, "Commit", i.Commit))
	out.WriteString(field(st, "Executor", i.ExecutorUsername))
	out.WriteString(field(st, "Created", i.CreatedAt.String()))
	out.WriteString("\n")
	out.WriteString(st.Help.Render("l logs · enter open package"))
	return out.String()
}
