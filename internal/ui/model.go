package ui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"distrotui/internal/api"
	"distrotui/internal/browser"
	"distrotui/internal/domain"
	"distrotui/internal/eventbus"
	"distrotui/internal/session"
	"distrotui/internal/ui/views"
)

// readyMarker is printed once the first frame is drawn under the e2e harness
const readyMarker = "__READY__"

const statusTimeout = 5 * time.Second

// clearStatusMsg clears the status line unless a newer status replaced it
type clearStatusMsg struct {
	seq int
}

// Options configure a Model
type Options struct {
	Client  *api.Client
	Session session.Context
	Bus     eventbus.EventBus
	Logger  *slog.Logger
	// PageSize is applied to listings opened without a size parameter
	PageSize      int
	Debounce      time.Duration
	StartLocation string
	// Submitter defaults to the API client
	Submitter browser.Submitter
}

// Model is the root of the TUI. It owns navigation and delegates
// everything else to the current screen.
type Model struct {
	ctx     context.Context
	opts    Options
	styles  *views.Styles
	logger  *slog.Logger
	bus     eventbus.EventBus
	session session.Context

	width  int
	height int
	help   help.Model

	current screen
	history []string
	gen     uint64

	statusText string
	statusErr  bool
	statusSeq  int

	prompt    textinput.Model
	prompting bool

	// popup shows text in-app when the pager cannot run
	popupShown  bool
	popup       string
	popupTitle  string
	popupOffset int
	pending     pagerMsg

	inPagerMode bool
	program     *tea.Program
	pager       *PagerOps
	helpContent *HelpRenderer
	e2e         bool
}

// NewModel creates the root model. The context bounds every request
// the screens issue.
func NewModel(ctx context.Context, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Debounce == 0 {
		opts.Debounce = browser.DefaultQuietPeriod
	}
	if opts.Submitter == nil && opts.Client != nil {
		opts.Submitter = api.NewSubmitter(opts.Client)
	}
	if opts.StartLocation == "" {
		opts.StartLocation = "/"
	}

	ti := textinput.New()
	ti.Prompt = "go to: "
	ti.Placeholder = "/packages?search=kernel"
	ti.CharLimit = 256
	ti.Width = 50

	return &Model{
		ctx:         ctx,
		opts:        opts,
		styles:      views.NewStyles(),
		logger:      logger.With("component", "ui"),
		bus:         opts.Bus,
		session:     opts.Session,
		help:        help.New(),
		prompt:      ti,
		helpContent: NewHelpRenderer(),
		e2e:         os.Getenv("DISTROTUI_E2E_TEST") == "1",
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager = NewPagerOps(p)
}

// Location returns the address of the current screen
func (m *Model) Location() string {
	if m.current == nil {
		return ""
	}
	return m.current.Location()
}

func (m *Model) Init() tea.Cmd {
	return m.open(m.opts.StartLocation, false)
}

// newEnv returns the environment for the screen about to open
func (m *Model) newEnv(gen uint64) *env {
	var pub browser.Publisher
	if m.bus != nil {
		pub = m.bus
	}
	return &env{
		ctx:       m.ctx,
		gen:       gen,
		client:    m.opts.Client,
		submitter: m.opts.Submitter,
		session:   m.session,
		publisher: pub,
		styles:    m.styles,
		logger:    m.logger,
		pageSize:  m.opts.PageSize,
		debounce:  m.opts.Debounce,
	}
}

// open replaces the current screen with the one at location. The previous
// location is pushed on the history when push is set.
func (m *Model) open(location string, push bool) tea.Cmd {
	next, err := route(m.newEnv(m.gen+1), location)
	if err != nil {
		m.logger.Warn("navigation failed", "location", location, "error", err)
		return statusErr(err.Error())
	}
	m.gen++

	from := m.Location()
	if push && m.current != nil && from != next.Location() {
		m.history = append(m.history, from)
	}
	m.current = next
	m.publish(domain.NavigatedEvent{From: from, To: location})
	return next.Init()
}

func (m *Model) back() tea.Cmd {
	if len(m.history) == 0 {
		return status("Already at the start")
	}
	prev := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	return m.open(prev, false)
}

func (m *Model) publish(e domain.DomainEvent) {
	if m.bus != nil {
		m.bus.Publish(e)
	}
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusText = text
	m.statusErr = isErr
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })
}

func (m *Model) copyLocation() tea.Cmd {
	location := m.Location()
	return func() tea.Msg {
		return clipboardMsg{location: location, err: clipboard.WriteAll(location)}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil

	case navigateMsg:
		push := !msg.replace
		return m, m.open(msg.to, push)

	case statusMsg:
		return m, m.setStatus(msg.text, msg.isErr)

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.statusText = ""
			m.statusErr = false
		}
		return m, nil

	case pagerMsg:
		if m.program == nil {
			m.openPopup(msg.title, msg.content)
			return m, nil
		}
		m.pending = msg
		return m, m.showPager(msg.title, msg.content)

	case pagerDoneMsg:
		pending := m.pending
		m.pending = pagerMsg{}
		if msg.err != nil {
			m.logger.Warn("pager failed, falling back to popup", "error", msg.err)
			m.openPopup(pending.title, pending.content)
		}
		return m, nil

	case clipboardMsg:
		if msg.err != nil {
			return m, m.setStatus("Could not copy location: "+msg.err.Error(), true)
		}
		m.publish(domain.LocationCopiedEvent{Location: msg.location})
		return m, m.setStatus("Copied "+msg.location, false)

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	if m.current != nil {
		return m, m.current.Update(msg)
	}
	return m, nil
}

func (m *Model) openPopup(title, content string) {
	m.popupShown = true
	m.popupTitle = title
	m.popup = content
	m.popupOffset = 0
	m.prompting = false
}

func (m *Model) closePopup() {
	m.popupShown = false
	m.popup, m.popupTitle, m.popupOffset = "", "", 0
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	if m.popupShown {
		switch msg.String() {
		case "esc", "q", "enter":
			m.closePopup()
		case "j", "down":
			m.popupOffset++
		case "k", "up":
			if m.popupOffset > 0 {
				m.popupOffset--
			}
		}
		return nil
	}

	if m.prompting {
		switch msg.String() {
		case "esc":
			m.prompting = false
			m.prompt.Blur()
			return nil
		case "enter":
			m.prompting = false
			m.prompt.Blur()
			to := strings.TrimSpace(m.prompt.Value())
			if to == "" {
				return nil
			}
			if !strings.HasPrefix(to, "/") {
				to = "/" + to
			}
			return m.open(to, true)
		}
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return cmd
	}

	if m.current != nil && m.current.Capturing() {
		return m.current.Update(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit
	case key.Matches(msg, keys.Help):
		return func() tea.Msg {
			return pagerMsg{title: "", content: m.helpContent.renderHelpContent()}
		}
	case key.Matches(msg, keys.GoTo):
		m.prompting = true
		m.prompt.SetValue(m.Location())
		m.prompt.CursorEnd()
		return m.prompt.Focus()
	case key.Matches(msg, keys.Back):
		return m.back()
	case key.Matches(msg, keys.Copy):
		return m.copyLocation()
	}

	if m.current != nil {
		return m.current.Update(msg)
	}
	return nil
}

func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}
	st := m.styles

	title := st.Title.Render("distrotui")
	if m.current != nil {
		title += st.Dim.Render(" › ") + st.Header.Render(m.current.Title())
	}
	greeting := st.Dim.Render(m.session.Greeting())
	gap := max(1, m.width-lipgloss.Width(title)-lipgloss.Width(greeting))
	header := title + strings.Repeat(" ", gap) + greeting
	location := st.Location.Render(m.Location())

	var bindings []key.Binding
	if m.current != nil {
		bindings = m.current.Keys()
	}
	footer := m.help.ShortHelpView(append(bindings, globalKeys()...))

	var statusLine string
	switch {
	case m.prompting:
		statusLine = m.prompt.View()
	case m.statusErr:
		statusLine = st.StatusError.Render(m.statusText)
	case m.statusText != "":
		statusLine = st.Status.Render(m.statusText)
	}

	chrome := lipgloss.Height(header) + lipgloss.Height(location) + lipgloss.Height(footer) + 3
	bodyHeight := max(3, m.height-chrome)
	body := ""
	if m.current != nil {
		body = m.current.View(m.width, bodyHeight)
	}
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	if m.popupShown {
		body = views.NewPopupRenderer(st).RenderPopupOverlay(body, m.popupView(bodyHeight), bodyHeight, m.width)
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(location)
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(statusLine)
	b.WriteString("\n")
	b.WriteString(st.Help.Render(footer))
	if m.e2e {
		b.WriteString(readyMarker)
	}
	return b.String()
}

func (m *Model) popupView(height int) string {
	lines := strings.Split(m.popup, "\n")
	visible := max(1, height-6)
	offset := min(m.popupOffset, max(0, len(lines)-visible))
	end := min(len(lines), offset+visible)

	var b strings.Builder
	if m.popupTitle != "" {
		b.WriteString(m.styles.ModalTitle.Render(m.popupTitle))
		b.WriteString("\n")
	}
	b.WriteString(strings.Join(lines[offset:end], "\n"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Help.Render(fmt.Sprintf("lines %d-%d of %d · j/k scroll · esc close", offset+1, end, len(lines))))
	return b.String()
}
