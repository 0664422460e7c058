package views

import (
	"github.com/charmbracelet/lipgloss"

	"distrotui/internal/domain"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Header        lipgloss.Style
	Location      lipgloss.Style
	Confirm       lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	Filter        lipgloss.Style
	FilterOn      lipgloss.Style
	Modal         lipgloss.Style
	ModalTitle    lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Column        lipgloss.Style
	Highlight     lipgloss.Style
	Cursor        lipgloss.Style
	Label         lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusLoading lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusRunning lipgloss.Style
	SelectionBg   lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Location: lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		Confirm:  lipgloss.NewStyle().Bold(true),
		Dim:      lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		Filter:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		FilterOn: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2).
			BorderForeground(lipgloss.Color("99")),
		ModalTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).MarginBottom(1),
		Help:       lipgloss.NewStyle().Faint(true),
		Main:       lipgloss.NewStyle().Padding(0, 1),
		Column:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		Highlight:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Cursor:     lipgloss.NewStyle().Background(lipgloss.Color("238")),
		Label:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),

		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		StatusRunning: lipgloss.NewStyle().Foreground(lipgloss.Color("51")),  // cyan
		SelectionBg:   lipgloss.NewStyle().Background(lipgloss.Color("238")),
	}
}

// StatusStyle returns the style a job status is rendered with
func (s *Styles) StatusStyle(st domain.Status) lipgloss.Style {
	switch st {
	case domain.StatusSucceeded:
		return s.StatusSuccess
	case domain.StatusFailed:
		return s.StatusError
	case domain.StatusCancelled:
		return s.StatusWarning
	case domain.StatusBuilding, domain.StatusInProgress:
		return s.StatusRunning
	default:
		return s.StatusLoading
	}
}

// RenderStatus renders a status label in its colour
func (s *Styles) RenderStatus(st domain.Status) string {
	return s.StatusStyle(st).Render(st.Label())
}
