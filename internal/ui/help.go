package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// HelpRenderer handles help content rendering
type HelpRenderer struct{}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{}
}

type helpSection struct {
	title    string
	bindings []key.Binding
}

func helpSections() []helpSection {
	return []helpSection{
		{"Navigation", []key.Binding{keys.Up, keys.Down, keys.Open, keys.GoTo, keys.Back, keys.Copy}},
		{"Listings", []key.Binding{keys.PrevPage, keys.NextPage, keys.PageSize, keys.Search, keys.Refresh}},
		{"Selection", []key.Binding{keys.Toggle, keys.ToggleAll, keys.Clear}},
		{"Batches", []key.Binding{keys.Import, keys.Build, keys.NewBatch, keys.Cancel, keys.Retry}},
		{"Packages", []key.Binding{keys.QueueBuild, keys.QueueImp, keys.Reset, keys.Logs}},
		{"Other", []key.Binding{keys.Help, keys.Quit}},
	}
}

// renderHelpContent renders the help information for the pager
func (r *HelpRenderer) renderHelpContent() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Width(10)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var help strings.Builder
	help.WriteString(titleStyle.Render("distrotui Help"))
	help.WriteString("\n")

	for _, section := range helpSections() {
		help.WriteString(sectionStyle.Render(section.title))
		help.WriteString("\n")
		for _, b := range section.bindings {
			h := b.Help()
			help.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render(h.Key), descStyle.Render(h.Desc)))
		}
		help.WriteString("\n")
	}

	help.WriteString(sectionStyle.Render("Package filters"))
	help.WriteString("\n")
	for _, f := range packagesSpec().filters {
		help.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render(f.key), descStyle.Render("toggle "+f.label)))
	}
	help.WriteString("\n")

	noteStyle := lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))
	help.WriteString(noteStyle.Render("  Filters in the same pair exclude each other. Search waits for a short pause in typing."))
	help.WriteString("\n")
	help.WriteString(noteStyle.Render("  Locations look like /packages?search=kernel&size=50 and can be typed after g."))
	return help.String()
}
