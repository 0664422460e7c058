package views

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// ANSI escape sequence regex to strip styles/colors
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// Strip removes ANSI styling from s
func Strip(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

// RenderPopupOverlay centres a modal over the main content, which is
// greyed out around it
func (pr *PopupRenderer) RenderPopupOverlay(mainContent, popupContent string, height, width int) string {
	styledPopup := pr.styles.Modal.Render(popupContent)
	modalLines := strings.Split(styledPopup, "\n")
	modalW := lipgloss.Width(styledPopup)
	modalH := len(modalLines)

	x := (width - modalW) / 2
	if x < 0 {
		x = 0
	}
	y := (height - modalH) / 2
	if y < 0 {
		y = 0
	}

	baseLines := strings.Split(Strip(mainContent), "\n")
	for len(baseLines) < height || len(baseLines) < y+modalH {
		baseLines = append(baseLines, "")
	}

	grey := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	out := make([]string, len(baseLines))
	for i, line := range baseLines {
		if i < y || i >= y+modalH {
			out[i] = grey.Render(line)
			continue
		}
		runes := []rune(line)
		for len(runes) < x+modalW {
			runes = append(runes, ' ')
		}
		left := string(runes[:x])
		right := string(runes[x+modalW:])
		out[i] = grey.Render(left) + modalLines[i-y] + grey.Render(right)
	}
	return strings.Join(out, "\n")
}
