package msgfmt

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var boldStyle = lipgloss.NewStyle().Bold(true)

// Render joins formatted lines back into displayable text. With styled set,
// emphasized segments are wrapped in terminal bold; otherwise the plain text
// is reconstructed unchanged.
func Render(lines []Line, styled bool) string {
	if !styled {
		return Plain(lines)
	}

	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, seg := range line.Segments {
			if seg.Bold {
				b.WriteString(boldStyle.Render(seg.Text))
			} else {
				b.WriteString(seg.Text)
			}
		}
	}
	return b.String()
}
