// Package msgfmt turns raw reply text into renderable lines of plain and
// emphasized segments.
//
// The formatter understands exactly one inline construct: a pair of **
// markers around an emphasized span. It splits on line breaks first, then on
// marker pairs within each line. Unpaired markers degrade to literal text,
// and nesting is not supported.
package msgfmt

import (
	"regexp"
	"strings"
)

// Segment is a run of text within a line.
type Segment struct {
	Text string
	Bold bool
}

// Line is an ordered sequence of segments.
type Line struct {
	Segments []Segment
}

// boldPattern matches a non-greedy ** pair. A lone or unclosed marker does
// not match and stays literal.
var boldPattern = regexp.MustCompile(`\*\*(.+?)\*\*`)

// Format splits text into lines and tags emphasized spans. It is pure and
// deterministic: the same input always yields the same output.
func Format(text string) []Line {
	raw := strings.Split(text, "\n")
	lines := make([]Line, 0, len(raw))
	for _, l := range raw {
		lines = append(lines, formatLine(l))
	}
	return lines
}

func formatLine(line string) Line {
	if line == "" {
		return Line{Segments: []Segment{{Text: ""}}}
	}

	var segments []Segment
	last := 0
	for _, m := range boldPattern.FindAllStringSubmatchIndex(line, -1) {
		if m[0] > last {
			segments = append(segments, Segment{Text: line[last:m[0]]})
		}
		segments = append(segments, Segment{Text: line[m[2]:m[3]], Bold: true})
		last = m[1]
	}
	if last < len(line) {
		segments = append(segments, Segment{Text: line[last:]})
	}
	return Line{Segments: segments}
}

// Plain reconstructs the text of a formatted message with the emphasis
// markers stripped.
func Plain(lines []Line) string {
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, seg := range line.Segments {
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}
