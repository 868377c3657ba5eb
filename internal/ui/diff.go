package ui

import (
	"fmt"
	"strings"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// RenderDiff returns a colorized unified diff turning from into to.
// Identical inputs render as an empty string.
func RenderDiff(fromName, toName, from, to string) string {
	if from == to {
		return ""
	}

	edits := myers.ComputeEdits(span.URIFromPath(fromName), from, to)
	unified := fmt.Sprint(gotextdiff.ToUnified(fromName, toName, from, edits))

	var b strings.Builder
	for _, line := range strings.SplitAfter(unified, "\n") {
		if line == "" {
			continue
		}
		b.WriteString(colorizeDiffLine(line))
	}
	return b.String()
}

func colorizeDiffLine(line string) string {
	text := strings.TrimSuffix(line, "\n")
	newline := line[len(text):]

	switch {
	case strings.HasPrefix(text, "---"), strings.HasPrefix(text, "+++"):
		return Path.Sprint(text) + newline
	case strings.HasPrefix(text, "@@"):
		return Info.Sprint(text) + newline
	case strings.HasPrefix(text, "-"):
		return Error.Sprint(text) + newline
	case strings.HasPrefix(text, "+"):
		return Success.Sprint(text) + newline
	default:
		return line
	}
}
