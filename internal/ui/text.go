package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Formatter renders a kind of CLI value. With color it paints the text;
// without color it wraps the text in plain decorations so the value still
// stands out in logs and pipes.
type Formatter struct {
	color *color.Color
	open  string
	close string
}

func newFormatter(attr color.Attribute, open, close string) Formatter {
	return Formatter{color: color.New(attr), open: open, close: close}
}

func (f Formatter) render(text string) string {
	if noColor() {
		return f.open + text + f.close
	}
	return f.color.Sprint(text)
}

// Sprint renders the arguments joined the way fmt.Sprint joins them.
func (f Formatter) Sprint(a ...interface{}) string {
	return f.render(fmt.Sprint(a...))
}

// Sprintf renders a formatted string.
func (f Formatter) Sprintf(format string, a ...interface{}) string {
	return f.render(fmt.Sprintf(format, a...))
}

// EnsureNewline appends a newline unless s already ends with one.
func EnsureNewline(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\n' {
		return s + "\n"
	}
	return s
}

// noColor honours NO_COLOR (https://no-color.org/) and fatih/color's own
// terminal detection.
func noColor() bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return true
	}
	return color.NoColor
}

var (
	// Code is a command, flag or environment variable the user can type.
	Code = newFormatter(color.FgYellow, "`", "`")
	// Path is a local file.
	Path = newFormatter(color.FgYellow, "", "")
	// Highlight is a secret or field reference.
	Highlight = newFormatter(color.FgCyan, "'", "'")
	// Version is a document version number.
	Version = newFormatter(color.FgMagenta, "v", "")

	Success = newFormatter(color.FgGreen, "", "")
	Error   = newFormatter(color.FgRed, "", "")
	Warning = newFormatter(color.FgYellow, "", "")
	Info    = newFormatter(color.FgCyan, "", "")
)

// Ref renders a secret reference, with its field when one is given.
func Ref(secretID, fieldID string) string {
	if fieldID == "" {
		return Highlight.Sprint(secretID)
	}
	return Highlight.Sprint(secretID + "/" + fieldID)
}
