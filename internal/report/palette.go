package report

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Palette controls ANSI styling for report output.
type Palette struct {
	enabled bool
}

// PaletteFor selects a palette based on the writer and color settings.
func PaletteFor(writer io.Writer, noColor bool) Palette {
	if noColor {
		return Palette{enabled: false}
	}
	return Palette{enabled: shouldUseStyling(writer)}
}

// shouldUseStyling reports whether ANSI styling should be enabled.
func shouldUseStyling(writer io.Writer) bool {
	if writer == nil {
		return false
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	if strings.EqualFold(os.Getenv("CLICOLOR"), "0") {
		return false
	}
	if file, ok := writer.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	if fder, ok := writer.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(fder.Fd()))
	}
	return false
}

func (p Palette) header(text string) string {
	return p.stylize(text, lipgloss.Color("33"))
}

func (p Palette) pass(text string) string {
	return p.stylize(text, lipgloss.Color("42"))
}

func (p Palette) fail(text string) string {
	return p.stylize(text, lipgloss.Color("196"))
}

func (p Palette) muted(text string) string {
	return p.stylize(text, lipgloss.Color("244"))
}

func (p Palette) stylize(text string, color lipgloss.Color) string {
	if !p.enabled {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
