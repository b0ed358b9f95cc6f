package cssclean

import "github.com/charmbracelet/lipgloss"

// Tone names what a piece of summary output says about selectors
type Tone int

// Tones used by the reporter
const (
	TonePlain   Tone = iota
	ToneHeading      // Section titles and the project root
	ToneUsed         // Selectors kept and files saved
	ToneUnused       // Removal candidates and fallback notes
	ToneSkipped      // Files dropped from the analysis
	ToneHint         // Backups and truncation lines
)

var toneStyles = map[Tone]lipgloss.Style{
	ToneHeading: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
	ToneUsed:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
	ToneUnused:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
	ToneSkipped: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
	ToneHint:    lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("8")),
}

// Paint renders text in the style of a tone. Without colors, or for TonePlain,
// the text comes back unchanged.
func Paint(tone Tone, text string, useColors bool) string {
	style, ok := toneStyles[tone]
	if !useColors || !ok {
		return text
	}
	return style.Render(text)
}

// paint renders text for this reporter's color setting
func (r *Reporter) paint(tone Tone, text string) string {
	return Paint(tone, text, r.useColors)
}
