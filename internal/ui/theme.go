package ui

import "github.com/charmbracelet/lipgloss"

// Theme is an LED colour; the chrome around the panel is shared.
type Theme struct {
	Name string
	On   lipgloss.Color // lit pixel
	Off  lipgloss.Color // unlit pixel dot
}

// chrome is the Nightfox palette (https://github.com/EdenEast/nightfox.nvim).
var chrome = struct {
	bg, surface, bezel               lipgloss.Color
	text, muted, faint               lipgloss.Color
	accent, success, warning, danger lipgloss.Color
}{
	bg:      "#131a24",
	surface: "#192330",
	bezel:   "#39506d",
	text:    "#cdcecf",
	muted:   "#738091",
	faint:   "#71839b",
	accent:  "#719cd6",
	success: "#81b29a",
	warning: "#dbc074",
	danger:  "#c94f6d",
}

// themes is also the cycle order for the T key.
var themes = []Theme{
	{Name: "Amber", On: "#ffb000", Off: "#3a2a08"},
	{Name: "Ruby", On: "#ff3b30", Off: "#3d1416"},
	{Name: "Emerald", On: "#34d399", Off: "#064e3b"},
}

// Styles are the rendered styles for one theme.
type Styles struct {
	LEDOn, LEDOff  lipgloss.Style
	Panel          lipgloss.Style
	Header, Footer lipgloss.Style

	AccentText  lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
}

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func bar(c lipgloss.Color) lipgloss.Style {
	return fg(c).Background(chrome.surface).Padding(0, 1)
}

// Styles builds the lipgloss styles for t.
func (t Theme) Styles() Styles {
	return Styles{
		LEDOn:  fg(t.On).Background(chrome.bg).Bold(true),
		LEDOff: fg(t.Off).Background(chrome.bg),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(chrome.bezel).
			Background(chrome.bg),
		Header: bar(chrome.text),
		Footer: bar(chrome.muted),

		AccentText:  fg(chrome.accent),
		MutedText:   fg(chrome.muted),
		FaintText:   fg(chrome.faint),
		SuccessText: fg(chrome.success).Bold(true),
		WarningText: fg(chrome.warning),
		DangerText:  fg(chrome.danger).Bold(true),
	}
}

// GetTheme returns the named theme, or Amber for an unknown name.
func GetTheme(name string) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return themes[0]
}

// NextTheme returns the theme after current in the cycle.
func NextTheme(current string) string {
	for i, t := range themes {
		if t.Name == current {
			return themes[(i+1)%len(themes)].Name
		}
	}
	return themes[0].Name
}

// ThemeNames lists the themes in cycle order.
func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
