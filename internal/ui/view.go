package ui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/content"
	"github.com/five82/marquee/internal/link"
	"github.com/five82/marquee/internal/logtail"
	"github.com/five82/marquee/internal/state"
)

const offPixel = "·"

func (m Model) renderMain() string {
	styles := m.theme.Styles()

	parts := []string{
		m.renderHeader(styles),
		renderPanel(m.snapshot.Rows, styles),
	}
	if m.showStatus {
		parts = append(parts, styles.Footer.Render(statusLine(m.snapshot)))
	}
	if m.showLogs {
		parts = append(parts, renderLogs(m.logLines, styles))
	}
	parts = append(parts, m.renderFooter(styles))

	body := lipgloss.JoinVertical(lipgloss.Left, parts...)
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	return body
}

func (m Model) renderHeader(styles Styles) string {
	title := styles.AccentText.Bold(true).Render("MARQUEE")
	return styles.Header.Render(title + "  " + linkBadge(m.snapshot, styles))
}

func (m Model) renderFooter(styles Styles) string {
	var hints []string
	for _, b := range m.keys.bindings() {
		h := b.Help()
		hints = append(hints, h.Key+" "+strings.ToLower(h.Desc))
	}
	return styles.Footer.Render(strings.Join(hints, "  "))
}

func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Keys"))
	b.WriteString("\n\n")
	for _, binding := range m.keys.bindings() {
		h := binding.Help()
		fmt.Fprintf(&b, "  %-6s %s\n", h.Key, styles.MutedText.Render(h.Desc))
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("Themes: " + strings.Join(ThemeNames(), ", ")))
	box := styles.Panel.Padding(1, 2).Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

// renderPanel draws lit cells in the LED colour and blanks as dim dots.
func renderPanel(rows []string, styles Styles) string {
	if len(rows) == 0 {
		return styles.Panel.Render(styles.LEDOff.Render(offPixel))
	}
	lines := make([]string, len(rows))
	for i, row := range rows {
		var b strings.Builder
		for _, r := range row {
			if r == ' ' {
				b.WriteString(styles.LEDOff.Render(offPixel))
			} else {
				b.WriteString(styles.LEDOn.Render(string(r)))
			}
		}
		lines[i] = b.String()
	}
	return styles.Panel.Render(strings.Join(lines, "\n"))
}

// renderLogs shows the log tail, coloured by level.
func renderLogs(lines []logtail.Line, styles Styles) string {
	if len(lines) == 0 {
		return styles.Panel.Render(styles.FaintText.Render("no log lines yet"))
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		switch {
		case l.Level >= slog.LevelError:
			out[i] = styles.DangerText.Render(l.Text)
		case l.Level >= slog.LevelWarn:
			out[i] = styles.WarningText.Render(l.Text)
		default:
			out[i] = styles.MutedText.Render(l.Text)
		}
	}
	return styles.Panel.Render(strings.Join(out, "\n"))
}

func linkBadge(snap state.Snapshot, styles Styles) string {
	if !snap.HasStatus {
		return styles.FaintText.Render("starting")
	}
	l := snap.Status.Link
	switch l.State {
	case link.Connected:
		if snap.IsOffline() {
			return styles.WarningText.Render("● online, remote unreachable")
		}
		return styles.SuccessText.Render("● online")
	case link.Disconnected, link.Recovering:
		return styles.WarningText.Render(fmt.Sprintf("● %s, reprovision in %dm", l.State, int(l.Remaining/time.Minute)))
	case link.Reprovisioning:
		return styles.DangerText.Render("● setup via " + l.APName)
	default:
		return styles.FaintText.Render(l.State.String())
	}
}

// statusLine summarizes content and persistence state.
func statusLine(snap state.Snapshot) string {
	if !snap.HasStatus {
		return "waiting for first frame"
	}
	st := snap.Status
	parts := []string{describeContent(st.Display, st.Count, st.Selected)}

	switch {
	case st.Dirty:
		parts = append(parts, "unsaved")
	case !st.LastSavedAt.IsZero():
		parts = append(parts, "saved "+st.LastSavedAt.Format("15:04:05"))
	}
	if !st.LastSyncAt.IsZero() {
		parts = append(parts, "polled "+st.LastSyncAt.Format("15:04:05"))
	}
	if st.LastError != "" {
		parts = append(parts, fmt.Sprintf("error x%d: %s", st.SyncFailures, st.LastError))
	}
	return strings.Join(parts, " | ")
}

func describeContent(d content.DisplayStatus, count, selected int) string {
	if d.Kind != content.StatusSentence {
		return d.String()
	}
	noun := "sentences"
	if count == 1 {
		noun = "sentence"
	}
	return fmt.Sprintf("%d %s, showing #%d", count, noun, selected)
}
