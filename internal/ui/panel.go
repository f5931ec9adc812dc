package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/marquee"
	"github.com/five82/marquee/internal/state"
)

// Panel is a marquee.Driver that renders into terminal cells. One cell is
// one pixel column wide and one glyph tall, so a 64×16 panel is 64 columns
// by two text rows. Refresh publishes the frame to the store; the UI picks
// it up on its next tick.
type Panel struct {
	width  int
	height int
	cells  [][]string
	store  *state.Store
}

var _ marquee.Driver = (*Panel)(nil)

// NewPanel returns a width×height pixel panel publishing to store.
func NewPanel(width, height int, store *state.Store) *Panel {
	if width < 1 {
		width = 1
	}
	if height < marquee.GlyphHeight {
		height = marquee.GlyphHeight
	}
	rows := height / marquee.GlyphHeight
	cells := make([][]string, rows)
	for i := range cells {
		cells[i] = make([]string, width)
	}
	p := &Panel{width: width, height: height, cells: cells, store: store}
	p.Clear()
	return p
}

func (p *Panel) Width() int  { return p.width }
func (p *Panel) Height() int { return p.height }

// TextWidth measures text in terminal cells.
func (p *Panel) TextWidth(text string) int {
	return lipgloss.Width(text)
}

func (p *Panel) Clear() {
	for _, row := range p.cells {
		for i := range row {
			row[i] = " "
		}
	}
}

// DrawText places text with its left edge at pixel column x on the glyph
// row containing pixel row y. Glyphs outside the panel are clipped.
func (p *Panel) DrawText(x, y int, text string) {
	if y < 0 {
		return
	}
	row := y / marquee.GlyphHeight
	if row >= len(p.cells) {
		return
	}
	cells := p.cells[row]
	col := x
	for _, r := range text {
		glyph := string(r)
		w := lipgloss.Width(glyph)
		if w == 0 {
			continue
		}
		if col >= 0 && col+w <= p.width {
			cells[col] = glyph
			for k := 1; k < w; k++ {
				cells[col+k] = ""
			}
		}
		col += w
		if col >= p.width {
			break
		}
	}
}

// Refresh publishes the current cells as text rows.
func (p *Panel) Refresh() {
	rows := make([]string, len(p.cells))
	for i, row := range p.cells {
		rows[i] = strings.Join(row, "")
	}
	if p.store != nil {
		p.store.UpdateFrame(rows)
	}
}
