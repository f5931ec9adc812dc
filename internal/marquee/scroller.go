// Package marquee renders the sign's text onto an LED matrix driver.
package marquee

import (
	"fmt"
	"time"

	"github.com/five82/marquee/internal/content"
	"github.com/five82/marquee/internal/link"
)

// Driver is an LED matrix panel.
type Driver interface {
	Clear()
	DrawText(x, y int, text string)
	Width() int
	Height() int
	TextWidth(text string) int
	// Refresh pushes the drawn frame to the panel.
	Refresh()
}

const (
	// GlyphHeight is the font height in pixels.
	GlyphHeight = 8
	// DefaultScrollStep is the time per one-pixel scroll advance.
	DefaultScrollStep = 50 * time.Millisecond
	// ClockLayout formats the clock row.
	ClockLayout = "15:04"
)

// Frame is the text to show for one render.
type Frame struct {
	Message string
	Clock   string // empty hides the clock row
}

// Compose picks the message for the current content and link state. A
// link problem replaces the sentence so the operator can see it.
func Compose(display content.DisplayStatus, snap link.Snapshot, now time.Time) Frame {
	msg := LinkStatusText(snap)
	if msg == "" {
		msg = display.String()
	}
	return Frame{Message: msg, Clock: now.Format(ClockLayout)}
}

// LinkStatusText describes a link that is not connected, or returns "".
func LinkStatusText(snap link.Snapshot) string {
	switch snap.State {
	case link.Disconnected, link.Recovering:
		mins := int((snap.Remaining + time.Minute - 1) / time.Minute)
		if mins < 1 {
			return "WiFi lost, reconfiguring"
		}
		return fmt.Sprintf("WiFi lost, retry %dm", mins)
	case link.Reprovisioning:
		return "WiFi setup: " + snap.APName
	default:
		return ""
	}
}

// Scroller moves a message right to left across the panel.
type Scroller struct {
	step time.Duration
	x    int
	last time.Time
	text string
}

// NewScroller returns a scroller advancing one pixel per step.
func NewScroller(step time.Duration) *Scroller {
	if step <= 0 {
		step = DefaultScrollStep
	}
	return &Scroller{step: step}
}

// Offset returns the current scroll position in pixels.
func (s *Scroller) Offset() int { return s.x }

// Render draws f on d. It never blocks.
func (s *Scroller) Render(d Driver, f Frame, now time.Time) {
	width, height := d.Width(), d.Height()
	if f.Message != s.text {
		s.text = f.Message
		s.x = 0
		s.last = now
	}
	s.advance(now, d.TextWidth(f.Message)+width)

	d.Clear()
	y := height/2 - GlyphHeight/2
	if f.Clock != "" && height >= 2*GlyphHeight {
		d.DrawText((width-d.TextWidth(f.Clock))/2, 0, f.Clock)
		y = GlyphHeight
	}
	d.DrawText(width-s.x, y, f.Message)
	d.Refresh()
}

func (s *Scroller) advance(now time.Time, period int) {
	if s.last.IsZero() {
		s.last = now
		return
	}
	elapsed := now.Sub(s.last)
	if elapsed < s.step {
		return
	}
	n := int(elapsed / s.step)
	s.last = s.last.Add(time.Duration(n) * s.step)
	if period <= 0 {
		s.x = 0
		return
	}
	s.x = (s.x + n) % period
}
