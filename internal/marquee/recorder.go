package marquee

import "unicode/utf8"

// DrawCall is one recorded DrawText.
type DrawCall struct {
	X, Y int
	Text string
}

// Recorder is an in-memory Driver with a fixed-pitch font. It keeps the
// draws of the last refreshed frame.
type Recorder struct {
	W, H       int
	GlyphWidth int

	pending   []DrawCall
	Frame     []DrawCall
	Clears    int
	Refreshes int
}

// NewRecorder returns a w×h recorder with 6-pixel glyphs.
func NewRecorder(w, h int) *Recorder {
	return &Recorder{W: w, H: h, GlyphWidth: 6}
}

func (r *Recorder) Clear() {
	r.Clears++
	r.pending = r.pending[:0]
}

func (r *Recorder) DrawText(x, y int, text string) {
	r.pending = append(r.pending, DrawCall{X: x, Y: y, Text: text})
}

func (r *Recorder) Width() int  { return r.W }
func (r *Recorder) Height() int { return r.H }

func (r *Recorder) TextWidth(text string) int {
	return utf8.RuneCountInString(text) * r.GlyphWidth
}

func (r *Recorder) Refresh() {
	r.Refreshes++
	r.Frame = append(r.Frame[:0], r.pending...)
}
