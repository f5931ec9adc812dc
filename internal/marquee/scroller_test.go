package marquee

import (
	"testing"
	"time"

	"github.com/five82/marquee/internal/content"
	"github.com/five82/marquee/internal/link"
)

func TestScroller_AdvancesAndWraps(t *testing.T) {
	d := NewRecorder(64, 16)
	s := NewScroller(50 * time.Millisecond)
	t0 := time.Unix(0, 0)
	f := Frame{Message: "Hi"} // 12px wide, period 76

	s.Render(d, f, t0)
	if s.Offset() != 0 || d.Frame[0].X != 64 {
		t.Fatalf("first frame offset=%d x=%d, want 0/64", s.Offset(), d.Frame[0].X)
	}

	s.Render(d, f, t0.Add(49*time.Millisecond))
	if s.Offset() != 0 {
		t.Fatalf("advanced before one step: %d", s.Offset())
	}
	s.Render(d, f, t0.Add(50*time.Millisecond))
	if s.Offset() != 1 || d.Frame[0].X != 63 {
		t.Fatalf("offset=%d x=%d, want 1/63", s.Offset(), d.Frame[0].X)
	}

	// 75 steps puts x at the last position before the wrap.
	s.Render(d, f, t0.Add(75*50*time.Millisecond))
	if s.Offset() != 75 {
		t.Fatalf("offset = %d, want 75", s.Offset())
	}
	s.Render(d, f, t0.Add(76*50*time.Millisecond))
	if s.Offset() != 0 {
		t.Fatalf("offset = %d after wrap, want 0", s.Offset())
	}
}

func TestScroller_CatchesUpAfterBlocking(t *testing.T) {
	d := NewRecorder(32, 8)
	s := NewScroller(50 * time.Millisecond)
	t0 := time.Unix(0, 0)
	f := Frame{Message: "abc"} // period 18+32 = 50

	s.Render(d, f, t0)
	s.Render(d, f, t0.Add(10*time.Second)) // 200 steps
	if s.Offset() != 0 {
		t.Fatalf("offset = %d, want 200 mod 50 = 0", s.Offset())
	}
	s.Render(d, f, t0.Add(10*time.Second+3*50*time.Millisecond))
	if s.Offset() != 3 {
		t.Fatalf("offset = %d, want 3", s.Offset())
	}
}

func TestScroller_NewMessageRestarts(t *testing.T) {
	d := NewRecorder(32, 8)
	s := NewScroller(0)
	t0 := time.Unix(0, 0)

	s.Render(d, Frame{Message: "one"}, t0)
	s.Render(d, Frame{Message: "one"}, t0.Add(time.Second))
	if s.Offset() == 0 {
		t.Fatalf("offset did not advance")
	}
	s.Render(d, Frame{Message: "two"}, t0.Add(time.Second))
	if s.Offset() != 0 || d.Frame[0].X != 32 {
		t.Fatalf("offset=%d x=%d after new message, want 0/32", s.Offset(), d.Frame[0].X)
	}
}

func TestScroller_Layout(t *testing.T) {
	tests := []struct {
		name      string
		w, h      int
		clock     string
		wantDraws int
		wantMsgY  int
	}{
		{"single row centres message", 64, 8, "12:30", 1, 0},
		{"tall panel without clock", 64, 16, "", 1, 4},
		{"tall panel with clock", 64, 16, "12:30", 2, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewRecorder(tt.w, tt.h)
			s := NewScroller(0)
			s.Render(d, Frame{Message: "msg", Clock: tt.clock}, time.Unix(0, 0))
			if len(d.Frame) != tt.wantDraws {
				t.Fatalf("draws = %d, want %d", len(d.Frame), tt.wantDraws)
			}
			msg := d.Frame[len(d.Frame)-1]
			if msg.Y != tt.wantMsgY || msg.Text != "msg" {
				t.Fatalf("message draw = %+v, want y %d", msg, tt.wantMsgY)
			}
			if tt.wantDraws == 2 {
				clock := d.Frame[0]
				if clock.Y != 0 || clock.X != (64-30)/2 {
					t.Fatalf("clock draw = %+v, want centred on row 0", clock)
				}
			}
			if d.Clears != 1 || d.Refreshes != 1 {
				t.Fatalf("clears=%d refreshes=%d, want 1/1", d.Clears, d.Refreshes)
			}
		})
	}
}

func TestCompose(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 7, 0, 0, time.UTC)
	tests := []struct {
		name    string
		display content.DisplayStatus
		snap    link.Snapshot
		want    string
	}{
		{"sentence", content.Sentence("Hello"), link.Snapshot{State: link.Connected}, "Hello"},
		{"no data", content.NoData(), link.Snapshot{State: link.Connected}, "no data"},
		{"lost rounds up", content.Sentence("Hello"), link.Snapshot{State: link.Disconnected, Remaining: 58*time.Minute + time.Second}, "WiFi lost, retry 59m"},
		{"recovering", content.Sentence("Hello"), link.Snapshot{State: link.Recovering, Remaining: time.Hour}, "WiFi lost, retry 60m"},
		{"budget spent", content.Sentence("Hello"), link.Snapshot{State: link.Disconnected}, "WiFi lost, reconfiguring"},
		{"setup", content.Sentence("Hello"), link.Snapshot{State: link.Reprovisioning, APName: "Sign-AP"}, "WiFi setup: Sign-AP"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Compose(tt.display, tt.snap, now)
			if f.Message != tt.want {
				t.Fatalf("Message = %q, want %q", f.Message, tt.want)
			}
			if f.Clock != "09:07" {
				t.Fatalf("Clock = %q, want 09:07", f.Clock)
			}
		})
	}
}
