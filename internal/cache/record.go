// Package cache persists the sentence table to non-volatile storage using a
// fixed-offset record, and coalesces writes so each physical commit is
// worth its wear cost.
package cache

import (
	"encoding/binary"
	"fmt"

	"github.com/five82/marquee/internal/content"
	"github.com/five82/marquee/internal/nvstore"
)

// Record layout. Every slot occupies SlotStride bytes regardless of the
// sentence length so slot i always lives at SlotsOffset + i*SlotStride.
const (
	selectedWidth = 4
	countWidth    = 4
	lengthWidth   = 1

	SelectedOffset = 0
	CountOffset    = SelectedOffset + selectedWidth
	SlotsOffset    = CountOffset + countWidth
	SlotStride     = lengthWidth + content.MaxSentenceBytes // 81

	// RecordSize is the space a full table needs.
	RecordSize = SlotsOffset + content.MaxSentences*SlotStride
)

// Load reads the persisted table. Corrupt or uninitialized storage never
// fails: out-of-range header fields are discarded to 0 and slot lengths are
// clamped, so the worst case is an empty table.
func Load(store nvstore.Store) content.SentenceTable {
	if store == nil {
		return content.SentenceTable{}
	}
	header, err := store.Read(SelectedOffset, SlotsOffset)
	if err != nil {
		return content.SentenceTable{}
	}

	selected := int(int32(binary.LittleEndian.Uint32(header[SelectedOffset:CountOffset])))
	if selected < 0 || selected > content.MaxSentences-1 {
		selected = 0
	}
	count := int(int32(binary.LittleEndian.Uint32(header[CountOffset:SlotsOffset])))
	if count < 0 || count > content.MaxSentences {
		count = 0
	}

	sentences := make([]string, 0, count)
	for i := 0; i < count; i++ {
		slot, err := store.Read(SlotsOffset+i*SlotStride, SlotStride)
		if err != nil {
			break
		}
		n := int(slot[0])
		if n > content.MaxSentenceBytes {
			n = content.MaxSentenceBytes
		}
		sentences = append(sentences, string(slot[lengthWidth:lengthWidth+n]))
	}

	if selected >= len(sentences) {
		selected = 0
	}
	return content.NewSentenceTable(sentences, selected)
}

// Save writes the table and commits it. Only the header and the first
// Count() slots are written; stale slots beyond are left alone since Load
// never reads them.
func Save(store nvstore.Store, table content.SentenceTable) error {
	if store == nil {
		return fmt.Errorf("no store")
	}
	buf := Encode(table)
	if err := store.Write(0, buf); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	if err := store.Commit(); err != nil {
		return fmt.Errorf("commit record: %w", err)
	}
	return nil
}

// Encode renders the header and valid slots of table.
func Encode(table content.SentenceTable) []byte {
	count := table.Count()
	buf := make([]byte, SlotsOffset+count*SlotStride)
	binary.LittleEndian.PutUint32(buf[SelectedOffset:CountOffset], uint32(int32(table.Selected())))
	binary.LittleEndian.PutUint32(buf[CountOffset:SlotsOffset], uint32(int32(count)))
	for i, s := range table.Sentences() {
		slot := buf[SlotsOffset+i*SlotStride : SlotsOffset+(i+1)*SlotStride]
		slot[0] = byte(len(s))
		copy(slot[lengthWidth:], s)
	}
	return buf
}
