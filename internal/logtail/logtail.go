package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Line is one log record as written by internal/logging.
type Line struct {
	Text  string
	Level slog.Level
}

// Read returns at most maxLines lines at or above minLevel from the end of
// the file at path. A missing file yields no lines.
func Read(path string, maxLines int, minLevel slog.Level) ([]Line, error) {
	if maxLines <= 0 || path == "" || path == "-" {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = file.Close() }()

	ring := make([]Line, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count, idx := 0, 0
	for scanner.Scan() {
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		level := ParseLevel(text)
		if level < minLevel {
			continue
		}
		ring[idx] = Line{Text: text, Level: level}
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]Line, count)
	if count == maxLines {
		for i := range lines {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// ParseLevel reads the level of a text ("15:04:05.000 WRN msg") or JSON
// record. Unrecognized lines count as info.
func ParseLevel(line string) slog.Level {
	if strings.HasPrefix(line, "{") {
		var rec struct {
			Level string `json:"level"`
		}
		if json.Unmarshal([]byte(line), &rec) == nil {
			var l slog.Level
			if l.UnmarshalText([]byte(rec.Level)) == nil {
				return l
			}
		}
		return slog.LevelInfo
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return slog.LevelInfo
	}
	switch fields[1] {
	case "DBG":
		return slog.LevelDebug
	case "WRN":
		return slog.LevelWarn
	case "ERR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
