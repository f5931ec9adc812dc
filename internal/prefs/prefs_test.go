package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		contents  *string
		wantTheme string
		wantErr   bool
	}{
		{name: "missing file", wantTheme: defaultTheme},
		{name: "saved theme", contents: ptr("theme = \"Ruby\"\n"), wantTheme: "Ruby"},
		{name: "blank theme", contents: ptr("theme = \"  \"\n"), wantTheme: defaultTheme},
		{name: "broken file", contents: ptr("theme = {{{\n"), wantTheme: defaultTheme, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "prefs.toml")
			if tt.contents != nil {
				if err := os.WriteFile(path, []byte(*tt.contents), 0o644); err != nil {
					t.Fatalf("WriteFile: %v", err)
				}
			}
			p, err := Load(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load error = %v, wantErr %v", err, tt.wantErr)
			}
			if p.Theme != tt.wantTheme {
				t.Fatalf("Theme = %q, want %q", p.Theme, tt.wantTheme)
			}
		})
	}
}

func TestLoad_DefaultPathUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "marquee")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "prefs.toml"), []byte("theme = \"Emerald\"\nshow_logs = true\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != "Emerald" || !p.ShowLogs {
		t.Fatalf("prefs = %+v, want Emerald with logs shown", p)
	}
}

func TestSave_RoundTripWithoutLeftovers(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	path := filepath.Join(dir, "prefs.toml")
	hidden := false

	if err := Save(path, Prefs{Theme: "Ruby", ShowStatus: &hidden, ShowLogs: true}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != "Ruby" || p.StatusVisible() || !p.ShowLogs {
		t.Fatalf("prefs = %+v after round trip", p)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("dir has %d entries, want only prefs.toml", len(entries))
	}
}

func TestStatusVisible(t *testing.T) {
	shown, hidden := true, false
	if !(Prefs{}).StatusVisible() {
		t.Fatalf("unset preference hides the status bar")
	}
	if !(Prefs{ShowStatus: &shown}).StatusVisible() {
		t.Fatalf("ShowStatus=true hides the status bar")
	}
	if (Prefs{ShowStatus: &hidden}).StatusVisible() {
		t.Fatalf("ShowStatus=false shows the status bar")
	}
}

func ptr(s string) *string { return &s }
