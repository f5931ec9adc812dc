package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/five82/marquee/internal/cache"
	"github.com/five82/marquee/internal/config"
	"github.com/five82/marquee/internal/content"
	"github.com/five82/marquee/internal/link"
	"github.com/five82/marquee/internal/nvstore"
	"github.com/five82/marquee/internal/remote"
	"github.com/five82/marquee/internal/remotesync"
)

type stubRadio struct{ up bool }

func (r *stubRadio) Connected() bool                 { return r.up }
func (r *stubRadio) Reconnect(context.Context) error { return nil }

type stubPortal struct{ ok bool }

func (p stubPortal) AutoConnect(context.Context, string) bool       { return p.ok }
func (p stubPortal) StartConfigPortal(context.Context, string) bool { return p.ok }
func (p stubPortal) ResetCredentials() error                        { return nil }

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Defaults()
	cfg.StoragePath = filepath.Join(dir, "cache.bin")
	cfg.CredentialsPath = filepath.Join(dir, "credentials.toml")
	cfg.LogFile = "-"
	return cfg
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSign_SyncsAndSavesOnShutdown(t *testing.T) {
	cfg := testConfig(t)
	paths := remotesync.Paths{Root: cfg.RemoteRoot}
	src := remote.NewMemorySource()
	src.Set(paths.Sentence(0), "Hello")
	src.Set(paths.Sentence(1), "World")
	src.SetInt(paths.Selected(), 1)

	sign, err := Build(cfg, quietLogger(), Deps{
		Source: src,
		Radio:  &stubRadio{up: true},
		Portal: stubPortal{},
	})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	if err := <-StartScheduler(ctx, sign); err != nil {
		t.Fatalf("scheduler returned error: %v", err)
	}

	if got := sign.Model.Display().String(); got != "World" {
		t.Fatalf("Display = %q, want World", got)
	}
	snap := sign.Store.Snapshot()
	if !snap.HasStatus || snap.Status.Count != 2 || snap.Frames == 0 {
		t.Fatalf("store snapshot = %+v, want published status and frames", snap.Status)
	}
	if !sign.Model.Dirty {
		t.Fatalf("model saved before the debounce elapsed")
	}

	sign.Shutdown()
	if sign.Model.Dirty {
		t.Fatalf("model still dirty after Shutdown")
	}

	reopened, err := nvstore.OpenFile(cfg.StoragePath, cache.RecordSize)
	if err != nil {
		t.Fatalf("OpenFile returned error: %v", err)
	}
	table := cache.Load(reopened)
	if table.Count() != 2 || table.Selected() != 1 {
		t.Fatalf("persisted count=%d selected=%d, want 2/1", table.Count(), table.Selected())
	}
}

func TestSign_RestoresCacheAtBoot(t *testing.T) {
	cfg := testConfig(t)
	first, err := Build(cfg, quietLogger(), Deps{Source: remote.NewMemorySource(), Radio: &stubRadio{}, Portal: stubPortal{}})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if err := cache.Save(first.Storage, content.NewSentenceTable([]string{"Stale", "Cached"}, 1)); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	second, err := Build(cfg, quietLogger(), Deps{Source: remote.NewMemorySource(), Radio: &stubRadio{}, Portal: stubPortal{}})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if got := second.Model.Display().String(); got != "Cached" {
		t.Fatalf("Display at boot = %q, want Cached", got)
	}
}

func TestStartScheduler_BootFailureRequestsRestart(t *testing.T) {
	cfg := testConfig(t)
	cfg.PortalTimeout = 10 * time.Millisecond
	sign, err := Build(cfg, quietLogger(), Deps{
		Source: remote.NewMemorySource(),
		Radio:  &stubRadio{up: false},
		Portal: stubPortal{ok: false},
	})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	err = <-StartScheduler(context.Background(), sign)
	if !errors.Is(err, link.ErrRestart) {
		t.Fatalf("StartScheduler error = %v, want ErrRestart", err)
	}
}

func TestStartScheduler_CancelledBootIsClean(t *testing.T) {
	cfg := testConfig(t)
	sign, err := Build(cfg, quietLogger(), Deps{
		Source: remote.NewMemorySource(),
		Radio:  &stubRadio{up: false},
		Portal: stubPortal{ok: false},
	})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := <-StartScheduler(ctx, sign); err != nil {
		t.Fatalf("StartScheduler error = %v, want nil after cancel", err)
	}
}
