package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/marquee/internal/app"
	"github.com/five82/marquee/internal/link"
)

// exitRestart asks the supervisor for a fresh start.
const exitRestart = 3

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "config path (default ~/.config/marquee/config.toml)")
	prefsPath := flag.String("prefs", "", "UI preferences path (optional)")
	headless := flag.Bool("headless", false, "run without the terminal panel, logging to stderr")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err := app.Run(ctx, app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		Headless:   *headless,
	})
	switch {
	case err == nil:
		return 0
	case errors.Is(err, link.ErrRestart):
		fmt.Fprintln(os.Stderr, "marquee: no network after provisioning, restarting")
		return exitRestart
	default:
		fmt.Fprintf(os.Stderr, "marquee: %v\n", err)
		return 1
	}
}
