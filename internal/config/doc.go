// Package config loads the sign's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/marquee/config.toml (default)
//  3. If the config file doesn't exist, fall back to Defaults()
//  4. If the file exists but fields are missing/empty, keep the defaults
//
// # TOML Format
//
//	[remote]
//	url = "https://sign-1234.firebaseio.com"
//	auth = ""
//	root = "/display"
//	scan_window = 3          # slots read by a steady-state poll (1..10)
//	sync_interval = "2s"
//	timeout = "5s"           # one HTTP read
//	poll_timeout = "15s"     # a whole poll, run off the render loop
//
//	[link]
//	check_interval = "5s"
//	reconnect_timeout = "1h" # silent recovery before reprovisioning
//	reconnect_attempts = 20
//	reconnect_spacing = "500ms"
//	portal_timeout = "5m"
//	ap_name = "Marquee-Setup"
//	credentials_path = "~/.config/marquee/credentials.toml"
//
//	[cache]
//	path = "~/.local/state/marquee/cache.bin"
//	flush_debounce = "5s"
//	flush_min_interval = "30s"
//
//	[panel]
//	width = 64
//	height = 16
//	scroll_step = "50ms"
//	frame_period = "20ms"
//
//	[log]
//	level = "info"           # debug, info, warn, error
//	format = "text"          # text or json
//	file = "~/.local/state/marquee/marquee.log"
//
// Durations use Go duration syntax and must be positive. Paths support
// tilde expansion and are made absolute.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, TOML parse errors, malformed durations and out-of-range
// values. A missing file is not an error.
package config
