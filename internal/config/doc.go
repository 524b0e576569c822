// Package config loads stargazer's TOML configuration.
//
// # Overview
//
// Load reads ~/.config/stargazer/config.toml (or an explicit path) and fills
// in defaults for anything missing or empty. A missing file is not an error,
// so stargazer works out of the box with NASA's shared DEMO_KEY.
//
// # Configuration Fields
//
//	api_key = "DEMO_KEY"
//	base_url = "https://api.nasa.gov"
//	cache_dir = "~/.cache/stargazer/images"
//	log_file = "~/.local/share/stargazer/stargazer.log"
//	timeout_seconds = 30
//	prefer_hd = false
//	requests_per_second = 1.0
//
// All fields are optional. cache_dir and log_file get tilde expansion and are
// made absolute. requests_per_second = 0 disables the client-side throttle.
//
// # Overrides
//
// Config.Set applies one override from its string form. The CLI layer uses it
// to fold in command-line flags and STARGAZER_* environment variables after
// the file has been read, so the precedence is flag, then environment, then
// file, then default.
//
// # Error Handling
//
// Load returns errors for unreadable files and invalid TOML. Set returns
// errors for unknown keys and values that do not parse.
package config
