// Package cli defines stargazer's cobra command tree.
//
// # Commands
//
//	stargazer [--date YYYY-MM-DD]        interactive viewer
//	stargazer fetch [YYYY-MM-DD|today]   one-shot fetch, --json for scripts
//	stargazer cache status|clear         inspect or empty the image cache
//	stargazer logs [-n N]                tail the diagnostics log
//
// # Settings
//
// Settings come from config.toml and can be overridden with persistent
// flags (--api-key, --cache-dir, ...) or STARGAZER_* environment variables,
// both resolved through viper. Flags beat the environment, which beats the
// file.
//
// # Exit Codes
//
// Execute returns 0 on success. A fetch that ends rejected or failed returns
// 1 after printing its notice, as does any command error. Dates are checked
// against the archive range before a request is made.
//
// # Output
//
// Human output is coloured with fatih/color and honours NO_COLOR. The fetch
// command prints the title, credit, long date, cached image path and
// explanation. With --json it prints a single object instead.
package cli
