// Package app is the composition root for stargazer.
//
// # Overview
//
// NewServices turns a config.Config into the components every command
// needs:
//
//	config.Config
//	     │
//	     ├─> logging.New()      logrus logger writing to log_file
//	     ├─> apod.NewClient()   HTTP client with timeout and throttle
//	     ├─> imagecache.New()   on-disk image cache in cache_dir
//	     └─> gateway.New()      fetch.Gateway over client + cache
//
// # Drivers
//
// Two drivers sit on top of the gateway, each owning its own
// fetch.Coordinator:
//
//   - Run starts the Bubble Tea viewer. The coordinator callback forwards
//     outcomes with tea.Program.Send.
//   - FetchOnce backs `stargazer fetch`. The callback sends on a channel with
//     capacity one, so it never blocks the fetch goroutine, and the caller
//     waits for either the outcome or context cancellation.
//
// In both cases the callback returns promptly, which is what lets the
// coordinator clear its busy flag right after delivery.
package app
