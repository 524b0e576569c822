// Package fetch coordinates single-flight picture fetches and classifies
// their results.
//
// # Overview
//
// A Coordinator accepts "fetch date D" requests from a driver (the TUI or the
// fetch command), runs at most one Gateway call at a time on its own
// goroutine, and hands every completed fetch to a callback as an Outcome:
//
//	RequestFetch(D) ──> busy? ──yes──> Busy (discarded)
//	                     │no
//	                     ▼
//	               busy = true, go run(D) ──> Accepted
//
//	run(D):
//	  Gateway.Fetch ──> Classify ──> onOutcome(outcome) ──> busy = false
//
// # Outcomes
//
//   - Displayable: the record is an image; Presentation holds the title,
//     labelled credit, long-form date, explanation and cached image path.
//   - Rejected: an expected failure (rate limiting, invalid date, no network,
//     a video instead of an image). Reason is shown to the user verbatim.
//   - SystemFailure: the gateway returned an error or panicked, or the record
//     could not be presented. Detail is logged; users only see Message().
//
// # Guarantees
//
// Exactly one outcome is delivered per accepted request and the busy flag is
// cleared after the callback returns on every path, including panics inside
// the gateway, the classifier or the callback itself. A callback panic is
// logged and never produces a second delivery.
//
// The package does no I/O of its own. Gateways live in internal/gateway and
// drivers in internal/ui and internal/cli.
package fetch
