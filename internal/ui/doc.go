// Package ui is the interactive Bubble Tea front end for stargazer.
//
// # Overview
//
// The screen has a header with a spinner while a fetch is in flight, a date
// field, the picture metadata (title, credit, long date, cached image path)
// and a scrollable explanation. Rejections and failures appear as a
// dismissible notice box.
//
// # Fetching
//
// Model never performs I/O itself. It asks a Requester (the fetch
// Coordinator) to start a fetch and moves into a loading state when the
// request is accepted: the previous picture is cleared and the date field
// stops taking input. When the coordinator is already busy the model shows
// "Please wait for previous request to complete." and leaves the in-flight
// fetch alone.
//
// Completed fetches arrive as messages. Run wires the coordinator callback to
// tea.Program.Send so the outcome is applied on the event loop like any other
// message, and the callback never touches model state directly.
//
// # Keys
//
//	t        fetch today
//	enter    fetch the date typed in the date field
//	[ / ]    previous / next day
//	T        cycle theme (saved to prefs.toml)
//	?        toggle full help
//	esc      dismiss notice
//	q        quit
//
// The date field only accepts digits and dashes, so single-letter commands
// never collide with typing.
package ui
