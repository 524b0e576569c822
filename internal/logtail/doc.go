// Package logtail reads the end of stargazer's diagnostics log for the
// `stargazer logs` command.
//
// # Reading
//
// Read keeps a ring buffer of maxLines entries while scanning the file once,
// so memory stays O(maxLines) regardless of file size, and returns the lines
// in chronological order:
//
//	lines, err := logtail.Read(cfg.LogFile, 50)
//
// A missing log file is not an error; it just means nothing has been logged
// yet.
//
// # Colouring
//
// The log is written by logrus's text formatter:
//
//	time="2026-10-16T09:12:44Z" level=info msg="fetch completed" date=2020-07-04 outcome=displayable
//
// Level pulls the level field out of such a line and Colorize paints the
// whole line with fatih/color: debug cyan, info green, warning yellow, error
// and worse bold red. fatih/color disables itself when stdout is not a
// terminal or NO_COLOR is set.
package logtail
