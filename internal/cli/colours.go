package cli

import "github.com/fatih/color"

// Colour scheme for command output.
var (
	titleColour   = color.New(color.FgCyan, color.Bold)
	creditColour  = color.New(color.FgMagenta)
	dateColour    = color.New(color.FgGreen)
	pathColour    = color.New(color.FgBlue)
	labelColour   = color.New(color.Faint)
	warningColour = color.New(color.FgYellow, color.Bold)
	errorColour   = color.New(color.FgRed, color.Bold)
	successColour = color.New(color.FgGreen)
)
