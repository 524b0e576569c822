package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/five82/stargazer/internal/fetch"
)

// Options configure the interactive viewer.
type Options struct {
	Context   context.Context
	Gateway   fetch.Gateway
	Logger    logrus.FieldLogger
	StartDate time.Time
	ThemeName string
	PrefsPath string
}

// Run starts the TUI and blocks until the user quits or the context ends.
func Run(opts Options) error {
	if opts.Gateway == nil {
		return fmt.Errorf("ui: gateway is required")
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	var program *tea.Program
	coordinator := fetch.NewCoordinator(opts.Gateway, func(o fetch.Outcome) {
		program.Send(OutcomeMsg(o))
	}, fetch.WithLogger(log), fetch.WithContext(ctx))

	model := NewModel(Config{
		Requester: coordinator,
		Logger:    log,
		StartDate: opts.StartDate,
		ThemeName: opts.ThemeName,
		PrefsPath: opts.PrefsPath,
	})
	program = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
