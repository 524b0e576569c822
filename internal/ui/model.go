package ui

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/five82/stargazer/internal/apod"
	"github.com/five82/stargazer/internal/fetch"
	"github.com/five82/stargazer/internal/prefs"
)

const busyNotice = "Please wait for previous request to complete."

// Requester starts fetches. *fetch.Coordinator satisfies it.
type Requester interface {
	RequestFetch(date time.Time) fetch.Admission
}

// outcomeMsg carries a completed fetch into the event loop.
type outcomeMsg struct {
	outcome fetch.Outcome
}

// fetchMsg asks the model to request date, used for the start-up fetch.
type fetchMsg struct {
	date time.Time
}

// OutcomeMsg wraps o for delivery with tea.Program.Send.
func OutcomeMsg(o fetch.Outcome) tea.Msg {
	return outcomeMsg{outcome: o}
}

type notice struct {
	title string
	body  string
	err   bool
}

// Model is the Bubble Tea model for the picture viewer.
type Model struct {
	requester Requester
	log       logrus.FieldLogger
	now       func() time.Time

	keys     keyMap
	help     help.Model
	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	theme     Theme
	styles    Styles
	prefsPath string

	startDate time.Time
	requested time.Time
	loading   bool
	shown     *fetch.Outcome
	notice    *notice

	width  int
	height int
}

// Config configures a Model.
type Config struct {
	Requester Requester
	Logger    logrus.FieldLogger
	Now       func() time.Time
	StartDate time.Time // zero fetches today
	ThemeName string
	PrefsPath string
}

// NewModel builds the initial model.
func NewModel(cfg Config) Model {
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	input := textinput.New()
	input.Placeholder = "YYYY-MM-DD"
	input.CharLimit = len(apod.DateLayout)
	input.Width = len(apod.DateLayout) + 1
	input.Prompt = ""
	input.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	theme := GetTheme(cfg.ThemeName)
	m := Model{
		requester: cfg.Requester,
		log:       log,
		now:       now,
		keys:      defaultKeyMap(),
		help:      help.New(),
		input:     input,
		spinner:   sp,
		viewport:  viewport.New(80, 10),
		theme:     theme,
		styles:    theme.Styles(),
		prefsPath: cfg.PrefsPath,
		startDate: cfg.StartDate,
	}
	return m
}

// Init implements tea.Model. The first fetch starts immediately.
func (m Model) Init() tea.Cmd {
	date := m.startDate
	if date.IsZero() {
		date = apod.Day(m.now())
	}
	return tea.Batch(
		tea.SetWindowTitle("stargazer"),
		func() tea.Msg { return fetchMsg{date: date} },
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resizeViewport()
		return m, nil

	case fetchMsg:
		return m.request(msg.date)

	case outcomeMsg:
		return m.applyOutcome(msg.outcome), nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Dismiss):
		if m.notice != nil {
			m.notice = nil
		} else {
			m.help.ShowAll = false
		}
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resizeViewport()
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		return m.cycleTheme(), nil
	case key.Matches(msg, m.keys.Today):
		return m.request(apod.Day(m.now()))
	case key.Matches(msg, m.keys.FetchDate):
		date, err := apod.ParseDate(m.input.Value(), m.now())
		if err != nil {
			m.notice = &notice{title: "Error", body: dateError(err), err: true}
			return m, nil
		}
		return m.request(date)
	case key.Matches(msg, m.keys.PrevDay):
		return m.step(-1)
	case key.Matches(msg, m.keys.NextDay):
		return m.step(1)
	case key.Matches(msg, m.keys.ScrollUp, m.keys.ScrollDown, m.keys.PageUp, m.keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.loading || !isDateKey(msg) {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// request asks the coordinator for date and moves into the loading state
// when it is accepted.
func (m Model) request(date time.Time) (tea.Model, tea.Cmd) {
	if m.requester == nil {
		return m, nil
	}
	if m.requester.RequestFetch(date) == fetch.Busy {
		m.notice = &notice{title: "Busy", body: busyNotice}
		return m, nil
	}
	m.requested = date
	m.loading = true
	m.shown = nil
	m.notice = nil
	m.viewport.SetContent("")
	m.input.Blur()
	m.input.SetValue(apod.FormatDate(date))
	return m, m.spinner.Tick
}

func (m Model) step(days int) (tea.Model, tea.Cmd) {
	base := m.requested
	if base.IsZero() {
		base = apod.Day(m.now())
	}
	date := base.AddDate(0, 0, days)
	if err := apod.ValidateDate(date, m.now()); err != nil {
		m.notice = &notice{title: "Error", body: dateError(err), err: true}
		return m, nil
	}
	return m.request(date)
}

func (m Model) applyOutcome(o fetch.Outcome) Model {
	m.loading = false
	m.input.Focus()

	switch o.Kind {
	case fetch.Displayable:
		m.shown = &o
		m.viewport.SetContent(o.Presentation.Explanation)
		m.viewport.GotoTop()
		m.resizeViewport()
		if path := o.Presentation.ImagePath; path != "" {
			if _, err := os.Stat(path); err != nil {
				m.log.WithError(err).WithField("file", path).Warn("cached image not readable")
			}
		}
	case fetch.Rejected:
		title := "Error"
		if o.Reason == fetch.ReasonNotImage {
			title = "Sorry!"
		}
		m.notice = &notice{title: title, body: o.Message(), err: title == "Error"}
	default:
		m.notice = &notice{title: "Error", body: o.Message(), err: true}
	}
	return m
}

func (m Model) cycleTheme() Model {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.styles = m.theme.Styles()
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name}); err != nil {
		m.log.WithError(err).Warn("save preferences")
	}
	return m
}

func (m *Model) resizeViewport() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	used := strings.Count(m.chrome(), "\n") + 1
	h := m.height - used
	if h < 3 {
		h = 3
	}
	m.viewport.Width = m.width
	m.viewport.Height = h
}

// Busy reports whether the model is waiting for an outcome.
func (m Model) Busy() bool {
	return m.loading
}

func isDateKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete, tea.KeyLeft, tea.KeyRight, tea.KeyHome, tea.KeyEnd:
		return true
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if (r < '0' || r > '9') && r != '-' {
				return false
			}
		}
		return true
	}
	return false
}

func dateError(err error) string {
	switch {
	case errors.Is(err, apod.ErrDateFormat):
		return "Date must be formatted YYYY-MM-DD."
	case errors.Is(err, apod.ErrDateOutOfRange):
		msg := strings.TrimPrefix(err.Error(), apod.ErrDateOutOfRange.Error()+": ")
		return strings.ToUpper(msg[:1]) + msg[1:] + "."
	default:
		return err.Error()
	}
}
