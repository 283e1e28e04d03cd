package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jrv/cambio/internal/config"
	"github.com/jrv/cambio/internal/convert"
	"github.com/jrv/cambio/internal/history"
	"github.com/jrv/cambio/internal/rates"
)

// RateLoader is the startup fetch dependency; satisfied by *rates.Client.
type RateLoader interface {
	LoadAll(ctx context.Context) (rates.Bootstrap, error)
}

// HistoryStore is the optional conversion ledger; satisfied by *history.Repo.
type HistoryStore interface {
	Add(ctx context.Context, e history.Entry) error
	Recent(ctx context.Context, limit int) ([]history.Entry, error)
}

// App is the single-screen converter model.
type App struct {
	ctx    context.Context
	cfg    config.Config
	logger *logrus.Logger
	loader RateLoader
	ledger HistoryStore // nil when history is disabled
	clock  func() time.Time

	phase   phase
	outcome outcome
	view    view
	modal   modalState

	currencies map[string]string // code -> display name
	table      rates.Table
	base       string

	amountInput string
	source      string
	target      string

	result   *Result
	convErr  string
	fetchErr string
	status   string

	entries       []history.Entry
	historyCursor int

	pickerQuery  string
	pickerCursor int
}

// Result is a computed conversion kept at full precision until formatted.
type Result struct {
	Amount float64
	Source string
	Target string
	Value  float64
}

type phase string

const (
	phaseLoading phase = "loading"
	phaseReady   phase = "ready"
	phaseErrored phase = "errored"
)

type outcome string

const (
	outcomeIdle   outcome = "idle"
	outcomeResult outcome = "result"
	outcomeError  outcome = "error"
)

type view string

const (
	viewConverter view = "converter"
	viewHistory   view = "history"
)

type modalState string

const (
	modalNone         modalState = ""
	modalSourcePicker modalState = "sourcePicker"
	modalTargetPicker modalState = "targetPicker"
)

func New(ctx context.Context, cfg config.Config, loader RateLoader, ledger HistoryStore, logger *logrus.Logger) *App {
	return &App{
		ctx:         ctx,
		cfg:         cfg,
		logger:      logger,
		loader:      loader,
		ledger:      ledger,
		clock:       func() time.Time { return time.Now().UTC() },
		phase:       phaseLoading,
		outcome:     outcomeIdle,
		view:        viewConverter,
		amountInput: "1",
	}
}

func (a *App) Init() tea.Cmd {
	return a.fetchCmd()
}

// fetchCmd runs both startup reads sequentially off the event loop and
// delivers exactly one message: the full payload or the failure.
func (a *App) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		boot, err := a.loader.LoadAll(a.ctx)
		if err != nil {
			return fetchFailedMsg{err}
		}
		return bootstrapMsg(boot)
	}
}

func (a *App) loadHistoryCmd() tea.Cmd {
	return func() tea.Msg {
		if a.ledger == nil {
			return historyMsg(nil)
		}
		entries, err := a.ledger.Recent(a.ctx, 50)
		if err != nil {
			return errMsg{err}
		}
		return historyMsg(entries)
	}
}

func (a *App) saveConversionCmd(r Result) tea.Cmd {
	if a.ledger == nil {
		return nil
	}
	entry := history.Entry{
		ID:        uuid.NewString(),
		Source:    r.Source,
		Target:    r.Target,
		Base:      a.base,
		Amount:    r.Amount,
		Result:    r.Value,
		CreatedAt: a.clock(),
	}
	return func() tea.Msg {
		if err := a.ledger.Add(a.ctx, entry); err != nil {
			return errMsg{err}
		}
		return historySavedMsg{}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if a.modal != modalNone {
			return a.handlePickerKey(m)
		}
		if a.view == viewHistory {
			return a.handleHistoryKey(m)
		}
		return a.handleConverterKey(m)

	case bootstrapMsg:
		a.currencies = m.Currencies
		a.table = m.Rates
		a.base = m.Base
		a.source, a.target = convert.EnsureSelection(a.source, a.target, a.currencies)
		a.phase = phaseReady
		a.outcome = outcomeIdle
		a.fetchErr = ""
		a.logger.Infof("ready: %d currencies, base %s", len(a.currencies), a.base)

	case fetchFailedMsg:
		// keep currency list and rate table unset: no partial state
		a.currencies = nil
		a.table = nil
		a.base = ""
		a.phase = phaseErrored
		a.fetchErr = m.err.Error()
		a.logger.Errorf("startup fetch failed: %v", m.err)

	case historyMsg:
		a.entries = []history.Entry(m)
		if a.historyCursor >= len(a.entries) {
			a.historyCursor = 0
		}

	case historySavedMsg:
		// ledger write is fire-and-forget; nothing to show on success

	case errMsg:
		a.status = "error: " + m.Error()
		a.logger.Warnf("background action failed: %v", m.error)
	}
	return a, nil
}

func (a *App) handleConverterKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "r":
		if a.phase == phaseErrored {
			a.phase = phaseLoading
			a.fetchErr = ""
			a.status = ""
			return a, a.fetchCmd()
		}
		return a, nil
	}

	// everything below needs a loaded rate table
	if a.phase != phaseReady {
		return a, nil
	}

	switch m.String() {
	case "h":
		a.view = viewHistory
		a.status = ""
		return a, a.loadHistoryCmd()
	case "s":
		a.openPicker(modalSourcePicker)
		return a, nil
	case "t":
		a.openPicker(modalTargetPicker)
		return a, nil
	case "x":
		a.source, a.target = a.target, a.source
		a.invalidate()
		return a, nil
	case "enter":
		return a, a.convertPressed()
	}

	switch m.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		if len(a.amountInput) > 0 {
			a.amountInput = a.amountInput[:len(a.amountInput)-1]
			a.invalidate()
		}
	case tea.KeyRunes:
		for _, r := range m.Runes {
			if r >= '0' && r <= '9' {
				a.amountInput += string(r)
				a.invalidate()
			}
			if r == '.' && !strings.Contains(a.amountInput, ".") {
				a.amountInput += "."
				a.invalidate()
			}
		}
	}
	return a, nil
}

// convertPressed runs the synchronous conversion against the resident table.
func (a *App) convertPressed() tea.Cmd {
	amount, err := convert.ParseAmount(a.amountInput)
	if err != nil {
		a.outcome = outcomeError
		a.convErr = err.Error()
		a.result = nil
		return nil
	}
	value, err := convert.Convert(amount, a.source, a.target, a.table)
	if err != nil {
		a.outcome = outcomeError
		a.convErr = err.Error()
		a.result = nil
		return nil
	}
	r := Result{Amount: amount, Source: a.source, Target: a.target, Value: value}
	a.result = &r
	a.outcome = outcomeResult
	a.convErr = ""
	return a.saveConversionCmd(r)
}

// invalidate clears the last result whenever amount, source, or target change.
func (a *App) invalidate() {
	a.result = nil
	a.convErr = ""
	a.outcome = outcomeIdle
}

func (a *App) handleHistoryKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "esc", "h":
		a.view = viewConverter
	case "up", "k":
		if a.historyCursor > 0 {
			a.historyCursor--
		}
	case "down", "j":
		if a.historyCursor < len(a.entries)-1 {
			a.historyCursor++
		}
	}
	return a, nil
}

func (a *App) openPicker(modal modalState) {
	a.modal = modal
	a.pickerQuery = ""
	a.pickerCursor = 0
}

func (a *App) handlePickerKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	options := filterCodes(a.pickerQuery, a.currencies)
	switch m.Type {
	case tea.KeyEsc:
		a.modal = modalNone
		a.pickerQuery = ""
	case tea.KeyUp:
		if a.pickerCursor > 0 {
			a.pickerCursor--
		}
	case tea.KeyDown:
		if a.pickerCursor < len(options)-1 {
			a.pickerCursor++
		}
	case tea.KeyEnter:
		if a.pickerCursor < len(options) {
			code := options[a.pickerCursor]
			if a.modal == modalSourcePicker {
				a.source = code
			} else {
				a.target = code
			}
			a.invalidate()
		}
		a.modal = modalNone
		a.pickerQuery = ""
	case tea.KeyBackspace, tea.KeyCtrlH:
		if len(a.pickerQuery) > 0 {
			a.pickerQuery = a.pickerQuery[:len(a.pickerQuery)-1]
			a.pickerCursor = 0
		}
	case tea.KeyRunes:
		a.pickerQuery += string(m.Runes)
		a.pickerCursor = 0
	}
	return a, nil
}

// messages
type bootstrapMsg rates.Bootstrap

type fetchFailedMsg struct{ err error }

type historyMsg []history.Entry

type historySavedMsg struct{}

type errMsg struct{ error }
