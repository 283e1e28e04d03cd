package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/jrv/cambio/internal/convert"
)

// styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	resultStyle = lipgloss.NewStyle().Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func (a *App) View() string {
	var body string
	switch {
	case a.phase == phaseLoading:
		body = a.renderLoading()
	case a.phase == phaseErrored:
		body = a.renderFetchError()
	case a.view == viewHistory:
		body = a.renderHistory()
	default:
		body = a.renderConverter()
	}
	if a.modal != modalNone {
		body += "\n\n" + a.renderPicker()
	}
	return body
}

func (a *App) renderLoading() string {
	title := titleStyle.Render("Cambio")
	return fmt.Sprintf("%s\nFetching currencies and rates...\n%s", title, mutedStyle.Render("[q] Quit"))
}

func (a *App) renderFetchError() string {
	title := titleStyle.Render("Cambio")
	msg := errorStyle.Render("Could not load exchange rates: " + a.fetchErr)
	return fmt.Sprintf("%s\n%s\n%s", title, msg, mutedStyle.Render("[r] Retry  [q] Quit"))
}

func (a *App) renderConverter() string {
	title := titleStyle.Render("Cambio")
	if a.base != "" {
		title += mutedStyle.Render(fmt.Sprintf("  rates vs %s", a.base))
	}

	out := title + "\n"
	out += fmt.Sprintf("Amount: %s\n", a.amountInput)
	out += fmt.Sprintf("From:   %s  %s\n", a.source, mutedStyle.Render(a.currencies[a.source]))
	out += fmt.Sprintf("To:     %s  %s\n", a.target, mutedStyle.Render(a.currencies[a.target]))

	if rate, err := convert.Rate(a.source, a.target, a.table); err == nil {
		out += mutedStyle.Render(fmt.Sprintf("1 %s = %s %s", a.source, convert.Format(rate, 4), a.target)) + "\n"
	}

	switch a.outcome {
	case outcomeResult:
		out += resultStyle.Render(fmt.Sprintf("%s %s = %s %s",
			convert.Format(a.result.Amount, a.cfg.UI.Precision), a.result.Source,
			convert.Format(a.result.Value, a.cfg.UI.Precision), a.result.Target)) + "\n"
	case outcomeError:
		out += errorStyle.Render(a.convErr) + "\n"
	}

	out += mutedStyle.Render("[enter] Convert  [s] From  [t] To  [x] Swap  [h] History  [q] Quit")
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderHistory() string {
	title := titleStyle.Render("Conversion History")
	if a.ledger == nil {
		return fmt.Sprintf("%s\nHistory is disabled in config.\n%s", title, mutedStyle.Render("[esc] Back  [q] Quit"))
	}
	out := title + "\n"
	if len(a.entries) == 0 {
		out += "No conversions recorded yet.\n"
	}
	for i, e := range a.entries {
		marker := " "
		if i == a.historyCursor {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %s  %s %s -> %s %s\n", marker,
			e.CreatedAt.Format("2006-01-02 15:04"),
			convert.Format(e.Amount, a.cfg.UI.Precision), e.Source,
			convert.Format(e.Result, a.cfg.UI.Precision), e.Target)
	}
	out += mutedStyle.Render("[esc] Back  [q] Quit")
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderPicker() string {
	label := "Select source currency"
	if a.modal == modalTargetPicker {
		label = "Select target currency"
	}
	out := titleStyle.Render(label) + "\n"
	out += fmt.Sprintf("Filter: %s\n", a.pickerQuery)
	options := filterCodes(a.pickerQuery, a.currencies)
	for i, code := range options {
		marker := " "
		if i == a.pickerCursor {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %s  %s\n", marker, code, a.currencies[code])
	}
	out += mutedStyle.Render("[enter] Select  [esc] Cancel")
	return out
}
