package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"HeicConvert/internal/domain"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			MarginBottom(1)

	listStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("238")).
			PaddingLeft(2)

	itemStyle = lipgloss.NewStyle().PaddingLeft(2)

	statusPendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	statusRunningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	statusSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	statusFailStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			PaddingTop(1)

	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFF7DB")).
			Background(lipgloss.Color("#888B7E")).
			Padding(0, 3).
			MarginTop(1)

	activeButtonStyle = buttonStyle.
				Background(lipgloss.Color("#F25D94"))
)

func (m Model) View() string {
	var body string
	switch m.State {
	case StateSettings:
		body = m.viewSettings()
	case StateRunning:
		body = m.viewRunning()
	case StateResults:
		body = m.viewResults()
	default:
		body = m.viewSelect()
	}
	if m.Status != "" {
		body += "\n" + statusRunningStyle.Render(m.Status)
	}
	return lipgloss.NewStyle().Margin(1, 2).Render(body)
}

func (m Model) header() string {
	target := m.Settings.OutputFormat
	loc := m.Settings.SaveLocation
	if loc == "" {
		loc = "(default)"
	}
	return titleStyle.Render("HEIC Converter") + "  " +
		statusPendingStyle.Render(fmt.Sprintf("-> %s in %s", target, loc)) + "\n\n"
}

func (m Model) viewSelect() string {
	var b strings.Builder
	b.WriteString(m.header())

	picker := m.Picker.View()

	var sel strings.Builder
	sel.WriteString(sectionStyle.Render(fmt.Sprintf("Selected (%d)", len(m.Selected))) + "\n")
	if len(m.Selected) == 0 {
		sel.WriteString(statusPendingStyle.Render("nothing yet") + "\n")
	}
	for _, p := range m.Selected {
		sel.WriteString(itemStyle.Render(filepath.Base(p)) + "\n")
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, picker, listStyle.Render(sel.String())))
	b.WriteString(footerStyle.Render("\nenter: add file • c: convert • x: clear • tab: settings • q: quit"))
	return b.String()
}

func (m Model) viewSettings() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("HEIC Converter Settings") + "\n\n")

	for i := range m.Inputs {
		b.WriteString(m.Inputs[i].View() + "\n\n")
	}

	btn := buttonStyle.Render("Save")
	if m.FocusIndex == btnSave {
		btn = activeButtonStyle.Render("Save")
	}
	b.WriteString(btn + "\n")
	b.WriteString(footerStyle.Render("\nTab/Shift+Tab to navigate • Enter on Save to store • Esc to go back"))
	return b.String()
}

func (m Model) viewRunning() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString(fmt.Sprintf("%s Converting %d of %d\n\n", m.Spinner.View(), len(m.Progress), m.Total))
	for _, p := range m.Progress {
		b.WriteString(resultLine(p.Result) + "\n")
	}
	b.WriteString(footerStyle.Render("\nesc: cancel • ctrl+c: quit"))
	return b.String()
}

func (m Model) viewResults() string {
	var b strings.Builder
	b.WriteString(m.header())

	ok, failed := m.Outcome.Counts()
	summary := fmt.Sprintf("Converted: %d | Failed: %d", ok, failed)
	if skipped := m.Total - len(m.Outcome.Results); skipped > 0 {
		summary += fmt.Sprintf(" | Not started: %d", skipped)
	}
	b.WriteString(sectionStyle.Render(summary) + "\n")

	for _, r := range m.Outcome.Results {
		b.WriteString(resultLine(r) + "\n")
	}
	if m.Err != nil {
		b.WriteString("\n" + statusFailStyle.Render("Batch stopped: "+m.Err.Error()) + "\n")
	}
	if m.Outcome.Opened != "" {
		line := "Opened " + m.Outcome.Opened
		if m.Outcome.OpenErr != nil {
			line = fmt.Sprintf("Could not open %s: %v", m.Outcome.Opened, m.Outcome.OpenErr)
		}
		b.WriteString("\n" + statusPendingStyle.Render(line) + "\n")
	}
	b.WriteString(footerStyle.Render("\nenter: new batch • q: quit"))
	return b.String()
}

func resultLine(r domain.Result) string {
	if r.OK() {
		return statusSuccessStyle.Render("ok    ") + filepath.Base(r.SourcePath) + " -> " + r.OutputPath
	}
	msg := "failed"
	if r.Err != nil {
		msg = r.Err.Error()
	}
	return statusFailStyle.Render("fail  ") + filepath.Base(r.SourcePath) + ": " + msg
}
