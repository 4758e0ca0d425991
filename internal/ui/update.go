package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"HeicConvert/internal/codec"
	"HeicConvert/internal/domain"
)

// Settings form focus indices
const (
	inputInFormat = iota
	inputOutFormat
	inputLocation
	btnSave
	fieldCount

	fieldInputs = btnSave
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		if m.State != StateRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case domain.FileConvertedMsg:
		m.Progress = append(m.Progress, msg.Progress)
		return m, waitForEvent(m.events)

	case domain.BatchFinishedMsg:
		if m.cancel != nil {
			m.cancel()
		}
		m.cancel = nil
		m.events = nil
		m.Outcome = msg.Outcome
		m.Err = msg.Err
		m.State = StateResults
		return m, nil

	case domain.SettingsSavedMsg:
		if msg.Err != nil {
			m.Status = "Could not save settings: " + msg.Err.Error()
			return m, nil
		}
		m.Settings = msg.Settings
		m.Picker.AllowedTypes = AllowedTypes(m.Settings.InputFormat)
		m.Status = "Settings saved"
		m.State = StateSelect
		return m, nil
	}

	// The picker reads directories asynchronously; keep feeding it while
	// another view is active.
	var pickerCmd tea.Cmd
	if _, isKey := msg.(tea.KeyMsg); !isKey && m.State != StateSelect {
		m.Picker, pickerCmd = m.Picker.Update(msg)
	}

	var next tea.Model
	var cmd tea.Cmd
	switch m.State {
	case StateSettings:
		next, cmd = m.updateSettings(msg)
	case StateRunning:
		next, cmd = m.updateRunning(msg)
	case StateResults:
		next, cmd = m.updateResults(msg)
	default:
		next, cmd = m.updateSelect(msg)
	}
	if pickerCmd == nil {
		return next, cmd
	}
	return next, tea.Batch(pickerCmd, cmd)
}

func (m Model) updateSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q":
			return m, tea.Quit
		case "tab":
			return m.openSettings()
		case "x":
			m.Selected = nil
			m.Status = ""
			return m, nil
		case "c":
			if len(m.Selected) == 0 {
				m.Status = "Select at least one file first"
				return m, nil
			}
			return m.startBatch()
		}
	}

	var cmd tea.Cmd
	m.Picker, cmd = m.Picker.Update(msg)

	if ok, path := m.Picker.DidSelectFile(msg); ok {
		m.addFile(path)
		m.Status = ""
	}
	if ok, path := m.Picker.DidSelectDisabledFile(msg); ok {
		m.Status = fmt.Sprintf("%s is not a %s file", path, m.Settings.InputFormat)
	}
	return m, cmd
}

func (m Model) openSettings() (tea.Model, tea.Cmd) {
	m.State = StateSettings
	m.Status = ""
	m.Inputs[inputInFormat].SetValue(m.Settings.InputFormat)
	m.Inputs[inputOutFormat].SetValue(m.Settings.OutputFormat)
	m.Inputs[inputLocation].SetValue(m.Settings.SaveLocation)
	m.FocusIndex = inputInFormat
	return m, m.focusInputs()
}

func (m *Model) focusInputs() tea.Cmd {
	var cmd tea.Cmd
	for i := range m.Inputs {
		if i == m.FocusIndex {
			cmd = m.Inputs[i].Focus()
			m.Inputs[i].TextStyle = focusedStyle
			m.Inputs[i].PromptStyle = focusedStyle
		} else {
			m.Inputs[i].Blur()
			m.Inputs[i].TextStyle = lipgloss.NewStyle()
			m.Inputs[i].PromptStyle = lipgloss.NewStyle()
		}
	}
	return cmd
}

func (m Model) updateSettings(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		s := key.String()
		switch s {
		case "esc":
			m.State = StateSelect
			m.Status = ""
			return m, nil
		case "enter", "tab", "shift+tab", "up", "down":
			if s == "enter" && m.FocusIndex == btnSave {
				return m.submitSettings()
			}
			if s == "up" || s == "shift+tab" {
				m.FocusIndex--
			} else {
				m.FocusIndex++
			}
			if m.FocusIndex >= fieldCount {
				m.FocusIndex = 0
			} else if m.FocusIndex < 0 {
				m.FocusIndex = fieldCount - 1
			}
			return m, m.focusInputs()
		}
	}

	cmds := make([]tea.Cmd, len(m.Inputs))
	for i := range m.Inputs {
		m.Inputs[i], cmds[i] = m.Inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) submitSettings() (tea.Model, tea.Cmd) {
	next := domain.Settings{
		InputFormat:  strings.TrimSpace(m.Inputs[inputInFormat].Value()),
		OutputFormat: codec.NormalizeFormat(m.Inputs[inputOutFormat].Value()),
		SaveLocation: strings.TrimSpace(m.Inputs[inputLocation].Value()),
	}
	if !codec.Supported(next.OutputFormat) {
		m.Status = fmt.Sprintf("Unsupported output format %q (use one of %s)",
			next.OutputFormat, strings.Join(codec.TargetFormats(), ", "))
		return m, nil
	}
	return m, saveSettingsCmd(m.store, next)
}

func (m Model) startBatch() (tea.Model, tea.Cmd) {
	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan tea.Msg, 1)
	b := domain.Batch{
		SourcePaths:  append([]string(nil), m.Selected...),
		TargetFormat: m.Settings.OutputFormat,
		OutputDir:    m.Settings.SaveLocation,
	}
	go runBatch(ctx, m.converter, b, events)

	m.State = StateRunning
	m.Status = ""
	m.events = events
	m.cancel = cancel
	m.Progress = nil
	m.Outcome = domain.Outcome{}
	m.Err = nil
	m.Total = len(b.SourcePaths)
	return m, tea.Batch(waitForEvent(events), m.Spinner.Tick)
}

func (m Model) updateRunning(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" && m.cancel != nil {
		m.cancel()
		m.Status = "Cancelling after the current file..."
	}
	return m, nil
}

func (m Model) updateResults(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q":
			return m, tea.Quit
		case "enter", "esc":
			m.State = StateSelect
			m.Selected = nil
			m.Progress = nil
			m.Status = ""
			return m, nil
		}
	}
	return m, nil
}
