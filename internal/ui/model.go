// Package ui is the interactive batch mode: pick files, adjust the saved
// settings, run the batch and review the results.
package ui

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"HeicConvert/internal/convert"
	"HeicConvert/internal/domain"
	"HeicConvert/internal/settings"
)

// SessionState is the view the terminal UI is showing.
type SessionState int

const (
	StateSelect SessionState = iota
	StateSettings
	StateRunning
	StateResults
)

// Model is the bubbletea model of the terminal UI.
type Model struct {
	State SessionState

	// Select view
	Picker   filepicker.Model
	Selected []string

	// Settings view
	Settings   domain.Settings
	Inputs     []textinput.Model
	FocusIndex int

	// Running and results views
	Spinner  spinner.Model
	Progress []domain.Progress
	Total    int
	Outcome  domain.Outcome
	Err      error

	Status string

	store     *settings.Store
	converter *convert.Converter
	events    chan tea.Msg
	cancel    context.CancelFunc
	width     int
	height    int
}

// NewModel returns a Model on the file selection view, seeded with the
// stored settings.
func NewModel(store *settings.Store, conv *convert.Converter) Model {
	m := Model{
		State:     StateSelect,
		Settings:  store.Load(),
		store:     store,
		converter: conv,
	}

	m.Picker = filepicker.New()
	if wd, err := os.Getwd(); err == nil {
		m.Picker.CurrentDirectory = wd
	}
	m.Picker.AllowedTypes = AllowedTypes(m.Settings.InputFormat)

	m.Inputs = make([]textinput.Model, fieldInputs)

	m.Inputs[inputInFormat] = textinput.New()
	m.Inputs[inputInFormat].Placeholder = "heic (* for any file)"
	m.Inputs[inputInFormat].Prompt = "Input format:  "
	m.Inputs[inputInFormat].Width = 40

	m.Inputs[inputOutFormat] = textinput.New()
	m.Inputs[inputOutFormat].Placeholder = "jpg"
	m.Inputs[inputOutFormat].Prompt = "Output format: "
	m.Inputs[inputOutFormat].Width = 40

	m.Inputs[inputLocation] = textinput.New()
	m.Inputs[inputLocation].Placeholder = "Converted folder next to the program"
	m.Inputs[inputLocation].Prompt = "Save location: "
	m.Inputs[inputLocation].Width = 60

	m.Spinner = spinner.New()
	m.Spinner.Spinner = spinner.Dot
	m.Spinner.Style = statusRunningStyle

	return m
}

func (m Model) Init() tea.Cmd {
	return m.Picker.Init()
}

// Failed returns the number of failed files in the last finished batch.
func (m Model) Failed() int {
	_, failed := m.Outcome.Counts()
	return failed
}

// AllowedTypes maps the input format setting to file picker extensions.
// A comma separated list is accepted; "*" or an empty value allows every file.
func AllowedTypes(inputFormat string) []string {
	var out []string
	for _, f := range strings.Split(inputFormat, ",") {
		f = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(f)), ".")
		switch f {
		case "", "*":
			return nil
		case "heic", "heif":
			out = append(out, ".heic", ".heif")
		case "jpg", "jpeg":
			out = append(out, ".jpg", ".jpeg")
		case "tif", "tiff":
			out = append(out, ".tif", ".tiff")
		default:
			out = append(out, "."+f)
		}
	}
	return dedupe(out)
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func (m *Model) addFile(path string) {
	for _, p := range m.Selected {
		if p == path {
			return
		}
	}
	m.Selected = append(m.Selected, path)
}

func saveSettingsCmd(store *settings.Store, s domain.Settings) tea.Cmd {
	return func() tea.Msg {
		err := store.Save(s)
		return domain.SettingsSavedMsg{Settings: s, Err: err}
	}
}

// runBatch converts in a goroutine and streams progress over events; the
// channel is closed after the final BatchFinishedMsg.
func runBatch(ctx context.Context, conv *convert.Converter, b domain.Batch, events chan<- tea.Msg) {
	defer close(events)
	out, err := conv.Run(ctx, b, func(p domain.Progress) {
		events <- domain.FileConvertedMsg{Progress: p}
	})
	events <- domain.BatchFinishedMsg{Outcome: out, Err: err}
}

func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}
