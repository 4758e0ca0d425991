package ui

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HeicConvert/internal/convert"
	"HeicConvert/internal/domain"
	"HeicConvert/internal/settings"
)

type fakeCodec struct{ fail map[string]bool }

func (f fakeCodec) Convert(src, dst, _ string) error {
	if f.fail[src] {
		return domain.NewError(domain.KindDecodeError, src, errors.New("bad data"))
	}
	return os.WriteFile(dst, []byte("out"), 0o644)
}

func newTestModel(t *testing.T, c fakeCodec) Model {
	t.Helper()
	dir := t.TempDir()
	store := &settings.Store{
		Path:     filepath.Join(dir, settings.FileName),
		Defaults: settings.Default(filepath.Join(dir, "out")),
	}
	return NewModel(store, convert.New(c))
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestAllowedTypes(t *testing.T) {
	assert.Equal(t, []string{".heic", ".heif"}, AllowedTypes("heic"))
	assert.Equal(t, []string{".heic", ".heif"}, AllowedTypes(" HEIF "))
	assert.Nil(t, AllowedTypes("*"))
	assert.Nil(t, AllowedTypes(""))
	assert.Equal(t, []string{".heic", ".heif", ".png"}, AllowedTypes("heic,heif, .png"))
}

func TestAddFileDedupes(t *testing.T) {
	m := newTestModel(t, fakeCodec{})
	m.addFile("/a.heic")
	m.addFile("/b.heic")
	m.addFile("/a.heic")

	assert.Equal(t, []string{"/a.heic", "/b.heic"}, m.Selected)

	next, _ := m.Update(key("x"))
	assert.Empty(t, next.(Model).Selected)
}

func TestConvertWithoutSelection(t *testing.T) {
	m := newTestModel(t, fakeCodec{})

	next, _ := m.Update(key("c"))

	nm := next.(Model)
	assert.Equal(t, StateSelect, nm.State)
	assert.NotEmpty(t, nm.Status)
}

func TestBatchRunsToResults(t *testing.T) {
	m := newTestModel(t, fakeCodec{fail: map[string]bool{"/src/bad.heic": true}})
	m.addFile("/src/good.heic")
	m.addFile("/src/bad.heic")

	next, cmd := m.Update(key("c"))
	nm := next.(Model)
	require.Equal(t, StateRunning, nm.State)
	require.NotNil(t, cmd)
	assert.Equal(t, 2, nm.Total)

	for nm.State == StateRunning {
		msg := waitForEvent(nm.events)()
		require.NotNil(t, msg)
		next, _ = nm.Update(msg)
		nm = next.(Model)
	}

	assert.Equal(t, StateResults, nm.State)
	assert.Len(t, nm.Progress, 2)
	ok, failed := nm.Outcome.Counts()
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 1, nm.Failed())
	assert.NoError(t, nm.Err)
	assert.Contains(t, nm.View(), "Converted: 1 | Failed: 1")

	next, _ = nm.Update(key("enter"))
	nm = next.(Model)
	assert.Equal(t, StateSelect, nm.State)
	assert.Empty(t, nm.Selected)
}

func TestSettingsFormSaves(t *testing.T) {
	m := newTestModel(t, fakeCodec{})

	next, _ := m.Update(key("tab"))
	nm := next.(Model)
	require.Equal(t, StateSettings, nm.State)
	assert.Equal(t, "jpg", nm.Inputs[inputOutFormat].Value())

	nm.Inputs[inputOutFormat].SetValue("PNG")
	nm.Inputs[inputLocation].SetValue("/tmp/pictures")
	nm.FocusIndex = btnSave

	next, cmd := nm.Update(key("enter"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(domain.SettingsSavedMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)

	next, _ = next.(Model).Update(msg)
	nm = next.(Model)
	assert.Equal(t, StateSelect, nm.State)
	assert.Equal(t, "png", nm.Settings.OutputFormat)
	assert.Equal(t, "/tmp/pictures", nm.store.Load().SaveLocation)
}

func TestSettingsFormRejectsUnknownFormat(t *testing.T) {
	m := newTestModel(t, fakeCodec{})
	next, _ := m.Update(key("tab"))
	nm := next.(Model)

	nm.Inputs[inputOutFormat].SetValue("psd")
	nm.FocusIndex = btnSave
	next, cmd := nm.Update(key("enter"))

	assert.Nil(t, cmd)
	assert.Equal(t, StateSettings, next.(Model).State)
	assert.Contains(t, next.(Model).Status, "psd")
}

func TestSettingsSaveErrorStaysOnForm(t *testing.T) {
	m := newTestModel(t, fakeCodec{})
	m.State = StateSettings

	next, _ := m.Update(domain.SettingsSavedMsg{Err: errors.New("disk full")})

	nm := next.(Model)
	assert.Equal(t, StateSettings, nm.State)
	assert.Contains(t, nm.Status, "disk full")
}

func TestEscCancelsRunningBatch(t *testing.T) {
	m := newTestModel(t, fakeCodec{})
	cancelled := false
	m.State = StateRunning
	m.cancel = func() { cancelled = true }

	next, _ := m.Update(key("esc"))

	assert.True(t, cancelled)
	assert.Equal(t, StateRunning, next.(Model).State)
}
