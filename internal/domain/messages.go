package domain

// FileConvertedMsg is sent to the TUI after each file of a running batch.
type FileConvertedMsg struct {
	Progress Progress
}

// BatchFinishedMsg is sent when a batch has run to completion or was cancelled.
type BatchFinishedMsg struct {
	Outcome Outcome
	Err     error
}

// SettingsSavedMsg is sent after an explicit save of the settings form.
type SettingsSavedMsg struct {
	Settings Settings
	Err      error
}
