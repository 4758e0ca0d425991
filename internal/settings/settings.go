package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/ini.v1"

	"HeicConvert/internal/domain"
	"HeicConvert/internal/logger"
	"HeicConvert/internal/paths"
)

// FileName is the settings file looked up in the working directory.
const FileName = "config.ini"

const (
	section         = "Settings"
	keyInputFormat  = "input_format"
	keyOutputFormat = "output_format"
	keySaveLocation = "save_location"
)

// Default returns the built-in settings: heic in, jpg out, saved to saveLocation.
func Default(saveLocation string) domain.Settings {
	return domain.Settings{
		InputFormat:  "heic",
		OutputFormat: "jpg",
		SaveLocation: saveLocation,
	}
}

// Store loads and saves settings in an INI file.
type Store struct {
	Path     string
	Defaults domain.Settings
}

// NewStore returns a Store for path whose default save location is <program dir>/Converted.
func NewStore(path string) *Store {
	if path == "" {
		path = FileName
	}
	out, err := paths.DefaultOutputDir()
	if err != nil {
		logger.Warn("default output dir", "err", err)
		out = paths.DefaultDirName
	}
	return &Store{Path: path, Defaults: Default(out)}
}

// Load reads the settings file. It never fails: a missing or unreadable file yields the
// defaults, and any key absent from the file keeps its default value.
func (s *Store) Load() domain.Settings {
	out := s.Defaults
	cfg, err := ini.LoadSources(ini.LoadOptions{InsensitiveKeys: true, PreserveSurroundedQuote: true}, s.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Debug("settings unreadable, using defaults", "err", domain.NewError(domain.KindConfigReadError, s.Path, err))
		}
		return out
	}
	sec, err := cfg.GetSection(section)
	if err != nil {
		logger.Debug("settings section missing, using defaults", "path", s.Path)
		return out
	}
	if sec.HasKey(keyInputFormat) {
		out.InputFormat = unquotePadded(sec.Key(keyInputFormat).String())
	}
	if sec.HasKey(keyOutputFormat) {
		out.OutputFormat = unquotePadded(sec.Key(keyOutputFormat).String())
	}
	if sec.HasKey(keySaveLocation) {
		out.SaveLocation = unquotePadded(sec.Key(keySaveLocation).String())
	}
	return out
}

// unquotePadded undoes the quotes ini adds around values with leading or
// trailing spaces. Any other quotes are part of the value and are kept.
func unquotePadded(v string) string {
	if len(v) < 2 || v[0] != '"' || v[len(v)-1] != '"' {
		return v
	}
	inner := v[1 : len(v)-1]
	if len(strings.TrimSpace(inner)) == len(inner) {
		return v
	}
	return inner
}

// Save writes v to the settings file, replacing it atomically.
func (s *Store) Save(v domain.Settings) error {
	cfg := ini.Empty()
	sec, err := cfg.NewSection(section)
	if err != nil {
		return domain.NewError(domain.KindIOError, s.Path, err)
	}
	for _, kv := range [][2]string{
		{keyInputFormat, v.InputFormat},
		{keyOutputFormat, v.OutputFormat},
		{keySaveLocation, v.SaveLocation},
	} {
		if _, err := sec.NewKey(kv[0], kv[1]); err != nil {
			return domain.NewError(domain.KindIOError, s.Path, err)
		}
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return domain.NewError(domain.KindIOError, s.Path, err)
	}
	tmp := filepath.Join(dir, "."+filepath.Base(s.Path)+"."+uuid.NewString()+".tmp")
	f, err := os.Create(tmp)
	if err != nil {
		return domain.NewError(domain.KindIOError, s.Path, fmt.Errorf("create temp: %w", err))
	}
	if _, err := cfg.WriteTo(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return domain.NewError(domain.KindIOError, s.Path, fmt.Errorf("write settings: %w", err))
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return domain.NewError(domain.KindIOError, s.Path, err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		os.Remove(tmp)
		return domain.NewError(domain.KindIOError, s.Path, fmt.Errorf("replace settings: %w", err))
	}
	logger.Info("settings saved", "path", s.Path)
	return nil
}
