package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HeicConvert/internal/config"
	"HeicConvert/internal/display"
	"HeicConvert/internal/preview"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HEICCONV_CONFIG", filepath.Join(dir, "config.yaml"))
	t.Setenv("HEICCONV_SETTINGS", filepath.Join(dir, "config.ini"))
	t.Setenv("HEICCONV_VIEWER", "none")
	t.Setenv("HEICCONV_LOG_LEVEL", "error")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSettingsSetAndShow(t *testing.T) {
	dir := setupEnv(t)

	_, err := run(t, "settings", "set", "--output-format", "PNG", "--save-location", filepath.Join(dir, "pics"))
	require.NoError(t, err)

	out, err := run(t, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "output_format: png")
	assert.Contains(t, out, "input_format:  heic")
	assert.Contains(t, out, filepath.Join(dir, "pics"))
}

func TestSettingsSetRejectsUnknownFormat(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "settings", "set", "--output-format", "psd")
	assert.Error(t, err)
}

func TestConvertCommand(t *testing.T) {
	dir := setupEnv(t)
	src := filepath.Join(dir, "photo.png")
	f, err := os.Create(src)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, 2, 2))))
	require.NoError(t, f.Close())
	outDir := filepath.Join(dir, "out")

	out, err := run(t, "convert", "--format", "bmp", "--out", outDir, src, filepath.Join(dir, "missing.heic"))

	assert.ErrorIs(t, err, errFailures)
	assert.Contains(t, out, "converted 1, failed 1")
	assert.FileExists(t, filepath.Join(outDir, "photo.bmp"))
}

func TestConfigInit(t *testing.T) {
	dir := setupEnv(t)

	_, err := run(t, "config", "init")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "config.yaml"))

	_, err = run(t, "config", "init")
	assert.Error(t, err)
}

func TestAssociateCommand(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "associate", "heic")
	require.NoError(t, err)
	assert.Contains(t, out, "heic")
}

func TestOpenerFor(t *testing.T) {
	a := &app{cfg: config.Default()}
	assert.Equal(t, display.SystemOpener{}, a.openerFor(true))

	a.cfg.Viewer.Mode = config.ViewerBuiltin
	assert.Equal(t, preview.Opener{}, a.openerFor(true))
	assert.Equal(t, display.SystemOpener{}, a.openerFor(false))

	a.cfg.Viewer.Mode = config.ViewerNone
	assert.Nil(t, a.openerFor(true))
}
