package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCheck(t *testing.T) {
	path := writeConfig(t, "retain.yaml", "version: v1.0.0\nwindow:\n  width: 320\n  height: 200\ngraph:\n  removal_grace: 2\n")
	out, err := run(t, "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, "version:       v1.0.0")
	assert.Contains(t, out, "window:        320x200")
	assert.Contains(t, out, "removal grace: 2")
	assert.Contains(t, out, "OK")
}

func TestCheckRejectsInvalid(t *testing.T) {
	path := writeConfig(t, "retain.toml", "version = \"v2.0.0\"\n")
	_, err := run(t, "check", path)
	assert.Error(t, err)

	_, err = run(t, "check")
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	atlas := filepath.Join(t.TempDir(), "atlas.png")
	out, err := run(t, "render", "--frames", "2", "--width", "400", "--height", "300", "--atlas", atlas)
	require.NoError(t, err)
	assert.Contains(t, out, "frame 0:")
	assert.Contains(t, out, "frame 1:")
	assert.Contains(t, out, "reused")
	assert.Contains(t, out, "glyphs cached:")

	data, err := os.ReadFile(atlas)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), data[:4])
}

func TestRenderWithConfig(t *testing.T) {
	path := writeConfig(t, "retain.yaml", "window:\n  width: 500\n  height: 320\n  dpi_factor: 2\n")
	out, err := run(t, "--config", path, "render", "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "frame 0:")
}

func TestTheme(t *testing.T) {
	path := writeConfig(t, "retain.yaml", "theme:\n  name: ocean\n  shape_color: \"#3a7bd5\"\n")
	out, err := run(t, "theme", "-c", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Theme: ocean")
	assert.Contains(t, out, "#3a7bd5ff")
	assert.Contains(t, out, "circle_resolution")
}
