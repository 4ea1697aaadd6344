package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/setanarut/mockup"
	"github.com/setanarut/mockup/palette"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	require.Equal(t, mockup.DefaultOptions(), cfg.Options)
	require.Equal(t, "output", cfg.OutputDir)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("MOCKUP_RADIUS", "40")
	t.Setenv("MOCKUP_BLEND", "0.1")
	t.Setenv("MOCKUP_METHOD", "dominantcolor")
	t.Setenv("MOCKUP_WORKERS", "8")
	t.Setenv("MOCKUP_OUTPUT_DIR", "/tmp/cards")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	require.Equal(t, 40, cfg.Options.Radius)
	require.Equal(t, 0.1, cfg.Options.Blend)
	require.Equal(t, palette.MethodDominantColor, cfg.Options.Method)
	require.Equal(t, 8, cfg.Options.Workers)
	require.Equal(t, "/tmp/cards", cfg.OutputDir)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("MOCKUP_CLUSTERS=3\nMOCKUP_COLOR_CACHE=7\n"), 0o644))
	t.Setenv("MOCKUP_CLUSTERS", "")
	t.Setenv("MOCKUP_COLOR_CACHE", "")
	os.Unsetenv("MOCKUP_CLUSTERS")
	os.Unsetenv("MOCKUP_COLOR_CACHE")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Options.Clusters)
	require.Equal(t, 7, cfg.Options.Colors.Limit)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("MOCKUP_PREVIEW_SIZE", "big")
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.ErrorContains(t, err, "MOCKUP_PREVIEW_SIZE")

	t.Setenv("MOCKUP_PREVIEW_SIZE", "")
	t.Setenv("MOCKUP_METHOD", "median-cut")
	_, err = Load(filepath.Join(t.TempDir(), "absent.env"))
	require.ErrorContains(t, err, "median-cut")
}

func TestLoadRejectsMalformedEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.env")
	require.NoError(t, os.WriteFile(path, []byte("MOCKUP-RADIUS=3\n"), 0o644))
	_, err := Load(path)
	require.ErrorContains(t, err, "config:")
}
