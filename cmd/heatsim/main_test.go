package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/heatsim/internal/experiment"
	"github.com/san-kum/heatsim/internal/rod"
	"github.com/san-kum/heatsim/internal/spectrum"
	"github.com/san-kum/heatsim/internal/stability"
)

func parsed(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addRunFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestResolveConfigDefaults(t *testing.T) {
	cfg, name, err := resolveConfig(parsed(t), "")
	require.NoError(t, err)
	assert.Equal(t, "run", name)
	assert.Equal(t, "explicit", cfg.Scheme)
	assert.Equal(t, 51, cfg.Grid.Points)
}

func TestResolveConfigFlagsOverridePreset(t *testing.T) {
	cfg, name, err := resolveConfig(parsed(t, "--preset", "implicit", "--dt", "0.5", "--t-left", "80"), "")
	require.NoError(t, err)
	assert.Equal(t, "implicit", name)
	assert.Equal(t, "implicit", cfg.Scheme)
	assert.Equal(t, 0.5, cfg.Grid.Dt)
	assert.Equal(t, 80.0, cfg.Boundary.Left)
	assert.Equal(t, 150.0, cfg.TFinal, "unchanged flags keep the preset value")
}

func TestResolveConfigBaseAndFile(t *testing.T) {
	cfg, name, err := resolveConfig(parsed(t), "implicit-verify")
	require.NoError(t, err)
	assert.Equal(t, "implicit-verify", name)
	assert.True(t, cfg.Verify)

	path := filepath.Join(t.TempDir(), "short.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scheme: implicit\nt_final: 10\n"), 0644))
	cfg, name, err = resolveConfig(parsed(t, "--config", path, "--nx", "21"), "")
	require.NoError(t, err)
	assert.Equal(t, "short", name)
	assert.Equal(t, "implicit", cfg.Scheme)
	assert.Equal(t, 10.0, cfg.TFinal)
	assert.Equal(t, 21, cfg.Grid.Points)

	_, _, err = resolveConfig(parsed(t, "--preset", "nope"), "")
	assert.Error(t, err)
}

func TestFormatField(t *testing.T) {
	assert.Equal(t, "[100.00 58.33 0.00]", formatField(rod.Field{100, 58.3333, 0}))
}

func TestWriteSummary(t *testing.T) {
	rep := &experiment.Report{
		Scheme:    "explicit",
		Final:     rod.Field{100, 50.004, 0},
		Steps:     1500,
		Stability: stability.Analyze(1, 0.125, 0.5),
	}
	var buf bytes.Buffer
	writeSummary(&buf, rep)
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "Fourier number is: 0.5\n"))
	assert.NotContains(t, out, "WARNING")
	assert.Contains(t, out, "Simulation is done after 1500 time steps")
	assert.Contains(t, out, "[100.00 50.00 0.00]")

	rep.Stability = stability.Analyze(1, 0.25, 0.5)
	buf.Reset()
	writeSummary(&buf, rep)
	assert.Contains(t, buf.String(), "WARNING! Fo must be <=0.5")
}

func TestWriteModes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeModes(&buf, nil))
	assert.Contains(t, buf.String(), "no modes")

	buf.Reset()
	require.NoError(t, writeModes(&buf, []spectrum.Mode{{K: 1, From: 1, To: 0.5, Rate: 0.7, Exact: 0.7}}))
	assert.Contains(t, buf.String(), "REL ERROR")
}

func TestSetupLogging(t *testing.T) {
	assert.NoError(t, setupLogging("debug", "json"))
	assert.NoError(t, setupLogging("info", "text"))
	assert.Error(t, setupLogging("loud", "text"))
	assert.Error(t, setupLogging("info", "xml"))
}
