package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/nbody/internal/dynamo"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := executeWithStderr(t, args...)
	return out, err
}

func executeWithStderr(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootReportsEnergy(t *testing.T) {
	out, err := execute(t, "10")
	require.NoError(t, err)
	require.Equal(t, "-0.169075164\n-0.169073022\n", out)
}

func TestRunCommand(t *testing.T) {
	out, err := execute(t, "run", "10", "--sample-every", "5")
	require.NoError(t, err)
	require.Equal(t, "-0.169075164\n-0.169073022\n", out)
}

func TestRunVerbose(t *testing.T) {
	out, diag, err := executeWithStderr(t, "run", "10", "--verbose")
	require.NoError(t, err)
	require.Equal(t, "-0.169075164\n-0.169073022\n", out)
	require.Contains(t, diag, "nbody: ")
	require.Contains(t, diag, "5 bodies, 10 pairs")
	require.Contains(t, diag, "angular momentum")
	require.Contains(t, diag, "angular momentum after 10 steps")
}

func TestRunPlot(t *testing.T) {
	out, err := execute(t, "run", "200", "--plot")
	require.NoError(t, err)
	require.Contains(t, out, "energy, every 2 steps")
}

func TestRunErrors(t *testing.T) {
	_, err := execute(t, "run", "ten")
	require.Error(t, err)

	_, err = execute(t, "run", "10", "--reference", "7")
	require.True(t, errors.Is(err, dynamo.ErrReferenceIndex), "got %v", err)

	_, err = execute(t, "run", "10", "--dt", "0")
	require.True(t, errors.Is(err, dynamo.ErrInvalidConfig), "got %v", err)

	_, err = execute(t, "run", "--preset", "inner")
	require.Error(t, err)
}

func TestConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nbody.yaml")
	out, err := execute(t, "config", path)
	require.NoError(t, err)
	require.Contains(t, out, path)

	require.NoError(t, os.WriteFile(path, []byte("preset: lone-star\nsteps: 10\n"), 0644))
	out, err = execute(t, "run", "--config", path)
	require.NoError(t, err)
	require.Equal(t, "0.000000000\n0.000000000\n", out)

	out, err = execute(t, "run", "--config", path, "--preset", "jovian")
	require.NoError(t, err)
	require.Equal(t, "-0.169075164\n-0.169073022\n", out)
}

func TestPresetsCommand(t *testing.T) {
	out, err := execute(t, "presets")
	require.NoError(t, err)
	require.Contains(t, out, "jovian")
	require.Contains(t, out, "lone-star")
	require.Contains(t, out, "10")
}

func TestSweepCommand(t *testing.T) {
	out, err := execute(t, "sweep", "100", "--dts", "0.02,0.01")
	require.NoError(t, err)
	require.Contains(t, out, "STABILITY")
	require.Contains(t, out, "Best dt")
}

func TestBenchCommand(t *testing.T) {
	out, err := execute(t, "bench", "--steps", "10,20")
	require.NoError(t, err)
	require.Contains(t, out, "STEPS/SEC")
	require.Contains(t, out, "-0.169073022")
}
