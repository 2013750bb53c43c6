package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"RCCalc/internal/calc/ec2"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCalcDefaultTable(t *testing.T) {
	out, err := run(t, "calc")
	require.NoError(t, err)
	assert.Contains(t, out, "COLUMN DESIGN CHECK")
	assert.Contains(t, out, "8 ⌀16")
	assert.Contains(t, out, "Eurocode compliant")
}

func TestCalcFlagsOverrideDefaults(t *testing.T) {
	out, err := run(t, "calc", "--type", "footing", "--bars", "40", "--bar-dia", "20", "--json")
	require.NoError(t, err)

	var resp ec2.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, ec2.Footing, resp.Input.ElementType)
	assert.Equal(t, 40, resp.Input.Reinforcement.Longitudinal.Count)
	assert.Equal(t, 2.0, resp.Input.Geometry.WidthM)
	assert.Equal(t, 500.0, resp.Input.Loads.AxialKN)
}

func TestCalcStrict(t *testing.T) {
	_, err := run(t, "calc", "--type", "footing", "--strict")
	assert.Error(t, err)

	_, err = run(t, "calc", "--strict")
	assert.NoError(t, err)
}

func TestCalcRejectsInvalid(t *testing.T) {
	_, err := run(t, "calc", "--spacing", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spacing_mm")

	_, err = run(t, "calc", "--type", "beam")
	assert.Error(t, err)
}

func TestCalcRejectsNonFiniteFlags(t *testing.T) {
	for _, args := range [][]string{
		{"calc", "--width", "NaN"},
		{"calc", "--height", "+Inf"},
		{"calc", "--axial=-Inf", "--json"},
	} {
		out, err := run(t, args...)
		require.Error(t, err, "%v", args)
		assert.Contains(t, err.Error(), "must be a finite number", "%v", args)
		assert.NotContains(t, out, "Eurocode compliant")
	}
}

func TestCalcFromFile(t *testing.T) {
	in := ec2.Defaults(ec2.Column)
	in.Loads.AxialKN = 1234
	data, err := json.Marshal(in)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "column.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	out, err := run(t, "calc", "--input", path, "--cover", "35", "--json")
	require.NoError(t, err)
	var resp ec2.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 1234.0, resp.Input.Loads.AxialKN)
	assert.Equal(t, 35.0, resp.Input.Reinforcement.CoverMM)
}

func TestReference(t *testing.T) {
	out, err := run(t, "reference")
	require.NoError(t, err)
	assert.Contains(t, out, "C50/60")
	assert.Contains(t, out, "S400")
}

func TestReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.pdf")
	_, err := run(t, "report", "--out", path, "--project", "Test")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
