package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/couchcryptid/oxygen-conversion-service/internal/oxygen"
	"github.com/couchcryptid/oxygen-conversion-service/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestConvertCommand(t *testing.T) {
	out, err := execute(t, "convert", "--from", "umol/kg", "--to", "%",
		"-t", "2.9", "-s", "34.71", "-p", "1500", "212.4")
	require.NoError(t, err)
	assert.Equal(t, "212.4 umol/kg = 80.6338 %\n", out)
}

func TestConvertCommand_MultipleValues(t *testing.T) {
	out, err := execute(t, "convert", "--from", "umol/L", "--to", "mbar",
		"-t", "2", "-s", "2", "-p", "2", "2", "4")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "2 umol/L = 0.989044 mbar", lines[0])
}

func TestConvertCommand_Strict(t *testing.T) {
	_, err := execute(t, "convert", "--from", "umol/L", "--to", "%", "-t", "55", "-s", "35", "200")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "temperature")

	_, err = execute(t, "convert", "--strict=false", "--from", "umol/L", "--to", "%", "-t", "5", "-s", "45", "200")
	require.NoError(t, err)
}

func TestConvertCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing unit flag", []string{"convert", "--to", "%", "-t", "5", "-s", "35", "200"}},
		{"unknown unit", []string{"convert", "--from", "ppm", "--to", "%", "-t", "5", "-s", "35", "200"}},
		{"bad value", []string{"convert", "--from", "umol/L", "--to", "%", "-t", "5", "-s", "35", "abc"}},
		{"no values", []string{"convert", "--from", "umol/L", "--to", "%", "-t", "5", "-s", "35"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
		})
	}
}

func TestSolubilityCommand(t *testing.T) {
	out, err := execute(t, "solubility", "-t", "10", "-s", "35")
	require.NoError(t, err)
	assert.Equal(t, "282.015 umol/L\n", out)

	out, err = execute(t, "solubility", "-t", "10", "-s", "35", "--unit", "mL/L")
	require.NoError(t, err)
	assert.Equal(t, "6.31477 mL/L\n", out)

	_, err = execute(t, "solubility", "-t", "10", "-s", "35", "--unit", "%")
	require.Error(t, err)
}

func TestProfileCommand_MissingFile(t *testing.T) {
	_, err := execute(t, "profile", "does-not-exist.nc")
	require.Error(t, err)
}

func TestWriteSummary(t *testing.T) {
	c, err := profile.Convert(profile.Profile{
		Platform:    "6903024",
		Cycle:       112,
		Pressure:    []float64{5, 1500},
		Temperature: []float64{12.8, 2.9},
		Salinity:    []float64{34.52, 34.71},
		Oxygen:      []float64{268.4, 212.4},
		OxygenUnit:  "umol/kg",
	}, 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	writeSummary(&buf, profile.Summarize(c))
	writeLevels(&buf, c)

	out := buf.String()
	assert.Contains(t, out, "platform 6903024 cycle 112: 2 levels, oxygen minimum at 1500.0 dbar")
	assert.Contains(t, out, "umol/kg")
	assert.Contains(t, out, "1500.0")
}

func decodedProfiles() []profile.Profile {
	nan := math.NaN()
	return []profile.Profile{
		{
			Platform:    "6903024",
			Cycle:       112,
			Pressure:    []float64{5, 1500},
			Temperature: []float64{12.8, 2.9},
			Salinity:    []float64{34.52, 34.71},
			Oxygen:      []float64{268.4, 212.4},
			OxygenUnit:  oxygen.UmolPerKg,
		},
		{
			Platform:    "6903024",
			Cycle:       113,
			Pressure:    []float64{5, 1500},
			Temperature: []float64{12.6, 2.9},
			Salinity:    []float64{34.50, 34.71},
			Oxygen:      []float64{nan, nan},
			OxygenUnit:  oxygen.UmolPerKg,
		},
	}
}

// executeProfile runs the profile command against profiles decoded in memory
// and records the options it was loaded with.
func executeProfile(t *testing.T, args ...string) (string, profile.Options, error) {
	t.Helper()
	var got profile.Options
	load := func(path string, opts profile.Options) ([]profile.Profile, error) {
		assert.Equal(t, "6903024_prof.nc", path)
		got = opts
		return decodedProfiles(), nil
	}

	var out bytes.Buffer
	cmd := newProfileCommand(load)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "6903024_prof.nc"))
	err := cmd.Execute()
	return out.String(), got, err
}

func TestProfileCommand(t *testing.T) {
	out, opts, err := executeProfile(t)
	require.NoError(t, err)

	assert.Equal(t, profile.Options{OxygenVar: "DOXY", OxygenUnit: oxygen.UmolPerKg}, opts)
	assert.Contains(t, out, "platform 6903024 cycle 112: 2 levels, oxygen minimum at 1500.0 dbar")
	assert.Contains(t, out, "platform 6903024 cycle 113: 2 levels, no oxygen data")
	assert.NotContains(t, out, "NaN")
	assert.NotContains(t, out, "umol/L")
}

func TestProfileCommand_Levels(t *testing.T) {
	out, _, err := executeProfile(t, "--levels")
	require.NoError(t, err)
	assert.Contains(t, out, "umol/L")
	assert.Contains(t, out, "1500.0")
	assert.Contains(t, out, "212.40")
}

func TestProfileCommand_Options(t *testing.T) {
	_, opts, err := executeProfile(t, "--oxygen-var", "DOXY_ADJUSTED", "--oxygen-unit", "mL/L")
	require.NoError(t, err)
	assert.Equal(t, profile.Options{OxygenVar: "DOXY_ADJUSTED", OxygenUnit: oxygen.MLPerL}, opts)

	_, _, err = executeProfile(t, "--oxygen-unit", "ppm")
	require.ErrorIs(t, err, oxygen.ErrUnknownUnit)
}

func TestProfileCommand_JSON(t *testing.T) {
	out, _, err := executeProfile(t, "--json")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	var first, second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))

	assert.EqualValues(t, 112, first["cycle"])
	assert.InDelta(t, 1500, first["oxygen_minimum_pressure_dbar"], 0)

	assert.EqualValues(t, 113, second["cycle"])
	assert.Nil(t, second["oxygen_minimum_pressure_dbar"])
	conc, ok := second["saturation_percent"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 0, conc["n"])
	assert.Nil(t, conc["mean"])
}

func TestProfileCommand_LoadError(t *testing.T) {
	errBroken := errors.New("not a netcdf file")
	cmd := newProfileCommand(func(string, profile.Options) ([]profile.Profile, error) {
		return nil, errBroken
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"broken.nc"})
	require.ErrorIs(t, cmd.Execute(), errBroken)
}
