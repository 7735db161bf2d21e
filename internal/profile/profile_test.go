package profile

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/couchcryptid/oxygen-conversion-service/internal/oxygen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfile() Profile {
	return Profile{
		Platform:    "6903024",
		Cycle:       112,
		Pressure:    []float64{5, 500, 1000, 1500},
		Temperature: []float64{12.8, 5.1, 3.5, 2.9},
		Salinity:    []float64{34.52, 34.4, 34.45, 34.71},
		Oxygen:      []float64{268.4, 180.2, math.NaN(), 212.4},
		OxygenUnit:  oxygen.UmolPerKg,
	}
}

func TestConvert(t *testing.T) {
	c, err := Convert(testProfile(), 0)
	require.NoError(t, err)

	require.Len(t, c.ConcentrationUmolL, 4)
	assert.InDelta(t, 218.275581, c.ConcentrationUmolL[3], 1e-4)
	assert.InDelta(t, 80.633815, c.SaturationPercent[3], 1e-4)
	assert.InDelta(t, 169.887472, c.PartialPressureMbar[3], 1e-4)
	assert.InDelta(t, 212.4, c.ConcentrationUmolKg[3], 1e-9)
	assert.True(t, math.IsNaN(c.SaturationPercent[2]))
	assert.Len(t, c.SolubilityUmolL, 4)
}

func TestConvert_AirPressure(t *testing.T) {
	c, err := Convert(testProfile(), 1000)
	require.NoError(t, err)
	assert.InDelta(t, 81.710154, c.SaturationPercent[3], 1e-4)
}

func TestConvert_ShapeMismatch(t *testing.T) {
	p := testProfile()
	p.Salinity = p.Salinity[:2]
	_, err := Convert(p, 0)
	require.ErrorIs(t, err, oxygen.ErrShapeMismatch)
}

func TestSummarize(t *testing.T) {
	c, err := Convert(testProfile(), 0)
	require.NoError(t, err)

	s := Summarize(c)
	assert.Equal(t, "6903024", s.Platform)
	assert.Equal(t, 4, s.Levels)
	assert.Equal(t, 3, s.ConcentrationUmolKg.N)
	assert.InDelta(t, 180.2, s.ConcentrationUmolKg.Min, 1e-9)
	assert.InDelta(t, 268.4, s.ConcentrationUmolKg.Max, 1e-9)
	assert.InDelta(t, (268.4+180.2+212.4)/3, s.ConcentrationUmolKg.Mean, 1e-9)
	assert.Greater(t, s.ConcentrationUmolKg.Std, 0.0)
	assert.InDelta(t, 500, s.OxygenMinimumPressure, 0)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(Converted{})
	assert.Zero(t, s.ConcentrationUmolKg.N)
	assert.True(t, math.IsNaN(s.ConcentrationUmolKg.Mean))
	assert.True(t, math.IsNaN(s.OxygenMinimumPressure))
}

func TestColumnStats_SingleValue(t *testing.T) {
	cs := columnStats([]float64{math.NaN(), 4})
	assert.Equal(t, 1, cs.N)
	assert.InDelta(t, 4, cs.Mean, 0)
	assert.Zero(t, cs.Std)
}

func TestSummary_JSONWithoutOxygen(t *testing.T) {
	p := testProfile()
	p.Oxygen = []float64{math.NaN(), math.NaN(), math.NaN(), math.NaN()}
	c, err := Convert(p, 0)
	require.NoError(t, err)

	data, err := json.Marshal(Summarize(c))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "6903024", got["platform"])
	assert.EqualValues(t, 4, got["levels"])
	assert.Nil(t, got["oxygen_minimum_pressure_dbar"])
	assert.Contains(t, got, "oxygen_minimum_pressure_dbar")

	conc, ok := got["concentration_umol_kg"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 0, conc["n"])
	assert.Nil(t, conc["mean"])
	assert.Nil(t, conc["max"])
}

func TestSummary_JSON(t *testing.T) {
	c, err := Convert(testProfile(), 0)
	require.NoError(t, err)

	data, err := json.Marshal(Summarize(c))
	require.NoError(t, err)

	var got struct {
		Cycle                 int      `json:"cycle"`
		OxygenMinimumPressure *float64 `json:"oxygen_minimum_pressure_dbar"`
		ConcentrationUmolKg   struct {
			N   int      `json:"n"`
			Min *float64 `json:"min"`
		} `json:"concentration_umol_kg"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 112, got.Cycle)
	require.NotNil(t, got.OxygenMinimumPressure)
	assert.InDelta(t, 500, *got.OxygenMinimumPressure, 0)
	assert.Equal(t, 3, got.ConcentrationUmolKg.N)
	require.NotNil(t, got.ConcentrationUmolKg.Min)
	assert.InDelta(t, 180.2, *got.ConcentrationUmolKg.Min, 1e-9)
}
