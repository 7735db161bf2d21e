package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/oxygen-conversion-service/internal/oxygen"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPlatform = "6903024"
	argoPayload  = `{"platform":"6903024","cycle":112,"time":"2024-04-26T15:10:00Z","lat":-42.61,"lon":12.07,"pressure_dbar":1500,"temperature_c":2.9,"salinity_psu":34.71,"oxygen_value":212.4,"oxygen_unit":"umol/kg"}`
)

func ptr(v float64) *float64 { return &v }

func TestParseRawReading(t *testing.T) {
	baseDate := time.Date(2024, 4, 26, 0, 0, 0, 0, time.UTC)

	t.Run("float reading", func(t *testing.T) {
		data := []byte(argoPayload)
		result, err := ParseRawReading(RawEvent{Value: data, Timestamp: baseDate})

		require.NoError(t, err)
		assert.Equal(t, testPlatform, result.Platform)
		assert.Equal(t, 112, result.Cycle)
		assert.Equal(t, time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC), result.Time)
		assert.Equal(t, -42.61, result.Lat)
		assert.Equal(t, 1500.0, result.Pressure)
		assert.Equal(t, 2.9, *result.Temperature)
		assert.Equal(t, 34.71, *result.Salinity)
		assert.Equal(t, 212.4, *result.OxygenValue)
		assert.Equal(t, "umol/kg", result.OxygenUnit)
		assert.Nil(t, result.AirPressure)
		assert.Equal(t, data, result.RawPayload)
	})

	t.Run("missing time uses message timestamp", func(t *testing.T) {
		data := []byte(`{"platform":"sg620","temperature_c":12,"salinity_psu":35,"oxygen_value":250}`)
		result, err := ParseRawReading(RawEvent{Value: data, Timestamp: baseDate})

		require.NoError(t, err)
		assert.Equal(t, baseDate, result.Time)
		assert.Zero(t, result.Pressure)
	})

	t.Run("missing required fields", func(t *testing.T) {
		_, err := ParseRawReading(RawEvent{Value: []byte(`{"platform":"sg620","salinity_psu":35}`)})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "temperature_c")
		assert.Contains(t, err.Error(), "oxygen_value")
		assert.NotContains(t, err.Error(), "salinity_psu")
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := ParseRawReading(RawEvent{Value: []byte("{invalid json")})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse raw reading")
	})
}

func TestConvertReading(t *testing.T) {
	fixedTime := time.Date(2024, 4, 27, 6, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixedTime))
	defer SetClock(nil)

	opts := ConvertOptions{DefaultAirPressure: oxygen.DefaultAirPressure, Strict: true}

	t.Run("argo float reading in umol/kg", func(t *testing.T) {
		reading, err := ParseRawReading(RawEvent{Value: []byte(argoPayload)})
		require.NoError(t, err)

		rec, err := ConvertReading(reading, opts)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(rec.ID, testPlatform+"-"))
		assert.Equal(t, oxygen.UmolPerKg, oxygen.Unit(rec.Input.Unit))
		assert.Equal(t, 212.4, rec.Input.Value)
		assert.InDelta(t, 212.4, rec.Oxygen.ConcentrationUmolKg, 1e-9)
		assert.InEpsilon(t, 218.275581, rec.Oxygen.ConcentrationUmolL, 1e-6)
		assert.InEpsilon(t, 80.633815, rec.Oxygen.SaturationPercent, 1e-6)
		assert.InEpsilon(t, 169.887472, rec.Oxygen.PartialPressureMbar, 1e-6)
		assert.InEpsilon(t, 16.9887472, rec.Oxygen.PartialPressureKPa, 1e-6)
		assert.InEpsilon(t, rec.Oxygen.ConcentrationUmolL/oxygen.UmolPerML, rec.Oxygen.ConcentrationMLL, 1e-12)
		assert.Equal(t, oxygen.DefaultAirPressure, rec.AirPressure)
		assert.Equal(t, AirPressureDefault, rec.AirPressureSource)
		assert.Equal(t, RegimeUndersaturated, rec.Regime)
		assert.Equal(t, time.Date(2024, 4, 26, 15, 0, 0, 0, time.UTC), rec.TimeBucket)
		assert.Equal(t, fixedTime, rec.ProcessedAt)
		assert.Equal(t, Geo{Lat: -42.61, Lon: 12.07}, rec.Geo)
	})

	t.Run("saturated surface reading", func(t *testing.T) {
		rec, err := ConvertReading(RawReading{
			Platform:    "sg620",
			Temperature: ptr(10),
			Salinity:    ptr(35),
			OxygenValue: ptr(100),
			OxygenUnit:  "%",
		}, opts)
		require.NoError(t, err)

		assert.InEpsilon(t, 282.01498, rec.Oxygen.ConcentrationUmolL, 1e-6)
		assert.InDelta(t, 274.613, rec.Oxygen.ConcentrationUmolKg, 1e-3)
		assert.InEpsilon(t, rec.Oxygen.SolubilityUmolL, rec.Oxygen.ConcentrationUmolL, 1e-9)
		assert.Equal(t, RegimeSaturated, rec.Regime)
		assert.True(t, rec.TimeBucket.IsZero())
	})

	t.Run("reported air pressure and density", func(t *testing.T) {
		rec, err := ConvertReading(RawReading{
			Platform:    "6903024",
			Pressure:    1500,
			Temperature: ptr(2.9),
			Salinity:    ptr(34.71),
			OxygenValue: ptr(218.27558053011475),
			OxygenUnit:  "µmol/l",
			AirPressure: ptr(1000),
			Density:     ptr(1000),
		}, opts)
		require.NoError(t, err)

		assert.Equal(t, 1000.0, rec.AirPressure)
		assert.Equal(t, AirPressureReported, rec.AirPressureSource)
		assert.Equal(t, 1000.0, rec.Density)
		assert.InEpsilon(t, 81.710154, rec.Oxygen.SaturationPercent, 1e-6)
		assert.InEpsilon(t, 218.27558, rec.Oxygen.ConcentrationUmolKg, 1e-6)
	})

	t.Run("defaults to umol/L", func(t *testing.T) {
		rec, err := ConvertReading(RawReading{
			Temperature: ptr(2), Salinity: ptr(2), Pressure: 2,
			OxygenValue: ptr(2), AirPressure: ptr(1000),
		}, opts)
		require.NoError(t, err)

		assert.Equal(t, "umol/L", rec.Input.Unit)
		assert.InEpsilon(t, 0.98904, rec.Oxygen.PartialPressureMbar, 1e-5)
		assert.InEpsilon(t, 0.475537, rec.Oxygen.SaturationPercent, 1e-5)
		assert.Equal(t, RegimeHypoxic, rec.Regime)
		assert.NotContains(t, rec.ID, "-", "no platform means no prefix")
	})

	t.Run("failed lookup keeps failed source", func(t *testing.T) {
		rec, err := ConvertReading(RawReading{
			Temperature: ptr(10), Salinity: ptr(35), OxygenValue: ptr(300),
			AirPressureSource: AirPressureFailed,
		}, ConvertOptions{DefaultAirPressure: 1005})
		require.NoError(t, err)

		assert.Equal(t, 1005.0, rec.AirPressure)
		assert.Equal(t, AirPressureFailed, rec.AirPressureSource)
	})

	t.Run("unknown unit", func(t *testing.T) {
		_, err := ConvertReading(RawReading{
			Temperature: ptr(10), Salinity: ptr(35), OxygenValue: ptr(5), OxygenUnit: "mg/L",
		}, opts)
		require.ErrorIs(t, err, oxygen.ErrUnknownUnit)
	})

	t.Run("strict mode rejects out of range", func(t *testing.T) {
		reading := RawReading{Temperature: ptr(10), Salinity: ptr(-3), OxygenValue: ptr(250)}

		_, err := ConvertReading(reading, opts)
		require.ErrorIs(t, err, oxygen.ErrOutOfRange)

		var re *oxygen.RangeError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, "salinity", re.Field)
	})

	t.Run("strict mode rejects negative oxygen", func(t *testing.T) {
		_, err := ConvertReading(RawReading{Temperature: ptr(10), Salinity: ptr(35), OxygenValue: ptr(-4)}, opts)
		require.ErrorIs(t, err, oxygen.ErrOutOfRange)
	})

	t.Run("lenient mode extrapolates", func(t *testing.T) {
		reading := RawReading{Temperature: ptr(10), Salinity: ptr(45), OxygenValue: ptr(250)}

		_, err := ConvertReading(reading, opts)
		require.ErrorIs(t, err, oxygen.ErrOutOfRange)

		rec, err := ConvertReading(reading, ConvertOptions{Strict: false})
		require.NoError(t, err)
		assert.Greater(t, rec.Oxygen.SaturationPercent, 0.0)
	})

	t.Run("non-finite result rejected", func(t *testing.T) {
		// EOS-80 density has a S^1.5 term, so negative salinity yields NaN.
		_, err := ConvertReading(RawReading{Temperature: ptr(10), Salinity: ptr(-3), OxygenValue: ptr(250)},
			ConvertOptions{Strict: false})
		require.ErrorIs(t, err, ErrNonFinite)
	})

	t.Run("incomplete reading", func(t *testing.T) {
		_, err := ConvertReading(RawReading{Temperature: ptr(10)}, opts)
		require.Error(t, err)
	})
}

func TestDeriveRegime(t *testing.T) {
	tests := []struct {
		name     string
		umolKg   float64
		sat      float64
		expected string
	}{
		{"hypoxic", 30, 10, RegimeHypoxic},
		{"undersaturated", 200, 80, RegimeUndersaturated},
		{"saturated low edge", 250, 95, RegimeSaturated},
		{"saturated high edge", 250, 105, RegimeSaturated},
		{"supersaturated", 320, 112, RegimeSupersaturated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, deriveRegime(Oxygen{ConcentrationUmolKg: tt.umolKg, SaturationPercent: tt.sat}))
		})
	}
}

func TestGenerateID(t *testing.T) {
	ts := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)

	t.Run("includes platform prefix", func(t *testing.T) {
		id := generateID(testPlatform, 112, ts, 1500)
		assert.True(t, strings.HasPrefix(id, testPlatform+"-"))
	})

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, generateID(testPlatform, 1, ts, 10), generateID(testPlatform, 1, ts, 10))
	})

	t.Run("time zone independent", func(t *testing.T) {
		local := ts.In(time.FixedZone("UTC+2", 2*60*60))
		assert.Equal(t, generateID(testPlatform, 1, ts, 10), generateID(testPlatform, 1, local, 10))
	})

	t.Run("different depths produce different IDs", func(t *testing.T) {
		assert.NotEqual(t, generateID(testPlatform, 1, ts, 10), generateID(testPlatform, 1, ts, 20))
	})

	t.Run("empty platform", func(t *testing.T) {
		id := generateID("", 1, ts, 10)
		assert.Len(t, id, 16)
	})
}

func TestDeriveTimeBucket(t *testing.T) {
	assert.True(t, deriveTimeBucket(time.Time{}).IsZero())
	assert.Equal(t,
		time.Date(2024, 4, 26, 15, 0, 0, 0, time.UTC),
		deriveTimeBucket(time.Date(2024, 4, 26, 15, 59, 59, 0, time.UTC)),
	)
}
