package oxygen

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConditions(t *testing.T) {
	valid := Conditions{Temperature: 12, Salinity: 35, Pressure: 800, AirPressure: 1010}

	tests := []struct {
		name  string
		mod   func(c *Conditions)
		field string
	}{
		{"valid", func(*Conditions) {}, ""},
		{"default air pressure", func(c *Conditions) { c.AirPressure = 0 }, ""},
		{"explicit density", func(c *Conditions) { c.Density = 1027 }, ""},
		{"freezing seawater", func(c *Conditions) { c.Temperature = -2 }, ""},
		{"too cold", func(c *Conditions) { c.Temperature = -5 }, "temperature"},
		{"too hot", func(c *Conditions) { c.Temperature = 45 }, "temperature"},
		{"negative salinity", func(c *Conditions) { c.Salinity = -0.1 }, "salinity"},
		{"NaN salinity", func(c *Conditions) { c.Salinity = math.NaN() }, "salinity"},
		{"negative pressure", func(c *Conditions) { c.Pressure = -1 }, "pressure"},
		{"infinite pressure", func(c *Conditions) { c.Pressure = math.Inf(1) }, "pressure"},
		{"low air pressure", func(c *Conditions) { c.AirPressure = 100 }, "air pressure"},
		{"bad density", func(c *Conditions) { c.Density = 2000 }, "density"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mod(&c)
			err := CheckConditions(c)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrOutOfRange)
			var re *RangeError
			require.True(t, errors.As(err, &re))
			assert.Equal(t, tt.field, re.Field)
		})
	}
}

func TestCheckValue(t *testing.T) {
	assert.NoError(t, CheckValue(0))
	assert.NoError(t, CheckValue(312.5))
	assert.ErrorIs(t, CheckValue(-1), ErrOutOfRange)
	assert.ErrorIs(t, CheckValue(math.NaN()), ErrOutOfRange)
	assert.ErrorIs(t, CheckValue(math.Inf(1)), ErrOutOfRange)
}

func TestRangeError_Message(t *testing.T) {
	err := CheckConditions(Conditions{Temperature: 50, Salinity: 35})
	require.Error(t, err)
	assert.Equal(t, "temperature 50 outside [-2.5, 40]", err.Error())
}
