package oxygen

import (
	"errors"
	"fmt"
	"math"
)

// ErrOutOfRange marks inputs outside the range the formulas were fitted for.
var ErrOutOfRange = errors.New("value out of range")

// Accepted ranges for CheckConditions.
const (
	MinTemperature = -2.5
	MaxTemperature = 40.0
	MinSalinity    = 0.0
	MaxSalinity    = 42.0
	MinPressure    = 0.0
	MaxPressure    = 12000.0
	MinAirPressure = 500.0
	MaxAirPressure = 1100.0
)

// RangeError reports which field of a Conditions failed CheckConditions.
type RangeError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s %g outside [%g, %g]", e.Field, e.Value, e.Min, e.Max)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// CheckConditions reports the first non-finite or out-of-range field of c.
// A zero AirPressure is accepted because it selects DefaultAirPressure, and
// a zero Density selects the EOS-80 estimate.
func CheckConditions(c Conditions) error {
	checks := []struct {
		field    string
		v        float64
		min, max float64
	}{
		{"temperature", c.Temperature, MinTemperature, MaxTemperature},
		{"salinity", c.Salinity, MinSalinity, MaxSalinity},
		{"pressure", c.Pressure, MinPressure, MaxPressure},
		{"air pressure", c.airPressure(), MinAirPressure, MaxAirPressure},
	}
	for _, ck := range checks {
		if err := checkRange(ck.field, ck.v, ck.min, ck.max); err != nil {
			return err
		}
	}
	if c.Density != 0 {
		return checkRange("density", c.Density, 990, 1100)
	}
	return nil
}

// CheckValue reports a non-finite or negative oxygen value.
func CheckValue(v float64) error {
	return checkRange("oxygen", v, 0, math.MaxFloat64)
}

func checkRange(field string, v, lo, hi float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < lo || v > hi {
		return &RangeError{Field: field, Value: v, Min: lo, Max: hi}
	}
	return nil
}
