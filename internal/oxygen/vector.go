package oxygen

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch is returned when slice arguments cannot be broadcast
// against each other.
var ErrShapeMismatch = errors.New("inputs cannot be broadcast together")

// Broadcast returns the common length of args. Every argument must have that
// length or length 1. A call whose only lengths are 0 and 1 broadcasts to 0.
func Broadcast(args ...[]float64) (int, error) {
	n := 1
	sized := false
	for _, a := range args {
		if len(a) == 1 {
			continue
		}
		if !sized {
			n = len(a)
			sized = true
			continue
		}
		if len(a) != n {
			return 0, fmt.Errorf("%w: lengths %d and %d", ErrShapeMismatch, n, len(a))
		}
	}
	return n, nil
}

func at(a []float64, i int) float64 {
	if len(a) == 1 {
		return a[0]
	}
	return a[i]
}

func apply4(fn func(a, b, c, d float64) float64, a, b, c, d []float64) ([]float64, error) {
	n, err := Broadcast(a, b, c, d)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = fn(at(a, i), at(b, i), at(c, i), at(d, i))
	}
	return out, nil
}

func apply5(fn func(a, b, c, d, e float64) float64, a, b, c, d, e []float64) ([]float64, error) {
	n, err := Broadcast(a, b, c, d, e)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = fn(at(a, i), at(b, i), at(c, i), at(d, i), at(e, i))
	}
	return out, nil
}

// SolubilityVec is the broadcasting form of Solubility.
func SolubilityVec(t, s []float64) ([]float64, error) {
	n, err := Broadcast(t, s)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = Solubility(at(t, i), at(s, i))
	}
	return out, nil
}

// ConcToPartialPressureVec is the broadcasting form of ConcToPartialPressure.
func ConcToPartialPressureVec(c, t, s, p []float64) ([]float64, error) {
	return apply4(ConcToPartialPressure, c, t, s, p)
}

// ConcToSaturationVec is the broadcasting form of ConcToSaturation.
func ConcToSaturationVec(c, t, s, p, pAtm []float64) ([]float64, error) {
	return apply5(ConcToSaturation, c, t, s, p, pAtm)
}

// PartialPressureToConcVec is the broadcasting form of PartialPressureToConc.
func PartialPressureToConcVec(pO2, t, s, p []float64) ([]float64, error) {
	return apply4(PartialPressureToConc, pO2, t, s, p)
}

// PartialPressureToSaturationVec is the broadcasting form of
// PartialPressureToSaturation.
func PartialPressureToSaturationVec(pO2, t, s, pAtm []float64) ([]float64, error) {
	return apply4(PartialPressureToSaturation, pO2, t, s, pAtm)
}

// SaturationToConcVec is the broadcasting form of SaturationToConc.
func SaturationToConcVec(sat, t, s, p, pAtm []float64) ([]float64, error) {
	return apply5(SaturationToConc, sat, t, s, p, pAtm)
}

// SaturationToPartialPressureVec is the broadcasting form of
// SaturationToPartialPressure.
func SaturationToPartialPressureVec(sat, t, s, pAtm []float64) ([]float64, error) {
	return apply4(SaturationToPartialPressure, sat, t, s, pAtm)
}

// VecConditions is the slice form of Conditions. Pressure, AirPressure and
// Density may be left empty to use their defaults for every element.
type VecConditions struct {
	Temperature []float64
	Salinity    []float64
	Pressure    []float64
	AirPressure []float64
	Density     []float64
}

// ConvertVec broadcasts values against the conditions and converts each
// element from one unit to another.
func ConvertVec(values []float64, from, to Unit, c VecConditions) ([]float64, error) {
	if err := validUnit(from); err != nil {
		return nil, err
	}
	if err := validUnit(to); err != nil {
		return nil, err
	}
	pressure := orDefault(c.Pressure, 0)
	airPressure := orDefault(c.AirPressure, 0)
	density := orDefault(c.Density, 0)

	n, err := Broadcast(values, c.Temperature, c.Salinity, pressure, airPressure, density)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		cond := Conditions{
			Temperature: at(c.Temperature, i),
			Salinity:    at(c.Salinity, i),
			Pressure:    at(pressure, i),
			AirPressure: at(airPressure, i),
			Density:     at(density, i),
		}
		out[i] = convert(at(values, i), from, to, cond)
	}
	return out, nil
}

func orDefault(a []float64, def float64) []float64 {
	if len(a) == 0 {
		return []float64{def}
	}
	return a
}
