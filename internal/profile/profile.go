// Package profile loads Argo-style vertical profiles from NetCDF files and
// converts their oxygen column into every supported unit.
package profile

import (
	"fmt"
	"math"
	"time"

	"github.com/couchcryptid/oxygen-conversion-service/internal/oxygen"
)

// Profile is one vertical cast: parallel columns indexed by level.
type Profile struct {
	Platform    string
	Cycle       int
	Time        time.Time
	Lat         float64
	Lon         float64
	Pressure    []float64 // dbar
	Temperature []float64 // °C
	Salinity    []float64 // PSU
	Oxygen      []float64
	OxygenUnit  oxygen.Unit
}

// Levels returns the number of levels in the profile.
func (p Profile) Levels() int {
	return len(p.Pressure)
}

// Converted holds a profile with its oxygen column in every unit.
type Converted struct {
	Profile
	ConcentrationUmolL  []float64
	ConcentrationUmolKg []float64
	PartialPressureMbar []float64
	SaturationPercent   []float64
	SolubilityUmolL     []float64
}

// Convert expresses the profile's oxygen column in µmol/L, µmol/kg, mbar and %.
// A zero airPressure selects oxygen.DefaultAirPressure. Levels with missing
// inputs stay NaN.
func Convert(p Profile, airPressure float64) (Converted, error) {
	if airPressure == 0 {
		airPressure = oxygen.DefaultAirPressure
	}
	cond := oxygen.VecConditions{
		Temperature: p.Temperature,
		Salinity:    p.Salinity,
		Pressure:    p.Pressure,
		AirPressure: []float64{airPressure},
	}

	out := Converted{Profile: p}
	targets := []struct {
		unit oxygen.Unit
		dst  *[]float64
	}{
		{oxygen.UmolPerL, &out.ConcentrationUmolL},
		{oxygen.UmolPerKg, &out.ConcentrationUmolKg},
		{oxygen.Mbar, &out.PartialPressureMbar},
		{oxygen.Percent, &out.SaturationPercent},
	}
	for _, tgt := range targets {
		v, err := oxygen.ConvertVec(p.Oxygen, p.OxygenUnit, tgt.unit, cond)
		if err != nil {
			return Converted{}, fmt.Errorf("profile %s/%d to %s: %w", p.Platform, p.Cycle, tgt.unit, err)
		}
		*tgt.dst = v
	}

	sol, err := oxygen.SolubilityVec(p.Temperature, p.Salinity)
	if err != nil {
		return Converted{}, fmt.Errorf("profile %s/%d solubility: %w", p.Platform, p.Cycle, err)
	}
	out.SolubilityUmolL = sol
	return out, nil
}

func isMissing(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
