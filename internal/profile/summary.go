package profile

import (
	"encoding/json"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ColumnStats summarises one column over its non-missing levels. The
// statistics are NaN when N is zero.
type ColumnStats struct {
	N    int
	Mean float64
	Std  float64
	Min  float64
	Max  float64
}

// MarshalJSON writes NaN statistics as null.
func (c ColumnStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		N    int      `json:"n"`
		Mean *float64 `json:"mean"`
		Std  *float64 `json:"std"`
		Min  *float64 `json:"min"`
		Max  *float64 `json:"max"`
	}{c.N, nullable(c.Mean), nullable(c.Std), nullable(c.Min), nullable(c.Max)})
}

// Summary describes a converted profile.
type Summary struct {
	Platform            string      `json:"platform"`
	Cycle               int         `json:"cycle"`
	Levels              int         `json:"levels"`
	ConcentrationUmolKg ColumnStats `json:"concentration_umol_kg"`
	PartialPressureMbar ColumnStats `json:"partial_pressure_mbar"`
	SaturationPercent   ColumnStats `json:"saturation_percent"`
	// OxygenMinimumPressure is the pressure (dbar) of the lowest
	// concentration, or NaN when no level has data.
	OxygenMinimumPressure float64 `json:"oxygen_minimum_pressure_dbar"`
}

// MarshalJSON writes a NaN OxygenMinimumPressure as null.
func (s Summary) MarshalJSON() ([]byte, error) {
	type plain Summary
	return json.Marshal(struct {
		plain
		OxygenMinimumPressure *float64 `json:"oxygen_minimum_pressure_dbar"`
	}{plain(s), nullable(s.OxygenMinimumPressure)})
}

func nullable(v float64) *float64 {
	if isMissing(v) {
		return nil
	}
	return &v
}

// Summarize computes column statistics, ignoring NaN levels.
func Summarize(c Converted) Summary {
	s := Summary{
		Platform:              c.Platform,
		Cycle:                 c.Cycle,
		Levels:                c.Levels(),
		ConcentrationUmolKg:   columnStats(c.ConcentrationUmolKg),
		PartialPressureMbar:   columnStats(c.PartialPressureMbar),
		SaturationPercent:     columnStats(c.SaturationPercent),
		OxygenMinimumPressure: math.NaN(),
	}

	conc, idx := present(c.ConcentrationUmolKg)
	if len(conc) > 0 {
		i := idx[floats.MinIdx(conc)]
		if i < len(c.Pressure) {
			s.OxygenMinimumPressure = c.Pressure[i]
		}
	}
	return s
}

func columnStats(col []float64) ColumnStats {
	vs, _ := present(col)
	if len(vs) == 0 {
		nan := math.NaN()
		return ColumnStats{Mean: nan, Std: nan, Min: nan, Max: nan}
	}
	mean, std := stat.MeanStdDev(vs, nil)
	if len(vs) == 1 {
		std = 0
	}
	return ColumnStats{
		N:    len(vs),
		Mean: mean,
		Std:  std,
		Min:  floats.Min(vs),
		Max:  floats.Max(vs),
	}
}

// present returns the finite values of col and their original indices.
func present(col []float64) ([]float64, []int) {
	vs := make([]float64, 0, len(col))
	idx := make([]int, 0, len(col))
	for i, v := range col {
		if !isMissing(v) {
			vs = append(vs, v)
			idx = append(idx, i)
		}
	}
	return vs, idx
}
