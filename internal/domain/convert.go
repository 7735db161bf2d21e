package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/couchcryptid/oxygen-conversion-service/internal/oxygen"
)

// ErrNonFinite is returned when a conversion yields NaN or ±Inf, which
// cannot be serialized downstream.
var ErrNonFinite = errors.New("conversion produced a non-finite value")

// HypoxicThreshold is the concentration in µmol/kg below which a reading is
// labelled hypoxic.
const HypoxicThreshold = 60.0

// Regime labels.
const (
	RegimeHypoxic        = "hypoxic"
	RegimeUndersaturated = "undersaturated"
	RegimeSaturated      = "saturated"
	RegimeSupersaturated = "supersaturated"
)

// ConvertOptions controls ConvertReading.
type ConvertOptions struct {
	// DefaultAirPressure in mbar is used when the reading carries none.
	DefaultAirPressure float64
	// Strict rejects readings that fail oxygen.CheckConditions.
	Strict bool
}

// ParseRawReading deserializes a RawEvent's value into a RawReading. The Kafka
// message timestamp stands in for a missing sample time.
func ParseRawReading(raw RawEvent) (RawReading, error) {
	var rec RawReading
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return RawReading{}, fmt.Errorf("parse raw reading: %w", err)
	}

	var missing []string
	if rec.Temperature == nil {
		missing = append(missing, "temperature_c")
	}
	if rec.Salinity == nil {
		missing = append(missing, "salinity_psu")
	}
	if rec.OxygenValue == nil {
		missing = append(missing, "oxygen_value")
	}
	if len(missing) > 0 {
		return RawReading{}, fmt.Errorf("parse raw reading: missing %s", strings.Join(missing, ", "))
	}

	if rec.Time.IsZero() {
		rec.Time = raw.Timestamp
	}
	rec.Time = rec.Time.UTC()
	rec.Platform = strings.TrimSpace(rec.Platform)
	rec.RawPayload = raw.Value
	return rec, nil
}

// ConvertReading expresses the reading's oxygen value in every supported unit
// and derives the record's ID, regime, and time bucket.
func ConvertReading(reading RawReading, opts ConvertOptions) (OxygenRecord, error) {
	if reading.Temperature == nil || reading.Salinity == nil || reading.OxygenValue == nil {
		return OxygenRecord{}, errors.New("convert reading: incomplete reading")
	}

	unitStr := reading.OxygenUnit
	if strings.TrimSpace(unitStr) == "" {
		unitStr = string(oxygen.UmolPerL)
	}
	unit, err := oxygen.ParseUnit(unitStr)
	if err != nil {
		return OxygenRecord{}, fmt.Errorf("convert reading: %w", err)
	}

	airPressure, source := resolveAirPressure(reading, opts.DefaultAirPressure)
	cond := oxygen.Conditions{
		Temperature: *reading.Temperature,
		Salinity:    *reading.Salinity,
		Pressure:    reading.Pressure,
		AirPressure: airPressure,
	}
	if reading.Density != nil {
		cond.Density = *reading.Density
	} else {
		cond.Density = oxygen.SeawaterDensity(cond.Temperature, cond.Salinity)
	}

	id := generateID(reading.Platform, reading.Cycle, reading.Time, reading.Pressure)
	value := *reading.OxygenValue

	if opts.Strict {
		if err := oxygen.CheckConditions(cond); err != nil {
			return OxygenRecord{}, fmt.Errorf("reading %s: %w", id, err)
		}
		if err := oxygen.CheckValue(value); err != nil {
			return OxygenRecord{}, fmt.Errorf("reading %s: %w", id, err)
		}
	}

	ox, err := convertAll(value, unit, cond)
	if err != nil {
		return OxygenRecord{}, fmt.Errorf("reading %s: %w", id, err)
	}

	return OxygenRecord{
		ID:                id,
		Platform:          reading.Platform,
		Cycle:             reading.Cycle,
		Time:              reading.Time,
		Geo:               Geo{Lat: reading.Lat, Lon: reading.Lon},
		Pressure:          reading.Pressure,
		Temperature:       cond.Temperature,
		Salinity:          cond.Salinity,
		AirPressure:       airPressure,
		AirPressureSource: source,
		Density:           cond.Density,
		Input:             Quantity{Value: value, Unit: string(unit)},
		Oxygen:            ox,
		Regime:            deriveRegime(ox),
		TimeBucket:        deriveTimeBucket(reading.Time),
		ProcessedAt:       clock.Now(),
		RawPayload:        reading.RawPayload,
	}, nil
}

func resolveAirPressure(reading RawReading, def float64) (float64, string) {
	if def == 0 {
		def = oxygen.DefaultAirPressure
	}
	if reading.AirPressure != nil && *reading.AirPressure > 0 {
		source := reading.AirPressureSource
		if source == "" {
			source = AirPressureReported
		}
		return *reading.AirPressure, source
	}
	if reading.AirPressureSource == AirPressureFailed {
		return def, AirPressureFailed
	}
	return def, AirPressureDefault
}

func convertAll(value float64, unit oxygen.Unit, cond oxygen.Conditions) (Oxygen, error) {
	var ox Oxygen
	conv := func(to oxygen.Unit) (float64, error) {
		return oxygen.Convert(value, unit, to, cond)
	}

	var err error
	if ox.ConcentrationUmolL, err = conv(oxygen.UmolPerL); err != nil {
		return Oxygen{}, err
	}
	if ox.ConcentrationMLL, err = conv(oxygen.MLPerL); err != nil {
		return Oxygen{}, err
	}
	if ox.ConcentrationUmolKg, err = conv(oxygen.UmolPerKg); err != nil {
		return Oxygen{}, err
	}
	if ox.PartialPressureMbar, err = conv(oxygen.Mbar); err != nil {
		return Oxygen{}, err
	}
	if ox.PartialPressureKPa, err = conv(oxygen.KPa); err != nil {
		return Oxygen{}, err
	}
	if ox.SaturationPercent, err = conv(oxygen.Percent); err != nil {
		return Oxygen{}, err
	}
	ox.SolubilityUmolL = oxygen.Solubility(cond.Temperature, cond.Salinity)

	for _, v := range []float64{
		ox.ConcentrationUmolL, ox.ConcentrationMLL, ox.ConcentrationUmolKg,
		ox.PartialPressureMbar, ox.PartialPressureKPa, ox.SaturationPercent, ox.SolubilityUmolL,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Oxygen{}, ErrNonFinite
		}
	}
	return ox, nil
}

// deriveRegime labels the oxygen state of a converted reading.
func deriveRegime(ox Oxygen) string {
	switch {
	case ox.ConcentrationUmolKg < HypoxicThreshold:
		return RegimeHypoxic
	case ox.SaturationPercent < 95:
		return RegimeUndersaturated
	case ox.SaturationPercent <= 105:
		return RegimeSaturated
	default:
		return RegimeSupersaturated
	}
}

// generateID produces a deterministic ID from the reading's key fields so
// reprocessing the same sample yields the same key.
func generateID(platform string, cycle int, t time.Time, pressure float64) string {
	input := fmt.Sprintf("%s|%d|%s|%.2f", platform, cycle, t.UTC().Format(time.RFC3339), pressure)
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	if platform == "" {
		return short
	}
	return platform + "-" + short
}

// deriveTimeBucket truncates the sample time to the hour in UTC.
// Returns zero time if the input is zero.
func deriveTimeBucket(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return t.UTC().Truncate(time.Hour)
}
