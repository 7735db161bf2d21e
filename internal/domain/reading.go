package domain

import (
	"context"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// RawReading is the flat JSON structure published by the telemetry decoder.
type RawReading struct {
	Platform    string    `json:"platform"`
	Cycle       int       `json:"cycle"`
	Time        time.Time `json:"time"`
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	Pressure    float64   `json:"pressure_dbar"`
	Temperature *float64  `json:"temperature_c"`
	Salinity    *float64  `json:"salinity_psu"`
	OxygenValue *float64  `json:"oxygen_value"`
	OxygenUnit  string    `json:"oxygen_unit"`
	AirPressure *float64  `json:"air_pressure_mbar,omitempty"`
	Density     *float64  `json:"density_kg_m3,omitempty"`

	// AirPressureSource is set during enrichment.
	AirPressureSource string `json:"-"`
	RawPayload        []byte `json:"-"`
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Quantity is a value with its unit.
type Quantity struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Oxygen holds one oxygen measurement expressed in every supported unit.
type Oxygen struct {
	ConcentrationUmolL  float64 `json:"concentration_umol_l"`
	ConcentrationMLL    float64 `json:"concentration_ml_l"`
	ConcentrationUmolKg float64 `json:"concentration_umol_kg"`
	PartialPressureMbar float64 `json:"partial_pressure_mbar"`
	PartialPressureKPa  float64 `json:"partial_pressure_kpa"`
	SaturationPercent   float64 `json:"saturation_percent"`
	SolubilityUmolL     float64 `json:"solubility_umol_l"`
}

// OxygenRecord is the converted reading published to the sink.
type OxygenRecord struct {
	ID                string    `json:"id"`
	Platform          string    `json:"platform"`
	Cycle             int       `json:"cycle"`
	Time              time.Time `json:"time"`
	Geo               Geo       `json:"geo"`
	Pressure          float64   `json:"pressure_dbar"`
	Temperature       float64   `json:"temperature_c"`
	Salinity          float64   `json:"salinity_psu"`
	AirPressure       float64   `json:"air_pressure_mbar"`
	AirPressureSource string    `json:"air_pressure_source"`
	Density           float64   `json:"density_kg_m3"`
	Input             Quantity  `json:"input"`
	Oxygen            Oxygen    `json:"oxygen"`
	Regime            string    `json:"regime,omitempty"`
	TimeBucket        time.Time `json:"time_bucket"`
	ProcessedAt       time.Time `json:"processed_at"`

	RawPayload []byte `json:"-"`
}
