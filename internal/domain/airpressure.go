package domain

import (
	"context"
	"log/slog"
	"time"
)

// Air pressure sources recorded on each OxygenRecord.
const (
	AirPressureReported  = "reported"
	AirPressureOpenMeteo = "open-meteo"
	AirPressureDefault   = "default"
	AirPressureFailed    = "failed"
)

// AirPressureProvider looks up mean sea-level air pressure.
type AirPressureProvider interface {
	// AirPressure returns the pressure in mbar at the given position and
	// time, or 0 when the provider has no data.
	AirPressure(ctx context.Context, lat, lon float64, at time.Time) (float64, error)
}

// EnrichWithAirPressure fills in air pressure for readings that did not
// report it. If provider is nil the reading is returned unchanged; lookup
// failures degrade to the default pressure applied by ConvertReading.
func EnrichWithAirPressure(ctx context.Context, reading RawReading, provider AirPressureProvider, logger *slog.Logger) RawReading {
	if reading.AirPressure != nil {
		reading.AirPressureSource = AirPressureReported
		return reading
	}
	if provider == nil {
		return reading
	}

	hasCoords := reading.Lat != 0 || reading.Lon != 0
	if !hasCoords || reading.Time.IsZero() {
		reading.AirPressureSource = AirPressureDefault
		return reading
	}

	p, err := provider.AirPressure(ctx, reading.Lat, reading.Lon, reading.Time)
	if err != nil {
		logger.Warn("air pressure lookup failed",
			"platform", reading.Platform,
			"cycle", reading.Cycle,
			"lat", reading.Lat,
			"lon", reading.Lon,
			"error", err,
		)
		reading.AirPressureSource = AirPressureFailed
		return reading
	}
	if p <= 0 {
		reading.AirPressureSource = AirPressureDefault
		return reading
	}

	reading.AirPressure = &p
	reading.AirPressureSource = AirPressureOpenMeteo
	return reading
}
