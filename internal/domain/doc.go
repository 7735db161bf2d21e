// Package domain models dissolved-oxygen readings reported by profiling
// floats and gliders and their conversion into every common oxygen unit.
//
// # Data Source
//
// Readings arrive as flat JSON on the Kafka source topic, one message per
// sample. An upstream decoder unpacks float or glider telemetry and publishes
// the co-located CTD values with the oxygen sensor output:
//
//	{"platform":"6903024","cycle":112,"time":"2024-04-26T15:10:00Z",
//	 "lat":-42.61,"lon":12.07,"pressure_dbar":1500,"temperature_c":2.9,
//	 "salinity_psu":34.71,"oxygen_value":212.4,"oxygen_unit":"umol/kg"}
//
// temperature_c, salinity_psu and oxygen_value are required. pressure_dbar
// defaults to 0 (surface). oxygen_unit defaults to umol/L, the native unit of
// optode output, and accepts every spelling [oxygen.ParseUnit] knows.
// A missing time falls back to the Kafka message timestamp.
//
// # Air Pressure
//
// Saturation is relative to moist air at the sea surface. When the decoder
// reports air_pressure_mbar it is used as-is. Otherwise an optional
// [AirPressureProvider] looks up mean sea-level pressure at the reading's
// position and hour, and the configured default (1013.25 mbar) is the last
// resort. The Open-Meteo provider answers readings younger than a week from
// the forecast API and older, delayed-mode readings from the reanalysis
// archive. The source is recorded as "reported", "open-meteo", "default", or
// "failed".
//
// # Density
//
// µmol/kg values need seawater density. density_kg_m3 is used when present;
// otherwise the UNESCO EOS-80 one-atmosphere density from temperature and
// salinity is used.
//
// # Range Checks
//
// The conversion formulas extrapolate silently. In strict mode (the service
// default) readings outside the fitted ranges are rejected with an error
// wrapping [oxygen.ErrOutOfRange].
//
// # Regime
//
// A four-level label for user-facing queries:
//
//	hypoxic          < 60 µmol/kg
//	undersaturated   < 95 %
//	saturated        95–105 %
//	supersaturated   > 105 %
//
// # ID Generation
//
// Record IDs are deterministic SHA-256 hashes of platform|cycle|time|pressure
// so replays produce identical keys downstream. See [generateID].
package domain
