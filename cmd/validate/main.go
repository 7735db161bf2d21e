// Command validate performs data integrity checks on the oxygen reading
// fixtures: raw readings, and optionally the converted records produced by
// genmock. It verifies field presence, conversion reproducibility, unit
// round-trip consistency, and record schema constraints.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -raw-json data/mock/oxygen_readings_240426.json \
//	  -converted-json data/mock/oxygen_records_240426.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/oxygen-conversion-service/internal/domain"
	"github.com/couchcryptid/oxygen-conversion-service/internal/oxygen"
	"github.com/jonboulle/clockwork"
)

var baseDate = time.Date(2024, time.April, 26, 0, 0, 0, 0, time.UTC)

// relTol is the relative tolerance for comparing converted values.
const relTol = 1e-9

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	rawJSON := flag.String("raw-json", "", "path to the raw readings fixture")
	convertedJSON := flag.String("converted-json", "", "path to the converted records fixture (optional)")
	flag.Parse()

	if *rawJSON == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*rawJSON, *convertedJSON); code != 0 {
		os.Exit(code)
	}
}

func run(rawPath, convertedPath string) int {
	// Set a fixed clock matching genmock for reproducible records.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	fmt.Println("=== Oxygen Reading Integrity Validation ===")
	fmt.Println()

	raws, err := loadJSON[json.RawMessage](rawPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load raw JSON: %v\n", err)
		return 1
	}

	fresh := make([]domain.OxygenRecord, 0, len(raws))
	rawPhase := validateRawIntegrity(raws, &fresh)

	phases := []*phase{rawPhase}
	records := fresh
	if convertedPath != "" {
		stored, err := loadJSON[domain.OxygenRecord](convertedPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load converted JSON: %v\n", err)
			return 1
		}
		phases = append(phases, validateReproducible(fresh, stored))
		records = stored
	}
	phases = append(phases,
		validateRoundTrips(records),
		validateSchema(records),
	)

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d raw, %d converted\n", len(raws), len(records))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ── Phase 1: Raw Integrity ──
// Every raw reading parses, names a known unit, and is within range.

func validateRawIntegrity(raws []json.RawMessage, out *[]domain.OxygenRecord) *phase {
	p := &phase{name: "Phase 1: Raw Integrity (parse + ranges)"}

	for i, raw := range raws {
		reading, err := domain.ParseRawReading(domain.RawEvent{Value: raw, Timestamp: baseDate})
		if err != nil {
			p.errorf("raw record %d: %v", i, err)
			continue
		}
		if reading.Platform == "" {
			p.errorf("raw record %d: platform is empty", i)
		}
		if reading.OxygenUnit != "" {
			if _, err := oxygen.ParseUnit(reading.OxygenUnit); err != nil {
				p.errorf("raw record %d: %v", i, err)
				continue
			}
		}
		rec, err := domain.ConvertReading(reading, domain.ConvertOptions{Strict: true})
		if err != nil {
			p.errorf("raw record %d: %v", i, err)
			continue
		}
		*out = append(*out, rec)
	}
	return p
}

// ── Phase 2: Reproducibility ──
// Converting the raw fixture again yields the stored records.

func validateReproducible(fresh, stored []domain.OxygenRecord) *phase {
	p := &phase{name: "Phase 2: Reproducibility (raw vs converted)"}

	if len(fresh) != len(stored) {
		p.errorf("count: converted %d raw readings, fixture has %d records", len(fresh), len(stored))
	}

	byID := make(map[string]*domain.OxygenRecord, len(stored))
	for i := range stored {
		if _, dup := byID[stored[i].ID]; dup {
			p.errorf("stored record %d: duplicate ID %q", i, stored[i].ID)
			continue
		}
		byID[stored[i].ID] = &stored[i]
	}

	for i := range fresh {
		want := &fresh[i]
		got, ok := byID[want.ID]
		if !ok {
			p.errorf("ID %s: not found in converted fixture", want.ID)
			continue
		}
		compareRecords(p, want, got)
	}
	return p
}

func compareRecords(p *phase, want, got *domain.OxygenRecord) {
	id := want.ID
	fields := []struct {
		name      string
		want, got float64
	}{
		{"concentration_umol_l", want.Oxygen.ConcentrationUmolL, got.Oxygen.ConcentrationUmolL},
		{"concentration_ml_l", want.Oxygen.ConcentrationMLL, got.Oxygen.ConcentrationMLL},
		{"concentration_umol_kg", want.Oxygen.ConcentrationUmolKg, got.Oxygen.ConcentrationUmolKg},
		{"partial_pressure_mbar", want.Oxygen.PartialPressureMbar, got.Oxygen.PartialPressureMbar},
		{"partial_pressure_kpa", want.Oxygen.PartialPressureKPa, got.Oxygen.PartialPressureKPa},
		{"saturation_percent", want.Oxygen.SaturationPercent, got.Oxygen.SaturationPercent},
		{"solubility_umol_l", want.Oxygen.SolubilityUmolL, got.Oxygen.SolubilityUmolL},
		{"density_kg_m3", want.Density, got.Density},
		{"air_pressure_mbar", want.AirPressure, got.AirPressure},
	}
	for _, f := range fields {
		if !relEq(f.want, f.got) {
			p.errorf("ID %s: %s: expected %g, got %g", id, f.name, f.want, f.got)
		}
	}
	if want.Regime != got.Regime {
		p.errorf("ID %s: regime: expected %q, got %q", id, want.Regime, got.Regime)
	}
	if !want.TimeBucket.Equal(got.TimeBucket) {
		p.errorf("ID %s: time_bucket: expected %s, got %s", id, want.TimeBucket.Format(time.RFC3339), got.TimeBucket.Format(time.RFC3339))
	}
}

// ── Phase 3: Round Trips ──
// Each stored unit converts back to the stored µmol/L concentration.

func validateRoundTrips(records []domain.OxygenRecord) *phase {
	p := &phase{name: "Phase 3: Unit Round Trips"}

	for i := range records {
		r := &records[i]
		cond := oxygen.Conditions{
			Temperature: r.Temperature,
			Salinity:    r.Salinity,
			Pressure:    r.Pressure,
			AirPressure: r.AirPressure,
			Density:     r.Density,
		}
		checks := []struct {
			unit  oxygen.Unit
			value float64
		}{
			{oxygen.MLPerL, r.Oxygen.ConcentrationMLL},
			{oxygen.UmolPerKg, r.Oxygen.ConcentrationUmolKg},
			{oxygen.Mbar, r.Oxygen.PartialPressureMbar},
			{oxygen.KPa, r.Oxygen.PartialPressureKPa},
			{oxygen.Percent, r.Oxygen.SaturationPercent},
		}
		for _, c := range checks {
			back, err := oxygen.Convert(c.value, c.unit, oxygen.UmolPerL, cond)
			if err != nil {
				p.errorf("ID %s: %v", r.ID, err)
				continue
			}
			if !relEq(back, r.Oxygen.ConcentrationUmolL) {
				p.errorf("ID %s: %s→umol/L gives %g, record has %g", r.ID, c.unit, back, r.Oxygen.ConcentrationUmolL)
			}
		}
	}
	return p
}

// ── Phase 4: Schema ──

var (
	schemaRegimes = map[string]bool{
		domain.RegimeHypoxic:        true,
		domain.RegimeUndersaturated: true,
		domain.RegimeSaturated:      true,
		domain.RegimeSupersaturated: true,
	}
	schemaSources = map[string]bool{
		domain.AirPressureReported:  true,
		domain.AirPressureOpenMeteo: true,
		domain.AirPressureDefault:   true,
		domain.AirPressureFailed:    true,
	}
)

func validateSchema(records []domain.OxygenRecord) *phase {
	p := &phase{name: "Phase 4: Record Schema"}
	for i := range records {
		checkSchemaRecord(p, i, &records[i])
	}
	return p
}

func checkSchemaRecord(p *phase, i int, r *domain.OxygenRecord) {
	pf := func(format string, args ...any) {
		p.errorf("record %d (ID %s): "+format, append([]any{i, r.ID}, args...)...)
	}

	if r.ID == "" {
		pf("id is empty")
	} else if r.Platform != "" && !strings.HasPrefix(r.ID, r.Platform+"-") {
		pf("id doesn't start with platform prefix %q-", r.Platform)
	}
	if !schemaRegimes[r.Regime] {
		pf("regime %q not in {hypoxic, undersaturated, saturated, supersaturated}", r.Regime)
	}
	if !schemaSources[r.AirPressureSource] {
		pf("air_pressure_source %q is not a known source", r.AirPressureSource)
	}
	if r.Input.Unit == "" {
		pf("input unit is empty")
	}
	for name, v := range map[string]float64{
		"concentration_umol_l": r.Oxygen.ConcentrationUmolL,
		"saturation_percent":   r.Oxygen.SaturationPercent,
		"solubility_umol_l":    r.Oxygen.SolubilityUmolL,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			pf("%s is %g", name, v)
		}
	}
	if !r.TimeBucket.Equal(r.Time.UTC().Truncate(time.Hour)) {
		pf("time_bucket %s is not the hour of %s", r.TimeBucket.Format(time.RFC3339), r.Time.Format(time.RFC3339))
	}
	if r.ProcessedAt.IsZero() {
		pf("processed_at is zero")
	}
}

func relEq(a, b float64) bool {
	return math.Abs(a-b) <= relTol*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
