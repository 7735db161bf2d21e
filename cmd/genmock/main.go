// Command genmock reads Argo-style NetCDF profile files and generates the
// reading fixtures used by the pipeline tests and the validate command. It
// runs the domain conversion so the converted fixture matches real pipeline
// output.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -nc data/argo/6903024_prof.nc,data/argo/ctd_m181.nc \
//	  -raw-out data/mock/oxygen_readings_240426.json \
//	  -converted-out data/mock/oxygen_records_240426.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/couchcryptid/oxygen-conversion-service/internal/domain"
	"github.com/couchcryptid/oxygen-conversion-service/internal/oxygen"
	"github.com/couchcryptid/oxygen-conversion-service/internal/profile"
	"github.com/jonboulle/clockwork"
)

var baseDate = time.Date(2024, time.April, 26, 0, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ncFiles := flag.String("nc", "", "comma-separated NetCDF profile files")
	oxygenVar := flag.String("oxygen-var", "DOXY", "name of the oxygen variable")
	oxygenUnit := flag.String("oxygen-unit", "umol/kg", "unit of the oxygen variable")
	maxLevels := flag.Int("max-levels", 10, "levels kept per profile (0 keeps all)")
	rawOut := flag.String("raw-out", "", "output path for the raw readings fixture")
	convertedOut := flag.String("converted-out", "", "output path for the converted records fixture")
	flag.Parse()

	if *ncFiles == "" || *rawOut == "" || *convertedOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -nc, -raw-out, -converted-out")
	}

	unit, err := oxygen.ParseUnit(*oxygenUnit)
	if err != nil {
		return err
	}

	// Set a fixed clock for reproducible ProcessedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	var readings []domain.RawReading //nolint:prealloc // size depends on file contents
	var records []domain.OxygenRecord //nolint:prealloc // size depends on file contents

	for _, path := range strings.Split(*ncFiles, ",") {
		path = strings.TrimSpace(path)
		profiles, err := profile.LoadNetCDF(path, profile.Options{OxygenVar: *oxygenVar, OxygenUnit: unit})
		if err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
		for _, p := range profiles {
			rs, recs, err := processProfile(p, *maxLevels)
			if err != nil {
				return fmt.Errorf("%s profile %s/%d: %w", path, p.Platform, p.Cycle, err)
			}
			readings = append(readings, rs...)
			records = append(records, recs...)
		}
		log.Printf("%s: %d profiles", filepath.Base(path), len(profiles))
	}

	log.Printf("total: %d readings", len(readings))

	if err := writeJSON(*rawOut, readings); err != nil {
		return fmt.Errorf("writing raw fixture: %w", err)
	}
	log.Printf("wrote raw fixture: %s", *rawOut)

	if err := writeJSON(*convertedOut, records); err != nil {
		return fmt.Errorf("writing converted fixture: %w", err)
	}
	log.Printf("wrote converted fixture: %s", *convertedOut)

	printStats(records)
	return nil
}

// processProfile turns each complete level into a raw reading and its
// converted record. Levels missing any input are skipped.
func processProfile(p profile.Profile, maxLevels int) ([]domain.RawReading, []domain.OxygenRecord, error) {
	t := p.Time
	if t.IsZero() {
		t = baseDate
	}

	var readings []domain.RawReading
	var records []domain.OxygenRecord
	for i := 0; i < p.Levels(); i++ {
		if maxLevels > 0 && len(readings) >= maxLevels {
			break
		}
		if anyNaN(p.Pressure[i], p.Temperature[i], p.Salinity[i], p.Oxygen[i]) {
			continue
		}

		r := domain.RawReading{
			Platform:    p.Platform,
			Cycle:       p.Cycle,
			Time:        t,
			Lat:         p.Lat,
			Lon:         p.Lon,
			Pressure:    round(p.Pressure[i], 2),
			Temperature: ptr(round(p.Temperature[i], 4)),
			Salinity:    ptr(round(p.Salinity[i], 4)),
			OxygenValue: ptr(round(p.Oxygen[i], 3)),
			OxygenUnit:  string(p.OxygenUnit),
		}

		// Round-trip through JSON so the record matches what the pipeline sees.
		payload, err := json.Marshal(r)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal reading: %w", err)
		}
		parsed, err := domain.ParseRawReading(domain.RawEvent{Value: payload, Timestamp: baseDate})
		if err != nil {
			return nil, nil, err
		}
		rec, err := domain.ConvertReading(parsed, domain.ConvertOptions{Strict: true})
		if err != nil {
			log.Printf("skipping level %d: %v", i, err)
			continue
		}

		readings = append(readings, r)
		records = append(records, rec)
	}
	return readings, records, nil
}

func anyNaN(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func ptr(v float64) *float64 { return &v }

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(records []domain.OxygenRecord) {
	regimes := map[string]int{}
	platforms := map[string]int{}
	units := map[string]int{}
	for i := range records {
		regimes[records[i].Regime]++
		platforms[records[i].Platform]++
		units[records[i].Input.Unit]++
	}

	fmt.Println()
	printCounts("Regime", regimes)
	printCounts("Platform", platforms)
	printCounts("Input unit", units)
}

func printCounts(title string, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("%s:\n", title)
	for _, k := range keys {
		fmt.Printf("  %-16s %d\n", k, counts[k])
	}
}
