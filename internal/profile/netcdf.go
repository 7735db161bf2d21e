package profile

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/couchcryptid/oxygen-conversion-service/internal/oxygen"
)

// Argo fill value used when a variable carries no _FillValue attribute.
const argoFillValue = 99999.0

// argoEpoch is the reference date of the Argo JULD variable.
var argoEpoch = time.Date(1950, time.January, 1, 0, 0, 0, 0, time.UTC)

// ErrMissingVariable is returned when a required variable is absent.
var ErrMissingVariable = errors.New("netcdf variable missing")

// Options selects the oxygen variable and its unit.
type Options struct {
	OxygenVar  string      // default "DOXY"
	OxygenUnit oxygen.Unit // default µmol/kg
}

func (o Options) withDefaults() Options {
	if o.OxygenVar == "" {
		o.OxygenVar = "DOXY"
	}
	if o.OxygenUnit == "" {
		o.OxygenUnit = oxygen.UmolPerKg
	}
	return o
}

// LoadNetCDF reads every profile in an Argo-style NetCDF file. PRES, TEMP,
// PSAL and the oxygen variable are required; JULD, LATITUDE, LONGITUDE,
// PLATFORM_NUMBER and CYCLE_NUMBER are used when present.
func LoadNetCDF(path string, opts Options) ([]Profile, error) {
	nc, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer nc.Close()

	return decode(groupSource{nc}, opts.withDefaults())
}

// source abstracts variable lookup so decoding can be tested without a file.
type source interface {
	// variable returns the decoded values and the fill value, if any.
	variable(name string) (values any, fill any, err error)
}

type groupSource struct {
	g api.Group
}

func (s groupSource) variable(name string) (any, any, error) {
	v, err := s.g.GetVariable(name)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrMissingVariable, name)
	}
	var fill any
	if v.Attributes != nil {
		fill, _ = v.Attributes.Get("_FillValue")
	}
	return v.Values, fill, nil
}

func decode(src source, opts Options) ([]Profile, error) {
	columns := map[string][][]float64{}
	for _, name := range []string{"PRES", "TEMP", "PSAL", opts.OxygenVar} {
		values, fill, err := src.variable(name)
		if err != nil {
			return nil, err
		}
		rows, err := toMatrix(values, fillOf(fill))
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", name, err)
		}
		columns[name] = rows
	}

	nProf := len(columns["PRES"])
	for name, rows := range columns {
		if len(rows) != nProf {
			return nil, fmt.Errorf("variable %s has %d profiles, PRES has %d", name, len(rows), nProf)
		}
	}

	lat := optionalVector(src, "LATITUDE", nProf)
	lon := optionalVector(src, "LONGITUDE", nProf)
	juld := optionalVector(src, "JULD", nProf)
	cycles := optionalVector(src, "CYCLE_NUMBER", nProf)
	platforms := optionalStrings(src, "PLATFORM_NUMBER", nProf)

	profiles := make([]Profile, nProf)
	for i := range profiles {
		p := Profile{
			Platform:    platforms[i],
			Lat:         zeroIfMissing(lat[i]),
			Lon:         zeroIfMissing(lon[i]),
			Pressure:    columns["PRES"][i],
			Temperature: columns["TEMP"][i],
			Salinity:    columns["PSAL"][i],
			Oxygen:      columns[opts.OxygenVar][i],
			OxygenUnit:  opts.OxygenUnit,
		}
		if !isMissing(cycles[i]) {
			p.Cycle = int(cycles[i])
		}
		if !isMissing(juld[i]) {
			p.Time = argoEpoch.Add(time.Duration(juld[i] * float64(24*time.Hour))).Truncate(time.Second)
		}
		profiles[i] = p
	}
	return profiles, nil
}

func fillOf(fill any) float64 {
	if v, ok := scalar(fill); ok {
		return v
	}
	return argoFillValue
}

// toMatrix converts a 1-D (single profile) or 2-D (N_PROF x N_LEVELS)
// numeric array to float64 rows, replacing fill values with NaN.
func toMatrix(values any, fill float64) ([][]float64, error) {
	switch v := values.(type) {
	case [][]float32:
		out := make([][]float64, len(v))
		for i := range v {
			out[i] = floatRow(v[i], fill)
		}
		return out, nil
	case [][]float64:
		out := make([][]float64, len(v))
		for i := range v {
			out[i] = floatRow(v[i], fill)
		}
		return out, nil
	case []float32:
		return [][]float64{floatRow(v, fill)}, nil
	case []float64:
		return [][]float64{floatRow(v, fill)}, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", values)
	}
}

func floatRow[T float32 | float64](row []T, fill float64) []float64 {
	out := make([]float64, len(row))
	for i, x := range row {
		f := float64(x)
		if f == fill || math.Abs(f) >= argoFillValue {
			f = math.NaN()
		}
		out[i] = f
	}
	return out
}

// optionalVector returns n values for a per-profile variable, NaN when the
// variable is absent or has an unexpected shape.
func optionalVector(src source, name string, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	values, fill, err := src.variable(name)
	if err != nil {
		return out
	}
	f := fillOf(fill)

	var vs []float64
	switch v := values.(type) {
	case []float64:
		vs = v
	case []float32:
		vs = floatRow(v, f)
	case []int32:
		vs = make([]float64, len(v))
		for i, x := range v {
			vs[i] = float64(x)
		}
	case float64, float32, int32:
		s, _ := scalar(v)
		vs = []float64{s}
	}
	if len(vs) != n {
		return out
	}
	for i, x := range vs {
		if x != f && math.Abs(x) < argoFillValue {
			out[i] = x
		}
	}
	return out
}

func optionalStrings(src source, name string, n int) []string {
	out := make([]string, n)
	values, _, err := src.variable(name)
	if err != nil {
		return out
	}
	switch v := values.(type) {
	case []string:
		if len(v) == n {
			for i := range v {
				out[i] = strings.TrimSpace(v[i])
			}
		}
	case string:
		if n == 1 {
			out[0] = strings.TrimSpace(v)
		}
	}
	return out
}

func scalar(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int32:
		return float64(x), true
	case []float64:
		if len(x) == 1 {
			return x[0], true
		}
	case []float32:
		if len(x) == 1 {
			return float64(x[0]), true
		}
	}
	return 0, false
}

func zeroIfMissing(v float64) float64 {
	if isMissing(v) {
		return 0
	}
	return v
}
