package oxygen

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownUnit is returned when a unit string is not recognised.
var ErrUnknownUnit = errors.New("unknown oxygen unit")

// Unit identifies how an oxygen quantity is expressed.
type Unit string

const (
	UmolPerL  Unit = "umol/L"
	MLPerL    Unit = "mL/L"
	UmolPerKg Unit = "umol/kg"
	Mbar      Unit = "mbar"
	KPa       Unit = "kPa"
	Percent   Unit = "%"
)

type quantity int

const (
	concentration quantity = iota
	partialPressure
	saturation
)

func (u Unit) quantity() quantity {
	switch u {
	case Mbar, KPa:
		return partialPressure
	case Percent:
		return saturation
	default:
		return concentration
	}
}

// ParseUnit maps common spellings to a Unit, e.g. "µmol/l", "ml/L", "hPa",
// "percent".
func ParseUnit(s string) (Unit, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "µ", "u")
	norm = strings.ReplaceAll(norm, " ", "")
	switch norm {
	case "umol/l", "umoll-1", "micromol/l":
		return UmolPerL, nil
	case "ml/l", "mll-1":
		return MLPerL, nil
	case "umol/kg", "umolkg-1", "micromol/kg":
		return UmolPerKg, nil
	case "mbar", "hpa":
		return Mbar, nil
	case "kpa":
		return KPa, nil
	case "%", "percent", "pct":
		return Percent, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownUnit, s)
	}
}

// MbarToKPa converts mbar to kPa.
func MbarToKPa(v float64) float64 { return v / 10 }

// KPaToMbar converts kPa to mbar.
func KPaToMbar(v float64) float64 { return v * 10 }

// UmolPerLToMLPerL converts µmol/L to mL(STP)/L.
func UmolPerLToMLPerL(c float64) float64 { return c / UmolPerML }

// MLPerLToUmolPerL converts mL(STP)/L to µmol/L.
func MLPerLToUmolPerL(c float64) float64 { return c * UmolPerML }

// UmolPerKgToUmolPerL converts µmol/kg to µmol/L using the seawater density
// rho in kg/m³.
func UmolPerKgToUmolPerL(c, rho float64) float64 { return c * rho / 1000 }

// UmolPerLToUmolPerKg converts µmol/L to µmol/kg using the seawater density
// rho in kg/m³.
func UmolPerLToUmolPerKg(c, rho float64) float64 { return c * 1000 / rho }

// SeawaterDensity returns the UNESCO EOS-80 density of seawater at one
// atmosphere in kg/m³.
func SeawaterDensity(t, s float64) float64 {
	rhoW := 999.842594 +
		6.793952e-2*t -
		9.095290e-3*t*t +
		1.001685e-4*math.Pow(t, 3) -
		1.120083e-6*math.Pow(t, 4) +
		6.536332e-9*math.Pow(t, 5)
	b := 8.24493e-1 -
		4.0899e-3*t +
		7.6438e-5*t*t -
		8.2467e-7*math.Pow(t, 3) +
		5.3875e-9*math.Pow(t, 4)
	c := -5.72466e-3 +
		1.0227e-4*t -
		1.6546e-6*t*t
	return rhoW + b*s + c*math.Pow(s, 1.5) + 4.8314e-4*s*s
}

// Conditions describes the water a measurement was taken in.
// A zero AirPressure means DefaultAirPressure and a zero Density means the
// EOS-80 estimate from Temperature and Salinity.
type Conditions struct {
	Temperature float64 // °C
	Salinity    float64 // PSS-78
	Pressure    float64 // dbar
	AirPressure float64 // mbar
	Density     float64 // kg/m³
}

func (c Conditions) airPressure() float64 {
	if c.AirPressure == 0 {
		return DefaultAirPressure
	}
	return c.AirPressure
}

func (c Conditions) density() float64 {
	if c.Density == 0 {
		return SeawaterDensity(c.Temperature, c.Salinity)
	}
	return c.Density
}

// Convert expresses value, given in unit from, in unit to.
func Convert(value float64, from, to Unit, c Conditions) (float64, error) {
	if err := validUnit(from); err != nil {
		return 0, err
	}
	if err := validUnit(to); err != nil {
		return 0, err
	}
	return convert(value, from, to, c), nil
}

// convert assumes both units are valid.
func convert(value float64, from, to Unit, c Conditions) float64 {
	if from == to {
		return value
	}
	return denormalize(convertQuantity(normalize(value, from, c), from.quantity(), to.quantity(), c), to, c)
}

func validUnit(u Unit) error {
	switch u {
	case UmolPerL, MLPerL, UmolPerKg, Mbar, KPa, Percent:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownUnit, string(u))
	}
}

// normalize brings value into µmol/L, mbar or %.
func normalize(v float64, u Unit, c Conditions) float64 {
	switch u {
	case MLPerL:
		return MLPerLToUmolPerL(v)
	case UmolPerKg:
		return UmolPerKgToUmolPerL(v, c.density())
	case KPa:
		return KPaToMbar(v)
	default:
		return v
	}
}

func denormalize(v float64, u Unit, c Conditions) float64 {
	switch u {
	case MLPerL:
		return UmolPerLToMLPerL(v)
	case UmolPerKg:
		return UmolPerLToUmolPerKg(v, c.density())
	case KPa:
		return MbarToKPa(v)
	default:
		return v
	}
}

func convertQuantity(v float64, from, to quantity, c Conditions) float64 {
	t, s, p, pAtm := c.Temperature, c.Salinity, c.Pressure, c.airPressure()
	switch {
	case from == to:
		return v
	case from == concentration && to == partialPressure:
		return ConcToPartialPressure(v, t, s, p)
	case from == concentration && to == saturation:
		return ConcToSaturation(v, t, s, p, pAtm)
	case from == partialPressure && to == concentration:
		return PartialPressureToConc(v, t, s, p)
	case from == partialPressure && to == saturation:
		return PartialPressureToSaturation(v, t, s, pAtm)
	case from == saturation && to == concentration:
		return SaturationToConc(v, t, s, p, pAtm)
	default:
		return SaturationToPartialPressure(v, t, s, pAtm)
	}
}
