package oxygen

import "math"

// WaterVaporPressure returns the saturated water vapour pressure in mbar over
// seawater at temperature t (°C) and salinity s.
func WaterVaporPressure(t, s float64) float64 {
	tk := t + kelvinOffset
	return DefaultAirPressure * math.Exp(
		24.4543-
			67.4509*(100/tk)-
			4.8489*math.Log(tk/100)-
			0.000544*s,
	)
}

// ScaledTemperature returns the Garcia and Gordon scaled temperature
// ln((298.15 - t) / (273.15 + t)).
func ScaledTemperature(t float64) float64 {
	return math.Log((298.15 - t) / (kelvinOffset + t))
}

// TemperatureTerm is the temperature part of the solubility fit in µmol/L.
func TemperatureTerm(t float64) float64 {
	ts := ScaledTemperature(t)
	return UmolPerML * math.Exp(
		2.00907+
			3.22014*ts+
			4.05010*ts*ts+
			4.94457*math.Pow(ts, 3)-
			2.56847e-1*math.Pow(ts, 4)+
			3.88767*math.Pow(ts, 5),
	)
}

// SalinityTerm is the dimensionless salinity factor of the solubility fit.
func SalinityTerm(t, s float64) float64 {
	ts := ScaledTemperature(t)
	return math.Exp(
		s*(-6.24523e-3-
			7.37614e-3*ts-
			1.03410e-2*ts*ts-
			8.17083e-3*math.Pow(ts, 3))-
			4.88682e-7*s*s,
	)
}

// Solubility returns the equilibrium oxygen concentration in µmol/L of
// seawater exposed to one standard atmosphere of moist air.
func Solubility(t, s float64) float64 {
	return TemperatureTerm(t) * SalinityTerm(t, s)
}

// PressureFactor is the hydrostatic correction exp(Vm·p / (R·Tk)) for
// pressure p in dbar.
func PressureFactor(t, p float64) float64 {
	return math.Exp(MolarVolumeO2 * p / (GasConstant * (t + kelvinOffset)))
}
