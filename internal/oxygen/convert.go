package oxygen

// ConcToPartialPressure converts a concentration in µmol/L to a partial
// pressure in mbar at temperature t, salinity s and hydrostatic pressure p.
func ConcToPartialPressure(c, t, s, p float64) float64 {
	vp := WaterVaporPressure(t, s)
	return c * (MoleFractionO2 * (DefaultAirPressure - vp)) / Solubility(t, s) * PressureFactor(t, p)
}

// ConcToSaturation converts a concentration in µmol/L to percent saturation
// relative to air at pressure pAtm (mbar).
func ConcToSaturation(c, t, s, p, pAtm float64) float64 {
	vp := WaterVaporPressure(t, s)
	return c * 100 / Solubility(t, s) / (pAtm - vp) * (DefaultAirPressure - vp) * PressureFactor(t, p)
}

// PartialPressureToConc converts a partial pressure in mbar to a
// concentration in µmol/L.
func PartialPressureToConc(pO2, t, s, p float64) float64 {
	vp := WaterVaporPressure(t, s)
	return pO2 / (MoleFractionO2 * (DefaultAirPressure - vp)) * Solubility(t, s) / PressureFactor(t, p)
}

// PartialPressureToSaturation converts a partial pressure in mbar to percent
// saturation. Hydrostatic pressure does not enter this conversion.
func PartialPressureToSaturation(pO2, t, s, pAtm float64) float64 {
	vp := WaterVaporPressure(t, s)
	return pO2 * 100 / (MoleFractionO2 * (pAtm - vp))
}

// SaturationToConc converts percent saturation to a concentration in µmol/L.
func SaturationToConc(sat, t, s, p, pAtm float64) float64 {
	vp := WaterVaporPressure(t, s)
	return sat / 100 * Solubility(t, s) * (pAtm - vp) / (DefaultAirPressure - vp) / PressureFactor(t, p)
}

// SaturationToPartialPressure converts percent saturation to a partial
// pressure in mbar.
func SaturationToPartialPressure(sat, t, s, pAtm float64) float64 {
	vp := WaterVaporPressure(t, s)
	return sat / 100 * (MoleFractionO2 * (pAtm - vp))
}
