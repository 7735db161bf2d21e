package oxygen

const (
	// MoleFractionO2 is the mole fraction of oxygen in dry air.
	MoleFractionO2 = 0.20946
	// MolarVolumeO2 is the molar volume of oxygen in m³ mol⁻¹ Pa dbar⁻¹.
	MolarVolumeO2 = 0.317
	// GasConstant is the universal gas constant in J mol⁻¹ K⁻¹.
	GasConstant = 8.314

	// DefaultAirPressure is one standard atmosphere in mbar.
	DefaultAirPressure = 1013.25

	// UmolPerML converts mL(STP) of oxygen to µmol.
	UmolPerML = 44.6596

	kelvinOffset = 273.15
)
