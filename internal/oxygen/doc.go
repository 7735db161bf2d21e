// Package oxygen converts dissolved-oxygen measurements between concentration,
// partial pressure, and percent saturation as reported by oceanographic floats
// and gliders.
//
// # Reference
//
// The formulas follow the SCOR WG 142 recommendations "Quality Control
// Procedures for Oxygen and Other Biogeochemical Sensors on Floats and
// Gliders" (https://archimer.ifremer.fr/doc/00348/45915/, DOI 10.13155/45915).
//
// Solubility is the Garcia and Gordon (1992) fit to the Benson and Krause
// (1984) data, converted from mL(STP)/L to µmol/L with 44.6596 µmol/mL.
// Water vapour pressure and the hydrostatic pressure correction use the
// constants below:
//
//	xO2 = 0.20946   mole fraction of O2 in dry air (Glueckauf 1951)
//	Vm  = 0.317     molar volume of O2 in m³ mol⁻¹ Pa dbar⁻¹ (Enns et al. 1965)
//	R   = 8.314     universal gas constant in J mol⁻¹ K⁻¹
//
// # Units
//
//	temperature     °C
//	salinity        PSS-78
//	pressure        dbar, hydrostatic (0 at the surface)
//	air pressure    mbar, defaults to 1013.25
//	concentration   µmol/L (mL/L and µmol/kg via the unit helpers)
//	partial press.  mbar (kPa via the unit helpers)
//	saturation      %
//
// # Domain
//
// The scalar functions never validate their inputs. Out-of-range values
// extrapolate, and values that leave the domain of a logarithm (for example
// a temperature at or above 298.15 °C) produce NaN. Callers that need a
// guard run [CheckConditions] first.
//
// # Broadcasting
//
// Every conversion has a Vec variant taking slices. Each slice must have the
// common length n or length 1; length-1 slices are repeated across the
// output. See [Broadcast].
package oxygen
