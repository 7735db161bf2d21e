package main

import (
	"github.com/couchcryptid/oxygen-conversion-service/internal/profile"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "o2conv",
		Short: "Convert dissolved oxygen between µmol/L, mL/L, µmol/kg, mbar, kPa and % saturation",
		Long: `o2conv converts dissolved-oxygen values using the Garcia & Gordon (1992)
solubility fit with the Benson & Krause coefficients, as recommended by SCOR WG 142.

Units: umol/L, mL/L, umol/kg, mbar (hPa), kPa, % (saturation).`,
		SilenceUsage: true,
	}
	root.AddCommand(
		newConvertCommand(),
		newSolubilityCommand(),
		newProfileCommand(profile.LoadNetCDF),
	)
	return root
}
