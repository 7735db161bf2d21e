package main

import (
	"fmt"

	"github.com/couchcryptid/oxygen-conversion-service/internal/oxygen"
	"github.com/spf13/cobra"
)

func newSolubilityCommand() *cobra.Command {
	var (
		temperature, salinity float64
		unit                  string
	)
	cmd := &cobra.Command{
		Use:     "solubility",
		Short:   "Print the oxygen solubility at 1 atm moist air",
		Example: "  o2conv solubility -t 10 -s 35 --unit mL/L",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := oxygen.ParseUnit(unit)
			if err != nil {
				return err
			}
			switch u {
			case oxygen.UmolPerL, oxygen.MLPerL, oxygen.UmolPerKg:
			default:
				return fmt.Errorf("solubility unit must be a concentration, got %s", u)
			}
			cond := oxygen.Conditions{Temperature: temperature, Salinity: salinity}
			v, err := oxygen.Convert(oxygen.Solubility(temperature, salinity), oxygen.UmolPerL, u, cond)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.6g %s\n", v, u)
			return nil
		},
	}
	cmd.Flags().Float64VarP(&temperature, "temperature", "t", 0, "temperature (°C)")
	cmd.Flags().Float64VarP(&salinity, "salinity", "s", 0, "practical salinity (PSU)")
	cmd.Flags().StringVar(&unit, "unit", string(oxygen.UmolPerL), "output concentration unit")
	_ = cmd.MarkFlagRequired("temperature")
	_ = cmd.MarkFlagRequired("salinity")
	return cmd
}
