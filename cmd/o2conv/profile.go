package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/couchcryptid/oxygen-conversion-service/internal/oxygen"
	"github.com/couchcryptid/oxygen-conversion-service/internal/profile"
	"github.com/spf13/cobra"
)

// profileLoader decodes every profile in a file.
type profileLoader func(path string, opts profile.Options) ([]profile.Profile, error)

func newProfileCommand(load profileLoader) *cobra.Command {
	var (
		oxygenVar   string
		oxygenUnit  string
		airPressure float64
		levels      bool
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:     "profile FILE.nc",
		Short:   "Convert and summarise the oxygen profiles in an Argo NetCDF file",
		Example: "  o2conv profile --levels 6903024_prof.nc",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			unit, err := oxygen.ParseUnit(oxygenUnit)
			if err != nil {
				return err
			}
			profiles, err := load(args[0], profile.Options{OxygenVar: oxygenVar, OxygenUnit: unit})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			for _, p := range profiles {
				c, err := profile.Convert(p, airPressure)
				if err != nil {
					return err
				}
				s := profile.Summarize(c)
				if asJSON {
					if err := enc.Encode(s); err != nil {
						return fmt.Errorf("profile %s/%d: %w", p.Platform, p.Cycle, err)
					}
					continue
				}
				writeSummary(out, s)
				if levels {
					writeLevels(out, c)
				}
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&oxygenVar, "oxygen-var", "DOXY", "oxygen variable name")
	f.StringVar(&oxygenUnit, "oxygen-unit", string(oxygen.UmolPerKg), "unit of the oxygen variable")
	f.Float64Var(&airPressure, "air-pressure", oxygen.DefaultAirPressure, "atmospheric pressure (mbar)")
	f.BoolVar(&levels, "levels", false, "print every level")
	f.BoolVar(&asJSON, "json", false, "print one JSON summary per profile")
	return cmd
}

func writeSummary(w io.Writer, s profile.Summary) {
	if math.IsNaN(s.OxygenMinimumPressure) {
		fmt.Fprintf(w, "platform %s cycle %d: %d levels, no oxygen data\n", s.Platform, s.Cycle, s.Levels)
	} else {
		fmt.Fprintf(w, "platform %s cycle %d: %d levels, oxygen minimum at %.1f dbar\n",
			s.Platform, s.Cycle, s.Levels, s.OxygenMinimumPressure)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  column\tn\tmean\tstd\tmin\tmax")
	for _, row := range []struct {
		name string
		cs   profile.ColumnStats
	}{
		{"umol/kg", s.ConcentrationUmolKg},
		{"mbar", s.PartialPressureMbar},
		{"%", s.SaturationPercent},
	} {
		if row.cs.N == 0 {
			fmt.Fprintf(tw, "  %s\t0\t-\t-\t-\t-\n", row.name)
			continue
		}
		fmt.Fprintf(tw, "  %s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\n", row.name, row.cs.N, row.cs.Mean, row.cs.Std, row.cs.Min, row.cs.Max)
	}
	tw.Flush()
}

func writeLevels(w io.Writer, c profile.Converted) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  dbar\t°C\tPSU\tumol/L\tumol/kg\tmbar\t%")
	for i := range c.Pressure {
		fmt.Fprintf(tw, "  %.1f\t%.3f\t%.3f\t%.2f\t%.2f\t%.2f\t%.2f\n",
			c.Pressure[i], c.Temperature[i], c.Salinity[i],
			c.ConcentrationUmolL[i], c.ConcentrationUmolKg[i],
			c.PartialPressureMbar[i], c.SaturationPercent[i])
	}
	tw.Flush()
}
