package main

import (
	"fmt"
	"strconv"

	"github.com/couchcryptid/oxygen-conversion-service/internal/oxygen"
	"github.com/spf13/cobra"
)

type convertOptions struct {
	from, to    string
	temperature float64
	salinity    float64
	pressure    float64
	airPressure float64
	density     float64
	strict      bool
}

func newConvertCommand() *cobra.Command {
	var o convertOptions
	cmd := &cobra.Command{
		Use:   "convert VALUE...",
		Short: "Convert oxygen values from one unit to another",
		Example: `  o2conv convert --from umol/kg --to % -t 2.9 -s 34.71 -p 1500 212.4
  o2conv convert --from mL/L --to umol/L -t 10 -s 35 5.1 5.3 5.6`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, o, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.from, "from", "", "input unit")
	f.StringVar(&o.to, "to", "", "output unit")
	f.Float64VarP(&o.temperature, "temperature", "t", 0, "in-situ temperature (°C)")
	f.Float64VarP(&o.salinity, "salinity", "s", 0, "practical salinity (PSU)")
	f.Float64VarP(&o.pressure, "pressure", "p", 0, "hydrostatic pressure (dbar)")
	f.Float64Var(&o.airPressure, "air-pressure", oxygen.DefaultAirPressure, "atmospheric pressure (mbar)")
	f.Float64Var(&o.density, "density", 0, "seawater density (kg/m³); 0 uses EOS-80")
	f.BoolVar(&o.strict, "strict", true, "reject inputs outside the valid ranges")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("temperature")
	_ = cmd.MarkFlagRequired("salinity")

	return cmd
}

func runConvert(cmd *cobra.Command, o convertOptions, args []string) error {
	from, err := oxygen.ParseUnit(o.from)
	if err != nil {
		return err
	}
	to, err := oxygen.ParseUnit(o.to)
	if err != nil {
		return err
	}

	values := make([]float64, len(args))
	for i, a := range args {
		if values[i], err = strconv.ParseFloat(a, 64); err != nil {
			return fmt.Errorf("value %q: %w", a, err)
		}
	}

	cond := oxygen.Conditions{
		Temperature: o.temperature,
		Salinity:    o.salinity,
		Pressure:    o.pressure,
		AirPressure: o.airPressure,
		Density:     o.density,
	}
	if o.strict {
		if err := oxygen.CheckConditions(cond); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	for _, v := range values {
		if o.strict {
			if err := oxygen.CheckValue(v); err != nil {
				return err
			}
		}
		res, err := oxygen.Convert(v, from, to, cond)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%g %s = %.6g %s\n", v, from, res, to)
	}
	return nil
}
