package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/raushankrgupta/fitmate/bodyshape"
	"github.com/raushankrgupta/fitmate/fitting"
	"github.com/spf13/cobra"
)

func newClassifyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify body measurements into a body shape",
		Example: `  fitmate-admin classify --chest 96 --waist 70 --hips 98
  fitmate-admin classify --chest 110 --waist 90 --hips 96 --shoulder 118`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := fitting.Set{}
			for name, dst := range map[string]**float64{
				"chest": &m.Chest, "waist": &m.Waist, "hips": &m.Hips, "shoulder": &m.Shoulder,
			} {
				if v := a.v.GetFloat64(name); v != 0 {
					*dst = fitting.Cm(v)
				}
			}

			shape, ok := bodyshape.Classify(m)
			if !ok {
				return errors.New("chest, waist and hips must all be greater than zero")
			}
			printShape(cmd.OutOrStdout(), shape)
			return nil
		},
	}

	cmd.Flags().Float64("chest", 0, "Chest in cm")
	cmd.Flags().Float64("waist", 0, "Waist in cm")
	cmd.Flags().Float64("hips", 0, "Hips in cm")
	cmd.Flags().Float64("shoulder", 0, "Shoulder width in cm (optional)")
	return cmd
}

func printShape(w io.Writer, shape bodyshape.Shape) {
	g := bodyshape.GuidanceFor(shape)
	fmt.Fprintf(w, "Body shape: %s\n", shape)
	fmt.Fprintf(w, "%s\n", g.Description)
	if len(g.BestStyles) > 0 {
		fmt.Fprintln(w, "Best styles:")
		for _, s := range g.BestStyles {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}
	if len(g.Avoid) > 0 {
		fmt.Fprintln(w, "Avoid:")
		for _, s := range g.Avoid {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}
}
