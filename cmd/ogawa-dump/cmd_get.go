package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-ogawa/ogawa"
)

func newGetCmd(cfg *dumpConfig) *cobra.Command {
	var index, limit int
	var all bool
	cmd := &cobra.Command{
		Use:   "get <archive> <object@property>",
		Short: "Print samples of one property",
		Example: `  ogawa-dump get scene.abc /pCube1@.xform/.vals
  ogawa-dump get scene.abc /pCube1/pCubeShape1@.geom/P --all`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := cfg.open(cmd, args[0])
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.Property(args[1])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, ogawa.Describe(p))

			sp, ok := p.(ogawa.SampledProperty)
			if !ok {
				return errors.Errorf("%s is a compound property", args[1])
			}
			first, last := index, index+1
			if all {
				first, last = 0, sp.SampleCount()
			}
			for i := first; i < last; i++ {
				arr, err := sp.LoadSample(i)
				if err != nil {
					return errors.Wrapf(err, "sample %d", i)
				}
				fmt.Fprintf(w, "%s %s\n", dimColor.Sprintf("[%d]", i), arr.Format(limit))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&index, "index", "i", 0, "Sample index")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Print every sample")
	cmd.Flags().IntVar(&limit, "limit", 0, "Elements printed per sample (0 prints all)")
	return cmd
}
