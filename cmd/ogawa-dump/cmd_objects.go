package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-ogawa/ogawa"
)

type objectsFlags struct {
	properties bool
	samples    int
	limit      int
	verify     bool
}

func newObjectsCmd(cfg *dumpConfig) *cobra.Command {
	var flags objectsFlags
	cmd := &cobra.Command{
		Use:   "objects <archive>",
		Short: "Print the object hierarchy and its properties",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, log, err := cfg.open(cmd, args[0])
			if err != nil {
				return err
			}
			defer a.Close()

			d := &objectDumper{w: cmd.OutOrStdout(), log: log, flags: flags}
			if err := d.dump(a); err != nil {
				return err
			}
			if d.failures > 0 {
				return errors.Errorf("%d samples failed verification", d.failures)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&flags.properties, "properties", "p", true, "List the properties of each object")
	cmd.Flags().IntVarP(&flags.samples, "samples", "s", 0, "Print the first N samples of each property")
	cmd.Flags().IntVar(&flags.limit, "limit", 8, "Elements printed per sample (0 prints all)")
	cmd.Flags().BoolVar(&flags.verify, "verify", false, "Check the stored digest of every sample")
	return cmd
}

type objectDumper struct {
	w        io.Writer
	log      zerolog.Logger
	flags    objectsFlags
	failures int
}

func objectDepth(fullName string) int {
	if fullName == "/" {
		return 0
	}
	return strings.Count(fullName, "/")
}

func (d *objectDumper) dump(a *ogawa.Archive) error {
	return ogawa.WalkObjects(a.Root(), func(fullName string, obj *ogawa.ObjectReader, err error) error {
		indent := strings.Repeat("  ", objectDepth(fullName))
		if err != nil {
			fmt.Fprintf(d.w, "%s%s %s\n", indent, fullName, errorColor.Sprint(err))
			return nil
		}

		line := indent + nameColor.Sprint(obj.Name())
		if schema, ok := obj.MetaData().Get("schema"); ok {
			line += " " + kindColor.Sprintf("[%s]", schema)
		}
		fmt.Fprintln(d.w, line)

		if !d.flags.properties && !d.flags.verify {
			return nil
		}
		props, err := obj.Properties()
		if err != nil {
			fmt.Fprintf(d.w, "%s  %s\n", indent, errorColor.Sprint(err))
			return nil
		}
		return d.dumpProperties(props, indent+"  ")
	})
}

func (d *objectDumper) dumpProperties(props *ogawa.CompoundPropertyReader, indent string) error {
	return ogawa.WalkProperties(props, func(path string, p ogawa.PropertyReader, err error) error {
		pad := indent + strings.Repeat("  ", strings.Count(path, "/"))
		if err != nil {
			fmt.Fprintf(d.w, "%s%s %s\n", pad, path, errorColor.Sprint(err))
			return nil
		}
		if d.flags.properties {
			fmt.Fprintf(d.w, "%s%s\n", pad, ogawa.Describe(p))
		}

		sp, ok := p.(ogawa.SampledProperty)
		if !ok {
			return nil
		}
		if d.flags.verify {
			d.verify(sp)
		}
		if d.flags.properties {
			d.printSamples(sp, pad+"  ")
		}
		return nil
	})
}

func (d *objectDumper) verify(p ogawa.SampledProperty) {
	for i := 0; i < p.SampleCount(); i++ {
		if err := p.VerifySampleKey(i); err != nil {
			d.failures++
			d.log.Error().Err(err).Str("property", p.Path()).Int("sample", i).Msg("sample verification failed")
		}
	}
}

func (d *objectDumper) printSamples(p ogawa.SampledProperty, indent string) {
	n := min(d.flags.samples, p.SampleCount())
	for i := 0; i < n; i++ {
		fmt.Fprintf(d.w, "%s%s %s\n", indent, dimColor.Sprintf("[%d]", i), formatSample(p, i, d.flags.limit))
	}
}

// formatSample renders the values and stored size of sample i, or the error
// that stopped either from loading.
func formatSample(p ogawa.SampledProperty, i, limit int) string {
	arr, err := p.LoadSample(i)
	if err != nil {
		return errorColor.Sprint(err)
	}
	size, err := p.SampleSize(i)
	if err != nil {
		return arr.Format(limit) + " " + errorColor.Sprint(err)
	}
	return arr.Format(limit) + " " + dimColor.Sprintf("(%s)", humanize.IBytes(size))
}
