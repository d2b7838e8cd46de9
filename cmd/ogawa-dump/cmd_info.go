package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-ogawa/ogawa"
)

func newInfoCmd(cfg *dumpConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "info <archive>",
		Short: "Print the file header and archive tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := cfg.open(cmd, args[0])
			if err != nil {
				return err
			}
			defer a.Close()
			printInfo(cmd.OutOrStdout(), a)
			return nil
		},
	}
}

// libraryVersion formats an encoded library version, e.g. 10709 as 1.7.9.
func libraryVersion(v int32) string {
	return fmt.Sprintf("%d.%d.%d", v/10000, v/100%100, v%100)
}

func printInfo(w io.Writer, a *ogawa.Archive) {
	fmt.Fprintf(w, "Format version:   %d\n", a.FormatVersion())
	fmt.Fprintf(w, "Frozen:           %v\n", a.Frozen())
	fmt.Fprintf(w, "Archive version:  %d\n", a.ArchiveVersion())
	fmt.Fprintf(w, "Library version:  %s (%d)\n", libraryVersion(a.LibraryVersion()), a.LibraryVersion())
	if size := a.Size(); size >= 0 {
		fmt.Fprintf(w, "Size:             %s\n", humanize.IBytes(uint64(size)))
	}
	fmt.Fprintf(w, "Root children:    %d\n", a.Root().NumChildren())
	fmt.Fprintf(w, "Indexed metadata: %d\n", a.IndexedMetaData().Len())

	if md := a.MetaData(); md.Len() > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Metadata:")
		for _, k := range md.Keys() {
			v, _ := md.Get(k)
			fmt.Fprintf(w, "  %s = %s\n", nameColor.Sprint(k), v)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Time samplings:")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Index", "Type", "Max samples", "Time per cycle", "Stored times"})
	table.SetAutoFormatHeaders(false)
	ts := a.TimeSamplings()
	for i := 0; i < ts.Len(); i++ {
		s, err := ts.Resolve(i)
		if err != nil {
			continue
		}
		table.Append([]string{
			strconv.Itoa(i),
			s.Type().String(),
			strconv.FormatUint(uint64(s.MaxSample), 10),
			formatTime(s.TimePerCycle),
			fmt.Sprintf("%d: %s", s.NumStoredTimes(), formatTimes(s.StoredTimes)),
		})
	}
	table.Render()
}

func formatTime(t float64) string {
	if t == ogawa.AcyclicTimePerCycle {
		return "acyclic"
	}
	return strconv.FormatFloat(t, 'g', 6, 64)
}

func formatTimes(times []float64) string {
	const limit = 4
	parts := make([]string, 0, limit+1)
	for i, t := range times {
		if i == limit {
			parts = append(parts, fmt.Sprintf("... (%d more)", len(times)-limit))
			break
		}
		parts = append(parts, strconv.FormatFloat(t, 'g', 6, 64))
	}
	return strings.Join(parts, " ")
}
