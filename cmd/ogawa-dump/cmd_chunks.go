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

func newChunksCmd(cfg *dumpConfig) *cobra.Command {
	var tree bool
	var maxDepth int
	cmd := &cobra.Command{
		Use:   "chunks <archive>",
		Short: "Walk the raw group and data chunks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := cfg.open(cmd, args[0])
			if err != nil {
				return err
			}
			defer a.Close()

			w := cmd.OutOrStdout()
			var stats chunkStats
			err = ogawa.WalkChunks(a, func(depth, index int, addr ogawa.Address, c ogawa.Chunk) error {
				stats.add(depth, c)
				if tree {
					printChunk(w, depth, index, addr, c)
				}
				if maxDepth > 0 && depth >= maxDepth {
					return ogawa.SkipSubtree
				}
				return nil
			})
			if err != nil {
				return err
			}
			stats.render(w, a.Size())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&tree, "tree", "t", false, "Print every chunk")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Do not descend below this depth (0 is unlimited)")
	return cmd
}

type chunkStats struct {
	groups      int
	emptyGroups int
	data        int
	emptyData   int
	dataBytes   uint64
	children    int
	widest      int
	deepest     int
}

func (s *chunkStats) add(depth int, c ogawa.Chunk) {
	s.deepest = max(s.deepest, depth)
	if c.IsGroup() {
		s.groups++
		if c.Group.IsEmpty() {
			s.emptyGroups++
		}
		n := c.Group.ChildCount()
		s.children += n
		s.widest = max(s.widest, n)
		return
	}
	s.data++
	if c.Data.IsEmpty() {
		s.emptyData++
	}
	s.dataBytes += c.Data.Size
}

func (s *chunkStats) render(w io.Writer, fileSize int64) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Chunks", "Count", "Detail"})
	table.SetAutoFormatHeaders(false)
	table.Append([]string{"groups", strconv.Itoa(s.groups),
		fmt.Sprintf("%d empty, %d children, widest %d", s.emptyGroups, s.children, s.widest)})
	table.Append([]string{"data", strconv.Itoa(s.data),
		fmt.Sprintf("%d empty, %s payload", s.emptyData, humanize.IBytes(s.dataBytes))})
	table.Append([]string{"depth", strconv.Itoa(s.deepest), ""})
	if fileSize >= 0 {
		table.Append([]string{"file", "", humanize.IBytes(uint64(fileSize))})
	}
	table.Render()
}

func printChunk(w io.Writer, depth, index int, addr ogawa.Address, c ogawa.Chunk) {
	indent := strings.Repeat("  ", depth)
	slot := "top"
	if index >= 0 {
		slot = strconv.Itoa(index)
	}
	if c.IsGroup() {
		fmt.Fprintf(w, "%s%s %s @%d children=%d\n", indent, dimColor.Sprint(slot), kindColor.Sprint("group"),
			c.Group.Position, c.Group.ChildCount())
		return
	}
	fmt.Fprintf(w, "%s%s %s @%d size=%s (%s)\n", indent, dimColor.Sprint(slot), nameColor.Sprint("data"),
		c.Data.Position, humanize.IBytes(c.Data.Size), addr)
}
