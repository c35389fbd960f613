package main

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/joshuapare/kheap/heap/alloc"
	"github.com/joshuapare/kheap/heap/workload"
)

var dumpAfter string

func init() {
	cmd := newDumpCmd()
	cmd.Flags().StringVar(&dumpAfter, "after", "", "Run this workload before dumping")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Dump the free list of a heap",
		Long: `The dump command boots a heap and walks its free regions in list order.
For fixed-size-block heaps the fallback's regions are shown along with the
class free lists. Bump heaps have no free list.

Example:
  heapctl dump --strategy linked-list
  heapctl dump --after large-vec --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump()
		},
	}
	return cmd
}

type regionInfo struct {
	Start uint64 `json:"start"`
	End   uint64 `json:"end"`
	Size  uint64 `json:"size"`
}

type dumpReport struct {
	Strategy string       `json:"strategy"`
	Regions  []regionInfo `json:"regions"`
	Classes  []classInfo  `json:"classes,omitempty"`
	FreeSum  uint64       `json:"free_bytes"`
}

func runDump() error {
	m, err := bootMachine()
	if err != nil {
		return err
	}
	defer m.Close()

	if dumpAfter != "" {
		fn, ok := workload.Lookup(dumpAfter)
		if !ok {
			return errors.Newf("unknown workload %q", dumpAfter)
		}
		if _, err := fn(m.Heap); err != nil {
			return err
		}
	}

	report := dumpReport{Strategy: m.Heap.Config().Strategy.String()}
	err = m.Heap.Inspect(func(a alloc.Allocator) {
		var regions []alloc.FreeRegion
		switch a := a.(type) {
		case *alloc.LinkedListAllocator:
			regions = a.Regions()
		case *alloc.FixedSizeBlockAllocator:
			regions = a.Regions()
			for i, size := range a.BlockSizes() {
				n := a.ClassLen(i)
				report.Classes = append(report.Classes, classInfo{Index: i, BlockSize: size, Free: n})
				report.FreeSum += uint64(n) * size
			}
		}
		for _, r := range regions {
			report.Regions = append(report.Regions, regionInfo{Start: r.Start, End: r.End(), Size: r.Size})
			report.FreeSum += r.Size
		}
	})
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(report)
	}
	printInfo("strategy %s, %d free regions\n", report.Strategy, len(report.Regions))
	for i, r := range report.Regions {
		printInfo("  #%-4d 0x%x-0x%x %10s bytes\n", i, r.Start, r.End, numbers.Sprintf("%d", r.Size))
	}
	for _, c := range report.Classes {
		if c.Free > 0 {
			printInfo("  class %5d: %s free\n", c.BlockSize, numbers.Sprintf("%d", c.Free))
		}
	}
	printInfo("free bytes: %s\n", numbers.Sprintf("%d", report.FreeSum))
	return nil
}
