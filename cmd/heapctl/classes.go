package main

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/joshuapare/kheap/heap"
	"github.com/joshuapare/kheap/heap/alloc"
	"github.com/joshuapare/kheap/heap/workload"
)

var classesAfter string

func init() {
	cmd := newClassesCmd()
	cmd.Flags().StringVar(&classesAfter, "after", "", "Run this workload before listing")
	rootCmd.AddCommand(cmd)
}

func newClassesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classes",
		Short: "List fixed-size-block classes and their free lists",
		Long: `The classes command boots a fixed-size-block heap and prints each block
size with the length of its free list.

Example:
  heapctl classes
  heapctl classes --block-sizes compact --after long-lived`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClasses()
		},
	}
	return cmd
}

type classInfo struct {
	Index     int    `json:"index"`
	BlockSize uint64 `json:"block_size"`
	Free      int    `json:"free"`
}

func runClasses() error {
	strategyName = heap.StrategyFixedSizeBlock.String()

	m, err := bootMachine()
	if err != nil {
		return err
	}
	defer m.Close()

	if classesAfter != "" {
		fn, ok := workload.Lookup(classesAfter)
		if !ok {
			return errors.Newf("unknown workload %q", classesAfter)
		}
		if _, err := fn(m.Heap); err != nil {
			return err
		}
	}

	var (
		classes []classInfo
		preset  string
	)
	err = m.Heap.Inspect(func(a alloc.Allocator) {
		fa := a.(*alloc.FixedSizeBlockAllocator)
		preset = fa.String()
		for i, size := range fa.BlockSizes() {
			classes = append(classes, classInfo{Index: i, BlockSize: size, Free: fa.ClassLen(i)})
		}
	})
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(classes)
	}
	printInfo("block sizes: %s\n", preset)
	printInfo("%-6s %10s %8s\n", "CLASS", "SIZE", "FREE")
	for _, c := range classes {
		printInfo("%-6d %10s %8s\n", c.Index, numbers.Sprintf("%d", c.BlockSize), numbers.Sprintf("%d", c.Free))
	}
	return nil
}
