package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/kheap/heap/paging"
)

var mapAll bool

func init() {
	cmd := newMapCmd()
	cmd.Flags().BoolVar(&mapAll, "all", false, "Include mappings outside the heap")
	rootCmd.AddCommand(cmd)
}

func newMapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Show the heap's page mappings",
		Long: `The map command boots a machine and prints every heap page with the
frame it maps to and its flags, followed by frame usage.

Example:
  heapctl map
  heapctl map --heap-size 16384 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMap()
		},
	}
	return cmd
}

type mappingInfo struct {
	Page  string `json:"page"`
	Frame string `json:"frame"`
	Flags string `json:"flags"`
}

type mapReport struct {
	Mappings      []mappingInfo `json:"mappings"`
	Root          string        `json:"root_table"`
	FramesUsed    uint64        `json:"frames_used"`
	FramesUsable  uint64        `json:"frames_usable"`
	PagesInRegion int           `json:"pages_in_region"`
}

func runMap() error {
	m, err := bootMachine()
	if err != nil {
		return err
	}
	defer m.Close()

	r := m.Heap.Config().Region()
	report := mapReport{
		Root:          m.Pages.Root().String(),
		FramesUsed:    m.Frames.Allocated(),
		FramesUsable:  m.MemoryMap.UsableFrames(),
		PagesInRegion: r.Pages().Len(),
	}
	m.Pages.Mappings(func(p paging.Page, f paging.Frame, flags paging.Flags) bool {
		va := uint64(p.Start)
		if mapAll || (va >= r.Start && va < r.End()) {
			report.Mappings = append(report.Mappings, mappingInfo{
				Page:  p.Start.String(),
				Frame: f.Start.String(),
				Flags: flags.String(),
			})
		}
		return true
	})

	if jsonOut {
		return printJSON(report)
	}
	for _, mi := range report.Mappings {
		printInfo("%s -> %s  %s\n", mi.Page, mi.Frame, mi.Flags)
	}
	printInfo("\nroot table %s, %s of %s frames used, %s heap pages\n",
		report.Root,
		numbers.Sprintf("%d", report.FramesUsed),
		numbers.Sprintf("%d", report.FramesUsable),
		numbers.Sprintf("%d", report.PagesInRegion))
	return nil
}
