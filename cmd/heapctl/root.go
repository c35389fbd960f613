package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/kheap/heap"
	"github.com/joshuapare/kheap/heap/alloc"
	"github.com/joshuapare/kheap/heap/boot"
	"github.com/joshuapare/kheap/internal/format"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool

	// Heap flags
	strategyName string
	heapSize     uint64
	heapStart    string
	blockPreset  string
	ramSize      uint64
)

// numbers formats counts and sizes with digit grouping.
var numbers = message.NewPrinter(language.English)

var rootCmd = &cobra.Command{
	Use:   "heapctl",
	Short: "Run and inspect a simulated kernel heap",
	Long: `heapctl boots a simulated machine (physical memory, a four-level page
table, a boot-info frame allocator), maps a kernel heap into it, and runs
allocation workloads against one of three strategies: bump, linked-list,
or fixed-size-block.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose && !quiet {
			heap.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		}
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")

	// Heap flags
	rootCmd.PersistentFlags().
		StringVarP(&strategyName, "strategy", "s", heap.StrategyFixedSizeBlock.String(), "Allocation strategy (bump, linked-list, fixed-size-block)")
	rootCmd.PersistentFlags().
		Uint64Var(&heapSize, "heap-size", format.DefaultHeapSize, "Heap size in bytes (page multiple)")
	rootCmd.PersistentFlags().
		StringVar(&heapStart, "heap-start", fmt.Sprintf("0x%x", uint64(format.DefaultHeapStart)), "Heap start address (page aligned)")
	rootCmd.PersistentFlags().
		StringVar(&blockPreset, "block-sizes", "default", "Block size preset for fixed-size-block (default, compact, page)")
	rootCmd.PersistentFlags().
		Uint64Var(&ramSize, "ram", boot.DefaultPhysicalMemory, "Physical memory in bytes")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// heapConfig builds the heap configuration from the flags.
func heapConfig() (heap.Config, error) {
	s, err := heap.ParseStrategy(strategyName)
	if err != nil {
		return heap.Config{}, err
	}
	start, err := strconv.ParseUint(heapStart, 0, 64)
	if err != nil {
		return heap.Config{}, errors.Wrapf(err, "invalid --heap-start %q", heapStart)
	}
	sizes, err := blockSizePreset(blockPreset)
	if err != nil {
		return heap.Config{}, err
	}
	return heap.Config{Start: start, Size: heapSize, Strategy: s, BlockSizes: sizes}, nil
}

func blockSizePreset(name string) (*alloc.BlockSizeConfig, error) {
	switch strings.ToLower(name) {
	case "default", "":
		return &alloc.ConfigDefault, nil
	case "compact":
		return &alloc.ConfigCompact, nil
	case "page":
		return &alloc.ConfigPage, nil
	}
	return nil, errors.Newf("unknown block size preset %q (want default, compact, page)", name)
}

// bootMachine boots a machine with the flag configuration. The caller
// closes it.
func bootMachine() (*boot.Machine, error) {
	cfg, err := heapConfig()
	if err != nil {
		return nil, err
	}
	printVerbose("Booting: heap %s, %s bytes, strategy %s\n",
		cfg.Region(), numbers.Sprintf("%d", cfg.Size), cfg.Strategy)

	m, err := boot.New(boot.Options{Heap: cfg, PhysicalMemory: ramSize})
	if err != nil {
		if m != nil {
			_ = m.Close()
		}
		return nil, err
	}
	return m, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
