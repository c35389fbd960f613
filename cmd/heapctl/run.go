package main

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/joshuapare/kheap/heap/workload"
)

func init() {
	rootCmd.AddCommand(newRunCmd())
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [workload...]",
		Short: "Run allocation workloads against a fresh heap",
		Long: `The run command boots a fresh machine for each workload, runs it, and
checks its result. With no arguments every workload runs.

Workloads: simple-box, large-vec, many-boxes, long-lived, single-array

Example:
  heapctl run
  heapctl run large-vec --strategy bump
  heapctl run single-array --heap-size 4096 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkloads(args)
		},
	}
	return cmd
}

type runResult struct {
	workload.Result
	Strategy string        `json:"strategy"`
	Elapsed  time.Duration `json:"elapsed_ns"`
	Error    string        `json:"error,omitempty"`
}

func runWorkloads(args []string) error {
	names := args
	if len(names) == 0 {
		names = workload.Names()
	}

	var results []runResult
	var failed int
	for _, name := range names {
		fn, ok := workload.Lookup(name)
		if !ok {
			return errors.Newf("unknown workload %q (have %v)", name, workload.Names())
		}
		res, err := runOne(name, fn)
		if err != nil {
			failed++
			res.Error = err.Error()
		}
		results = append(results, res)
	}

	if jsonOut {
		if err := printJSON(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Error != "" {
				printInfo("FAIL  %-13s %s\n", r.Name, r.Error)
				continue
			}
			printInfo("ok    %-13s ops=%s value=%s (%s, %v)\n",
				r.Name, numbers.Sprintf("%d", r.Ops), numbers.Sprintf("%d", r.Value), r.Strategy, r.Elapsed)
		}
	}

	if failed > 0 {
		return errors.Newf("%d of %d workloads failed", failed, len(results))
	}
	return nil
}

func runOne(name string, fn workload.Func) (runResult, error) {
	out := runResult{Result: workload.Result{Name: name}}

	m, err := bootMachine()
	if err != nil {
		return out, err
	}
	defer m.Close()
	out.Strategy = m.Heap.Config().Strategy.String()

	printVerbose("Running %s\n", name)
	start := time.Now()
	res, err := fn(m.Heap)
	out.Elapsed = time.Since(start)
	if err != nil {
		return out, err
	}
	out.Result = res
	return out, nil
}
