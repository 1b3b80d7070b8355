package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/idealloc/analyze"
	"github.com/katalvlaran/idealloc/input"
	"github.com/katalvlaran/idealloc/jobset"
	"github.com/katalvlaran/idealloc/rng"
)

var heuristicInputPath string

// heuristicCmd reports the fallback heuristic's makespan without ever
// invoking the boxing engine, standing in for the original benchmark
// suite's standalone heuristic-only binary.
var heuristicCmd = &cobra.Command{
	Use:   "heuristic <format>",
	Short: "Report the fallback heuristic's makespan, skipping boxing",
	Args:  cobra.ExactArgs(1),
	RunE:  runHeuristic,
}

func init() {
	rootCmd.AddCommand(heuristicCmd)
	heuristicCmd.Flags().StringVarP(&heuristicInputPath, "input", "i", "", "path to the job set file (required)")
	_ = heuristicCmd.MarkFlagRequired("input")
}

func runHeuristic(cmd *cobra.Command, args []string) error {
	format, err := input.ParseFormat(args[0])
	if err != nil {
		return err
	}
	if format == input.TRC {
		return input.ErrTRCUnsupported
	}

	jobs, err := input.ReadFromPath(format, heuristicInputPath, shiftFor(format))
	if err != nil {
		return fmt.Errorf("idealloc: %w", err)
	}

	begin := time.Now()
	load := jobset.Load(jobs)

	var makespan uint64
	switch res := analyze.PreludeAnalysis(jobs, rng.New(0)).(type) {
	case analyze.NoOverlap:
		makespan = uint64(jobset.MaxSize(res.Jobs))
	case analyze.SameSizes:
		makespan = uint64(jobset.MaxSize(res.Jobs)) * uint64(len(jobset.IntervalGraphColoring(res.Jobs)))
	case analyze.NeedsBA:
		makespan = uint64(res.Ctrl.BestOpt)
	}
	elapsed := time.Since(begin)

	frag := (float64(makespan)/float64(load) - 1.0) * 100.0
	cmd.Printf("jobs:          %d\n", len(jobs))
	cmd.Printf("load:          %d bytes\n", load)
	cmd.Printf("heuristic:     %d bytes\n", makespan)
	cmd.Printf("fragmentation: %.2f%%\n", frag)
	cmd.Printf("elapsed:       %s\n", elapsed)

	return nil
}
