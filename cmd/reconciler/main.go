// Command reconciler merges two independently analyzed match halves
// into one match record and runs the post-merge passes (assist
// detection, clip coverage supplement).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagMatches       []string
	flagHalfDuration  float64
	flagVideoDuration float64
	flagVersion       string
	flagWorkers       int
)

var rootCmd = &cobra.Command{
	Use:   "reconciler",
	Short: "Match reconciliation engine",
	Long:  "Merge per-half analysis output (events, clips, stats, tactical, summaries) into match-level records.",
}

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge both halves of each match into one match record",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMatches(cmd.Context(), opMerge)
	},
}

var assistsCmd = &cobra.Command{
	Use:   "assists",
	Short: "Detect assists on merged match events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMatches(cmd.Context(), opAssists)
	},
}

var clipsCmd = &cobra.Command{
	Use:   "clips",
	Short: "Create supplementary clips for uncovered high-priority events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMatches(cmd.Context(), opClips)
	},
}

var fullCmd = &cobra.Command{
	Use:   "full",
	Short: "Merge halves, detect assists, supplement clips and notify the pipeline",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMatches(cmd.Context(), opFull)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&flagMatches, "match", nil, "match id to reconcile (repeatable)")
	rootCmd.PersistentFlags().Float64Var(&flagHalfDuration, "half-duration", 0, "first half duration in seconds (default: the firstHalf video duration)")
	rootCmd.PersistentFlags().Float64Var(&flagVideoDuration, "video-duration", 0, "full match duration in seconds for clip clamping (default: sum of half durations)")
	rootCmd.PersistentFlags().StringVar(&flagVersion, "version", "", "analysis version (default: the halves' active version)")
	rootCmd.PersistentFlags().IntVar(&flagWorkers, "workers", 0, "max matches reconciled concurrently (default: RECONCILE_MAX_WORKERS)")
	_ = rootCmd.MarkPersistentFlagRequired("match")

	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(assistsCmd)
	rootCmd.AddCommand(clipsCmd)
	rootCmd.AddCommand(fullCmd)
}
