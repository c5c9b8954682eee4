package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/panjf2000/ants/v2"

	"github.com/pitchlens/match-engine/external/pipelinehook"
	"github.com/pitchlens/match-engine/internal/app"
	"github.com/pitchlens/match-engine/internal/config"
	"github.com/pitchlens/match-engine/internal/observability"
	"github.com/pitchlens/match-engine/internal/platform/id"
	"github.com/pitchlens/match-engine/internal/platform/logging"
	"github.com/pitchlens/match-engine/internal/usecase"
)

type operation string

const (
	opMerge   operation = "merge"
	opAssists operation = "assists"
	opClips   operation = "clips"
	opFull    operation = "full"
)

type matchOutcome struct {
	MatchID    string
	Status     string
	Events     int
	Clips      int
	Stats      int
	Assists    int
	Warnings   []string
	DurationMs int64
	Err        error

	tacticalMerged bool
	summaryMerged  bool
}

func runMatches(ctx context.Context, op operation) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	if runID, idErr := id.NewRandomGenerator().NewID(); idErr == nil {
		logger = logger.With("run_id", runID)
	}
	logging.SetDefault(logger)
	defer func() {
		_ = logger.Sync()
	}()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return fmt.Errorf("init uptrace: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Error("shutdown tracing", "error", err)
		}
	}()

	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return fmt.Errorf("init pyroscope: %w", err)
	}
	defer func() {
		if err := stopProfiler(); err != nil {
			logger.Error("stop profiler", "error", err)
		}
	}()

	pprofSrv, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("start pprof server: %w", err)
	}
	defer func() {
		if err := observability.StopPprofServer(pprofSrv, logger, 5*time.Second); err != nil {
			logger.Error("stop pprof server", "error", err)
		}
	}()

	engine, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := engine.Close(); err != nil {
			logger.Error("close document store", "error", err)
		}
	}()

	workers := flagWorkers
	if workers <= 0 {
		workers = cfg.ReconcileMaxWorkers
	}
	if workers > len(flagMatches) {
		workers = len(flagMatches)
	}
	if workers < 1 {
		workers = 1
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan matchOutcome, len(flagMatches))
	var wg sync.WaitGroup
	for _, matchID := range flagMatches {
		matchID := strings.TrimSpace(matchID)
		if matchID == "" {
			continue
		}
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			results <- runOne(ctx, engine, op, matchID)
		}); err != nil {
			wg.Done()
			return fmt.Errorf("submit match to worker pool: %w", err)
		}
	}

	wg.Wait()
	close(results)

	rows := make([]matchOutcome, 0, len(flagMatches))
	failed := 0
	for row := range results {
		if row.Err != nil {
			failed++
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].MatchID < rows[j].MatchID })

	renderReport(rows)

	if failed > 0 {
		return fmt.Errorf("%d of %d matches failed", failed, len(rows))
	}
	return nil
}

func runOne(ctx context.Context, engine *app.App, op operation, matchID string) matchOutcome {
	start := time.Now()
	out := matchOutcome{MatchID: matchID, Status: "ok"}

	defer func() {
		out.DurationMs = time.Since(start).Milliseconds()
		if out.Err != nil {
			out.Status = "failed"
		}
	}()

	switch op {
	case opMerge:
		out.Err = runMerge(ctx, engine, matchID, &out)
	case opAssists:
		out.Err = runAssists(ctx, engine, matchID, &out)
	case opClips:
		out.Err = runClips(ctx, engine, matchID, &out)
	case opFull:
		out.Err = runFull(ctx, engine, matchID, &out)
	default:
		out.Err = fmt.Errorf("unknown operation %q", op)
	}
	return out
}

func runMerge(ctx context.Context, engine *app.App, matchID string, out *matchOutcome) error {
	halfDuration, _, err := resolveDurations(ctx, engine, matchID)
	if err != nil {
		return err
	}

	result, err := engine.Reconcile.MergeHalves(ctx, usecase.MergeInput{
		MatchID:         matchID,
		HalfDurationSec: halfDuration,
		Version:         flagVersion,
	})
	if err != nil {
		return err
	}

	for _, n := range result.EventCounts {
		out.Events += n
	}
	out.Clips = result.ClipCount
	out.Stats = result.StatCount
	out.Warnings = result.Warnings
	out.tacticalMerged = result.TacticalMerged
	out.summaryMerged = result.SummaryMerged

	// The merge flipped the match status and active version, so drop
	// the cached pre-merge records before any follow-up reads.
	engine.Videos.Invalidate(ctx, matchID)
	return nil
}

func runAssists(ctx context.Context, engine *app.App, matchID string, out *matchOutcome) error {
	version, err := resolveVersion(ctx, engine, matchID)
	if err != nil {
		return err
	}

	result, err := engine.Assists.DetectAssists(ctx, usecase.AssistInput{MatchID: matchID, Version: version})
	if err != nil {
		return err
	}
	out.Assists = len(result.Assists)
	if result.Existing {
		out.Status = "skipped"
	}
	return nil
}

func runClips(ctx context.Context, engine *app.App, matchID string, out *matchOutcome) error {
	version, err := resolveVersion(ctx, engine, matchID)
	if err != nil {
		return err
	}
	_, videoDuration, err := resolveDurations(ctx, engine, matchID)
	if err != nil {
		return err
	}

	result, err := engine.Clips.SupplementClips(ctx, usecase.SupplementInput{
		MatchID:          matchID,
		Version:          version,
		VideoDurationSec: videoDuration,
	})
	if err != nil {
		return err
	}
	out.Clips = len(result.CreatedClipIDs)
	if result.Skipped {
		out.Status = "skipped"
	}
	return nil
}

func runFull(ctx context.Context, engine *app.App, matchID string, out *matchOutcome) error {
	if err := runMerge(ctx, engine, matchID, out); err != nil {
		return err
	}
	if err := runAssists(ctx, engine, matchID, out); err != nil {
		return err
	}

	clipOut := matchOutcome{}
	if err := runClips(ctx, engine, matchID, &clipOut); err != nil {
		return err
	}
	out.Clips += clipOut.Clips

	if engine.Hook == nil {
		return nil
	}
	version, err := resolveVersion(ctx, engine, matchID)
	if err != nil {
		return err
	}
	return engine.Hook.NotifyCompleted(ctx, pipelinehook.Notification{
		MatchID:        matchID,
		Version:        version,
		EventCount:     out.Events,
		ClipCount:      out.Clips,
		StatCount:      out.Stats,
		AssistCount:    out.Assists,
		TacticalMerged: out.tacticalMerged,
		SummaryMerged:  out.summaryMerged,
		Warnings:       out.Warnings,
	})
}

// resolveDurations returns the half offset and full match duration,
// preferring explicit flags over the stored video durations.
func resolveDurations(ctx context.Context, engine *app.App, matchID string) (halfDuration, videoDuration float64, err error) {
	halfDuration = flagHalfDuration
	videoDuration = flagVideoDuration
	if halfDuration > 0 && videoDuration > 0 {
		return halfDuration, videoDuration, nil
	}

	first, second, err := engine.Videos.GetHalves(ctx, matchID)
	if err != nil {
		return 0, 0, err
	}
	if halfDuration <= 0 {
		halfDuration = first.DurationSec
	}
	if videoDuration <= 0 {
		videoDuration = first.DurationSec + second.DurationSec
	}
	return halfDuration, videoDuration, nil
}

func resolveVersion(ctx context.Context, engine *app.App, matchID string) (string, error) {
	if strings.TrimSpace(flagVersion) != "" {
		return strings.TrimSpace(flagVersion), nil
	}

	first, second, err := engine.Videos.GetHalves(ctx, matchID)
	if err != nil {
		return "", err
	}
	if first.ActiveVersion != "" {
		return first.ActiveVersion, nil
	}
	if second.ActiveVersion != "" {
		return second.ActiveVersion, nil
	}
	return "", fmt.Errorf("no analysis version on either half of match %s", matchID)
}

func renderReport(rows []matchOutcome) {
	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("MATCH", "STATUS", "EVENTS", "CLIPS", "STATS", "ASSISTS", "WARNINGS", "MS", "ERROR")

	for _, row := range rows {
		errText := ""
		if row.Err != nil {
			errText = row.Err.Error()
		}
		table.Append(
			row.MatchID,
			row.Status,
			strconv.Itoa(row.Events),
			strconv.Itoa(row.Clips),
			strconv.Itoa(row.Stats),
			strconv.Itoa(row.Assists),
			strings.Join(row.Warnings, "; "),
			strconv.FormatInt(row.DurationMs, 10),
			errText,
		)
	}
	table.Render()
}
