package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/sourcegraph/conc/pool"

	"github.com/pitchlens/match-engine/internal/domain/clip"
	"github.com/pitchlens/match-engine/internal/domain/event"
	"github.com/pitchlens/match-engine/internal/domain/stat"
	"github.com/pitchlens/match-engine/internal/domain/store"
	"github.com/pitchlens/match-engine/internal/domain/summary"
	"github.com/pitchlens/match-engine/internal/domain/tactical"
	"github.com/pitchlens/match-engine/internal/domain/video"
	"github.com/pitchlens/match-engine/internal/platform/logging"
	"github.com/pitchlens/match-engine/internal/platform/resilience"
)

// Half durations beyond two hours are almost certainly an upstream
// units mistake, but the merge still proceeds.
const suspiciousHalfDurationSec = 7200

var eventCollections = map[event.Type]store.Collection{
	event.TypePass:     store.CollectionPassEvents,
	event.TypeCarry:    store.CollectionCarryEvents,
	event.TypeTurnover: store.CollectionTurnoverEvents,
	event.TypeShot:     store.CollectionShotEvents,
	event.TypeSetPiece: store.CollectionSetPieceEvents,
}

type ReconcileService struct {
	videoRepo    video.Repository
	eventRepo    event.Repository
	clipRepo     clip.Repository
	statRepo     stat.Repository
	tacticalRepo tactical.Repository
	summaryRepo  summary.Repository
	writer       store.BatchWriter
	logger       *logging.Logger
	validate     *validator.Validate
	mergeFlight  resilience.SingleFlight
}

type MergeInput struct {
	MatchID         string  `validate:"required"`
	HalfDurationSec float64 `validate:"min=0"`
	// Version defaults to the first non-empty activeVersion found on
	// either half.
	Version string
}

type MergeResult struct {
	MatchID        string
	Version        string
	EventCounts    map[event.Type]int
	ClipCount      int
	StatCount      int
	TacticalMerged bool
	SummaryMerged  bool
	Warnings       []string
}

// halfData is everything one half contributes to the merge.
type halfData struct {
	video       video.Video
	events      map[event.Type][]event.Event
	clips       []clip.Clip
	stats       []stat.Record
	tactical    tactical.Analysis
	hasTactical bool
	summary     summary.Summary
	hasSummary  bool
}

func NewReconcileService(
	videoRepo video.Repository,
	eventRepo event.Repository,
	clipRepo clip.Repository,
	statRepo stat.Repository,
	tacticalRepo tactical.Repository,
	summaryRepo summary.Repository,
	writer store.BatchWriter,
	logger *logging.Logger,
) *ReconcileService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ReconcileService{
		videoRepo:    videoRepo,
		eventRepo:    eventRepo,
		clipRepo:     clipRepo,
		statRepo:     statRepo,
		tacticalRepo: tacticalRepo,
		summaryRepo:  summaryRepo,
		writer:       writer,
		logger:       logger,
		validate:     validator.New(),
	}
}

// MergeHalves reconciles two independently analyzed halves into one
// match-level result and flips the match's analysis status to done.
// Concurrent calls for the same match collapse into one merge. The
// whole operation is safe to re-run: merged documents are written by
// id and the merge never reads prior merge output as input.
func (s *ReconcileService) MergeHalves(ctx context.Context, input MergeInput) (MergeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.MergeHalves")
	defer span.End()

	if err := s.validateMergeInput(ctx, input); err != nil {
		return MergeResult{}, err
	}

	value, err, _ := s.mergeFlight.Do("reconcile:"+input.MatchID, func() (any, error) {
		return s.mergeHalvesOnce(ctx, input)
	})
	if err != nil {
		return MergeResult{}, err
	}
	result, ok := value.(MergeResult)
	if !ok {
		return MergeResult{}, fmt.Errorf("unexpected merge result type %T", value)
	}
	return result, nil
}

func (s *ReconcileService) validateMergeInput(ctx context.Context, input MergeInput) error {
	if math.IsNaN(input.HalfDurationSec) || math.IsInf(input.HalfDurationSec, 0) {
		return fmt.Errorf("%w: half duration must be a finite number", ErrInvalidInput)
	}
	if input.HalfDurationSec < 0 {
		return fmt.Errorf("%w: half duration must not be negative, got %v", ErrInvalidInput, input.HalfDurationSec)
	}
	if err := s.validate.StructCtx(ctx, input); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func (s *ReconcileService) mergeHalvesOnce(ctx context.Context, input MergeInput) (MergeResult, error) {
	result := MergeResult{
		MatchID:     input.MatchID,
		EventCounts: make(map[event.Type]int, len(event.Types)),
	}

	if input.HalfDurationSec == 0 {
		result.Warnings = append(result.Warnings, "half duration is zero, second-half times will not be shifted")
		s.logger.WarnContext(ctx, "half duration is zero", "match_id", input.MatchID)
	} else if input.HalfDurationSec > suspiciousHalfDurationSec {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("half duration %.0fs exceeds %ds, check upstream units", input.HalfDurationSec, suspiciousHalfDurationSec))
		s.logger.WarnContext(ctx, "half duration looks suspicious",
			"match_id", input.MatchID, "half_duration_sec", input.HalfDurationSec)
	}

	firstVideo, secondVideo, err := s.videoRepo.GetHalves(ctx, input.MatchID)
	if err != nil {
		if errors.Is(err, video.ErrHalfMissing) {
			return MergeResult{}, fmt.Errorf("%w: match %s: %w", ErrNotFound, input.MatchID, err)
		}
		return MergeResult{}, fmt.Errorf("get half videos match=%s: %w", input.MatchID, err)
	}

	version := input.Version
	if version == "" {
		version = firstVideo.ActiveVersion
	}
	if version == "" {
		version = secondVideo.ActiveVersion
	}
	if version == "" {
		return MergeResult{}, fmt.Errorf("%w: no analysis version on either half of match %s", ErrInvalidInput, input.MatchID)
	}
	result.Version = version

	if match, exists, err := s.videoRepo.GetMatch(ctx, input.MatchID); err != nil {
		return MergeResult{}, fmt.Errorf("get match %s: %w", input.MatchID, err)
	} else if exists && match.AnalysisStatus == video.StatusDone && match.ActiveVersion == version {
		result.Warnings = append(result.Warnings, "match already reconciled for this version, merged documents will be overwritten")
		s.logger.WarnContext(ctx, "re-running merge on a reconciled match",
			"match_id", input.MatchID, "version", version)
	}

	first, err := s.fetchHalf(ctx, input.MatchID, firstVideo, version)
	if err != nil {
		return MergeResult{}, err
	}
	second, err := s.fetchHalf(ctx, input.MatchID, secondVideo, version)
	if err != nil {
		return MergeResult{}, err
	}

	offset := input.HalfDurationSec
	ops := make([]store.WriteOp, 0, 64)

	for _, eventType := range event.Types {
		merged, err := mergeEventSets(input.MatchID, version, first.events[eventType], second.events[eventType], offset)
		if err != nil {
			return MergeResult{}, err
		}
		result.EventCounts[eventType] = len(merged)
		collection := eventCollections[eventType]
		for _, ev := range merged {
			ops = append(ops, store.WriteOp{Collection: collection, DocID: mergedDocID(input.MatchID, ev.ID), Doc: ev})
		}
	}

	mergedClips, err := mergeClipSets(input.MatchID, version, first.clips, second.clips, offset)
	if err != nil {
		return MergeResult{}, err
	}
	result.ClipCount = len(mergedClips)
	for _, c := range mergedClips {
		ops = append(ops, store.WriteOp{Collection: store.CollectionClips, DocID: mergedDocID(input.MatchID, c.ID), Doc: c})
	}

	mergedStats, err := mergeStats(ctx, input.MatchID, version, first.stats, second.stats, s.logger)
	if err != nil {
		return MergeResult{}, err
	}
	result.StatCount = len(mergedStats)
	for _, r := range mergedStats {
		ops = append(ops, store.WriteOp{Collection: store.CollectionStats, DocID: r.ID, Doc: r})
	}

	if first.hasTactical && second.hasTactical {
		mergedTactical := mergeTactical(input.MatchID, version, first.tactical, second.tactical, offset)
		ops = append(ops, store.WriteOp{Collection: store.CollectionTactical, DocID: currentDocID(input.MatchID), Doc: mergedTactical})
		result.TacticalMerged = true
	} else {
		result.Warnings = append(result.Warnings, "tactical analysis missing for at least one half, merge skipped")
		s.logger.WarnContext(ctx, "skipping tactical merge, analysis missing",
			"match_id", input.MatchID,
			"first_half_present", first.hasTactical,
			"second_half_present", second.hasTactical,
		)
	}

	if first.hasSummary && second.hasSummary {
		mergedSummary := mergeSummaries(input.MatchID, version, first.summary, second.summary, offset)
		ops = append(ops, store.WriteOp{Collection: store.CollectionSummary, DocID: currentDocID(input.MatchID), Doc: mergedSummary})
		result.SummaryMerged = true
	} else {
		result.Warnings = append(result.Warnings, "summary missing for at least one half, merge skipped")
		s.logger.WarnContext(ctx, "skipping summary merge, summary missing",
			"match_id", input.MatchID,
			"first_half_present", first.hasSummary,
			"second_half_present", second.hasSummary,
		)
	}

	if err := s.writer.WriteAll(ctx, input.MatchID, ops); err != nil {
		return MergeResult{}, err
	}

	// Status flips only after every merged collection committed.
	matchDoc := video.Match{
		ID:             input.MatchID,
		AnalysisStatus: video.StatusDone,
		ActiveVersion:  version,
	}
	if err := s.writer.WriteAll(ctx, input.MatchID, []store.WriteOp{
		{Collection: store.CollectionMatches, DocID: input.MatchID, Doc: matchDoc},
	}); err != nil {
		return MergeResult{}, err
	}

	s.logger.InfoContext(ctx, "match halves reconciled",
		"match_id", input.MatchID,
		"version", version,
		"events", totalEventCount(result.EventCounts),
		"clips", result.ClipCount,
		"stats", result.StatCount,
		"tactical_merged", result.TacticalMerged,
		"summary_merged", result.SummaryMerged,
	)
	return result, nil
}

// fetchHalf loads every collection one half contributes. The reads have
// no data dependencies, so they run concurrently; the merge waits for
// all of them.
func (s *ReconcileService) fetchHalf(ctx context.Context, matchID string, v video.Video, version string) (halfData, error) {
	data := halfData{
		video:  v,
		events: make(map[event.Type][]event.Event, len(event.Types)),
	}
	var mu sync.Mutex

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	for _, eventType := range event.Types {
		eventType := eventType
		p.Go(func(ctx context.Context) error {
			items, err := s.eventRepo.ListByTypeAndVideo(ctx, matchID, eventType, v.ID, version)
			if err != nil {
				return fmt.Errorf("list %s events video=%s: %w", eventType, v.ID, err)
			}
			mu.Lock()
			data.events[eventType] = items
			mu.Unlock()
			return nil
		})
	}
	p.Go(func(ctx context.Context) error {
		items, err := s.clipRepo.ListByVideo(ctx, matchID, v.ID, version)
		if err != nil {
			return fmt.Errorf("list clips video=%s: %w", v.ID, err)
		}
		mu.Lock()
		data.clips = items
		mu.Unlock()
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.statRepo.ListByVideo(ctx, matchID, v.ID, version)
		if err != nil {
			return fmt.Errorf("list stats video=%s: %w", v.ID, err)
		}
		mu.Lock()
		data.stats = items
		mu.Unlock()
		return nil
	})
	p.Go(func(ctx context.Context) error {
		analysis, exists, err := s.tacticalRepo.GetByVideo(ctx, matchID, v.ID, version)
		if err != nil {
			return fmt.Errorf("get tactical analysis video=%s: %w", v.ID, err)
		}
		mu.Lock()
		data.tactical = analysis
		data.hasTactical = exists
		mu.Unlock()
		return nil
	})
	p.Go(func(ctx context.Context) error {
		item, exists, err := s.summaryRepo.GetByVideo(ctx, matchID, v.ID, version)
		if err != nil {
			return fmt.Errorf("get summary video=%s: %w", v.ID, err)
		}
		mu.Lock()
		data.summary = item
		data.hasSummary = exists
		mu.Unlock()
		return nil
	})

	if err := p.Wait(); err != nil {
		return halfData{}, err
	}
	return data, nil
}

// mergeEventSets shifts second-half events to match time and
// concatenates. The halves come from disjoint videos, so the union
// never deduplicates.
func mergeEventSets(matchID, version string, firstHalf, secondHalf []event.Event, offset float64) ([]event.Event, error) {
	out := make([]event.Event, 0, len(firstHalf)+len(secondHalf))
	for _, ev := range firstHalf {
		if !ev.HasFiniteTimes() {
			return nil, fmt.Errorf("%w: event %s has a non-finite time field", ErrDataIntegrity, ev.ID)
		}
		ev.MatchID = matchID
		ev.Version = version
		ev.MergedFromHalves = true
		out = append(out, ev)
	}
	for _, ev := range secondHalf {
		shifted, err := shiftEvent(ev, offset)
		if err != nil {
			return nil, err
		}
		shifted.MatchID = matchID
		shifted.Version = version
		shifted.MergedFromHalves = true
		out = append(out, shifted)
	}
	return out, nil
}

func mergeClipSets(matchID, version string, firstHalf, secondHalf []clip.Clip, offset float64) ([]clip.Clip, error) {
	out := make([]clip.Clip, 0, len(firstHalf)+len(secondHalf))
	for _, c := range firstHalf {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDataIntegrity, err)
		}
		c.MatchID = matchID
		c.Version = version
		c.MergedFromHalves = true
		out = append(out, c)
	}
	for _, c := range secondHalf {
		shifted, err := shiftClip(c, offset)
		if err != nil {
			return nil, err
		}
		shifted.MatchID = matchID
		shifted.Version = version
		shifted.MergedFromHalves = true
		out = append(out, shifted)
	}
	return out, nil
}

// mergedDocID namespaces match-level documents so they never overwrite
// the per-half source rows they derive from. Document IDs are global
// keys in the store and source IDs are only unique within one match
// and version, so the match ID is part of the name.
func mergedDocID(matchID, sourceID string) string {
	return matchID + "_merged_" + sourceID
}

// currentDocID names the single merged tactical or summary document of
// a match.
func currentDocID(matchID string) string {
	return matchID + "_current"
}

func totalEventCount(counts map[event.Type]int) int {
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}
