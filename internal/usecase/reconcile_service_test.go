package usecase

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/pitchlens/match-engine/internal/domain/clip"
	"github.com/pitchlens/match-engine/internal/domain/event"
	"github.com/pitchlens/match-engine/internal/domain/stat"
	"github.com/pitchlens/match-engine/internal/domain/store"
	"github.com/pitchlens/match-engine/internal/domain/summary"
	"github.com/pitchlens/match-engine/internal/domain/tactical"
	"github.com/pitchlens/match-engine/internal/domain/video"
	"github.com/pitchlens/match-engine/internal/infrastructure/repository/memory"
	"github.com/pitchlens/match-engine/internal/platform/logging"
)

func fptr(v float64) *float64 {
	return &v
}

type reconcileFixture struct {
	videos   *memory.VideoRepository
	events   *memory.EventRepository
	clips    *memory.ClipRepository
	stats    *memory.StatRepository
	tactical *memory.TacticalRepository
	summary  *memory.SummaryRepository
	writer   *memory.BatchWriter
}

func newReconcileFixture() *reconcileFixture {
	videos := memory.NewVideoRepository(
		[]video.Video{
			{ID: "vid-1", MatchID: "match-1", Kind: video.KindFirstHalf, ActiveVersion: "v1", DurationSec: 2700},
			{ID: "vid-2", MatchID: "match-1", Kind: video.KindSecondHalf, ActiveVersion: "v1", DurationSec: 2800},
		},
		[]video.Match{{ID: "match-1", AnalysisStatus: video.StatusProcessing}},
	)

	events := memory.NewEventRepository([]event.Event{
		{
			ID: "pass-1", MatchID: "match-1", VideoID: "vid-1", Type: event.TypePass, Team: event.TeamHome,
			Confidence: 0.9, Version: "v1", Timestamp: fptr(100),
			Pass: &event.PassDetail{KickerID: "player-7", Outcome: event.PassOutcomeComplete},
		},
		{
			ID: "pass-2", MatchID: "match-1", VideoID: "vid-2", Type: event.TypePass, Team: event.TeamHome,
			Confidence: 0.8, Version: "v1", Timestamp: fptr(10),
			Pass: &event.PassDetail{KickerID: "player-9", Outcome: event.PassOutcomeComplete},
		},
		{
			ID: "carry-1", MatchID: "match-1", VideoID: "vid-2", Type: event.TypeCarry, Team: event.TeamAway,
			Confidence: 0.7, Version: "v1", StartTime: fptr(5), EndTime: fptr(9), StartFrame: intptr(125), EndFrame: intptr(225),
			Carry: &event.CarryDetail{PlayerID: "player-4", DistanceMeters: 12},
		},
		{
			ID: "shot-1", MatchID: "match-1", VideoID: "vid-1", Type: event.TypeShot, Team: event.TeamHome,
			Confidence: 0.95, Version: "v1", Timestamp: fptr(120),
			Shot: &event.ShotDetail{PlayerID: "player-10", Result: event.ShotResultGoal, OnTarget: true},
		},
	})

	clips := memory.NewClipRepository([]clip.Clip{
		{ID: "clip-1", MatchID: "match-1", VideoID: "vid-1", Version: "v1", StartTime: 30, EndTime: 40, Reason: clip.ReasonMotionPeak},
		{ID: "clip-2", MatchID: "match-1", VideoID: "vid-2", Version: "v1", StartTime: 10, EndTime: 20, Reason: clip.ReasonAudioPeak},
	})

	stats := memory.NewStatRepository([]stat.Record{
		{ID: "st-1", MatchID: "match-1", VideoID: "vid-1", CalculatorID: "pass_count", TeamID: "home", Version: "v1", Value: 10},
		{ID: "st-2", MatchID: "match-1", VideoID: "vid-2", CalculatorID: "pass_count", TeamID: "home", Version: "v1", Value: 7},
		{ID: "st-3", MatchID: "match-1", VideoID: "vid-1", CalculatorID: "possession_percentage", TeamID: "home", Version: "v1", Value: 60},
		{ID: "st-4", MatchID: "match-1", VideoID: "vid-2", CalculatorID: "possession_percentage", TeamID: "home", Version: "v1", Value: 40},
	})

	tacticalRepo := memory.NewTacticalRepository([]tactical.Analysis{
		{
			MatchID: "match-1", VideoID: "vid-1", Version: "v1",
			Overall: tactical.FormationTimeline{
				States:               []tactical.FormationState{{Formation: "4-3-3", Timestamp: 100, Confidence: 0.8}},
				DominantFormation:    "4-3-3",
				FormationVariability: 0.2,
			},
		},
		{
			MatchID: "match-1", VideoID: "vid-2", Version: "v1",
			Overall: tactical.FormationTimeline{
				States:               []tactical.FormationState{{Formation: "4-4-2", Timestamp: 50, Confidence: 0.7}},
				DominantFormation:    "4-4-2",
				FormationVariability: 0.4,
			},
		},
	})

	summaryRepo := memory.NewSummaryRepository([]summary.Summary{
		{
			MatchID: "match-1", VideoID: "vid-1", Version: "v1",
			Headline:   "Tense opening half",
			Narrative:  summary.Narrative{FirstHalf: "The home side dominated early."},
			KeyMoments: []summary.KeyMoment{{Timestamp: 120, Description: "Opening goal", Importance: 0.9}},
			Tags:       []string{"goal"},
		},
		{
			MatchID: "match-1", VideoID: "vid-2", Version: "v1",
			Headline:   "Home side holds on",
			Narrative:  summary.Narrative{SecondHalf: "The away side pushed but found no equalizer."},
			KeyMoments: []summary.KeyMoment{{Timestamp: 300, Description: "Double save", Importance: 0.8}},
			Score:      &summary.Score{Home: 1, Away: 0},
			Tags:       []string{"comeback-attempt", "goal"},
		},
	})

	return &reconcileFixture{
		videos:   videos,
		events:   events,
		clips:    clips,
		stats:    stats,
		tactical: tacticalRepo,
		summary:  summaryRepo,
		writer:   memory.NewBatchWriter(),
	}
}

func (f *reconcileFixture) service() *ReconcileService {
	return NewReconcileService(f.videos, f.events, f.clips, f.stats, f.tactical, f.summary, f.writer, logging.NewNop())
}

func intptr(v int) *int {
	return &v
}

func TestMergeHalves_CombinesBothHalves(t *testing.T) {
	fx := newReconcileFixture()
	svc := fx.service()

	result, err := svc.MergeHalves(t.Context(), MergeInput{MatchID: "match-1", HalfDurationSec: 2700})
	if err != nil {
		t.Fatalf("merge halves: %v", err)
	}

	if result.Version != "v1" {
		t.Fatalf("expected version v1, got %q", result.Version)
	}
	if got := result.EventCounts[event.TypePass]; got != 2 {
		t.Fatalf("expected 2 merged passes, got %d", got)
	}
	if got := result.EventCounts[event.TypeCarry]; got != 1 {
		t.Fatalf("expected 1 merged carry, got %d", got)
	}
	if result.ClipCount != 2 {
		t.Fatalf("expected 2 merged clips, got %d", result.ClipCount)
	}
	if result.StatCount != 2 {
		t.Fatalf("expected 2 merged stats, got %d", result.StatCount)
	}
	if !result.TacticalMerged || !result.SummaryMerged {
		t.Fatalf("expected tactical and summary merged, got %v/%v", result.TacticalMerged, result.SummaryMerged)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", result.Warnings)
	}
}

func TestMergeHalves_ShiftsSecondHalfTimes(t *testing.T) {
	fx := newReconcileFixture()
	svc := fx.service()

	if _, err := svc.MergeHalves(t.Context(), MergeInput{MatchID: "match-1", HalfDurationSec: 2700}); err != nil {
		t.Fatalf("merge halves: %v", err)
	}

	doc, ok := fx.writer.Doc(store.CollectionPassEvents, "match-1_merged_pass-2")
	if !ok {
		t.Fatalf("merged second-half pass not written")
	}
	pass := doc.(event.Event)
	if pass.Timestamp == nil || *pass.Timestamp != 2710 {
		t.Fatalf("expected second-half pass shifted to 2710, got %v", pass.Timestamp)
	}
	if !pass.MergedFromHalves {
		t.Fatalf("merged pass not tagged as merged")
	}

	doc, ok = fx.writer.Doc(store.CollectionCarryEvents, "match-1_merged_carry-1")
	if !ok {
		t.Fatalf("merged carry not written")
	}
	carry := doc.(event.Event)
	if carry.StartTime == nil || *carry.StartTime != 2705 {
		t.Fatalf("expected carry start shifted to 2705, got %v", carry.StartTime)
	}
	if carry.StartFrame == nil || *carry.StartFrame != 125 {
		t.Fatalf("frame numbers must not be shifted, got %v", carry.StartFrame)
	}

	doc, ok = fx.writer.Doc(store.CollectionPassEvents, "match-1_merged_pass-1")
	if !ok {
		t.Fatalf("merged first-half pass not written")
	}
	first := doc.(event.Event)
	if first.Timestamp == nil || *first.Timestamp != 100 {
		t.Fatalf("first-half pass must keep its time, got %v", first.Timestamp)
	}

	doc, ok = fx.writer.Doc(store.CollectionClips, "match-1_merged_clip-2")
	if !ok {
		t.Fatalf("merged second-half clip not written")
	}
	merged := doc.(clip.Clip)
	if merged.StartTime != 2710 || merged.EndTime != 2720 {
		t.Fatalf("expected clip range [2710, 2720], got [%v, %v]", merged.StartTime, merged.EndTime)
	}
}

func TestMergeHalves_MergesStatsByAggregation(t *testing.T) {
	fx := newReconcileFixture()
	svc := fx.service()

	if _, err := svc.MergeHalves(t.Context(), MergeInput{MatchID: "match-1", HalfDurationSec: 2700}); err != nil {
		t.Fatalf("merge halves: %v", err)
	}

	doc, ok := fx.writer.Doc(store.CollectionStats, "match-1_pass_count_match_home_v1")
	if !ok {
		t.Fatalf("merged pass_count stat not written")
	}
	count := doc.(stat.Record)
	if count.Value != 17 {
		t.Fatalf("expected pass_count 10+7=17, got %v", count.Value)
	}
	if count.Metadata["firstHalfValue"] != float64(10) || count.Metadata["secondHalfValue"] != float64(7) {
		t.Fatalf("per-half inputs missing from metadata: %v", count.Metadata)
	}

	doc, ok = fx.writer.Doc(store.CollectionStats, "match-1_possession_percentage_match_home_v1")
	if !ok {
		t.Fatalf("merged possession stat not written")
	}
	possession := doc.(stat.Record)
	if possession.Value != 50 {
		t.Fatalf("expected possession averaged to 50, got %v", possession.Value)
	}
	if possession.VideoID != "" || !possession.MergedFromHalves {
		t.Fatalf("merged stat must be match scoped, got videoID=%q merged=%v", possession.VideoID, possession.MergedFromHalves)
	}
}

func TestMergeHalves_WritesTacticalAndSummary(t *testing.T) {
	fx := newReconcileFixture()
	svc := fx.service()

	if _, err := svc.MergeHalves(t.Context(), MergeInput{MatchID: "match-1", HalfDurationSec: 2700}); err != nil {
		t.Fatalf("merge halves: %v", err)
	}

	doc, ok := fx.writer.Doc(store.CollectionTactical, "match-1_current")
	if !ok {
		t.Fatalf("merged tactical analysis not written")
	}
	analysis := doc.(tactical.Analysis)
	if len(analysis.Overall.States) != 2 {
		t.Fatalf("expected 2 formation states, got %d", len(analysis.Overall.States))
	}
	if analysis.Overall.States[1].Timestamp != 2750 {
		t.Fatalf("expected second-half state shifted to 2750, got %v", analysis.Overall.States[1].Timestamp)
	}
	if analysis.Overall.DominantFormation != "4-4-2" {
		t.Fatalf("expected second-half dominant formation to win, got %q", analysis.Overall.DominantFormation)
	}
	if analysis.HalfComparison == nil || !analysis.HalfComparison.FormationChanged {
		t.Fatalf("expected half comparison with formation change, got %+v", analysis.HalfComparison)
	}

	doc, ok = fx.writer.Doc(store.CollectionSummary, "match-1_current")
	if !ok {
		t.Fatalf("merged summary not written")
	}
	merged := doc.(summary.Summary)
	if merged.Headline != "Home side holds on" {
		t.Fatalf("expected second-half headline, got %q", merged.Headline)
	}
	if len(merged.KeyMoments) != 2 || merged.KeyMoments[1].Timestamp != 3000 {
		t.Fatalf("expected key moments [120, 3000], got %+v", merged.KeyMoments)
	}
	if merged.Score == nil || merged.Score.Home != 1 {
		t.Fatalf("expected score 1-0, got %+v", merged.Score)
	}
}

func TestMergeHalves_FlipsMatchStatusAfterCommit(t *testing.T) {
	fx := newReconcileFixture()
	svc := fx.service()

	if _, err := svc.MergeHalves(t.Context(), MergeInput{MatchID: "match-1", HalfDurationSec: 2700}); err != nil {
		t.Fatalf("merge halves: %v", err)
	}

	doc, ok := fx.writer.Doc(store.CollectionMatches, "match-1")
	if !ok {
		t.Fatalf("match status document not written")
	}
	match := doc.(video.Match)
	if match.AnalysisStatus != video.StatusDone {
		t.Fatalf("expected status %q, got %q", video.StatusDone, match.AnalysisStatus)
	}
	if match.ActiveVersion != "v1" {
		t.Fatalf("expected active version v1, got %q", match.ActiveVersion)
	}
}

func TestMergeHalves_VersionFallsBackToHalves(t *testing.T) {
	fx := newReconcileFixture()
	svc := fx.service()

	result, err := svc.MergeHalves(t.Context(), MergeInput{MatchID: "match-1", HalfDurationSec: 2700, Version: ""})
	if err != nil {
		t.Fatalf("merge halves: %v", err)
	}
	if result.Version != "v1" {
		t.Fatalf("expected version from first half, got %q", result.Version)
	}
}

func TestMergeHalves_NoVersionAnywhere(t *testing.T) {
	videos := memory.NewVideoRepository(
		[]video.Video{
			{ID: "vid-1", MatchID: "match-2", Kind: video.KindFirstHalf},
			{ID: "vid-2", MatchID: "match-2", Kind: video.KindSecondHalf},
		},
		nil,
	)
	svc := NewReconcileService(videos,
		memory.NewEventRepository(nil),
		memory.NewClipRepository(nil),
		memory.NewStatRepository(nil),
		memory.NewTacticalRepository(nil),
		memory.NewSummaryRepository(nil),
		memory.NewBatchWriter(),
		logging.NewNop(),
	)

	_, err := svc.MergeHalves(t.Context(), MergeInput{MatchID: "match-2", HalfDurationSec: 2700})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMergeHalves_RejectsBadDurations(t *testing.T) {
	fx := newReconcileFixture()
	svc := fx.service()

	for _, duration := range []float64{math.NaN(), math.Inf(1), -1} {
		_, err := svc.MergeHalves(t.Context(), MergeInput{MatchID: "match-1", HalfDurationSec: duration})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("duration %v: expected ErrInvalidInput, got %v", duration, err)
		}
	}
}

func TestMergeHalves_ZeroDurationWarnsWithoutShift(t *testing.T) {
	fx := newReconcileFixture()
	svc := fx.service()

	result, err := svc.MergeHalves(t.Context(), MergeInput{MatchID: "match-1", HalfDurationSec: 0})
	if err != nil {
		t.Fatalf("merge halves: %v", err)
	}
	if !hasWarningContaining(result.Warnings, "half duration is zero") {
		t.Fatalf("expected zero-duration warning, got %v", result.Warnings)
	}

	doc, ok := fx.writer.Doc(store.CollectionPassEvents, "match-1_merged_pass-2")
	if !ok {
		t.Fatalf("merged second-half pass not written")
	}
	pass := doc.(event.Event)
	if pass.Timestamp == nil || *pass.Timestamp != 10 {
		t.Fatalf("expected unshifted timestamp 10, got %v", pass.Timestamp)
	}
}

func TestMergeHalves_SuspiciousDurationWarns(t *testing.T) {
	fx := newReconcileFixture()
	svc := fx.service()

	result, err := svc.MergeHalves(t.Context(), MergeInput{MatchID: "match-1", HalfDurationSec: 9000})
	if err != nil {
		t.Fatalf("merge halves: %v", err)
	}
	if !hasWarningContaining(result.Warnings, "check upstream units") {
		t.Fatalf("expected suspicious-duration warning, got %v", result.Warnings)
	}
}

func TestMergeHalves_MissingTacticalProceedsWithWarning(t *testing.T) {
	fx := newReconcileFixture()
	fx.tactical = memory.NewTacticalRepository(nil)
	svc := fx.service()

	result, err := svc.MergeHalves(t.Context(), MergeInput{MatchID: "match-1", HalfDurationSec: 2700})
	if err != nil {
		t.Fatalf("merge halves: %v", err)
	}
	if result.TacticalMerged {
		t.Fatalf("expected tactical merge skipped")
	}
	if !hasWarningContaining(result.Warnings, "tactical analysis missing") {
		t.Fatalf("expected tactical warning, got %v", result.Warnings)
	}
	if _, ok := fx.writer.Doc(store.CollectionTactical, "match-1_current"); ok {
		t.Fatalf("tactical document must not be written when a half is missing")
	}
	if result.EventCounts[event.TypePass] != 2 {
		t.Fatalf("event merge must still run, got %d passes", result.EventCounts[event.TypePass])
	}
}

func TestMergeHalves_MissingHalfVideo(t *testing.T) {
	fx := newReconcileFixture()
	fx.videos = memory.NewVideoRepository(
		[]video.Video{{ID: "vid-1", MatchID: "match-1", Kind: video.KindFirstHalf, ActiveVersion: "v1"}},
		nil,
	)
	svc := fx.service()

	_, err := svc.MergeHalves(t.Context(), MergeInput{MatchID: "match-1", HalfDurationSec: 2700})
	if !errors.Is(err, video.ErrHalfMissing) {
		t.Fatalf("expected ErrHalfMissing, got %v", err)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMergeHalves_NonFiniteEventTime(t *testing.T) {
	fx := newReconcileFixture()
	fx.events.Add(event.Event{
		ID: "pass-bad", MatchID: "match-1", VideoID: "vid-2", Type: event.TypePass, Team: event.TeamHome,
		Confidence: 0.9, Version: "v1", Timestamp: fptr(math.NaN()),
	})
	svc := fx.service()

	_, err := svc.MergeHalves(t.Context(), MergeInput{MatchID: "match-1", HalfDurationSec: 2700})
	if !errors.Is(err, ErrDataIntegrity) {
		t.Fatalf("expected ErrDataIntegrity, got %v", err)
	}
}

func TestMergeHalves_BatchFailureLeavesStatusUnwritten(t *testing.T) {
	fx := newReconcileFixture()
	fx.writer.FailOnBatch(0, fmt.Errorf("store unavailable"))
	svc := fx.service()

	_, err := svc.MergeHalves(t.Context(), MergeInput{MatchID: "match-1", HalfDurationSec: 2700})
	if err == nil {
		t.Fatalf("expected batch failure")
	}
	var batchErr *store.BatchError
	if !errors.As(err, &batchErr) {
		t.Fatalf("expected BatchError, got %v", err)
	}
	if batchErr.MatchID != "match-1" || batchErr.BatchIndex != 0 {
		t.Fatalf("unexpected batch error context: %+v", batchErr)
	}
	if _, ok := fx.writer.Doc(store.CollectionMatches, "match-1"); ok {
		t.Fatalf("match status must not flip when a document batch fails")
	}
}

func TestMergeHalves_RerunOverwritesSameDocuments(t *testing.T) {
	fx := newReconcileFixture()
	svc := fx.service()

	first, err := svc.MergeHalves(t.Context(), MergeInput{MatchID: "match-1", HalfDurationSec: 2700})
	if err != nil {
		t.Fatalf("first merge: %v", err)
	}
	passDocs := len(fx.writer.Docs(store.CollectionPassEvents))

	second, err := svc.MergeHalves(t.Context(), MergeInput{MatchID: "match-1", HalfDurationSec: 2700})
	if err != nil {
		t.Fatalf("second merge: %v", err)
	}

	if first.StatCount != second.StatCount || first.ClipCount != second.ClipCount {
		t.Fatalf("rerun changed counts: %+v vs %+v", first, second)
	}
	if got := len(fx.writer.Docs(store.CollectionPassEvents)); got != passDocs {
		t.Fatalf("rerun must overwrite by id, doc count grew from %d to %d", passDocs, got)
	}
}

func TestMergeHalves_KeepsOtherMatchesMergedDocuments(t *testing.T) {
	videos := memory.NewVideoRepository(
		[]video.Video{
			{ID: "vid-1", MatchID: "match-1", Kind: video.KindFirstHalf, ActiveVersion: "v1", DurationSec: 2700},
			{ID: "vid-2", MatchID: "match-1", Kind: video.KindSecondHalf, ActiveVersion: "v1", DurationSec: 2800},
			{ID: "vid-3", MatchID: "match-2", Kind: video.KindFirstHalf, ActiveVersion: "v1", DurationSec: 2700},
			{ID: "vid-4", MatchID: "match-2", Kind: video.KindSecondHalf, ActiveVersion: "v1", DurationSec: 2750},
		},
		nil,
	)
	events := memory.NewEventRepository([]event.Event{
		{ID: "pass-1", MatchID: "match-1", VideoID: "vid-1", Type: event.TypePass, Team: event.TeamHome, Confidence: 0.9, Version: "v1", Timestamp: fptr(100)},
		{ID: "pass-1", MatchID: "match-2", VideoID: "vid-3", Type: event.TypePass, Team: event.TeamAway, Confidence: 0.8, Version: "v1", Timestamp: fptr(200)},
	})
	stats := memory.NewStatRepository([]stat.Record{
		{ID: "st-1", MatchID: "match-1", VideoID: "vid-1", CalculatorID: "pass_count", TeamID: "home", Version: "v1", Value: 10},
		{ID: "st-2", MatchID: "match-2", VideoID: "vid-3", CalculatorID: "pass_count", TeamID: "home", Version: "v1", Value: 4},
	})
	tacticalRepo := memory.NewTacticalRepository([]tactical.Analysis{
		{MatchID: "match-1", VideoID: "vid-1", Version: "v1", Overall: tactical.FormationTimeline{DominantFormation: "4-3-3"}},
		{MatchID: "match-1", VideoID: "vid-2", Version: "v1", Overall: tactical.FormationTimeline{DominantFormation: "4-3-3"}},
		{MatchID: "match-2", VideoID: "vid-3", Version: "v1", Overall: tactical.FormationTimeline{DominantFormation: "3-5-2"}},
		{MatchID: "match-2", VideoID: "vid-4", Version: "v1", Overall: tactical.FormationTimeline{DominantFormation: "3-5-2"}},
	})
	writer := memory.NewBatchWriter()
	svc := NewReconcileService(videos, events,
		memory.NewClipRepository(nil), stats, tacticalRepo,
		memory.NewSummaryRepository(nil), writer, logging.NewNop(),
	)

	if _, err := svc.MergeHalves(t.Context(), MergeInput{MatchID: "match-1", HalfDurationSec: 2700}); err != nil {
		t.Fatalf("merge match-1: %v", err)
	}
	if _, err := svc.MergeHalves(t.Context(), MergeInput{MatchID: "match-2", HalfDurationSec: 2700}); err != nil {
		t.Fatalf("merge match-2: %v", err)
	}

	if got := len(writer.Docs(store.CollectionTactical)); got != 2 {
		t.Fatalf("expected one merged tactical document per match, got %d", got)
	}
	doc, ok := writer.Doc(store.CollectionTactical, "match-1_current")
	if !ok {
		t.Fatalf("match-1 merged tactical lost after reconciling match-2")
	}
	if analysis := doc.(tactical.Analysis); analysis.MatchID != "match-1" {
		t.Fatalf("expected match-1 tactical, got %q", analysis.MatchID)
	}
	if _, ok := writer.Doc(store.CollectionTactical, "match-2_current"); !ok {
		t.Fatalf("match-2 merged tactical not written")
	}

	doc, ok = writer.Doc(store.CollectionStats, "match-1_pass_count_match_home_v1")
	if !ok {
		t.Fatalf("match-1 merged stat lost after reconciling match-2")
	}
	if rec := doc.(stat.Record); rec.Value != 10 {
		t.Fatalf("match-1 stat value changed, got %v", rec.Value)
	}
	doc, ok = writer.Doc(store.CollectionStats, "match-2_pass_count_match_home_v1")
	if !ok {
		t.Fatalf("match-2 merged stat not written")
	}
	if rec := doc.(stat.Record); rec.Value != 4 {
		t.Fatalf("match-2 stat value wrong, got %v", rec.Value)
	}

	if _, ok := writer.Doc(store.CollectionPassEvents, "match-1_merged_pass-1"); !ok {
		t.Fatalf("match-1 merged pass lost after reconciling match-2")
	}
	if _, ok := writer.Doc(store.CollectionPassEvents, "match-2_merged_pass-1"); !ok {
		t.Fatalf("match-2 merged pass not written")
	}
}

func TestMergeHalves_AlreadyReconciledWarns(t *testing.T) {
	fx := newReconcileFixture()
	fx.videos = memory.NewVideoRepository(
		[]video.Video{
			{ID: "vid-1", MatchID: "match-1", Kind: video.KindFirstHalf, ActiveVersion: "v1", DurationSec: 2700},
			{ID: "vid-2", MatchID: "match-1", Kind: video.KindSecondHalf, ActiveVersion: "v1", DurationSec: 2800},
		},
		[]video.Match{{ID: "match-1", AnalysisStatus: video.StatusDone, ActiveVersion: "v1"}},
	)
	svc := fx.service()

	result, err := svc.MergeHalves(t.Context(), MergeInput{MatchID: "match-1", HalfDurationSec: 2700})
	if err != nil {
		t.Fatalf("merge halves: %v", err)
	}
	if !hasWarningContaining(result.Warnings, "already reconciled") {
		t.Fatalf("expected already-reconciled warning, got %v", result.Warnings)
	}
	if _, ok := fx.writer.Doc(store.CollectionPassEvents, "match-1_merged_pass-2"); !ok {
		t.Fatalf("rerun must still overwrite merged documents")
	}
}

func hasWarningContaining(warnings []string, fragment string) bool {
	for _, w := range warnings {
		if strings.Contains(w, fragment) {
			return true
		}
	}
	return false
}
