package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/pitchlens/match-engine/internal/domain/clip"
	"github.com/pitchlens/match-engine/internal/domain/event"
	"github.com/pitchlens/match-engine/internal/domain/store"
	"github.com/pitchlens/match-engine/internal/platform/logging"
)

const (
	// supplementMinConfidence filters which shots and set pieces count
	// as high-priority moments worth a clip.
	supplementMinConfidence = 0.5
	// supplementToleranceSec widens existing clip ranges when testing
	// whether an event is already covered.
	supplementToleranceSec = 5.0
	supplementLeadSec      = 5.0
	supplementTrailSec     = 3.0
	// maxSupplementaryClips caps new clips per run. Cost control, not
	// correctness: the lowest-confidence excess is dropped.
	maxSupplementaryClips = 20
)

type ClipService struct {
	eventRepo event.Repository
	clipRepo  clip.Repository
	writer    store.BatchWriter
	logger    *logging.Logger
	validate  *validator.Validate
}

type SupplementInput struct {
	MatchID string `validate:"required"`
	Version string `validate:"required"`
	// VideoDurationSec clamps clip windows when known; zero means the
	// duration is unknown and only the lower bound is clamped.
	VideoDurationSec float64 `validate:"min=0"`
}

type SupplementResult struct {
	MatchID string
	Version string
	// Skipped is true when a supplementary clip already existed for
	// this version and the run did nothing.
	Skipped        bool
	HighPriority   int
	Uncovered      int
	CreatedClipIDs []string
}

func NewClipService(
	eventRepo event.Repository,
	clipRepo clip.Repository,
	writer store.BatchWriter,
	logger *logging.Logger,
) *ClipService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ClipService{
		eventRepo: eventRepo,
		clipRepo:  clipRepo,
		writer:    writer,
		logger:    logger,
		validate:  validator.New(),
	}
}

// SupplementClips finds high-priority events with no highlight-clip
// coverage and persists clip metadata windows for them. Actual frame
// extraction consumes this metadata downstream.
func (s *ClipService) SupplementClips(ctx context.Context, input SupplementInput) (SupplementResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClipService.SupplementClips")
	defer span.End()

	if err := s.validate.StructCtx(ctx, input); err != nil {
		return SupplementResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if math.IsNaN(input.VideoDurationSec) || math.IsInf(input.VideoDurationSec, 0) {
		return SupplementResult{}, fmt.Errorf("%w: video duration must be a finite number", ErrInvalidInput)
	}
	result := SupplementResult{MatchID: input.MatchID, Version: input.Version}

	clips, err := s.clipRepo.ListByMatch(ctx, input.MatchID, input.Version)
	if err != nil {
		return SupplementResult{}, fmt.Errorf("list clips match=%s: %w", input.MatchID, err)
	}
	for _, c := range clips {
		if c.Reason == clip.ReasonEventSupplement {
			s.logger.InfoContext(ctx, "supplementary clips already exist for version, skipping",
				"match_id", input.MatchID, "version", input.Version)
			result.Skipped = true
			return result, nil
		}
	}

	shots, err := s.eventRepo.ListMergedByType(ctx, input.MatchID, event.TypeShot, input.Version)
	if err != nil {
		return SupplementResult{}, fmt.Errorf("list shot events match=%s: %w", input.MatchID, err)
	}
	setPieces, err := s.eventRepo.ListMergedByType(ctx, input.MatchID, event.TypeSetPiece, input.Version)
	if err != nil {
		return SupplementResult{}, fmt.Errorf("list set piece events match=%s: %w", input.MatchID, err)
	}

	highPriority := make([]event.Event, 0, len(shots)+len(setPieces))
	for _, ev := range append(append([]event.Event{}, shots...), setPieces...) {
		if ev.Confidence >= supplementMinConfidence {
			highPriority = append(highPriority, ev)
		}
	}
	result.HighPriority = len(highPriority)

	uncovered := make([]event.Event, 0, len(highPriority))
	for _, ev := range highPriority {
		ts, ok := ev.EffectiveTimestamp()
		if !ok {
			continue
		}
		covered := false
		for _, c := range clips {
			if c.Covers(ts, supplementToleranceSec) {
				covered = true
				break
			}
		}
		if !covered {
			uncovered = append(uncovered, ev)
		}
	}
	result.Uncovered = len(uncovered)

	sort.SliceStable(uncovered, func(i, j int) bool {
		return uncovered[i].Confidence > uncovered[j].Confidence
	})
	if len(uncovered) > maxSupplementaryClips {
		s.logger.WarnContext(ctx, "uncovered events exceed supplementary clip cap, dropping lowest-confidence excess",
			"match_id", input.MatchID, "uncovered", len(uncovered), "cap", maxSupplementaryClips)
		uncovered = uncovered[:maxSupplementaryClips]
	}

	ops := make([]store.WriteOp, 0, len(uncovered))
	for _, ev := range uncovered {
		ts, _ := ev.EffectiveTimestamp()
		start := math.Max(0, ts-supplementLeadSec)
		end := ts + supplementTrailSec
		if input.VideoDurationSec > 0 {
			end = math.Min(input.VideoDurationSec, end)
		}
		if start >= end {
			continue
		}
		newClip := clip.Clip{
			ID:        fmt.Sprintf("%s_supplement_%s", input.MatchID, ev.ID),
			MatchID:   input.MatchID,
			Version:   input.Version,
			StartTime: start,
			EndTime:   end,
			Reason:    clip.ReasonEventSupplement,
			SourceEvent: &clip.SourceEventRef{
				EventID:    ev.ID,
				EventType:  ev.Type,
				Timestamp:  ts,
				Confidence: ev.Confidence,
				Team:       ev.Team,
			},
		}
		ops = append(ops, store.WriteOp{Collection: store.CollectionClips, DocID: newClip.ID, Doc: newClip})
		result.CreatedClipIDs = append(result.CreatedClipIDs, newClip.ID)
	}

	if err := s.writer.WriteAll(ctx, input.MatchID, ops); err != nil {
		return SupplementResult{}, err
	}

	s.logger.InfoContext(ctx, "clip coverage supplement finished",
		"match_id", input.MatchID, "version", input.Version,
		"high_priority", result.HighPriority,
		"uncovered", result.Uncovered,
		"created", len(result.CreatedClipIDs))
	return result, nil
}
