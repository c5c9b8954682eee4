package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/pitchlens/match-engine/internal/domain/assist"
	"github.com/pitchlens/match-engine/internal/domain/event"
	"github.com/pitchlens/match-engine/internal/domain/store"
	"github.com/pitchlens/match-engine/internal/platform/logging"
)

const (
	// assistMaxTimeDeltaSec bounds how far before a goal the assisting
	// pass may have been played.
	assistMaxTimeDeltaSec = 5.0
	assistMinConfidence   = 0.5
	// assistProximityBonusMax is the confidence boost for a pass played
	// immediately before the goal, decaying linearly to zero at the
	// window boundary.
	assistProximityBonusMax = 0.1
)

type AssistService struct {
	eventRepo  event.Repository
	assistRepo assist.Repository
	writer     store.BatchWriter
	logger     *logging.Logger
	validate   *validator.Validate
}

type AssistInput struct {
	MatchID string `validate:"required"`
	Version string `validate:"required"`
}

type AssistResult struct {
	MatchID string
	Version string
	Assists []assist.Assist
	// Existing is true when assists for this version were already
	// present and detection was skipped.
	Existing bool
}

func NewAssistService(
	eventRepo event.Repository,
	assistRepo assist.Repository,
	writer store.BatchWriter,
	logger *logging.Logger,
) *AssistService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AssistService{
		eventRepo:  eventRepo,
		assistRepo: assistRepo,
		writer:     writer,
		logger:     logger,
		validate:   validator.New(),
	}
}

// DetectAssists links each goal in the merged event space to the
// completed same-team pass closest in time within the trailing window.
// A goal with no qualifying pass simply records no assist. If assists
// already exist for the version the step is a no-op and the existing
// rows are returned.
func (s *AssistService) DetectAssists(ctx context.Context, input AssistInput) (AssistResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AssistService.DetectAssists")
	defer span.End()

	if err := s.validate.StructCtx(ctx, input); err != nil {
		return AssistResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	result := AssistResult{MatchID: input.MatchID, Version: input.Version}

	existing, err := s.assistRepo.ListByMatch(ctx, input.MatchID, input.Version)
	if err != nil {
		return AssistResult{}, fmt.Errorf("list existing assists match=%s: %w", input.MatchID, err)
	}
	if len(existing) > 0 {
		s.logger.InfoContext(ctx, "assists already detected for version, skipping",
			"match_id", input.MatchID, "version", input.Version, "count", len(existing))
		result.Assists = existing
		result.Existing = true
		return result, nil
	}

	shots, err := s.eventRepo.ListMergedByType(ctx, input.MatchID, event.TypeShot, input.Version)
	if err != nil {
		return AssistResult{}, fmt.Errorf("list shot events match=%s: %w", input.MatchID, err)
	}
	passes, err := s.eventRepo.ListMergedByType(ctx, input.MatchID, event.TypePass, input.Version)
	if err != nil {
		return AssistResult{}, fmt.Errorf("list pass events match=%s: %w", input.MatchID, err)
	}

	goals := make([]event.Event, 0, len(shots))
	for _, shot := range shots {
		if shot.IsGoal() {
			goals = append(goals, shot)
		}
	}
	sort.SliceStable(goals, func(i, j int) bool {
		a, _ := goals[i].EffectiveTimestamp()
		b, _ := goals[j].EffectiveTimestamp()
		return a < b
	})
	sort.SliceStable(passes, func(i, j int) bool {
		a, _ := passes[i].EffectiveTimestamp()
		b, _ := passes[j].EffectiveTimestamp()
		return a < b
	})

	assists := make([]assist.Assist, 0, len(goals))
	ops := make([]store.WriteOp, 0, len(goals))
	for _, goal := range goals {
		linked, ok := linkAssist(input.MatchID, input.Version, goal, passes)
		if !ok {
			continue
		}
		assists = append(assists, linked)
		ops = append(ops, store.WriteOp{Collection: store.CollectionAssists, DocID: linked.ID, Doc: linked})
	}

	if err := s.writer.WriteAll(ctx, input.MatchID, ops); err != nil {
		return AssistResult{}, err
	}

	s.logger.InfoContext(ctx, "assist detection finished",
		"match_id", input.MatchID, "version", input.Version,
		"goals", len(goals), "assists", len(assists))
	result.Assists = assists
	return result, nil
}

// linkAssist selects the candidate pass with the smallest timeDelta.
// The scan is a left fold with a strict comparison, so when two passes
// tie the earlier one in the candidate list wins. Changing this to
// prefer higher confidence would change persisted output.
func linkAssist(matchID, version string, goal event.Event, passes []event.Event) (assist.Assist, bool) {
	goalTS, ok := goal.EffectiveTimestamp()
	if !ok {
		return assist.Assist{}, false
	}

	var best *event.Event
	bestDelta := 0.0
	for i := range passes {
		pass := passes[i]
		if pass.Team != goal.Team {
			continue
		}
		if pass.Confidence < assistMinConfidence {
			continue
		}
		if !pass.IsCompletedPass() {
			continue
		}
		passTS, ok := pass.EffectiveTimestamp()
		if !ok {
			continue
		}
		delta := goalTS - passTS
		if delta <= 0 || delta > assistMaxTimeDeltaSec {
			continue
		}
		if best == nil || delta < bestDelta {
			best = &passes[i]
			bestDelta = delta
		}
	}
	if best == nil {
		return assist.Assist{}, false
	}

	bonus := math.Max(0, 1-bestDelta/assistMaxTimeDeltaSec) * assistProximityBonusMax
	linked := assist.Assist{
		ID:          fmt.Sprintf("%s_assist_%s_%s", matchID, best.ID, goal.ID),
		MatchID:     matchID,
		Version:     version,
		PassEventID: best.ID,
		ShotEventID: goal.ID,
		TimeDelta:   bestDelta,
		Confidence:  math.Min(1, best.Confidence+bonus),
		Team:        goal.Team,
	}
	if best.Pass != nil {
		linked.AssistPlayerID = best.Pass.KickerID
	}
	if goal.Shot != nil {
		linked.ScorerPlayerID = goal.Shot.PlayerID
	}
	return linked, true
}
