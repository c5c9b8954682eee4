package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/pitchlens/match-engine/internal/domain/stat"
	"github.com/pitchlens/match-engine/internal/platform/logging"
)

// mergeStats combines both halves' stat records into match-level
// records. Grouping is by (calculator, player-or-match, team-or-none).
// Count metrics sum, rate metrics average; the per-half inputs are kept
// in metadata for auditing. A group seen in only one half passes
// through unchanged apart from the merged tag.
func mergeStats(ctx context.Context, matchID, version string, firstHalf, secondHalf []stat.Record, logger *logging.Logger) ([]stat.Record, error) {
	groups := make(map[stat.Key][]stat.Record, len(firstHalf)+len(secondHalf))
	order := make([]stat.Key, 0, len(firstHalf)+len(secondHalf))
	for _, r := range append(append([]stat.Record{}, firstHalf...), secondHalf...) {
		key := r.Key()
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].CalculatorID != order[j].CalculatorID {
			return order[i].CalculatorID < order[j].CalculatorID
		}
		if order[i].PlayerID != order[j].PlayerID {
			return order[i].PlayerID < order[j].PlayerID
		}
		return order[i].TeamID < order[j].TeamID
	})

	out := make([]stat.Record, 0, len(order))
	for _, key := range order {
		members := groups[key]
		if len(members) > 2 {
			logger.WarnContext(ctx, "stat group has more than two contributions, folding sequentially",
				"match_id", matchID,
				"calculator_id", key.CalculatorID,
				"player_id", key.PlayerID,
				"team_id", key.TeamID,
				"contributions", len(members),
			)
		}

		merged := members[0]
		for _, next := range members[1:] {
			var err error
			merged, err = mergeStatPair(merged, next)
			if err != nil {
				return nil, err
			}
		}

		merged.ID = fmt.Sprintf("%s_%s_%s_%s_%s", matchID, key.CalculatorID, key.PlayerID, key.TeamID, version)
		merged.MatchID = matchID
		merged.VideoID = ""
		merged.Version = version
		merged.MergedFromHalves = true
		out = append(out, merged)
	}
	return out, nil
}

func mergeStatPair(a, b stat.Record) (stat.Record, error) {
	if a.CalculatorID != b.CalculatorID {
		return stat.Record{}, fmt.Errorf("%w: cannot merge stats with different calculators %q and %q",
			ErrDataIntegrity, a.CalculatorID, b.CalculatorID)
	}
	if a.PlayerID != b.PlayerID || a.TeamID != b.TeamID {
		return stat.Record{}, fmt.Errorf("%w: cannot merge stats for calculator %q with mismatched scope (player %q/%q, team %q/%q)",
			ErrDataIntegrity, a.CalculatorID, a.PlayerID, b.PlayerID, a.TeamID, b.TeamID)
	}

	merged := a
	switch stat.ClassifyCalculator(a.CalculatorID) {
	case stat.AggregationSum:
		merged.Value = a.Value + b.Value
	default:
		merged.Value = (a.Value + b.Value) / 2
	}

	metadata := make(map[string]any, len(a.Metadata)+2)
	for k, v := range a.Metadata {
		metadata[k] = v
	}
	metadata["firstHalfValue"] = a.Value
	metadata["secondHalfValue"] = b.Value
	merged.Metadata = metadata
	return merged, nil
}
