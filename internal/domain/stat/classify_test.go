package stat

import "testing"

func TestClassifyCalculator(t *testing.T) {
	cases := []struct {
		calculatorID string
		want         Aggregation
	}{
		{"pass_count", AggregationSum},
		{"total_distance", AggregationSum},
		{"shot_number", AggregationSum},
		{"team_goals", AggregationSum},
		{"completed_passes", AggregationSum},
		{"defensive_clearances", AggregationSum},
		{"pass_accuracy", AggregationAverage},
		{"possession_percentage", AggregationAverage},
		{"turnover_rate", AggregationAverage},
		{"duel_win_ratio", AggregationAverage},
		{"average_speed", AggregationAverage},
		// Rate-like words outrank count-like words.
		{"pass_count_accuracy", AggregationAverage},
		// Whole words only: "discount" does not contain a count word.
		{"discount", AggregationAverage},
		// Unknown calculators default to averaging.
		{"expected_goals_model", AggregationAverage},
		{"xg", AggregationAverage},
	}

	for _, tc := range cases {
		if got := ClassifyCalculator(tc.calculatorID); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.calculatorID, tc.want, got)
		}
	}
}

func TestRecordKey(t *testing.T) {
	player := Record{CalculatorID: "pass_count", PlayerID: "player-7"}
	if key := player.Key(); key.PlayerID != "player-7" || key.TeamID != "none" {
		t.Fatalf("unexpected player key %+v", key)
	}

	team := Record{CalculatorID: "pass_count", TeamID: "home"}
	if key := team.Key(); key.PlayerID != "match" || key.TeamID != "home" {
		t.Fatalf("unexpected team key %+v", key)
	}

	match := Record{CalculatorID: "pass_count"}
	if key := match.Key(); key.PlayerID != "match" || key.TeamID != "none" {
		t.Fatalf("unexpected match key %+v", key)
	}
}

func TestRecordSameScope(t *testing.T) {
	a := Record{CalculatorID: "pass_count", PlayerID: "player-7"}
	b := Record{CalculatorID: "pass_count", PlayerID: "player-7"}
	if !a.SameScope(b) {
		t.Fatalf("identical scopes must match")
	}

	c := Record{CalculatorID: "pass_count", PlayerID: "player-9"}
	if a.SameScope(c) {
		t.Fatalf("different players must not match")
	}
}
