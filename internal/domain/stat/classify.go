package stat

import "regexp"

type Aggregation string

const (
	AggregationSum     Aggregation = "sum"
	AggregationAverage Aggregation = "average"
)

// Calculator ids follow a snake_case naming convention, so a "whole
// word" is a run of letters delimited by underscores, digits, or the
// string ends. Rate-like words take precedence over count-like words:
// "pass_count_accuracy" averages.
var (
	rateWordPattern  = regexp.MustCompile(`(?i)(^|[^a-z])(accuracy|rate|percentage|ratio|average)([^a-z]|$)`)
	countWordPattern = regexp.MustCompile(`(?i)(^|[^a-z])(count|total|number)([^a-z]|$)`)
	countTailPattern = regexp.MustCompile(`(?i)(goals|shots|passes|tackles|clearances|blocks|fouls|corners|offsides)$`)
)

// ClassifyCalculator decides how two halves of the same statistic
// combine: count metrics sum, everything else averages.
func ClassifyCalculator(calculatorID string) Aggregation {
	if rateWordPattern.MatchString(calculatorID) {
		return AggregationAverage
	}
	if countWordPattern.MatchString(calculatorID) || countTailPattern.MatchString(calculatorID) {
		return AggregationSum
	}
	return AggregationAverage
}
