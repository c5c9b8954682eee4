package video

import "strings"

type Kind string

const (
	KindFirstHalf  Kind = "firstHalf"
	KindSecondHalf Kind = "secondHalf"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusDone       = "done"
	StatusFailed     = "failed"
)

// Video is one analyzed half recording of a match.
type Video struct {
	ID            string
	MatchID       string
	Kind          Kind
	ActiveVersion string
	DurationSec   float64
}

// Match carries the match-level analysis state that reconciliation
// flips to done on success.
type Match struct {
	ID             string
	AnalysisStatus string
	ActiveVersion  string
}

func NormalizeKind(value string) (Kind, bool) {
	switch strings.TrimSpace(value) {
	case string(KindFirstHalf), "first_half":
		return KindFirstHalf, true
	case string(KindSecondHalf), "second_half":
		return KindSecondHalf, true
	default:
		return "", false
	}
}
