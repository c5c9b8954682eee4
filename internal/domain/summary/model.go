package summary

type Narrative struct {
	FirstHalf  string
	SecondHalf string
	Overall    string
}

type KeyMoment struct {
	Timestamp   float64
	Description string
	Importance  float64
	ClipID      string
}

type PlayerHighlight struct {
	PlayerID    string
	PlayerName  string
	Description string
}

type Score struct {
	Home int
	Away int
}

type Summary struct {
	MatchID          string
	VideoID          string
	Version          string
	Headline         string
	Narrative        Narrative
	KeyMoments       []KeyMoment
	PlayerHighlights []PlayerHighlight
	Score            *Score
	MVP              string
	Tags             []string
	MergedFromHalves bool
}
