package tactical

type Phase string

const (
	PhaseAttacking  Phase = "attacking"
	PhaseDefending  Phase = "defending"
	PhaseTransition Phase = "transition"
	PhaseSetPiece   Phase = "set_piece"
)

// Phases lists phase timelines in merge order.
var Phases = []Phase{PhaseAttacking, PhaseDefending, PhaseTransition, PhaseSetPiece}

const DefaultFormation = "4-4-2"

type FormationState struct {
	Formation  string
	Timestamp  float64
	Confidence float64
	Phase      Phase
}

type FormationChange struct {
	FromFormation string
	ToFormation   string
	Timestamp     float64
	Trigger       string
	Confidence    float64
}

// FormationTimeline is the chronological record of a team's shape.
// FormationVariability is 0 for a static side and grows with switching.
type FormationTimeline struct {
	States               []FormationState
	Changes              []FormationChange
	DominantFormation    string
	FormationVariability float64
}

// HalfComparison summarizes how the tactical picture differed between
// halves of a merged analysis.
type HalfComparison struct {
	FirstHalfDominant     string
	SecondHalfDominant    string
	FormationChanged      bool
	FirstHalfVariability  float64
	SecondHalfVariability float64
}

type Analysis struct {
	MatchID          string
	VideoID          string
	Version          string
	Overall          FormationTimeline
	Phases           map[Phase]FormationTimeline
	HalfComparison   *HalfComparison
	MergedFromHalves bool
}
