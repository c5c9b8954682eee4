package postgres

import (
	"database/sql"

	"github.com/pitchlens/match-engine/internal/domain/tactical"
)

type tacticalTableModel struct {
	DocID            string         `db:"id"`
	MatchID          string         `db:"match_id"`
	VideoID          sql.NullString `db:"video_id"`
	Version          string         `db:"version"`
	MergedFromHalves bool           `db:"merged_from_halves"`
	Payload          string         `db:"payload"`
}

type tacticalDoc struct {
	MatchID          string                          `json:"match_id"`
	VideoID          string                          `json:"video_id,omitempty"`
	Version          string                          `json:"version"`
	Overall          formationTimelineDoc            `json:"overall"`
	Phases           map[string]formationTimelineDoc `json:"phases,omitempty"`
	HalfComparison   *halfComparisonDoc              `json:"half_comparison,omitempty"`
	MergedFromHalves bool                            `json:"merged_from_halves"`
}

type formationTimelineDoc struct {
	States               []formationStateDoc  `json:"states,omitempty"`
	Changes              []formationChangeDoc `json:"changes,omitempty"`
	DominantFormation    string               `json:"dominant_formation"`
	FormationVariability float64              `json:"formation_variability"`
}

type formationStateDoc struct {
	Formation  string  `json:"formation"`
	Timestamp  float64 `json:"timestamp"`
	Confidence float64 `json:"confidence"`
	Phase      string  `json:"phase,omitempty"`
}

type formationChangeDoc struct {
	FromFormation string  `json:"from_formation"`
	ToFormation   string  `json:"to_formation"`
	Timestamp     float64 `json:"timestamp"`
	Trigger       string  `json:"trigger,omitempty"`
	Confidence    float64 `json:"confidence"`
}

type halfComparisonDoc struct {
	FirstHalfDominant     string  `json:"first_half_dominant"`
	SecondHalfDominant    string  `json:"second_half_dominant"`
	FormationChanged      bool    `json:"formation_changed"`
	FirstHalfVariability  float64 `json:"first_half_variability"`
	SecondHalfVariability float64 `json:"second_half_variability"`
}

func timelineToDoc(t tactical.FormationTimeline) formationTimelineDoc {
	doc := formationTimelineDoc{
		DominantFormation:    t.DominantFormation,
		FormationVariability: t.FormationVariability,
	}
	for _, s := range t.States {
		doc.States = append(doc.States, formationStateDoc{
			Formation:  s.Formation,
			Timestamp:  s.Timestamp,
			Confidence: s.Confidence,
			Phase:      string(s.Phase),
		})
	}
	for _, c := range t.Changes {
		doc.Changes = append(doc.Changes, formationChangeDoc{
			FromFormation: c.FromFormation,
			ToFormation:   c.ToFormation,
			Timestamp:     c.Timestamp,
			Trigger:       c.Trigger,
			Confidence:    c.Confidence,
		})
	}
	return doc
}

func (d formationTimelineDoc) toDomain() tactical.FormationTimeline {
	t := tactical.FormationTimeline{
		DominantFormation:    d.DominantFormation,
		FormationVariability: d.FormationVariability,
	}
	for _, s := range d.States {
		t.States = append(t.States, tactical.FormationState{
			Formation:  s.Formation,
			Timestamp:  s.Timestamp,
			Confidence: s.Confidence,
			Phase:      tactical.Phase(s.Phase),
		})
	}
	for _, c := range d.Changes {
		t.Changes = append(t.Changes, tactical.FormationChange{
			FromFormation: c.FromFormation,
			ToFormation:   c.ToFormation,
			Timestamp:     c.Timestamp,
			Trigger:       c.Trigger,
			Confidence:    c.Confidence,
		})
	}
	return t
}

func tacticalToDoc(a tactical.Analysis) tacticalDoc {
	doc := tacticalDoc{
		MatchID:          a.MatchID,
		VideoID:          a.VideoID,
		Version:          a.Version,
		Overall:          timelineToDoc(a.Overall),
		MergedFromHalves: a.MergedFromHalves,
	}
	if len(a.Phases) > 0 {
		doc.Phases = make(map[string]formationTimelineDoc, len(a.Phases))
		for phase, timeline := range a.Phases {
			doc.Phases[string(phase)] = timelineToDoc(timeline)
		}
	}
	if a.HalfComparison != nil {
		doc.HalfComparison = &halfComparisonDoc{
			FirstHalfDominant:     a.HalfComparison.FirstHalfDominant,
			SecondHalfDominant:    a.HalfComparison.SecondHalfDominant,
			FormationChanged:      a.HalfComparison.FormationChanged,
			FirstHalfVariability:  a.HalfComparison.FirstHalfVariability,
			SecondHalfVariability: a.HalfComparison.SecondHalfVariability,
		}
	}
	return doc
}

func (d tacticalDoc) toDomain() tactical.Analysis {
	a := tactical.Analysis{
		MatchID:          d.MatchID,
		VideoID:          d.VideoID,
		Version:          d.Version,
		Overall:          d.Overall.toDomain(),
		MergedFromHalves: d.MergedFromHalves,
	}
	if len(d.Phases) > 0 {
		a.Phases = make(map[tactical.Phase]tactical.FormationTimeline, len(d.Phases))
		for phase, timeline := range d.Phases {
			a.Phases[tactical.Phase(phase)] = timeline.toDomain()
		}
	}
	if d.HalfComparison != nil {
		a.HalfComparison = &tactical.HalfComparison{
			FirstHalfDominant:     d.HalfComparison.FirstHalfDominant,
			SecondHalfDominant:    d.HalfComparison.SecondHalfDominant,
			FormationChanged:      d.HalfComparison.FormationChanged,
			FirstHalfVariability:  d.HalfComparison.FirstHalfVariability,
			SecondHalfVariability: d.HalfComparison.SecondHalfVariability,
		}
	}
	return a
}

func tacticalRowModel(docID string, a tactical.Analysis) (tacticalTableModel, error) {
	payload, err := marshalPayload(tacticalToDoc(a))
	if err != nil {
		return tacticalTableModel{}, err
	}

	return tacticalTableModel{
		DocID:            docID,
		MatchID:          a.MatchID,
		VideoID:          optionalString(a.VideoID),
		Version:          a.Version,
		MergedFromHalves: a.MergedFromHalves,
		Payload:          payload,
	}, nil
}
