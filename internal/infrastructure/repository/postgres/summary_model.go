package postgres

import (
	"database/sql"

	"github.com/pitchlens/match-engine/internal/domain/summary"
)

type summaryTableModel struct {
	DocID            string         `db:"id"`
	MatchID          string         `db:"match_id"`
	VideoID          sql.NullString `db:"video_id"`
	Version          string         `db:"version"`
	MergedFromHalves bool           `db:"merged_from_halves"`
	Payload          string         `db:"payload"`
}

type summaryDoc struct {
	MatchID          string               `json:"match_id"`
	VideoID          string               `json:"video_id,omitempty"`
	Version          string               `json:"version"`
	Headline         string               `json:"headline,omitempty"`
	Narrative        narrativeDoc         `json:"narrative"`
	KeyMoments       []keyMomentDoc       `json:"key_moments,omitempty"`
	PlayerHighlights []playerHighlightDoc `json:"player_highlights,omitempty"`
	Score            *scoreDoc            `json:"score,omitempty"`
	MVP              string               `json:"mvp,omitempty"`
	Tags             []string             `json:"tags,omitempty"`
	MergedFromHalves bool                 `json:"merged_from_halves"`
}

type narrativeDoc struct {
	FirstHalf  string `json:"first_half,omitempty"`
	SecondHalf string `json:"second_half,omitempty"`
	Overall    string `json:"overall,omitempty"`
}

type keyMomentDoc struct {
	Timestamp   float64 `json:"timestamp"`
	Description string  `json:"description"`
	Importance  float64 `json:"importance"`
	ClipID      string  `json:"clip_id,omitempty"`
}

type playerHighlightDoc struct {
	PlayerID    string `json:"player_id"`
	PlayerName  string `json:"player_name,omitempty"`
	Description string `json:"description,omitempty"`
}

type scoreDoc struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

func summaryToDoc(s summary.Summary) summaryDoc {
	doc := summaryDoc{
		MatchID: s.MatchID,
		VideoID: s.VideoID,
		Version: s.Version,
		Headline: s.Headline,
		Narrative: narrativeDoc{
			FirstHalf:  s.Narrative.FirstHalf,
			SecondHalf: s.Narrative.SecondHalf,
			Overall:    s.Narrative.Overall,
		},
		MVP:              s.MVP,
		Tags:             s.Tags,
		MergedFromHalves: s.MergedFromHalves,
	}
	for _, m := range s.KeyMoments {
		doc.KeyMoments = append(doc.KeyMoments, keyMomentDoc{
			Timestamp:   m.Timestamp,
			Description: m.Description,
			Importance:  m.Importance,
			ClipID:      m.ClipID,
		})
	}
	for _, h := range s.PlayerHighlights {
		doc.PlayerHighlights = append(doc.PlayerHighlights, playerHighlightDoc{
			PlayerID:    h.PlayerID,
			PlayerName:  h.PlayerName,
			Description: h.Description,
		})
	}
	if s.Score != nil {
		doc.Score = &scoreDoc{Home: s.Score.Home, Away: s.Score.Away}
	}
	return doc
}

func (d summaryDoc) toDomain() summary.Summary {
	s := summary.Summary{
		MatchID:  d.MatchID,
		VideoID:  d.VideoID,
		Version:  d.Version,
		Headline: d.Headline,
		Narrative: summary.Narrative{
			FirstHalf:  d.Narrative.FirstHalf,
			SecondHalf: d.Narrative.SecondHalf,
			Overall:    d.Narrative.Overall,
		},
		MVP:              d.MVP,
		Tags:             d.Tags,
		MergedFromHalves: d.MergedFromHalves,
	}
	for _, m := range d.KeyMoments {
		s.KeyMoments = append(s.KeyMoments, summary.KeyMoment{
			Timestamp:   m.Timestamp,
			Description: m.Description,
			Importance:  m.Importance,
			ClipID:      m.ClipID,
		})
	}
	for _, h := range d.PlayerHighlights {
		s.PlayerHighlights = append(s.PlayerHighlights, summary.PlayerHighlight{
			PlayerID:    h.PlayerID,
			PlayerName:  h.PlayerName,
			Description: h.Description,
		})
	}
	if d.Score != nil {
		s.Score = &summary.Score{Home: d.Score.Home, Away: d.Score.Away}
	}
	return s
}

func summaryRowModel(docID string, s summary.Summary) (summaryTableModel, error) {
	payload, err := marshalPayload(summaryToDoc(s))
	if err != nil {
		return summaryTableModel{}, err
	}

	return summaryTableModel{
		DocID:            docID,
		MatchID:          s.MatchID,
		VideoID:          optionalString(s.VideoID),
		Version:          s.Version,
		MergedFromHalves: s.MergedFromHalves,
		Payload:          payload,
	}, nil
}
