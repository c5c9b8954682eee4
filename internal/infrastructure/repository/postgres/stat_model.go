package postgres

import (
	"database/sql"

	"github.com/pitchlens/match-engine/internal/domain/stat"
)

type statTableModel struct {
	DocID            string         `db:"id"`
	MatchID          string         `db:"match_id"`
	VideoID          sql.NullString `db:"video_id"`
	Version          string         `db:"version"`
	CalculatorID     string         `db:"calculator_id"`
	PlayerID         sql.NullString `db:"player_id"`
	TeamID           sql.NullString `db:"team_id"`
	Value            float64        `db:"value"`
	MergedFromHalves bool           `db:"merged_from_halves"`
	Payload          string         `db:"payload"`
}

type statDoc struct {
	ID               string         `json:"id"`
	MatchID          string         `json:"match_id"`
	VideoID          string         `json:"video_id,omitempty"`
	CalculatorID     string         `json:"calculator_id"`
	PlayerID         string         `json:"player_id,omitempty"`
	TeamID           string         `json:"team_id,omitempty"`
	Version          string         `json:"version"`
	Value            float64        `json:"value"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	MergedFromHalves bool           `json:"merged_from_halves"`
}

func statToDoc(r stat.Record) statDoc {
	return statDoc{
		ID:               r.ID,
		MatchID:          r.MatchID,
		VideoID:          r.VideoID,
		CalculatorID:     r.CalculatorID,
		PlayerID:         r.PlayerID,
		TeamID:           r.TeamID,
		Version:          r.Version,
		Value:            r.Value,
		Metadata:         r.Metadata,
		MergedFromHalves: r.MergedFromHalves,
	}
}

func (d statDoc) toDomain() stat.Record {
	return stat.Record{
		ID:               d.ID,
		MatchID:          d.MatchID,
		VideoID:          d.VideoID,
		CalculatorID:     d.CalculatorID,
		PlayerID:         d.PlayerID,
		TeamID:           d.TeamID,
		Version:          d.Version,
		Value:            d.Value,
		Metadata:         d.Metadata,
		MergedFromHalves: d.MergedFromHalves,
	}
}

func statRowModel(docID string, rec stat.Record) (statTableModel, error) {
	payload, err := marshalPayload(statToDoc(rec))
	if err != nil {
		return statTableModel{}, err
	}

	return statTableModel{
		DocID:            docID,
		MatchID:          rec.MatchID,
		VideoID:          optionalString(rec.VideoID),
		Version:          rec.Version,
		CalculatorID:     rec.CalculatorID,
		PlayerID:         optionalString(rec.PlayerID),
		TeamID:           optionalString(rec.TeamID),
		Value:            rec.Value,
		MergedFromHalves: rec.MergedFromHalves,
		Payload:          payload,
	}, nil
}
