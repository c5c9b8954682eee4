package postgres

import (
	"database/sql"

	"github.com/pitchlens/match-engine/internal/domain/event"
)

type eventTableModel struct {
	DocID            string          `db:"id"`
	MatchID          string          `db:"match_id"`
	VideoID          sql.NullString  `db:"video_id"`
	EventType        string          `db:"event_type"`
	Version          string          `db:"version"`
	Team             string          `db:"team"`
	Confidence       float64         `db:"confidence"`
	Timestamp        sql.NullFloat64 `db:"event_timestamp"`
	MergedFromHalves bool            `db:"merged_from_halves"`
	Payload          string          `db:"payload"`
}

type eventDoc struct {
	ID               string   `json:"id"`
	MatchID          string   `json:"match_id"`
	VideoID          string   `json:"video_id,omitempty"`
	Type             string   `json:"type"`
	Team             string   `json:"team"`
	Confidence       float64  `json:"confidence"`
	Version          string   `json:"version"`
	Timestamp        *float64 `json:"timestamp,omitempty"`
	StartTime        *float64 `json:"start_time,omitempty"`
	EndTime          *float64 `json:"end_time,omitempty"`
	FrameNumber      *int     `json:"frame_number,omitempty"`
	StartFrame       *int     `json:"start_frame,omitempty"`
	EndFrame         *int     `json:"end_frame,omitempty"`
	MergedFromHalves bool     `json:"merged_from_halves"`

	Pass     *passDetailDoc     `json:"pass,omitempty"`
	Carry    *carryDetailDoc    `json:"carry,omitempty"`
	Turnover *turnoverDetailDoc `json:"turnover,omitempty"`
	Shot     *shotDetailDoc     `json:"shot,omitempty"`
	SetPiece *setPieceDetailDoc `json:"set_piece,omitempty"`
}

type passDetailDoc struct {
	KickerID   string `json:"kicker_id,omitempty"`
	ReceiverID string `json:"receiver_id,omitempty"`
	Outcome    string `json:"outcome,omitempty"`
}

type carryDetailDoc struct {
	PlayerID       string  `json:"player_id,omitempty"`
	DistanceMeters float64 `json:"distance_meters"`
}

type turnoverDetailDoc struct {
	LosingPlayerID  string `json:"losing_player_id,omitempty"`
	GainingPlayerID string `json:"gaining_player_id,omitempty"`
}

type shotDetailDoc struct {
	PlayerID string `json:"player_id,omitempty"`
	Result   string `json:"result,omitempty"`
	OnTarget bool   `json:"on_target"`
}

type setPieceDetailDoc struct {
	Kind    string `json:"kind,omitempty"`
	TakerID string `json:"taker_id,omitempty"`
}

func eventToDoc(ev event.Event) eventDoc {
	doc := eventDoc{
		ID:               ev.ID,
		MatchID:          ev.MatchID,
		VideoID:          ev.VideoID,
		Type:             string(ev.Type),
		Team:             string(ev.Team),
		Confidence:       ev.Confidence,
		Version:          ev.Version,
		Timestamp:        ev.Timestamp,
		StartTime:        ev.StartTime,
		EndTime:          ev.EndTime,
		FrameNumber:      ev.FrameNumber,
		StartFrame:       ev.StartFrame,
		EndFrame:         ev.EndFrame,
		MergedFromHalves: ev.MergedFromHalves,
	}
	if ev.Pass != nil {
		doc.Pass = &passDetailDoc{KickerID: ev.Pass.KickerID, ReceiverID: ev.Pass.ReceiverID, Outcome: ev.Pass.Outcome}
	}
	if ev.Carry != nil {
		doc.Carry = &carryDetailDoc{PlayerID: ev.Carry.PlayerID, DistanceMeters: ev.Carry.DistanceMeters}
	}
	if ev.Turnover != nil {
		doc.Turnover = &turnoverDetailDoc{LosingPlayerID: ev.Turnover.LosingPlayerID, GainingPlayerID: ev.Turnover.GainingPlayerID}
	}
	if ev.Shot != nil {
		doc.Shot = &shotDetailDoc{PlayerID: ev.Shot.PlayerID, Result: ev.Shot.Result, OnTarget: ev.Shot.OnTarget}
	}
	if ev.SetPiece != nil {
		doc.SetPiece = &setPieceDetailDoc{Kind: ev.SetPiece.Kind, TakerID: ev.SetPiece.TakerID}
	}
	return doc
}

func (d eventDoc) toDomain() event.Event {
	ev := event.Event{
		ID:               d.ID,
		MatchID:          d.MatchID,
		VideoID:          d.VideoID,
		Type:             event.Type(d.Type),
		Team:             event.NormalizeTeam(d.Team),
		Confidence:       d.Confidence,
		Version:          d.Version,
		Timestamp:        d.Timestamp,
		StartTime:        d.StartTime,
		EndTime:          d.EndTime,
		FrameNumber:      d.FrameNumber,
		StartFrame:       d.StartFrame,
		EndFrame:         d.EndFrame,
		MergedFromHalves: d.MergedFromHalves,
	}
	if d.Pass != nil {
		ev.Pass = &event.PassDetail{KickerID: d.Pass.KickerID, ReceiverID: d.Pass.ReceiverID, Outcome: d.Pass.Outcome}
	}
	if d.Carry != nil {
		ev.Carry = &event.CarryDetail{PlayerID: d.Carry.PlayerID, DistanceMeters: d.Carry.DistanceMeters}
	}
	if d.Turnover != nil {
		ev.Turnover = &event.TurnoverDetail{LosingPlayerID: d.Turnover.LosingPlayerID, GainingPlayerID: d.Turnover.GainingPlayerID}
	}
	if d.Shot != nil {
		ev.Shot = &event.ShotDetail{PlayerID: d.Shot.PlayerID, Result: d.Shot.Result, OnTarget: d.Shot.OnTarget}
	}
	if d.SetPiece != nil {
		ev.SetPiece = &event.SetPieceDetail{Kind: d.SetPiece.Kind, TakerID: d.SetPiece.TakerID}
	}
	return ev
}

func eventRowModel(docID string, ev event.Event) (eventTableModel, error) {
	payload, err := marshalPayload(eventToDoc(ev))
	if err != nil {
		return eventTableModel{}, err
	}

	model := eventTableModel{
		DocID:            docID,
		MatchID:          ev.MatchID,
		VideoID:          optionalString(ev.VideoID),
		EventType:        string(ev.Type),
		Version:          ev.Version,
		Team:             string(ev.Team),
		Confidence:       ev.Confidence,
		MergedFromHalves: ev.MergedFromHalves,
		Payload:          payload,
	}
	if ts, ok := ev.EffectiveTimestamp(); ok {
		model.Timestamp = sql.NullFloat64{Float64: ts, Valid: true}
	}
	return model, nil
}
