package postgres

import (
	"database/sql"

	"github.com/pitchlens/match-engine/internal/domain/clip"
	"github.com/pitchlens/match-engine/internal/domain/event"
)

type clipTableModel struct {
	DocID            string         `db:"id"`
	MatchID          string         `db:"match_id"`
	VideoID          sql.NullString `db:"video_id"`
	Version          string         `db:"version"`
	StartTime        float64        `db:"start_time"`
	EndTime          float64        `db:"end_time"`
	Reason           string         `db:"reason"`
	MergedFromHalves bool           `db:"merged_from_halves"`
	Payload          string         `db:"payload"`
}

type clipDoc struct {
	ID               string              `json:"id"`
	MatchID          string              `json:"match_id"`
	VideoID          string              `json:"video_id,omitempty"`
	Version          string              `json:"version"`
	StartTime        float64             `json:"start_time"`
	EndTime          float64             `json:"end_time"`
	Reason           string              `json:"reason"`
	Labels           map[string]any     `json:"labels,omitempty"`
	SourceEvent      *sourceEventRefDoc `json:"source_event,omitempty"`
	MergedFromHalves bool               `json:"merged_from_halves"`
}

type sourceEventRefDoc struct {
	EventID    string  `json:"event_id"`
	EventType  string  `json:"event_type"`
	Timestamp  float64 `json:"timestamp"`
	Confidence float64 `json:"confidence"`
	Team       string  `json:"team"`
}

func clipToDoc(c clip.Clip) clipDoc {
	doc := clipDoc{
		ID:               c.ID,
		MatchID:          c.MatchID,
		VideoID:          c.VideoID,
		Version:          c.Version,
		StartTime:        c.StartTime,
		EndTime:          c.EndTime,
		Reason:           string(c.Reason),
		Labels:           c.Labels,
		MergedFromHalves: c.MergedFromHalves,
	}
	if c.SourceEvent != nil {
		doc.SourceEvent = &sourceEventRefDoc{
			EventID:    c.SourceEvent.EventID,
			EventType:  string(c.SourceEvent.EventType),
			Timestamp:  c.SourceEvent.Timestamp,
			Confidence: c.SourceEvent.Confidence,
			Team:       string(c.SourceEvent.Team),
		}
	}
	return doc
}

func (d clipDoc) toDomain() clip.Clip {
	c := clip.Clip{
		ID:               d.ID,
		MatchID:          d.MatchID,
		VideoID:          d.VideoID,
		Version:          d.Version,
		StartTime:        d.StartTime,
		EndTime:          d.EndTime,
		Reason:           clip.Reason(d.Reason),
		Labels:           d.Labels,
		MergedFromHalves: d.MergedFromHalves,
	}
	if d.SourceEvent != nil {
		c.SourceEvent = &clip.SourceEventRef{
			EventID:    d.SourceEvent.EventID,
			EventType:  event.Type(d.SourceEvent.EventType),
			Timestamp:  d.SourceEvent.Timestamp,
			Confidence: d.SourceEvent.Confidence,
			Team:       event.NormalizeTeam(d.SourceEvent.Team),
		}
	}
	return c
}

func clipRowModel(docID string, c clip.Clip) (clipTableModel, error) {
	payload, err := marshalPayload(clipToDoc(c))
	if err != nil {
		return clipTableModel{}, err
	}

	return clipTableModel{
		DocID:            docID,
		MatchID:          c.MatchID,
		VideoID:          optionalString(c.VideoID),
		Version:          c.Version,
		StartTime:        c.StartTime,
		EndTime:          c.EndTime,
		Reason:           string(c.Reason),
		MergedFromHalves: c.MergedFromHalves,
		Payload:          payload,
	}, nil
}
