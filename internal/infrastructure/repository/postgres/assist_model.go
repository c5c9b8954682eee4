package postgres

import (
	"github.com/pitchlens/match-engine/internal/domain/assist"
	"github.com/pitchlens/match-engine/internal/domain/event"
)

type assistTableModel struct {
	DocID   string `db:"id"`
	MatchID string `db:"match_id"`
	Version string `db:"version"`
	Payload string `db:"payload"`
}

type assistDoc struct {
	ID             string  `json:"id"`
	MatchID        string  `json:"match_id"`
	Version        string  `json:"version"`
	PassEventID    string  `json:"pass_event_id"`
	ShotEventID    string  `json:"shot_event_id"`
	TimeDelta      float64 `json:"time_delta"`
	Confidence     float64 `json:"confidence"`
	Team           string  `json:"team"`
	AssistPlayerID string  `json:"assist_player_id,omitempty"`
	ScorerPlayerID string  `json:"scorer_player_id,omitempty"`
}

func assistToDoc(a assist.Assist) assistDoc {
	return assistDoc{
		ID:             a.ID,
		MatchID:        a.MatchID,
		Version:        a.Version,
		PassEventID:    a.PassEventID,
		ShotEventID:    a.ShotEventID,
		TimeDelta:      a.TimeDelta,
		Confidence:     a.Confidence,
		Team:           string(a.Team),
		AssistPlayerID: a.AssistPlayerID,
		ScorerPlayerID: a.ScorerPlayerID,
	}
}

func (d assistDoc) toDomain() assist.Assist {
	return assist.Assist{
		ID:             d.ID,
		MatchID:        d.MatchID,
		Version:        d.Version,
		PassEventID:    d.PassEventID,
		ShotEventID:    d.ShotEventID,
		TimeDelta:      d.TimeDelta,
		Confidence:     d.Confidence,
		Team:           event.NormalizeTeam(d.Team),
		AssistPlayerID: d.AssistPlayerID,
		ScorerPlayerID: d.ScorerPlayerID,
	}
}

func assistRowModel(docID string, a assist.Assist) (assistTableModel, error) {
	payload, err := marshalPayload(assistToDoc(a))
	if err != nil {
		return assistTableModel{}, err
	}

	return assistTableModel{
		DocID:   docID,
		MatchID: a.MatchID,
		Version: a.Version,
		Payload: payload,
	}, nil
}
