package postgres

import "github.com/pitchlens/match-engine/internal/domain/video"

type videoTableModel struct {
	ID            string  `db:"id"`
	MatchID       string  `db:"match_id"`
	Kind          string  `db:"kind"`
	ActiveVersion string  `db:"active_version"`
	DurationSec   float64 `db:"duration_sec"`
}

func (m videoTableModel) toDomain() video.Video {
	return video.Video{
		ID:            m.ID,
		MatchID:       m.MatchID,
		Kind:          video.Kind(m.Kind),
		ActiveVersion: m.ActiveVersion,
		DurationSec:   m.DurationSec,
	}
}

type matchTableModel struct {
	ID             string `db:"id"`
	AnalysisStatus string `db:"analysis_status"`
	ActiveVersion  string `db:"active_version"`
}

func (m matchTableModel) toDomain() video.Match {
	return video.Match{
		ID:             m.ID,
		AnalysisStatus: m.AnalysisStatus,
		ActiveVersion:  m.ActiveVersion,
	}
}

func matchRowModel(m video.Match) matchTableModel {
	return matchTableModel{
		ID:             m.ID,
		AnalysisStatus: m.AnalysisStatus,
		ActiveVersion:  m.ActiveVersion,
	}
}
