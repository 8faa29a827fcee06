package db

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/papan-digital/minbar/internal/model"
)

// AppendImpression inserts one display report. The unique index on
// (assignment_id, shown_at) makes retried reports collapse; returns false
// when the report was already recorded.
func (s *pgStore) AppendImpression(imp model.Impression) (bool, error) {
	query := `
	INSERT INTO impressions (assignment_id, display_id, shown_at, actual_duration, reported_at)
	VALUES ($1, $2, $3, $4, now())
	ON CONFLICT (assignment_id, shown_at) DO NOTHING;
	`
	res, err := s.db.Exec(query, imp.AssignmentID, imp.DisplayID, imp.ShownAt, imp.ActualDuration)
	if err != nil {
		log.Error().Err(err).Str("assignment", imp.AssignmentID).Msg("failed to append impression")
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

// LedgerForDisplay derives the trailing-window frequency ledger straight from
// the impressions log. Counters are never kept separately, so the cap checks
// cannot drift from what was actually shown.
func (s *pgStore) LedgerForDisplay(displayID string, since, until time.Time) (model.FrequencyLedger, error) {
	rows := []struct {
		AssignmentID string    `db:"assignment_id"`
		Shown        int       `db:"shown"`
		LastShown    time.Time `db:"last_shown"`
	}{}

	// Counts cover only [since, until]; last_shown reaches back a full day
	// because min-interval rules can span up to 24 hours.
	query := `
	SELECT assignment_id,
	count(*) FILTER (WHERE shown_at > $2) AS shown,
	max(shown_at) AS last_shown
	FROM impressions
	WHERE display_id = $1 AND shown_at <= $3 AND shown_at > $3 - interval '24 hours'
	GROUP BY assignment_id;
	`
	if err := s.db.Select(&rows, query, displayID, since, until); err != nil {
		log.Error().Err(err).Str("display", displayID).Msg("failed to build frequency ledger")
		return model.FrequencyLedger{}, err
	}

	ledger := model.EmptyLedger()
	for _, r := range rows {
		ledger.Counts[r.AssignmentID] = r.Shown
		ledger.LastShown[r.AssignmentID] = r.LastShown
	}
	return ledger, nil
}
