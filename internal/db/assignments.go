package db

import (
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/papan-digital/minbar/internal/model"
)

const assignmentColumns = `
	id, content_id, display_id, title, base_priority, start_date, end_date,
	timezone, rules, targeting, layout, sponsorship_id, is_active,
	last_displayed, display_count, error_count, created_by, created_at, updated_at`

func (s *pgStore) CreateAssignment(a model.Assignment) (model.Assignment, error) {
	var out model.Assignment
	query := `
	INSERT INTO assignments
	(id, content_id, display_id, title, base_priority, start_date, end_date,
	 timezone, rules, targeting, layout, sponsorship_id, is_active, created_by,
	 created_at, updated_at)
	VALUES
	($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now(), now())
	RETURNING ` + assignmentColumns + `;`

	if err := s.db.Get(&out, query,
		a.ID,
		a.ContentID,
		a.DisplayID,
		a.Title,
		a.BasePriority,
		a.StartDate,
		a.EndDate,
		a.Timezone,
		a.Rules,
		a.Targeting,
		a.Layout,
		a.SponsorshipID,
		a.IsActive,
		a.CreatedBy,
	); err != nil {
		log.Error().Err(err).Msg("failed to create assignment")
		return model.Assignment{}, err
	}
	return out, nil
}

func (s *pgStore) GetAssignmentByID(id string) (model.Assignment, error) {
	var a model.Assignment
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = $1;`
	err := s.db.Get(&a, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Assignment{}, sql.ErrNoRows
	}
	if err != nil {
		log.Error().Err(err).Str("assignment", id).Msg("failed to get assignment")
	}
	return a, err
}

func (s *pgStore) UpdateAssignment(a model.Assignment) error {
	query := `
	UPDATE assignments
	SET title = $2,
	base_priority = $3,
	start_date = $4,
	end_date = $5,
	timezone = $6,
	rules = $7,
	targeting = $8,
	layout = $9,
	sponsorship_id = $10,
	is_active = $11,
	updated_at = now()
	WHERE id = $1;
	`
	res, err := s.db.Exec(query, a.ID,
		a.Title, a.BasePriority, a.StartDate, a.EndDate, a.Timezone,
		a.Rules, a.Targeting, a.Layout, a.SponsorshipID, a.IsActive)
	if err != nil {
		log.Error().Err(err).Str("assignment", a.ID).Msg("failed to update assignment")
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *pgStore) SetAssignmentActive(id string, active bool) error {
	res, err := s.db.Exec(`UPDATE assignments SET is_active = $2, updated_at = now() WHERE id = $1;`, id, active)
	if err != nil {
		log.Error().Err(err).Str("assignment", id).Msg("failed to set assignment active flag")
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *pgStore) ListAssignmentsForDisplay(displayID string) ([]model.Assignment, error) {
	var all []model.Assignment
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE display_id = $1 ORDER BY id;`
	if err := s.db.Select(&all, query, displayID); err != nil {
		log.Error().Err(err).Str("display", displayID).Msg("failed to list assignments for display")
		return nil, err
	}
	return all, nil
}

func (s *pgStore) ListAssignmentsForContent(contentID string) ([]model.Assignment, error) {
	var all []model.Assignment
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE content_id = $1 ORDER BY id;`
	if err := s.db.Select(&all, query, contentID); err != nil {
		log.Error().Err(err).Str("content", contentID).Msg("failed to list assignments for content")
		return nil, err
	}
	return all, nil
}

// RecordAssignmentDisplayed bumps the advisory bookkeeping columns after an
// impression is first recorded. The greatest() keeps out-of-order retries
// from moving last_displayed backwards.
func (s *pgStore) RecordAssignmentDisplayed(assignmentID string, shownAt time.Time) error {
	query := `
	UPDATE assignments
	SET last_displayed = greatest(coalesce(last_displayed, $2), $2),
	display_count = display_count + 1,
	updated_at = now()
	WHERE id = $1;
	`
	if _, err := s.db.Exec(query, assignmentID, shownAt); err != nil {
		log.Error().Err(err).Str("assignment", assignmentID).Msg("failed to record display")
		return err
	}
	return nil
}
