package db

import (
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/papan-digital/minbar/internal/model"
)

const contentColumns = `
	id, title, type, url, thumbnail_url, duration, status, sponsorship_amount,
	submitted_by, submitted_at, approved_by, approved_at, approval_notes,
	rejection_reason, valid_until, created_at, updated_at`

func (s *pgStore) CreateContent(item model.ContentItem) (model.ContentItem, error) {
	var c model.ContentItem
	query := `
	INSERT INTO content_items
	(id, title, type, url, thumbnail_url, duration, status, sponsorship_amount,
	 submitted_by, submitted_at, valid_until, created_at, updated_at)
	VALUES
	($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
	RETURNING ` + contentColumns + `;`

	if err := s.db.Get(&c, query,
		item.ID,
		item.Title,
		item.Type,
		item.URL,
		item.ThumbnailURL,
		item.Duration,
		model.ContentStatusPending,
		item.SponsorshipAmount,
		item.SubmittedBy,
		item.SubmittedAt,
		item.ValidUntil,
	); err != nil {
		log.Error().Err(err).Msg("failed to create content item")
		return model.ContentItem{}, err
	}
	return c, nil
}

func (s *pgStore) GetContentByID(id string) (model.ContentItem, error) {
	var c model.ContentItem
	query := `SELECT ` + contentColumns + ` FROM content_items WHERE id = $1;`

	err := s.db.Get(&c, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ContentItem{}, sql.ErrNoRows
	}
	if err != nil {
		log.Error().Err(err).Str("content", id).Msg("failed to get content item")
	}
	return c, err
}

func (s *pgStore) ListContentByStatus(status model.ContentStatus) ([]model.ContentItem, error) {
	var all []model.ContentItem
	query := `SELECT ` + contentColumns + ` FROM content_items WHERE status = $1 ORDER BY submitted_at;`
	if err := s.db.Select(&all, query, status); err != nil {
		log.Error().Err(err).Msg("failed to list content by status")
		return nil, err
	}
	return all, nil
}

func (s *pgStore) ListContentBySubmitter(userID string) ([]model.ContentItem, error) {
	var all []model.ContentItem
	query := `SELECT ` + contentColumns + ` FROM content_items WHERE submitted_by = $1 ORDER BY submitted_at DESC;`
	if err := s.db.Select(&all, query, userID); err != nil {
		log.Error().Err(err).Msg("failed to list content by submitter")
		return nil, err
	}
	return all, nil
}

// UpdateContentStatus writes the outcome of an approval transition with a
// compare-and-set on the previous status. Returns false when the row moved
// out of `from` concurrently, so exactly one of two racing admins wins.
func (s *pgStore) UpdateContentStatus(id string, from model.ContentStatus, item model.ContentItem) (bool, error) {
	query := `
	UPDATE content_items
	SET status = $3,
	approved_by = $4,
	approved_at = $5,
	approval_notes = $6,
	rejection_reason = $7,
	updated_at = now()
	WHERE id = $1 AND status = $2;
	`
	res, err := s.db.Exec(query, id, from,
		item.Status, item.ApprovedBy, item.ApprovedAt, item.ApprovalNotes, item.RejectionReason)
	if err != nil {
		log.Error().Err(err).Str("content", id).Msg("failed to update content status")
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (s *pgStore) ListContentDueToExpire(asOf time.Time) ([]model.ContentItem, error) {
	var all []model.ContentItem
	query := `
	SELECT ` + contentColumns + `
	FROM content_items
	WHERE status = $1 AND valid_until IS NOT NULL AND valid_until < $2;`
	if err := s.db.Select(&all, query, model.ContentStatusActive, asOf); err != nil {
		log.Error().Err(err).Msg("failed to list content due to expire")
		return nil, err
	}
	return all, nil
}
