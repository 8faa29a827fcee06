package db

import (
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/papan-digital/minbar/internal/model"
)

func (s *pgStore) GetSponsorshipByID(id string) (*model.SponsorshipBoost, error) {
	var sp model.SponsorshipBoost
	query := `
	SELECT id, sponsor_name, type, amount, priority_multiplier,
	frequency_per_hour, active_from, active_until, created_at
	FROM sponsorships
	WHERE id = $1;
	`
	err := s.db.Get(&sp, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		log.Error().Err(err).Str("sponsorship", id).Msg("failed to get sponsorship")
		return nil, err
	}
	return &sp, nil
}
