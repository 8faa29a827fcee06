package db

import (
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/papan-digital/minbar/internal/model"
)

const displayColumns = `
	id, name, location, prayer_zone, language, zone, tags, carousel_interval,
	max_content_items, auto_refresh_minutes, respect_priority, duration_driven,
	paired, created_at, updated_at`

func (s *pgStore) CreateDisplay(d model.Display) (model.Display, error) {
	var out model.Display
	query := `
	INSERT INTO displays
	(id, name, location, prayer_zone, language, zone, tags, carousel_interval,
	 max_content_items, auto_refresh_minutes, respect_priority, duration_driven,
	 paired, created_at, updated_at)
	VALUES
	($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, false, now(), now())
	RETURNING ` + displayColumns + `;`

	if err := s.db.Get(&out, query,
		d.ID,
		d.Name,
		d.Location,
		d.PrayerZone,
		d.Language,
		d.Zone,
		d.Tags,
		d.CarouselInterval,
		d.MaxContentItems,
		d.AutoRefreshMinutes,
		d.RespectPriority,
		d.DurationDriven,
	); err != nil {
		log.Error().Err(err).Msg("failed to create display")
		return model.Display{}, err
	}
	return out, nil
}

func (s *pgStore) GetDisplayByID(id string) (model.Display, error) {
	var d model.Display
	query := `SELECT ` + displayColumns + ` FROM displays WHERE id = $1;`
	err := s.db.Get(&d, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Display{}, sql.ErrNoRows
	}
	if err != nil {
		log.Error().Err(err).Str("display", id).Msg("failed to get display")
	}
	return d, err
}

func (s *pgStore) ListDisplays() ([]model.Display, error) {
	var all []model.Display
	query := `SELECT ` + displayColumns + ` FROM displays ORDER BY name;`
	if err := s.db.Select(&all, query); err != nil {
		log.Error().Err(err).Msg("failed to list displays")
		return nil, err
	}
	return all, nil
}

func (s *pgStore) UpdateDisplayConfig(d model.Display) error {
	query := `
	UPDATE displays
	SET name = $2,
	location = $3,
	prayer_zone = $4,
	language = $5,
	zone = $6,
	tags = $7,
	carousel_interval = $8,
	max_content_items = $9,
	auto_refresh_minutes = $10,
	respect_priority = $11,
	duration_driven = $12,
	updated_at = now()
	WHERE id = $1;
	`
	res, err := s.db.Exec(query, d.ID,
		d.Name, d.Location, d.PrayerZone, d.Language, d.Zone, d.Tags,
		d.CarouselInterval, d.MaxContentItems, d.AutoRefreshMinutes,
		d.RespectPriority, d.DurationDriven)
	if err != nil {
		log.Error().Err(err).Str("display", d.ID).Msg("failed to update display config")
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
