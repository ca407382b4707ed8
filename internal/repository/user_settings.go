package repository

import (
	"context"
	"fmt"

	"github.com/ayakimenko/taskbell/internal/clock"
	"github.com/ayakimenko/taskbell/internal/database"
	"github.com/ayakimenko/taskbell/internal/models"
)

type UserSettingsRepository struct {
	db *database.DB
}

func NewUserSettingsRepository(db *database.DB) *UserSettingsRepository {
	return &UserSettingsRepository{db: db}
}

// Upsert sets the daily reminder time for a user, inserting the settings
// row on first use.
func (r *UserSettingsRepository) Upsert(ctx context.Context, userID int64, remindTime clock.TimeOfDay) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO user_settings (user_id, remind_time) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET remind_time = EXCLUDED.remind_time`,
		userID, remindTime.Minutes(),
	)
	return err
}

// ListAll returns the reminder settings of every user.
func (r *UserSettingsRepository) ListAll(ctx context.Context) ([]*models.UserSettings, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT user_id, remind_time FROM user_settings ORDER BY user_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []*models.UserSettings
	for rows.Next() {
		s := &models.UserSettings{}
		var minutes int
		if err := rows.Scan(&s.UserID, &minutes); err != nil {
			return nil, err
		}
		t, err := clock.FromMinutes(minutes)
		if err != nil {
			return nil, fmt.Errorf("user %d: %w", s.UserID, err)
		}
		s.RemindTime = t
		settings = append(settings, s)
	}
	return settings, rows.Err()
}
