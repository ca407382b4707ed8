package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ayakimenko/taskbell/internal/clock"
	"github.com/ayakimenko/taskbell/internal/database"
	"github.com/ayakimenko/taskbell/internal/models"
)

type AlertRepository struct {
	db *database.DB
}

func NewAlertRepository(db *database.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) Create(ctx context.Context, alert *models.Alert) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO alerts (user_id, body, trigger_time) VALUES ($1, $2, $3) RETURNING id`,
		alert.UserID, alert.Body, alert.TriggerTime.Minutes(),
	).Scan(&alert.ID)
}

func (r *AlertRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Alert, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, user_id, body, trigger_time, completed
		 FROM alerts WHERE user_id = $1 ORDER BY trigger_time, id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAlerts(rows)
}

// ListAllIncomplete returns every alert, for every user, that has not
// been marked done. The scheduler reads this once per tick so a whole
// tick observes one consistent snapshot.
func (r *AlertRepository) ListAllIncomplete(ctx context.Context) ([]*models.Alert, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, user_id, body, trigger_time, completed
		 FROM alerts WHERE NOT completed ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAlerts(rows)
}

func (r *AlertRepository) GetByID(ctx context.Context, id, userID int64) (*models.Alert, error) {
	alert := &models.Alert{}
	var minutes int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, user_id, body, trigger_time, completed
		 FROM alerts WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&alert.ID, &alert.UserID, &alert.Body, &minutes, &alert.Completed)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("alert %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	t, err := clock.FromMinutes(minutes)
	if err != nil {
		return nil, fmt.Errorf("alert %d: %w", id, err)
	}
	alert.TriggerTime = t
	return alert, nil
}

func (r *AlertRepository) SetCompleted(ctx context.Context, id, userID int64, completed bool) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE alerts SET completed = $1 WHERE id = $2 AND user_id = $3`,
		completed, id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("alert %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *AlertRepository) UpdateTriggerTime(ctx context.Context, id, userID int64, t clock.TimeOfDay) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE alerts SET trigger_time = $1 WHERE id = $2 AND user_id = $3`,
		t.Minutes(), id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("alert %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *AlertRepository) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM alerts WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("alert %d: %w", id, ErrNotFound)
	}
	return nil
}

func scanAlerts(rows pgx.Rows) ([]*models.Alert, error) {
	var alerts []*models.Alert
	for rows.Next() {
		alert := &models.Alert{}
		var minutes int
		if err := rows.Scan(&alert.ID, &alert.UserID, &alert.Body, &minutes, &alert.Completed); err != nil {
			return nil, err
		}
		t, err := clock.FromMinutes(minutes)
		if err != nil {
			return nil, fmt.Errorf("alert %d: %w", alert.ID, err)
		}
		alert.TriggerTime = t
		alerts = append(alerts, alert)
	}
	return alerts, rows.Err()
}
