package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ayakimenko/taskbell/internal/database"
	"github.com/ayakimenko/taskbell/internal/models"
)

type TaskRepository struct {
	db *database.DB
}

func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO tasks (user_id, body) VALUES ($1, $2) RETURNING id`,
		task.UserID, task.Body,
	).Scan(&task.ID)
}

// CreateBatch inserts one task per body in a single round trip.
func (r *TaskRepository) CreateBatch(ctx context.Context, userID int64, bodies []string) error {
	batch := &pgx.Batch{}
	for _, body := range bodies {
		batch.Queue(`INSERT INTO tasks (user_id, body) VALUES ($1, $2)`, userID, body)
	}
	return r.db.Pool.SendBatch(ctx, batch).Close()
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Task, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, user_id, body, completed FROM tasks WHERE user_id = $1 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task := &models.Task{}
		if err := rows.Scan(&task.ID, &task.UserID, &task.Body, &task.Completed); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) GetByID(ctx context.Context, id, userID int64) (*models.Task, error) {
	task := &models.Task{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, user_id, body, completed FROM tasks WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&task.ID, &task.UserID, &task.Body, &task.Completed)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *TaskRepository) UpdateBody(ctx context.Context, id, userID int64, body string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE tasks SET body = $1 WHERE id = $2 AND user_id = $3`,
		body, id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *TaskRepository) SetCompleted(ctx context.Context, id, userID int64, completed bool) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE tasks SET completed = $1 WHERE id = $2 AND user_id = $3`,
		completed, id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteAllCompleted removes every completed task for all users and
// returns the number of rows removed.
func (r *TaskRepository) DeleteAllCompleted(ctx context.Context) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM tasks WHERE completed`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
