package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/opcode-profile/internal/profile/entity"
)

func (s *DB) ListPendingSlackUpdateTasks(ctx context.Context, createdBefore time.Time, limit int) (_ []entity.SlackUpdateTask, err error) {
	ctx, span := s.startSpan(ctx, "ListPendingSlackUpdateTasks")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, queryListPendingSlackUpdateTasks, createdBefore, limit)
	if err != nil {
		return nil, s.mapError(err)
	}

	tasks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.SlackUpdateTask, error) {
		var t entity.SlackUpdateTask
		err := row.Scan(&t.ID, &t.UserID, &t.SlackID, &t.MilitaryStatus, &t.CreatedAt, &t.PublishedAt)
		return t, err
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	return tasks, nil
}

// MarkSlackUpdateTaskPublished stamps a task. Already published tasks keep
// their first timestamp.
func (s *DB) MarkSlackUpdateTaskPublished(ctx context.Context, taskID int64, at time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "MarkSlackUpdateTaskPublished")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryMarkSlackUpdateTaskPublished, taskID, at)
	return s.mapError(err)
}
