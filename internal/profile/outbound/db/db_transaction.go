package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/opcode-profile/internal/profile/entity"
)

// UpdateProfile locks the profile row, lets mutate edit it and writes the
// result together with the outbox task mutate returns. Concurrent updates of
// the same profile serialize on the row lock.
//
// Errors from mutate are returned unchanged and nothing is written.
func (s *DB) UpdateProfile(ctx context.Context, userID int64, mutate entity.ProfileMutator) (_ *entity.Profile, err error) {
	ctx, span := s.startSpan(ctx, "UpdateProfile")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	p, err := scanProfile(tx.QueryRow(ctx, queryGetProfileForUpdate, userID))
	if err != nil {
		return nil, s.mapError(err)
	}

	task, err := mutate(p)
	if err != nil {
		return nil, err
	}

	if _, err = tx.Exec(ctx, queryUpdateProfile, updateProfileArgs(p)...); err != nil {
		return nil, s.mapError(err)
	}

	if task != nil {
		if _, err = tx.Exec(ctx, queryCreateSlackUpdateTask,
			task.ID, task.UserID, task.SlackID, task.MilitaryStatus, task.CreatedAt,
		); err != nil {
			return nil, s.mapError(err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, s.mapError(err)
	}

	return p, nil
}
