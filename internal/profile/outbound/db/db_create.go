package db

import (
	"context"

	"github.com/shandysiswandi/opcode-profile/internal/profile/entity"
)

// CreateProfile inserts an empty profile unless one already exists for the
// user. created reports whether a row was written.
func (s *DB) CreateProfile(ctx context.Context, p entity.Profile) (created bool, err error) {
	ctx, span := s.startSpan(ctx, "CreateProfile")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, queryCreateProfile, p.UserID, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() == 1, nil
}
