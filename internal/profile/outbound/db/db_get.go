package db

import (
	"context"

	"github.com/shandysiswandi/opcode-profile/internal/profile/entity"
)

func (s *DB) GetProfile(ctx context.Context, userID int64) (_ *entity.Profile, err error) {
	ctx, span := s.startSpan(ctx, "GetProfile")
	defer func() { s.endSpan(span, err) }()

	p, err := scanProfile(s.conn.QueryRow(ctx, queryGetProfile, userID))
	if err != nil {
		return nil, s.mapError(err)
	}

	return p, nil
}
