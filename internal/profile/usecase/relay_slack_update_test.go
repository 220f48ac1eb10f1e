package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/opcode-profile/internal/profile/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsecase_RelaySlackUpdates(t *testing.T) {
	published := testNow.Add(-time.Hour)
	seed := func() *memRepo {
		repo := newMemRepo()
		repo.tasks = []entity.SlackUpdateTask{
			{ID: 1, UserID: 7, SlackID: "U1", CreatedAt: testNow.Add(-5 * time.Minute)},
			{ID: 2, UserID: 8, SlackID: "U2", CreatedAt: testNow.Add(-2 * time.Minute), PublishedAt: &published},
			{ID: 3, UserID: 9, SlackID: "U3", CreatedAt: testNow.Add(-10 * time.Second)},
		}
		return repo
	}

	t.Run("publishes pending tasks older than min age", func(t *testing.T) {
		repo := seed()
		pub := &recordingPublisher{}
		uc := newTestUsecase(t, repo, pub)

		out, err := uc.RelaySlackUpdates(context.Background())

		require.NoError(t, err)
		assert.Equal(t, &RelaySlackUpdatesOutput{Pending: 1, Published: 1}, out)
		require.Len(t, pub.published, 1)
		assert.Equal(t, int64(1), pub.published[0].ID)
		assert.NotNil(t, repo.tasks[0].PublishedAt)
		assert.Nil(t, repo.tasks[2].PublishedAt)
	})

	t.Run("configured min age and batch size", func(t *testing.T) {
		repo := seed()
		pub := &recordingPublisher{}
		uc := newTestUsecase(t, repo, pub)
		uc.cfg = newTestConfig(t, "modules:\n  profile:\n    relay:\n      min_age_seconds: 1\n      batch_size: 1\n")

		out, err := uc.RelaySlackUpdates(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, out.Pending)
		assert.Equal(t, 1, out.Published)
	})

	t.Run("broker still down", func(t *testing.T) {
		repo := seed()
		uc := newTestUsecase(t, repo, &recordingPublisher{err: errors.New("broker down")})

		out, err := uc.RelaySlackUpdates(context.Background())

		require.NoError(t, err)
		assert.Equal(t, &RelaySlackUpdatesOutput{Pending: 1}, out)
		assert.Nil(t, repo.tasks[0].PublishedAt)
	})
}
