package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/opcode-profile/internal/pkg/clock"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/config"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/goerror"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/instrument"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/jwt"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/validator"
	"github.com/shandysiswandi/opcode-profile/internal/profile/entity"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

// memRepo keeps profiles and outbox tasks in maps and mimics the
// transactional contract of UpdateProfile: a mutator error leaves both
// untouched.
type memRepo struct {
	mu        sync.Mutex
	profiles  map[int64]entity.Profile
	tasks     []entity.SlackUpdateTask
	updateErr error
	markErr   error
}

func newMemRepo(profiles ...entity.Profile) *memRepo {
	r := &memRepo{profiles: map[int64]entity.Profile{}}
	for _, p := range profiles {
		r.profiles[p.UserID] = p
	}
	return r
}

func (r *memRepo) GetProfile(_ context.Context, userID int64) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[userID]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &p, nil
}

func (r *memRepo) CreateProfile(_ context.Context, p entity.Profile) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[p.UserID]; ok {
		return false, nil
	}
	r.profiles[p.UserID] = p
	return true, nil
}

func (r *memRepo) UpdateProfile(_ context.Context, userID int64, mutate entity.ProfileMutator) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.updateErr != nil {
		return nil, r.updateErr
	}

	p, ok := r.profiles[userID]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	task, err := mutate(&p)
	if err != nil {
		return nil, err
	}

	r.profiles[userID] = p
	if task != nil {
		r.tasks = append(r.tasks, *task)
	}
	return &p, nil
}

func (r *memRepo) ListPendingSlackUpdateTasks(_ context.Context, createdBefore time.Time, limit int) ([]entity.SlackUpdateTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []entity.SlackUpdateTask
	for _, t := range r.tasks {
		if t.PublishedAt == nil && !t.CreatedAt.After(createdBefore) && len(out) < limit {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memRepo) MarkSlackUpdateTaskPublished(_ context.Context, taskID int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.markErr != nil {
		return r.markErr
	}
	for i := range r.tasks {
		if r.tasks[i].ID == taskID {
			r.tasks[i].PublishedAt = &at
		}
	}
	return nil
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []entity.SlackUpdateTask
	err       error
}

func (p *recordingPublisher) PublishProfileSlackUpdate(_ context.Context, task entity.SlackUpdateTask) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, task)
	return nil
}

type sequenceID struct{ next int64 }

func (s *sequenceID) Generate() int64 {
	s.next++
	return s.next
}

func newTestConfig(t *testing.T, yaml string) config.Config {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	require.NoError(t, err)
	return cfg
}

func newTestUsecase(t *testing.T, repo *memRepo, pub *recordingPublisher) *Usecase {
	t.Helper()

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	return New(Dependency{
		RepoDB:        repo,
		RepoMessaging: pub,
		Validator:     v,
		Config:        newTestConfig(t, "modules: {}"),
		UID:           &sequenceID{next: 1000},
		Clock:         clock.Fixed(testNow),
		Instrument:    instrument.NewNoop(),
	})
}

func authCtx(userID int64) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: userID, UserEmail: "member@example.com"})
}

func requireCode(t *testing.T, err error, code goerror.Code) *goerror.Error {
	t.Helper()

	var gerr *goerror.Error
	require.True(t, errors.As(err, &gerr), "expected goerror, got %v", err)
	require.Equal(t, code, gerr.Code())
	return gerr
}
