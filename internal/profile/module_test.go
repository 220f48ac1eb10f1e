package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/opcode-profile/internal/pkg/clock"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/config"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/goerror"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/goroutine"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/idempotency"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/instrument"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/jwt"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/messaging"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/router"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/uid"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/validator"
	"github.com/shandysiswandi/opcode-profile/internal/profile/entity"
	"github.com/shandysiswandi/opcode-profile/internal/pybot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu       sync.Mutex
	profiles map[int64]entity.Profile
	tasks    []entity.SlackUpdateTask
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

func (r *memRepo) ListPendingSlackUpdateTasks(context.Context, time.Time, int) ([]entity.SlackUpdateTask, error) {
	return nil, nil
}

func (r *memRepo) MarkSlackUpdateTaskPublished(_ context.Context, taskID int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.tasks {
		if r.tasks[i].ID == taskID {
			r.tasks[i].PublishedAt = &at
		}
	}
	return nil
}

func (r *memRepo) taskCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.tasks)
}

type onceTracker struct {
	mu   sync.Mutex
	done map[string]bool
}

func (o *onceTracker) Exec(ctx context.Context, key string, fn func(context.Context) error, _ ...idempotency.Option) error {
	o.mu.Lock()
	if o.done[key] {
		o.mu.Unlock()
		return idempotency.ErrAlreadyCompleted
	}
	o.mu.Unlock()

	if err := fn(ctx); err != nil {
		return err
	}

	o.mu.Lock()
	o.done[key] = true
	o.mu.Unlock()
	return nil
}

type pybotServer struct {
	mu     sync.Mutex
	bodies []string
	paths  []string
}

func (s *pybotServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.bodies = append(s.bodies, string(body))
	s.paths = append(s.paths, r.Method+" "+r.URL.Path)
	s.mu.Unlock()

	w.WriteHeader(http.StatusOK)
}

func (s *pybotServer) received() ([]string, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.bodies...), append([]string(nil), s.paths...)
}

type harness struct {
	handler http.Handler
	repo    *memRepo
	pybot   *pybotServer
	token   string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	pybotSrv := &pybotServer{}
	srv := httptest.NewServer(pybotSrv)
	t.Cleanup(srv.Close)

	cfg, err := config.NewViperFromBytes("yaml", []byte(fmt.Sprintf(`
pybot:
  url: %s
  timeout_seconds: 2
modules:
  pybot:
    retry:
      base_delay_ms: 1
  profile:
    relay:
      schedule: "@every 1h"
`, srv.URL)))
	require.NoError(t, err)

	ins := instrument.NewNoop()
	uuid := uid.NewUUID()
	snow, err := uid.NewSnowflake(1)
	require.NoError(t, err)
	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	tokens, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(strings.Repeat("s", 64)),
		Issuer:    "identity",
		Audiences: []string{"profile"},
		TTL:       time.Hour,
		Clock:     clock.New(),
		UUID:      uuid,
	})
	require.NoError(t, err)
	token, err := tokens.Generate(7, "member@example.com")
	require.NoError(t, err)

	broker := messaging.NewMemory(messaging.MemoryConfig{})
	ro := router.NewRouter(router.Config{Config: cfg, UUID: uuid, JWT: tokens, Instrument: ins})

	ctx, cancel := context.WithCancel(context.Background())
	routine := goroutine.NewManager(8)
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, routine.Wait())
		_ = broker.Close()
	})

	repo := &memRepo{profiles: map[int64]entity.Profile{7: {UserID: 7}}}
	require.NoError(t, newModule(Dependency{
		Ctx:        ctx,
		Messaging:  broker,
		Config:     cfg,
		Instrument: ins,
		UID:        snow,
		UUID:       uuid,
		Clock:      clock.New(),
		Goroutine:  routine,
		Validator:  v,
		Router:     ro,
	}, repo))
	require.NoError(t, pybot.New(pybot.Dependency{
		Ctx:         ctx,
		Messaging:   broker,
		Config:      cfg,
		Instrument:  ins,
		UUID:        uuid,
		Goroutine:   routine,
		Idempotency: &onceTracker{done: map[string]bool{}},
	}))

	return &harness{handler: ro, repo: repo, pybot: pybotSrv, token: token}
}

func (h *harness) do(t *testing.T, method, contentType, body string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, "/api/v1/auth/profile", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+h.token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out
}

func TestModule_ProfileUpdateNotifiesPybot(t *testing.T) {
	h := newHarness(t)

	// Changing both watched fields enqueues one task carrying the new values.
	code, body := h.do(t, http.MethodPatch, "application/json", `{"militaryStatus":"veteran","slackId":"U0VET"}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, 1, h.repo.taskCount())

	assert.Eventually(t, func() bool {
		bodies, _ := h.pybot.received()
		return len(bodies) == 1
	}, 3*time.Second, 10*time.Millisecond)

	bodies, paths := h.pybot.received()
	assert.Equal(t, []string{"POST /pybot/api/v1/slack/update"}, paths)
	assert.JSONEq(t, `{"slack_id":"U0VET","military_status":"veteran"}`, bodies[0])

	// An unrelated field enqueues nothing.
	code, body = h.do(t, http.MethodPatch, "application/x-www-form-urlencoded", "address2=Unit+3")
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Unit 3", body["data"].(map[string]any)["address2"])
	assert.Equal(t, 1, h.repo.taskCount())

	// Values written are the values read.
	code, body = h.do(t, http.MethodGet, "", "")
	require.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "veteran", data["militaryStatus"])
	assert.Equal(t, "U0VET", data["slackId"])
	assert.Equal(t, "Unit 3", data["address2"])

	time.Sleep(50 * time.Millisecond)
	bodies, _ = h.pybot.received()
	assert.Len(t, bodies, 1)
}

func TestModule_RejectedRequests(t *testing.T) {
	h := newHarness(t)

	code, body := h.do(t, http.MethodPost, "application/json", `{"city":"Tulsa"}`)
	assert.Equal(t, http.StatusMethodNotAllowed, code)
	assert.Equal(t, "method not allowed", body["message"])

	for _, ct := range []string{"application/octet-stream", "text/html"} {
		code, _ = h.do(t, http.MethodPatch, ct, "<p>slackId</p>")
		assert.Equal(t, http.StatusUnsupportedMediaType, code, ct)
	}

	code, body = h.do(t, http.MethodPatch, "application/json", `{"militaryStatus":"retired"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, body["error"], "militaryStatus")

	assert.Equal(t, 0, h.repo.taskCount())
}
