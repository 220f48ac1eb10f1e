package inbound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shandysiswandi/opcode-profile/internal/pkg/goerror"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/jwt"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/router"
	"github.com/shandysiswandi/opcode-profile/internal/profile/entity"
	"github.com/shandysiswandi/opcode-profile/internal/profile/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJWT struct{}

func (fakeJWT) Generate(int64, string) (string, error) { return "", nil }

func (fakeJWT) Verify(token string) (jwt.Claims, error) {
	if token != "member" {
		return jwt.Claims{}, jwt.ErrInvalidToken
	}
	return jwt.Claims{UserID: 7, UserEmail: "member@example.com"}, nil
}

type staticID string

func (s staticID) Generate() string { return string(s) }

type fakeUsecase struct {
	mu sync.Mutex

	profile    entity.Profile
	updateErr  error
	updates    []usecase.ProfileUpdateInput
	registered []usecase.ConsumeUserRegistrationInput
	registerFn func() error
	relays     int
}

func (f *fakeUsecase) Profile(context.Context) (*entity.Profile, error) {
	p := f.profile
	return &p, nil
}

func (f *fakeUsecase) ProfileUpdate(_ context.Context, in usecase.ProfileUpdateInput) (*entity.Profile, error) {
	f.updates = append(f.updates, in)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for name, value := range in.Fields {
		if err := f.profile.Apply(name, value); err != nil {
			return nil, err
		}
	}
	p := f.profile
	return &p, nil
}

func (f *fakeUsecase) ConsumeUserRegistration(_ context.Context, in usecase.ConsumeUserRegistrationInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.registered = append(f.registered, in)
	if f.registerFn != nil {
		return f.registerFn()
	}
	return nil
}

func (f *fakeUsecase) RelaySlackUpdates(context.Context) (*usecase.RelaySlackUpdatesOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.relays++
	return &usecase.RelaySlackUpdatesOutput{}, nil
}

func (f *fakeUsecase) snapshot() ([]usecase.ConsumeUserRegistrationInput, int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]usecase.ConsumeUserRegistrationInput(nil), f.registered...), f.relays
}

func newTestServer(uc *fakeUsecase) http.Handler {
	ro := router.NewRouter(router.Config{UUID: staticID("cid"), JWT: fakeJWT{}})
	RegisterHTTPEndpoint(ro, uc)
	return ro
}

func call(t *testing.T, h http.Handler, method, contentType, body string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, "/api/v1/auth/profile", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer member")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out
}

func TestHTTPEndpoint_Profile(t *testing.T) {
	uc := &fakeUsecase{profile: entity.Profile{UserID: 7, Address2: "Apt 1", SlackID: "U7", IsMentor: true}}

	code, body := call(t, newTestServer(uc), http.MethodGet, "", "")

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "profile has been retrieved", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "Apt 1", data["address2"])
	assert.Equal(t, "U7", data["slackId"])
	assert.Equal(t, true, data["isMentor"])
	assert.NotContains(t, data, "address_2")
	assert.Len(t, data, 22)
}

func TestHTTPEndpoint_ProfileUpdate(t *testing.T) {
	t.Run("json keys become attributes", func(t *testing.T) {
		uc := &fakeUsecase{profile: entity.Profile{UserID: 7}}

		code, body := call(t, newTestServer(uc), http.MethodPatch, "application/json",
			`{"address2":"Suite 5","militaryStatus":"veteran","slackId":"U9","isMentor":true,"militaryOccupationalSpecialty":"25B"}`)

		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "profile has been updated", body["message"])
		require.Len(t, uc.updates, 1)
		assert.Equal(t, map[string]any{
			"address_2":                       "Suite 5",
			"military_status":                 "veteran",
			"slack_id":                        "U9",
			"is_mentor":                       true,
			"military_occupational_specialty": "25B",
		}, uc.updates[0].Fields)
		assert.Equal(t, "Suite 5", body["data"].(map[string]any)["address2"])
	})

	t.Run("form keys map like json", func(t *testing.T) {
		uc := &fakeUsecase{profile: entity.Profile{UserID: 7}}

		code, _ := call(t, newTestServer(uc), http.MethodPatch, "application/x-www-form-urlencoded",
			"address2=Suite+5&militaryStatus=veteran&isMentor=true")

		require.Equal(t, http.StatusOK, code)
		require.Len(t, uc.updates, 1)
		assert.Equal(t, map[string]any{
			"address_2":       "Suite 5",
			"military_status": "veteran",
			"is_mentor":       "true",
		}, uc.updates[0].Fields)
		assert.True(t, uc.profile.IsMentor)
	})

	t.Run("empty body is a no-op update", func(t *testing.T) {
		uc := &fakeUsecase{profile: entity.Profile{UserID: 7, City: "Tulsa"}}

		code, body := call(t, newTestServer(uc), http.MethodPatch, "text/html", "")

		require.Equal(t, http.StatusOK, code)
		require.Len(t, uc.updates, 1)
		assert.Empty(t, uc.updates[0].Fields)
		assert.Equal(t, "Tulsa", body["data"].(map[string]any)["city"])
	})

	t.Run("unsupported media types", func(t *testing.T) {
		for _, ct := range []string{"application/octet-stream", "text/html", "text/plain; charset=utf-8"} {
			uc := &fakeUsecase{}

			code, _ := call(t, newTestServer(uc), http.MethodPatch, ct, "city=Tulsa")

			assert.Equal(t, http.StatusUnsupportedMediaType, code, ct)
			assert.Empty(t, uc.updates, ct)
		}
	})

	t.Run("unknown key", func(t *testing.T) {
		uc := &fakeUsecase{}

		code, body := call(t, newTestServer(uc), http.MethodPatch, "application/json", `{"city":"Tulsa","favoriteColor":"red"}`)

		require.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Equal(t, map[string]any{"favoriteColor": "unknown field"}, body["error"])
		assert.Empty(t, uc.updates)
	})

	t.Run("keys colliding after renaming", func(t *testing.T) {
		uc := &fakeUsecase{}

		code, body := call(t, newTestServer(uc), http.MethodPatch, "application/json", `{"slackId":"U1","slack_id":"U2"}`)

		require.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Len(t, body["error"], 1)
		assert.Empty(t, uc.updates)
	})

	t.Run("malformed json", func(t *testing.T) {
		uc := &fakeUsecase{}

		code, _ := call(t, newTestServer(uc), http.MethodPatch, "application/json", `{"city":`)

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Empty(t, uc.updates)
	})

	t.Run("usecase error is rendered", func(t *testing.T) {
		uc := &fakeUsecase{updateErr: goerror.NewBusiness("profile not found", goerror.CodeNotFound)}

		code, body := call(t, newTestServer(uc), http.MethodPatch, "application/json", `{"city":"Tulsa"}`)

		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "profile not found", body["message"])
	})
}

func TestHTTPEndpoint_OtherMethods(t *testing.T) {
	h := newTestServer(&fakeUsecase{})

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		code, body := call(t, h, method, "application/json", `{"city":"Tulsa"}`)

		assert.Equal(t, http.StatusMethodNotAllowed, code, method)
		assert.Equal(t, "method not allowed", body["message"], method)
	}
}
