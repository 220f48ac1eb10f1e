package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shandysiswandi/opcode-profile/internal/pkg/instrument"
	"github.com/shandysiswandi/opcode-profile/internal/pybot/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPybot_UpdateSlackUser(t *testing.T) {
	t.Run("posts payload to slack update path", func(t *testing.T) {
		// Arrange
		var (
			gotPath   string
			gotMethod string
			gotAuth   string
			gotCID    string
			gotBody   map[string]any
		)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath, gotMethod = r.URL.Path, r.Method
			gotAuth, gotCID = r.Header.Get("Authorization"), r.Header.Get("X-Correlation-ID")
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.WriteHeader(http.StatusOK)
		}))
		t.Cleanup(srv.Close)

		p := NewPybot(Config{BaseURL: srv.URL + "/", AuthToken: "tok"}, instrument.NewNoop())
		ctx := instrument.SetCorrelationID(context.Background(), "cid-1")

		// Act
		err := p.UpdateSlackUser(ctx, entity.SlackUpdate{TaskID: 1, UserID: 2, SlackID: "U2", MilitaryStatus: "veteran"})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, PathSlackUpdate, gotPath)
		assert.Equal(t, "Bearer tok", gotAuth)
		assert.Equal(t, "cid-1", gotCID)
		assert.Equal(t, map[string]any{"slack_id": "U2", "military_status": "veteran"}, gotBody)
	})

	t.Run("status classification", func(t *testing.T) {
		tests := []struct {
			status int
			want   error
		}{
			{http.StatusBadRequest, entity.ErrPybotRejected},
			{http.StatusNotFound, entity.ErrPybotRejected},
			{http.StatusTooManyRequests, entity.ErrPybotUnavailable},
			{http.StatusInternalServerError, entity.ErrPybotUnavailable},
			{http.StatusBadGateway, entity.ErrPybotUnavailable},
		}

		for _, tt := range tests {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(" nope "))
			}))

			err := NewPybot(Config{BaseURL: srv.URL}, instrument.NewNoop()).
				UpdateSlackUser(context.Background(), entity.SlackUpdate{TaskID: 1})
			srv.Close()

			assert.ErrorIs(t, err, tt.want, tt.status)
			var se *StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.status, se.StatusCode)
			assert.Equal(t, "nope", se.Body)
		}
	})

	t.Run("unreachable host is unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		err := NewPybot(Config{BaseURL: url, Timeout: time.Second}, instrument.NewNoop()).
			UpdateSlackUser(context.Background(), entity.SlackUpdate{TaskID: 1})

		assert.ErrorIs(t, err, entity.ErrPybotUnavailable)
	})
}
