package wildberries

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/athebyme/wbcard-sync/internal/domain/mapper"
	"github.com/athebyme/wbcard-sync/pkg/interfaces"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{})                             {}
func (nopLogger) Info(string, ...interface{})                              {}
func (nopLogger) Warn(string, ...interface{})                              {}
func (nopLogger) Error(string, ...interface{})                             {}
func (nopLogger) Fatal(string, ...interface{})                             {}
func (nopLogger) DebugWithContext(context.Context, string, ...interface{}) {}
func (nopLogger) InfoWithContext(context.Context, string, ...interface{})  {}
func (nopLogger) WarnWithContext(context.Context, string, ...interface{})  {}
func (nopLogger) ErrorWithContext(context.Context, string, ...interface{}) {}
func (l nopLogger) WithFields(...interfaces.LogField) interfaces.LoggerPort {
	return l
}
func (l nopLogger) WithField(string, interface{}) interfaces.LoggerPort { return l }
func (nopLogger) Sync() error                                           { return nil }

func TestClient_Update(t *testing.T) {
	profile := uuid.New()

	t.Run("успешная отправка", func(t *testing.T) {
		var gotPath, gotAuth string
		var gotBody []map[string]interface{}

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		client := NewClient(Config{
			APIURL: srv.URL,
			Tokens: map[uuid.UUID]string{profile: "token-123"},
		}, nopLogger{})

		ok := client.Update(context.Background(), profile, []mapper.Payload{
			{"title": "Футболка", "nmId": int64(271851572)},
		})

		require.True(t, ok)
		assert.Equal(t, "/content/v2/cards/update", gotPath)
		assert.Equal(t, "token-123", gotAuth)
		require.Len(t, gotBody, 1)
		assert.Equal(t, "Футболка", gotBody[0]["title"])
	})

	t.Run("ошибка API не эскалируется", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":true}`))
		}))
		defer srv.Close()

		client := NewClient(Config{
			APIURL: srv.URL,
			Tokens: map[uuid.UUID]string{profile: "token-123"},
		}, nopLogger{})

		ok := client.Update(context.Background(), profile, []mapper.Payload{{"title": "Футболка"}})

		assert.False(t, ok)
	})

	t.Run("нет токена для профиля", func(t *testing.T) {
		called := false
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer srv.Close()

		client := NewClient(Config{APIURL: srv.URL}, nopLogger{})

		ok := client.Update(context.Background(), profile, []mapper.Payload{{"title": "Футболка"}})

		assert.False(t, ok)
		assert.False(t, called, "запрос без токена не отправляется")
	})

	t.Run("недоступный хост", func(t *testing.T) {
		client := NewClient(Config{
			APIURL: "http://127.0.0.1:1",
			Tokens: map[uuid.UUID]string{profile: "token-123"},
		}, nopLogger{})

		ok := client.Update(context.Background(), profile, []mapper.Payload{{"title": "Футболка"}})

		assert.False(t, ok)
	})
}

func TestClient_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ping", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(Config{APIURL: srv.URL}, nopLogger{})

	assert.NoError(t, client.Ping(context.Background()))
}
