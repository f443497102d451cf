package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/athebyme/wbcard-sync/internal/domain/mapper"
	"github.com/athebyme/wbcard-sync/internal/domain/mapper/collection"
	"github.com/athebyme/wbcard-sync/internal/domain/models"
	"github.com/athebyme/wbcard-sync/internal/domain/services"
	pkgerrors "github.com/athebyme/wbcard-sync/pkg/errors"
	"github.com/athebyme/wbcard-sync/pkg/interfaces"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessaging struct {
	err error

	topic string
	key   string
	value []byte
	calls int
}

func (f *fakeMessaging) Publish(_ context.Context, topic string, message []byte) error {
	f.calls++
	f.topic = topic
	f.value = message
	return f.err
}

func (f *fakeMessaging) PublishWithKey(_ context.Context, topic, key string, message []byte) error {
	f.calls++
	f.topic = topic
	f.key = key
	f.value = message
	return f.err
}

func (f *fakeMessaging) Subscribe(_ context.Context, _ string, _ interfaces.MessageHandler) (func() error, error) {
	return func() error { return nil }, nil
}

func (f *fakeMessaging) Close() error { return nil }

type fakeResolver struct {
	record *models.CardRecord
	err    error
}

func (f *fakeResolver) Resolve(_ context.Context, _ models.Coordinate) (*models.CardRecord, error) {
	return f.record, f.err
}

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

func newHandler(t *testing.T, messaging interfaces.MessagingPort, resolver services.CardResolver) *CardHandler {
	t.Helper()
	registry, err := mapper.NewRegistry(collection.Collection()...)
	require.NoError(t, err)
	return NewCardHandler(messaging, "wb-card-update", resolver, mapper.NewCardMapper(registry), registry, nopLogger{})
}

func TestUpdateCard(t *testing.T) {
	t.Run("публикация триггера", func(t *testing.T) {
		messaging := &fakeMessaging{}
		h := newHandler(t, messaging, &fakeResolver{})

		profile := uuid.New()
		product := uuid.New()
		body := fmt.Sprintf(`{"profile":%q,"product":%q,"nm_id":271851572}`, profile, product)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/update", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()

		h.UpdateCard(rec, req)

		assert.Equal(t, http.StatusAccepted, rec.Code)
		require.Equal(t, 1, messaging.calls)
		assert.Equal(t, "wb-card-update", messaging.topic)
		assert.Equal(t, product.String(), messaging.key, "ключ партиционирования — идентификатор товара")

		var msg services.CardUpdateMessage
		require.NoError(t, json.Unmarshal(messaging.value, &msg))
		assert.Equal(t, profile, msg.Profile)
		assert.Equal(t, product, msg.Product)
		assert.Equal(t, int64(271851572), msg.NmID)
	})

	t.Run("некорректное тело", func(t *testing.T) {
		messaging := &fakeMessaging{}
		h := newHandler(t, messaging, &fakeResolver{})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/update", bytes.NewBufferString("{broken"))
		rec := httptest.NewRecorder()

		h.UpdateCard(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, messaging.calls)
	})

	t.Run("обязательные поля", func(t *testing.T) {
		messaging := &fakeMessaging{}
		h := newHandler(t, messaging, &fakeResolver{})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/update",
			bytes.NewBufferString(fmt.Sprintf(`{"profile":%q}`, uuid.New())))
		rec := httptest.NewRecorder()

		h.UpdateCard(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, messaging.calls)
	})

	t.Run("ошибка публикации", func(t *testing.T) {
		messaging := &fakeMessaging{err: context.DeadlineExceeded}
		h := newHandler(t, messaging, &fakeResolver{})

		body := fmt.Sprintf(`{"profile":%q,"product":%q,"nm_id":1}`, uuid.New(), uuid.New())
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/update", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()

		h.UpdateCard(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestPreviewCard(t *testing.T) {
	t.Run("сборка без отправки", func(t *testing.T) {
		record := &models.CardRecord{
			Article:      "ART-42",
			Name:         "Футболка",
			CategoryName: "Одежда",
			Properties: map[string]models.CardProperty{
				"country": {Type: "country", Value: "Россия"},
			},
		}
		h := newHandler(t, &fakeMessaging{}, &fakeResolver{record: record})

		body := fmt.Sprintf(`{"profile":%q,"product":%q,"nm_id":271851572}`, uuid.New(), uuid.New())
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/preview", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()

		h.PreviewCard(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Success bool `json:"success"`
			Data    struct {
				Payload map[string]interface{} `json:"payload"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "Футболка", resp.Data.Payload["title"])
		assert.Equal(t, float64(271851572), resp.Data.Payload["nmId"])
	})

	t.Run("карточка не найдена", func(t *testing.T) {
		h := newHandler(t, &fakeMessaging{}, &fakeResolver{err: pkgerrors.ErrCardNotFound})

		body := fmt.Sprintf(`{"profile":%q,"product":%q}`, uuid.New(), uuid.New())
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/preview", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()

		h.PreviewCard(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("отказ маппинга", func(t *testing.T) {
		// Пустая карточка: обязательное поле title не собирается
		h := newHandler(t, &fakeMessaging{}, &fakeResolver{record: &models.CardRecord{}})

		body := fmt.Sprintf(`{"profile":%q,"product":%q}`, uuid.New(), uuid.New())
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/preview", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()

		h.PreviewCard(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestListMappers(t *testing.T) {
	h := newHandler(t, &fakeMessaging{}, &fakeResolver{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/mappers", nil)
	rec := httptest.NewRecorder()

	h.ListMappers(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    []struct {
			Key      string `json:"key"`
			Priority int    `json:"priority"`
			Required bool   `json:"required"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data, len(collection.Collection()))

	assert.Equal(t, collection.TitleParam, resp.Data[0].Key)
	for i := 1; i < len(resp.Data); i++ {
		assert.GreaterOrEqual(t, resp.Data[i].Priority, resp.Data[i-1].Priority)
	}
}
