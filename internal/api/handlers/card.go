package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/athebyme/wbcard-sync/internal/domain/mapper"
	"github.com/athebyme/wbcard-sync/internal/domain/services"
	pkgerrors "github.com/athebyme/wbcard-sync/pkg/errors"
	"github.com/athebyme/wbcard-sync/pkg/interfaces"
	"github.com/go-chi/render"
	"github.com/google/uuid"
)

// CardHandler обработчик запросов карточек Wildberries
type CardHandler struct {
	messaging  interfaces.MessagingPort
	topic      string
	resolver   services.CardResolver
	cardMapper *mapper.CardMapper
	registry   *mapper.Registry
	logger     interfaces.LoggerPort
}

// NewCardHandler создает новый обработчик карточек
func NewCardHandler(
	messaging interfaces.MessagingPort,
	topic string,
	resolver services.CardResolver,
	cardMapper *mapper.CardMapper,
	registry *mapper.Registry,
	logger interfaces.LoggerPort,
) *CardHandler {
	return &CardHandler{
		messaging:  messaging,
		topic:      topic,
		resolver:   resolver,
		cardMapper: cardMapper,
		registry:   registry,
		logger:     logger,
	}
}

// errorResponse представляет структуру ответа с ошибкой
type errorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// response представляет структуру успешного ответа
type response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// updateCardRequest — тело запроса на постановку обновления в очередь
type updateCardRequest struct {
	Profile           uuid.UUID  `json:"profile"`
	Product           uuid.UUID  `json:"product"`
	OfferConst        *uuid.UUID `json:"offer_const,omitempty"`
	VariationConst    *uuid.UUID `json:"variation_const,omitempty"`
	ModificationConst *uuid.UUID `json:"modification_const,omitempty"`
	NmID              int64      `json:"nm_id"`
}

func (r updateCardRequest) message() services.CardUpdateMessage {
	return services.CardUpdateMessage{
		Profile:           r.Profile,
		Product:           r.Product,
		OfferConst:        nullUUID(r.OfferConst),
		VariationConst:    nullUUID(r.VariationConst),
		ModificationConst: nullUUID(r.ModificationConst),
		NmID:              r.NmID,
	}
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

// UpdateCard ставит обновление карточки в очередь.
// Сам цикл обновления выполняет воркер; здесь только публикация триггера.
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	var req updateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{
			Error:   "bad_request",
			Code:    http.StatusBadRequest,
			Message: "Некорректное тело запроса",
		})
		return
	}

	if req.Profile == uuid.Nil || req.Product == uuid.Nil || req.NmID == 0 {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{
			Error:   "bad_request",
			Code:    http.StatusBadRequest,
			Message: "Поля profile, product и nm_id обязательны",
		})
		return
	}

	msg := req.message()

	body, err := json.Marshal(msg)
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errorResponse{
			Error:   "internal_error",
			Code:    http.StatusInternalServerError,
			Message: "Ошибка сериализации сообщения",
		})
		return
	}

	// Ключ — идентификатор товара: обновления одной карточки
	// попадают в одну партицию и не обгоняют друг друга
	if err := h.messaging.PublishWithKey(r.Context(), h.topic, msg.Product.String(), body); err != nil {
		h.logger.ErrorWithContext(r.Context(), "Ошибка публикации триггера обновления карточки",
			interfaces.LogField{Key: "product", Value: msg.Product.String()},
			interfaces.LogField{Key: "error", Value: err.Error()},
		)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errorResponse{
			Error:   "internal_error",
			Code:    http.StatusInternalServerError,
			Message: "Ошибка публикации сообщения",
		})
		return
	}

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, response{Success: true})
}

// PreviewCard собирает каноническую карточку и итоговую полезную
// нагрузку без отправки в маркетплейс. Инструмент диагностики:
// показывает, что именно ушло бы в Wildberries по координате.
func (h *CardHandler) PreviewCard(w http.ResponseWriter, r *http.Request) {
	var req updateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{
			Error:   "bad_request",
			Code:    http.StatusBadRequest,
			Message: "Некорректное тело запроса",
		})
		return
	}

	if req.Profile == uuid.Nil || req.Product == uuid.Nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{
			Error:   "bad_request",
			Code:    http.StatusBadRequest,
			Message: "Поля profile и product обязательны",
		})
		return
	}

	msg := req.message()

	record, err := h.resolver.Resolve(r.Context(), msg.Coordinate())
	if errors.Is(err, pkgerrors.ErrCardNotFound) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, errorResponse{
			Error:   "not_found",
			Code:    http.StatusNotFound,
			Message: "Карточка не найдена",
		})
		return
	}
	if err != nil {
		h.logger.ErrorWithContext(r.Context(), "Ошибка сборки карточки",
			interfaces.LogField{Key: "product", Value: msg.Product.String()},
			interfaces.LogField{Key: "error", Value: err.Error()},
		)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errorResponse{
			Error:   "internal_error",
			Code:    http.StatusInternalServerError,
			Message: "Ошибка сборки карточки",
		})
		return
	}

	payload, err := h.cardMapper.Map(record)
	if err != nil {
		var mapErr *mapper.MappingError
		key := ""
		if errors.As(err, &mapErr) {
			key = mapErr.Key
		}
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, errorResponse{
			Error:   "mapping_failed",
			Code:    http.StatusUnprocessableEntity,
			Message: "Не удалось собрать обязательное поле: " + key,
		})
		return
	}

	if msg.NmID != 0 {
		payload["nmId"] = msg.NmID
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response{
		Success: true,
		Data: map[string]interface{}{
			"record":  record,
			"payload": payload,
		},
	})
}

// mapperInfo — описание зарегистрированного маппера
type mapperInfo struct {
	Key      string   `json:"key"`
	Priority int      `json:"priority"`
	Required bool     `json:"required"`
	Setting  bool     `json:"setting"`
	Choices  []string `json:"choices,omitempty"`
}

// ListMappers возвращает зарегистрированные мапперы в порядке приоритета
func (h *CardHandler) ListMappers(w http.ResponseWriter, r *http.Request) {
	mappers := h.registry.OrderedByPriority()

	infos := make([]mapperInfo, 0, len(mappers))
	for _, m := range mappers {
		infos = append(infos, mapperInfo{
			Key:      m.Key(),
			Priority: m.Priority(),
			Required: m.Required(),
			Setting:  m.IsSetting(),
			Choices:  m.Choices(),
		})
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response{
		Success: true,
		Data:    infos,
	})
}
