package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/athebyme/wbcard-sync/internal/domain/mapper"
	"github.com/athebyme/wbcard-sync/internal/domain/models"
	pkgerrors "github.com/athebyme/wbcard-sync/pkg/errors"
	"github.com/athebyme/wbcard-sync/pkg/interfaces"
	"github.com/google/uuid"
)

// CardUpdateMessage — входящее сообщение-триггер обновления карточки.
// Доставка at-least-once: повторный запуск цикла для той же координаты
// просто собирает и отправляет то же каноническое состояние.
type CardUpdateMessage struct {
	Profile           uuid.UUID     `json:"profile"`
	Product           uuid.UUID     `json:"product"`
	OfferConst        uuid.NullUUID `json:"offer_const,omitempty"`
	VariationConst    uuid.NullUUID `json:"variation_const,omitempty"`
	ModificationConst uuid.NullUUID `json:"modification_const,omitempty"`
	NmID              int64         `json:"nm_id"`
}

// Coordinate возвращает координату карточки из сообщения
func (m CardUpdateMessage) Coordinate() models.Coordinate {
	return models.Coordinate{
		Profile:           m.Profile,
		Product:           m.Product,
		OfferConst:        m.OfferConst,
		VariationConst:    m.VariationConst,
		ModificationConst: m.ModificationConst,
	}
}

// UpdateStatus — терминальный исход одного цикла обновления
type UpdateStatus int

const (
	// StatusSkipped — карточка не найдена, внешний вызов не выполнялся
	StatusSkipped UpdateStatus = iota
	// StatusAborted — маппинг не собрал обязательное поле, внешний вызов не выполнялся
	StatusAborted
	// StatusSubmitted — запрос отправлен внешнему клиенту
	StatusSubmitted
)

func (s UpdateStatus) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusAborted:
		return "aborted"
	case StatusSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// CardResolver собирает каноническую карточку по координате
type CardResolver interface {
	Resolve(ctx context.Context, coord models.Coordinate) (*models.CardRecord, error)
}

// SubmitClient отправляет пакет запросов обновления карточек.
// Ошибку внешнего вызова клиент логирует сам; наружу отдается
// только локальный признак успеха.
type SubmitClient interface {
	Update(ctx context.Context, profile uuid.UUID, payloads []mapper.Payload) bool
}

// CardUpdateService прогоняет цикл выборка → маппинг → отправка для
// одной координаты. Цикл синхронный и не отменяется на середине:
// каждый вызов завершается одним из трех терминальных исходов.
type CardUpdateService struct {
	resolver CardResolver
	mapper   *mapper.CardMapper
	client   SubmitClient
	logger   interfaces.LoggerPort
}

// NewCardUpdateService создает сервис обновления карточек
func NewCardUpdateService(
	resolver CardResolver,
	cardMapper *mapper.CardMapper,
	client SubmitClient,
	logger interfaces.LoggerPort,
) *CardUpdateService {
	return &CardUpdateService{
		resolver: resolver,
		mapper:   cardMapper,
		client:   client,
		logger:   logger,
	}
}

// Update выполняет один цикл обновления. Ошибка возвращается только
// при отказе инфраструктуры (хранилище недоступно); все остальные
// ситуации завершают сообщение без эскалации.
func (s *CardUpdateService) Update(ctx context.Context, msg CardUpdateMessage) (UpdateStatus, error) {
	record, err := s.resolver.Resolve(ctx, msg.Coordinate())

	if errors.Is(err, pkgerrors.ErrCardNotFound) {
		s.logger.WarnWithContext(ctx, "Информация о продукте не была найдена",
			interfaces.LogField{Key: "product", Value: msg.Product.String()},
		)
		return StatusSkipped, nil
	}

	if err != nil {
		return StatusSkipped, fmt.Errorf("сборка карточки %s: %w", msg.Product, err)
	}

	payload, err := s.mapper.Map(record)
	if err != nil {
		var mapErr *mapper.MappingError
		key := ""
		if errors.As(err, &mapErr) {
			key = mapErr.Key
		}
		s.logger.WarnWithContext(ctx, "Ошибка маппера карточки",
			interfaces.LogField{Key: "product", Value: msg.Product.String()},
			interfaces.LogField{Key: "mapper", Value: key},
		)
		return StatusAborted, nil
	}

	// Внешняя идентичность карточки приходит из контекста вызова,
	// а не из данных каталога
	payload["nmId"] = msg.NmID

	if ok := s.client.Update(ctx, msg.Profile, []mapper.Payload{payload}); !ok {
		// Ошибка уже записана в лог клиентом отправки
		return StatusSubmitted, nil
	}

	s.logger.InfoWithContext(ctx, "Обновили карточку товара",
		interfaces.LogField{Key: "product", Value: msg.Product.String()},
		interfaces.LogField{Key: "nm_id", Value: msg.NmID},
	)

	return StatusSubmitted, nil
}
