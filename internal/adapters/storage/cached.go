package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/athebyme/wbcard-sync/internal/domain/models"
	"github.com/athebyme/wbcard-sync/internal/domain/resolver"
	pkgerrors "github.com/athebyme/wbcard-sync/pkg/errors"
	"github.com/athebyme/wbcard-sync/pkg/interfaces"
)

// DefaultRowsTTL — срок жизни закэшированной выборки. Короткий срок
// гасит повторные чтения при пачке сообщений по одному товару, не
// задерживая надолго устаревшие данные.
const DefaultRowsTTL = 5 * time.Second

// CachedRowFetcher кэширует выборку строк карточки поверх
// нижележащего хранилища
type CachedRowFetcher struct {
	inner  resolver.RowFetcher
	cache  interfaces.CachePort
	ttl    time.Duration
	logger interfaces.LoggerPort
}

// NewCachedRowFetcher создает кэширующую обертку. При ttl <= 0
// используется DefaultRowsTTL.
func NewCachedRowFetcher(
	inner resolver.RowFetcher,
	cache interfaces.CachePort,
	ttl time.Duration,
	logger interfaces.LoggerPort,
) *CachedRowFetcher {
	if ttl <= 0 {
		ttl = DefaultRowsTTL
	}
	return &CachedRowFetcher{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// FetchRows возвращает строки из кэша либо из хранилища.
// Сбой кэша не прерывает выборку: чтение уходит в хранилище,
// а проблема только логируется.
func (f *CachedRowFetcher) FetchRows(ctx context.Context, coord models.Coordinate) ([]models.CardRow, error) {
	key := coord.CacheKey()

	cached, err := f.cache.Get(ctx, key)
	if err == nil {
		var rows []models.CardRow
		if err := json.Unmarshal(cached, &rows); err == nil {
			return rows, nil
		}
		f.logger.WarnWithContext(ctx, "Не удалось разобрать кэш выборки карточки",
			interfaces.LogField{Key: "key", Value: key},
		)
	} else if !errors.Is(err, pkgerrors.ErrCacheMiss) {
		f.logger.WarnWithContext(ctx, "Ошибка чтения кэша выборки карточки",
			interfaces.LogField{Key: "key", Value: key},
			interfaces.LogField{Key: "error", Value: err.Error()},
		)
	}

	rows, err := f.inner.FetchRows(ctx, coord)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(rows); err == nil {
		if err := f.cache.Set(ctx, key, data, f.ttl); err != nil {
			f.logger.WarnWithContext(ctx, "Ошибка записи кэша выборки карточки",
				interfaces.LogField{Key: "key", Value: key},
				interfaces.LogField{Key: "error", Value: err.Error()},
			)
		}
	}

	return rows, nil
}
