package models

import (
	"fmt"

	"github.com/google/uuid"
)

// Coordinate однозначно определяет комбинацию уровней, для которой
// собирается карточка: товар и (опционально) константы торгового
// предложения, варианта и модификации. Значение неизменяемо и передается
// по значению; незаполненный уровень означает выборку по всем строкам
// этого уровня.
type Coordinate struct {
	Profile           uuid.UUID
	Product           uuid.UUID
	OfferConst        uuid.NullUUID
	VariationConst    uuid.NullUUID
	ModificationConst uuid.NullUUID
}

// NewCoordinate создает координату уровня товара
func NewCoordinate(profile, product uuid.UUID) Coordinate {
	return Coordinate{Profile: profile, Product: product}
}

// WithOfferConst возвращает копию координаты с константой торгового предложения
func (c Coordinate) WithOfferConst(offer uuid.UUID) Coordinate {
	c.OfferConst = uuid.NullUUID{UUID: offer, Valid: true}
	return c
}

// WithVariationConst возвращает копию координаты с константой варианта
func (c Coordinate) WithVariationConst(variation uuid.UUID) Coordinate {
	c.VariationConst = uuid.NullUUID{UUID: variation, Valid: true}
	return c
}

// WithModificationConst возвращает копию координаты с константой модификации
func (c Coordinate) WithModificationConst(modification uuid.UUID) Coordinate {
	c.ModificationConst = uuid.NullUUID{UUID: modification, Valid: true}
	return c
}

func nullUUIDString(id uuid.NullUUID) string {
	if !id.Valid {
		return "-"
	}
	return id.UUID.String()
}

// CacheKey возвращает ключ координаты для кэша выборки строк
func (c Coordinate) CacheKey() string {
	return fmt.Sprintf("card:%s:%s:%s:%s:%s",
		c.Profile, c.Product,
		nullUUIDString(c.OfferConst),
		nullUUIDString(c.VariationConst),
		nullUUIDString(c.ModificationConst),
	)
}
