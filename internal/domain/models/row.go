package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TierPrice содержит цену одного уровня переопределения как она
// лежит в хранилище: сумма, предыдущая стоимость и валюта
type TierPrice struct {
	Price    decimal.NullDecimal `json:"price"`
	Old      decimal.NullDecimal `json:"old"`
	Currency *string             `json:"currency"`
}

// Meaningful сообщает, заполнена ли цена уровня. NULL и ноль
// равнозначны незаполненному значению.
func (p TierPrice) Meaningful() bool {
	return p.Price.Valid && p.Price.Decimal.IsPositive()
}

// TierQuantity содержит наличие и резерв одного уровня
type TierQuantity struct {
	Quantity *int `json:"quantity"`
	Reserve  *int `json:"reserve"`
}

// Available возвращает наличие уровня за вычетом резерва.
// Уровень считается заполненным, только когда наличие положительно
// и превышает резерв; отрицательная доступность не возвращается никогда.
func (q TierQuantity) Available() (int, bool) {
	if q.Quantity == nil || *q.Quantity <= 0 {
		return 0, false
	}
	reserve := 0
	if q.Reserve != nil {
		reserve = *q.Reserve
		if reserve < 0 {
			reserve = -reserve
		}
	}
	if *q.Quantity <= reserve {
		return 0, false
	}
	return *q.Quantity - reserve, true
}

// RowImage описывает фото одного уровня в строке выборки
type RowImage struct {
	Root bool   `json:"root"`
	Path string `json:"path"`
	Ext  string `json:"ext"`
	CDN  bool   `json:"cdn"`
}

// RawProperty — кандидат значения свойства из настроек категории,
// присоединенный к строке выборки. Value — явное свойство товара,
// Default — значение по умолчанию из настроек.
type RawProperty struct {
	Type    string  `json:"type"`
	Value   *string `json:"value"`
	Default *string `json:"default"`
}

// RawParameter — кандидат значения параметра из настроек категории.
// Источники значения перечислены по уровням строки.
type RawParameter struct {
	Name              string  `json:"name"`
	ProductValue      *string `json:"product_value"`
	OfferValue        *string `json:"offer_value"`
	VariationValue    *string `json:"variation_value"`
	ModificationValue *string `json:"modification_value"`
}

// CardRow — одна сырая строка выборки карточки: товар, развернутый
// по комбинациям торговое предложение / вариант / модификация.
// Каждое поле хранится для всех уровней, на которых оно определено;
// свертку по приоритету выполняет резолвер.
type CardRow struct {
	OfferConst        uuid.NullUUID `json:"offer_const"`
	VariationConst    uuid.NullUUID `json:"variation_const"`
	ModificationConst uuid.NullUUID `json:"modification_const"`

	// Артикулы по уровням
	ProductArticle      *string `json:"product_article"`
	OfferArticle        *string `json:"offer_article"`
	VariationArticle    *string `json:"variation_article"`
	ModificationArticle *string `json:"modification_article"`

	// Штрихкоды по уровням
	ProductBarcode      *string `json:"product_barcode"`
	OfferBarcode        *string `json:"offer_barcode"`
	VariationBarcode    *string `json:"variation_barcode"`
	ModificationBarcode *string `json:"modification_barcode"`

	// Значения и постфиксы торгового предложения, варианта и модификации
	OfferValue          *string `json:"offer_value"`
	OfferPostfix        *string `json:"offer_postfix"`
	VariationValue      *string `json:"variation_value"`
	VariationPostfix    *string `json:"variation_postfix"`
	ModificationValue   *string `json:"modification_value"`
	ModificationPostfix *string `json:"modification_postfix"`

	// Цены по уровням
	ProductPrice      TierPrice `json:"product_price"`
	OfferPrice        TierPrice `json:"offer_price"`
	VariationPrice    TierPrice `json:"variation_price"`
	ModificationPrice TierPrice `json:"modification_price"`

	// Наличие и резерв по уровням
	ProductQuantity      TierQuantity `json:"product_quantity"`
	OfferQuantity        TierQuantity `json:"offer_quantity"`
	VariationQuantity    TierQuantity `json:"variation_quantity"`
	ModificationQuantity TierQuantity `json:"modification_quantity"`

	// Фото по уровням
	ProductImage      *RowImage `json:"product_image"`
	OfferImage        *RowImage `json:"offer_image"`
	VariationImage    *RowImage `json:"variation_image"`
	ModificationImage *RowImage `json:"modification_image"`

	// Параметры упаковки (см, кг брутто)
	Length *int `json:"length"`
	Width  *int `json:"width"`
	Height *int `json:"height"`
	Weight *int `json:"weight"`

	// Описательные поля
	Name             *string `json:"name"`
	Preview          *string `json:"preview"`
	CategoryName     *string `json:"category_name"`
	MarketCategoryID *int    `json:"market_category_id"`

	// Свойства и параметры из настроек категории
	Properties []RawProperty  `json:"properties"`
	Parameters []RawParameter `json:"parameters"`
}
