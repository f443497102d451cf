package models

import "github.com/shopspring/decimal"

// CardSize — один размер карточки: значение, штрихкод и цена,
// свернутые по приоритету уровней
type CardSize struct {
	Value   string          `json:"value"`
	Barcode string          `json:"barcode"`
	Price   decimal.Decimal `json:"price"`
}

// CardImage — одно фото карточки с метаданными уровня-источника
type CardImage struct {
	Root bool   `json:"root"`
	Path string `json:"path"`
	Ext  string `json:"ext"`
	CDN  bool   `json:"cdn"`
}

// CardProperty — разрешенное значение свойства из настроек категории
type CardProperty struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// CardParameter — разрешенное значение параметра из настроек категории
type CardParameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CardRecord — каноническая карточка товара: результат свертки
// четырехуровневой иерархии переопределений для одной координаты.
// Запись собирается заново на каждый запрос, после сборки не
// изменяется и живет один цикл маппинга/отправки.
type CardRecord struct {
	Coordinate Coordinate `json:"coordinate"`

	// Скалярные поля, разрешенные по приоритету уровней
	Article           string `json:"article"`
	Barcode           string `json:"barcode"`
	Price             *Money `json:"price"`
	OldPrice          *Money `json:"old_price"`
	AvailableQuantity *int   `json:"available_quantity"`

	// Агрегаты по всем строкам координаты
	Sizes    []CardSize  `json:"sizes"`
	Images   []CardImage `json:"images"`
	Articles []string    `json:"articles"`

	// Описательные поля
	Name             string `json:"name"`
	Preview          string `json:"preview"`
	CategoryName     string `json:"category_name"`
	MarketCategoryID int    `json:"market_category_id"`

	// Параметры упаковки: максимум по всем строкам
	Length int `json:"length"`
	Width  int `json:"width"`
	Height int `json:"height"`
	Weight int `json:"weight"`

	Properties map[string]CardProperty  `json:"properties"`
	Parameters map[string]CardParameter `json:"parameters"`
}

// Property возвращает значение свойства по ключу поля из настроек
func (r *CardRecord) Property(key string) (CardProperty, bool) {
	p, ok := r.Properties[key]
	return p, ok
}

// Parameter возвращает значение параметра по ключу поля из настроек
func (r *CardRecord) Parameter(key string) (CardParameter, bool) {
	p, ok := r.Parameters[key]
	return p, ok
}
