package resolver

import (
	"context"
	"fmt"

	"github.com/athebyme/wbcard-sync/internal/domain/models"
	pkgerrors "github.com/athebyme/wbcard-sync/pkg/errors"
	"github.com/shopspring/decimal"
)

// RowFetcher определяет интерфейс чтения сырых строк карточки из хранилища.
// Реализация обязана возвращать согласованный снимок; пустая выборка —
// штатный результат, а не ошибка.
type RowFetcher interface {
	FetchRows(ctx context.Context, coord models.Coordinate) ([]models.CardRow, error)
}

// Resolver сворачивает четырехуровневую иерархию переопределений
// (товар → торговое предложение → вариант → модификация) в одну
// каноническую карточку. Правило для скалярных полей: побеждает первое
// заполненное значение наиболее специфичного уровня.
type Resolver struct {
	fetcher RowFetcher
}

// New создает резолвер поверх источника строк
func New(fetcher RowFetcher) *Resolver {
	return &Resolver{fetcher: fetcher}
}

// stringTier извлекает строковое значение одного уровня из строки выборки
type stringTier func(models.CardRow) *string

// Порядок обхода уровней: от наиболее специфичного к базовому
var (
	articleTiers = []stringTier{
		func(r models.CardRow) *string { return r.ModificationArticle },
		func(r models.CardRow) *string { return r.VariationArticle },
		func(r models.CardRow) *string { return r.OfferArticle },
		func(r models.CardRow) *string { return r.ProductArticle },
	}

	barcodeTiers = []stringTier{
		func(r models.CardRow) *string { return r.ModificationBarcode },
		func(r models.CardRow) *string { return r.VariationBarcode },
		func(r models.CardRow) *string { return r.OfferBarcode },
		func(r models.CardRow) *string { return r.ProductBarcode },
	}

	sizeValueTiers = []stringTier{
		func(r models.CardRow) *string { return r.ModificationValue },
		func(r models.CardRow) *string { return r.VariationValue },
		func(r models.CardRow) *string { return r.OfferValue },
	}

	priceTiers = []func(models.CardRow) models.TierPrice{
		func(r models.CardRow) models.TierPrice { return r.ModificationPrice },
		func(r models.CardRow) models.TierPrice { return r.VariationPrice },
		func(r models.CardRow) models.TierPrice { return r.OfferPrice },
		func(r models.CardRow) models.TierPrice { return r.ProductPrice },
	}

	quantityTiers = []func(models.CardRow) models.TierQuantity{
		func(r models.CardRow) models.TierQuantity { return r.ModificationQuantity },
		func(r models.CardRow) models.TierQuantity { return r.VariationQuantity },
		func(r models.CardRow) models.TierQuantity { return r.OfferQuantity },
		func(r models.CardRow) models.TierQuantity { return r.ProductQuantity },
	}

	imageTiers = []func(models.CardRow) *models.RowImage{
		func(r models.CardRow) *models.RowImage { return r.ModificationImage },
		func(r models.CardRow) *models.RowImage { return r.VariationImage },
		func(r models.CardRow) *models.RowImage { return r.OfferImage },
		func(r models.CardRow) *models.RowImage { return r.ProductImage },
	}
)

// Resolve собирает каноническую карточку по координате.
// Возвращает pkg/errors.ErrCardNotFound, когда выборка пуста.
func (rs *Resolver) Resolve(ctx context.Context, coord models.Coordinate) (*models.CardRecord, error) {
	rows, err := rs.fetcher.FetchRows(ctx, coord)
	if err != nil {
		return nil, fmt.Errorf("выборка строк карточки: %w", err)
	}

	if len(rows) == 0 {
		return nil, pkgerrors.ErrCardNotFound
	}

	record := &models.CardRecord{
		Coordinate: coord,
		Article:    firstString(rows, articleTiers),
		Barcode:    firstString(rows, barcodeTiers),
		Name:       firstScalar(rows, func(r models.CardRow) *string { return r.Name }),
		Preview:    firstScalar(rows, func(r models.CardRow) *string { return r.Preview }),
		Properties: make(map[string]models.CardProperty),
		Parameters: make(map[string]models.CardParameter),
	}

	record.CategoryName = firstScalar(rows, func(r models.CardRow) *string { return r.CategoryName })
	record.Price = resolvePrice(rows)
	record.OldPrice = resolveOldPrice(rows, record.Price)
	record.AvailableQuantity = resolveQuantity(rows)

	for _, row := range rows {
		if row.MarketCategoryID != nil && record.MarketCategoryID == 0 {
			record.MarketCategoryID = *row.MarketCategoryID
		}
		record.Length = maxInt(record.Length, row.Length)
		record.Width = maxInt(record.Width, row.Width)
		record.Height = maxInt(record.Height, row.Height)
		record.Weight = maxInt(record.Weight, row.Weight)
	}

	// Размеры агрегируются только при связанной координате торгового
	// предложения; для координаты уровня товара коллекция остается пустой
	if coord.OfferConst.Valid {
		record.Sizes = resolveSizes(rows)
	}
	record.Images = resolveImages(rows)
	record.Articles = resolveArticles(rows)
	resolveProperties(rows, record.Properties)
	resolveParameters(rows, record.Parameters)

	return record, nil
}

// firstString возвращает первое непустое значение, обходя уровни от
// специфичного к базовому, а строки — в порядке выборки
func firstString(rows []models.CardRow, tiers []stringTier) string {
	for _, tier := range tiers {
		for _, row := range rows {
			if v := tier(row); v != nil && *v != "" {
				return *v
			}
		}
	}
	return ""
}

// firstScalar возвращает первое непустое значение поля, одинакового
// для всех уровней строки
func firstScalar(rows []models.CardRow, get func(models.CardRow) *string) string {
	for _, row := range rows {
		if v := get(row); v != nil && *v != "" {
			return *v
		}
	}
	return ""
}

// resolvePrice выбирает цену по приоритету уровней. Валюта всегда
// берется с того уровня, который предоставил победившую цену.
func resolvePrice(rows []models.CardRow) *models.Money {
	for _, tier := range priceTiers {
		for _, row := range rows {
			price := tier(row)
			if !price.Meaningful() {
				continue
			}
			money := &models.Money{Amount: price.Price.Decimal}
			if price.Currency != nil {
				money.Currency = *price.Currency
			}
			return money
		}
	}
	return nil
}

// resolveOldPrice выбирает предыдущую стоимость той же цепочкой уровней.
// Собственной валюты у предыдущей стоимости нет — используется валюта
// победившей цены.
func resolveOldPrice(rows []models.CardRow, price *models.Money) *models.Money {
	for _, tier := range priceTiers {
		for _, row := range rows {
			old := tier(row).Old
			if !old.Valid || !old.Decimal.IsPositive() {
				continue
			}
			money := &models.Money{Amount: old.Decimal}
			if price != nil {
				money.Currency = price.Currency
			}
			return money
		}
	}
	return nil
}

// resolveQuantity возвращает наличие за вычетом резерва с первого
// уровня, где наличие превышает резерв. Если такого уровня нет,
// товар недоступен и поле остается незаполненным.
func resolveQuantity(rows []models.CardRow) *int {
	for _, tier := range quantityTiers {
		for _, row := range rows {
			if available, ok := tier(row).Available(); ok {
				return &available
			}
		}
	}
	return nil
}

// resolveSizes собирает по одному размеру на строку выборки и удаляет
// полные дубликаты, сохраняя порядок выборки
func resolveSizes(rows []models.CardRow) []models.CardSize {
	var sizes []models.CardSize
	seen := make(map[string]struct{})

	for _, row := range rows {
		size := models.CardSize{
			Value:   firstString([]models.CardRow{row}, sizeValueTiers),
			Barcode: firstString([]models.CardRow{row}, barcodeTiers),
			Price:   sizePrice(row),
		}
		key := size.Value + "\x00" + size.Barcode + "\x00" + size.Price.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		sizes = append(sizes, size)
	}

	return sizes
}

func sizePrice(row models.CardRow) decimal.Decimal {
	for _, tier := range priceTiers {
		if price := tier(row); price.Meaningful() {
			return price.Price.Decimal
		}
	}
	return decimal.Zero
}

// resolveImages берет из каждой строки фото наиболее специфичного
// уровня и дедуплицирует результат по полному равенству значений
func resolveImages(rows []models.CardRow) []models.CardImage {
	var images []models.CardImage
	seen := make(map[models.CardImage]struct{})

	for _, row := range rows {
		for _, tier := range imageTiers {
			img := tier(row)
			if img == nil || img.Ext == "" {
				continue
			}
			card := models.CardImage(*img)
			if _, ok := seen[card]; !ok {
				seen[card] = struct{}{}
				images = append(images, card)
			}
			break
		}
	}

	return images
}

// resolveArticles собирает множество артикулов: по одному на строку,
// каждый разрешен цепочкой уровней
func resolveArticles(rows []models.CardRow) []string {
	var articles []string
	seen := make(map[string]struct{})

	for _, row := range rows {
		article := firstString([]models.CardRow{row}, articleTiers)
		if article == "" {
			continue
		}
		if _, ok := seen[article]; ok {
			continue
		}
		seen[article] = struct{}{}
		articles = append(articles, article)
	}

	return articles
}

// resolveProperties разрешает свойства: явное значение товара, иначе
// значение по умолчанию из настроек, иначе свойство отсутствует
func resolveProperties(rows []models.CardRow, out map[string]models.CardProperty) {
	for _, row := range rows {
		for _, prop := range row.Properties {
			if _, ok := out[prop.Type]; ok {
				continue
			}
			value := ""
			switch {
			case prop.Value != nil && *prop.Value != "":
				value = *prop.Value
			case prop.Default != nil && *prop.Default != "":
				value = *prop.Default
			default:
				continue
			}
			out[prop.Type] = models.CardProperty{Type: prop.Type, Value: value}
		}
	}
}

// resolveParameters разрешает параметры по приоритету источников:
// свойство товара → модификация → вариант → торговое предложение
func resolveParameters(rows []models.CardRow, out map[string]models.CardParameter) {
	for _, row := range rows {
		for _, param := range row.Parameters {
			if _, ok := out[param.Name]; ok {
				continue
			}
			value := firstOf(param.ProductValue, param.ModificationValue, param.VariationValue, param.OfferValue)
			if value == "" {
				continue
			}
			out[param.Name] = models.CardParameter{Name: param.Name, Value: value}
		}
	}
}

func firstOf(candidates ...*string) string {
	for _, c := range candidates {
		if c != nil && *c != "" {
			return *c
		}
	}
	return ""
}

func maxInt(current int, candidate *int) int {
	if candidate != nil && *candidate > current {
		return *candidate
	}
	return current
}
