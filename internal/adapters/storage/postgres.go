package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/athebyme/wbcard-sync/internal/domain/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CardStorage читает сырые строки карточки из PostgreSQL.
// Выборка разворачивает товар по комбинациям торговое предложение /
// вариант / модификация; свертку по приоритету выполняет резолвер,
// а не SQL.
type CardStorage struct {
	pool *pgxpool.Pool
}

// NewCardStorage создает хранилище поверх строки подключения
func NewCardStorage(ctx context.Context, connectionString string) (*CardStorage, error) {
	pool, err := pgxpool.New(ctx, connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return &CardStorage{pool: pool}, nil
}

// NewCardStorageWithPool создает хранилище поверх готового пула
func NewCardStorageWithPool(ctx context.Context, pool *pgxpool.Pool) (*CardStorage, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return &CardStorage{pool: pool}, nil
}

// Close закрывает соединение с БД
func (s *CardStorage) Close() error {
	s.pool.Close()
	return nil
}

// Незаданная константа уровня в параметре снимает ограничение:
// выбираются все строки уровня
const cardRowsQuery = `
SELECT
    product_offer.const        AS offer_const,
    product_variation.const    AS variation_const,
    product_modification.const AS modification_const,

    product_info.article         AS product_article,
    product_offer.article        AS offer_article,
    product_variation.article    AS variation_article,
    product_modification.article AS modification_article,

    product_info.barcode         AS product_barcode,
    product_offer.barcode        AS offer_barcode,
    product_variation.barcode    AS variation_barcode,
    product_modification.barcode AS modification_barcode,

    product_offer.value,        product_offer.postfix,
    product_variation.value,    product_variation.postfix,
    product_modification.value, product_modification.postfix,

    product_price.price,              product_price.old,              product_price.currency,
    product_offer_price.price,        product_offer_price.old,        product_offer_price.currency,
    product_variation_price.price,    product_variation_price.old,    product_variation_price.currency,
    product_modification_price.price, product_modification_price.old, product_modification_price.currency,

    product_price.quantity,                 product_price.reserve,
    product_offer_quantity.quantity,        product_offer_quantity.reserve,
    product_variation_quantity.quantity,    product_variation_quantity.reserve,
    product_modification_quantity.quantity, product_modification_quantity.reserve,

    product_photo.root, CONCAT('/upload/product_photo/', product_photo.name), product_photo.ext, product_photo.cdn,
    product_offer_image.root, CONCAT('/upload/product_offer_image/', product_offer_image.name), product_offer_image.ext, product_offer_image.cdn,
    product_variation_image.root, CONCAT('/upload/product_variation_image/', product_variation_image.name), product_variation_image.ext, product_variation_image.cdn,
    product_modification_image.root, CONCAT('/upload/product_modification_image/', product_modification_image.name), product_modification_image.ext, product_modification_image.cdn,

    product_package.length, product_package.width, product_package.height, product_package.weight,

    product_trans.name     AS product_name,
    product_desc.preview   AS product_preview,
    category_trans.name    AS category_name,
    settings_invariable.category AS market_category,

    (
        SELECT JSONB_AGG(
            JSONB_BUILD_OBJECT(
                'type', settings_property.type,
                'value', product_property.value,
                'default', settings_property.def
            )
        )
        FROM wb_settings_property settings_property
        LEFT JOIN product_property
            ON product_property.event = product.event
            AND product_property.field = settings_property.field
        WHERE settings_property.event = settings.event
    ) AS properties,

    (
        SELECT JSONB_AGG(
            JSONB_BUILD_OBJECT(
                'name', settings_parameter.type,
                'product_value', param_property.value,
                'offer_value', CASE WHEN product_offer.category_offer = settings_parameter.field THEN product_offer.value END,
                'variation_value', CASE WHEN product_variation.category_variation = settings_parameter.field THEN product_variation.value END,
                'modification_value', CASE WHEN product_modification.category_modification = settings_parameter.field THEN product_modification.value END
            )
        )
        FROM wb_settings_parameter settings_parameter
        LEFT JOIN product_property param_property
            ON param_property.event = product.event
            AND param_property.field = settings_parameter.field
        WHERE settings_parameter.event = settings.event
    ) AS parameters

FROM product

JOIN product_info
    ON product_info.product = product.id
    AND (product_info.profile IS NULL OR product_info.profile = $2)

LEFT JOIN product_offer
    ON product_offer.event = product.event
    AND ($3::uuid IS NULL OR product_offer.const = $3)

LEFT JOIN product_variation
    ON product_variation.offer = product_offer.id
    AND ($4::uuid IS NULL OR product_variation.const = $4)

LEFT JOIN product_modification
    ON product_modification.variation = product_variation.id
    AND ($5::uuid IS NULL OR product_modification.const = $5)

LEFT JOIN product_price              ON product_price.event = product.event
LEFT JOIN product_offer_price        ON product_offer_price.offer = product_offer.id
LEFT JOIN product_variation_price    ON product_variation_price.variation = product_variation.id
LEFT JOIN product_modification_price ON product_modification_price.modification = product_modification.id

LEFT JOIN product_offer_quantity        ON product_offer_quantity.offer = product_offer.id
LEFT JOIN product_variation_quantity    ON product_variation_quantity.variation = product_variation.id
LEFT JOIN product_modification_quantity ON product_modification_quantity.modification = product_modification.id

LEFT JOIN product_photo              ON product_photo.event = product.event
LEFT JOIN product_offer_image        ON product_offer_image.offer = product_offer.id
LEFT JOIN product_variation_image    ON product_variation_image.variation = product_variation.id
LEFT JOIN product_modification_image ON product_modification_image.modification = product_modification.id

LEFT JOIN product_package
    ON product_package.product = product.id
    AND (
        (product_offer.const IS NOT NULL AND product_package.offer = product_offer.const) OR
        (product_offer.const IS NULL AND product_package.offer IS NULL)
    )
    AND (
        (product_variation.const IS NOT NULL AND product_package.variation = product_variation.const) OR
        (product_variation.const IS NULL AND product_package.variation IS NULL)
    )
    AND (
        (product_modification.const IS NOT NULL AND product_package.modification = product_modification.const) OR
        (product_modification.const IS NULL AND product_package.modification IS NULL)
    )

LEFT JOIN product_trans ON product_trans.event = product.event
LEFT JOIN product_desc  ON product_desc.event = product.event AND product_desc.device = 'pc'

JOIN product_category ON product_category.event = product.event AND product_category.root = true
JOIN category        ON category.id = product_category.category
LEFT JOIN category_trans ON category_trans.event = category.event

JOIN wb_settings settings ON settings.id = product_category.category
LEFT JOIN wb_settings_invariable settings_invariable ON settings_invariable.main = settings.id

WHERE product.id = $1
`

// FetchRows получает строки карточки по координате.
// Пустая выборка — штатный результат: у товара нет настроек Wildberries.
func (s *CardStorage) FetchRows(ctx context.Context, coord models.Coordinate) ([]models.CardRow, error) {
	rows, err := s.pool.Query(ctx, cardRowsQuery,
		coord.Product,
		coord.Profile,
		coord.OfferConst,
		coord.VariationConst,
		coord.ModificationConst,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query card rows: %w", err)
	}
	defer rows.Close()

	var result []models.CardRow

	for rows.Next() {
		var (
			row models.CardRow

			productImg      imageScan
			offerImg        imageScan
			variationImg    imageScan
			modificationImg imageScan

			propertiesJSON []byte
			parametersJSON []byte
		)

		err := rows.Scan(
			&row.OfferConst, &row.VariationConst, &row.ModificationConst,
			&row.ProductArticle, &row.OfferArticle, &row.VariationArticle, &row.ModificationArticle,
			&row.ProductBarcode, &row.OfferBarcode, &row.VariationBarcode, &row.ModificationBarcode,
			&row.OfferValue, &row.OfferPostfix,
			&row.VariationValue, &row.VariationPostfix,
			&row.ModificationValue, &row.ModificationPostfix,
			&row.ProductPrice.Price, &row.ProductPrice.Old, &row.ProductPrice.Currency,
			&row.OfferPrice.Price, &row.OfferPrice.Old, &row.OfferPrice.Currency,
			&row.VariationPrice.Price, &row.VariationPrice.Old, &row.VariationPrice.Currency,
			&row.ModificationPrice.Price, &row.ModificationPrice.Old, &row.ModificationPrice.Currency,
			&row.ProductQuantity.Quantity, &row.ProductQuantity.Reserve,
			&row.OfferQuantity.Quantity, &row.OfferQuantity.Reserve,
			&row.VariationQuantity.Quantity, &row.VariationQuantity.Reserve,
			&row.ModificationQuantity.Quantity, &row.ModificationQuantity.Reserve,
			&productImg.Root, &productImg.Path, &productImg.Ext, &productImg.CDN,
			&offerImg.Root, &offerImg.Path, &offerImg.Ext, &offerImg.CDN,
			&variationImg.Root, &variationImg.Path, &variationImg.Ext, &variationImg.CDN,
			&modificationImg.Root, &modificationImg.Path, &modificationImg.Ext, &modificationImg.CDN,
			&row.Length, &row.Width, &row.Height, &row.Weight,
			&row.Name, &row.Preview, &row.CategoryName, &row.MarketCategoryID,
			&propertiesJSON, &parametersJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}

		row.ProductImage = productImg.toRowImage()
		row.OfferImage = offerImg.toRowImage()
		row.VariationImage = variationImg.toRowImage()
		row.ModificationImage = modificationImg.toRowImage()

		if len(propertiesJSON) > 0 {
			if err := json.Unmarshal(propertiesJSON, &row.Properties); err != nil {
				return nil, fmt.Errorf("failed to unmarshal card properties: %w", err)
			}
		}
		if len(parametersJSON) > 0 {
			if err := json.Unmarshal(parametersJSON, &row.Parameters); err != nil {
				return nil, fmt.Errorf("failed to unmarshal card parameters: %w", err)
			}
		}

		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read card rows: %w", err)
	}

	return result, nil
}

// imageScan — кандидат фото одного уровня до сборки в RowImage
type imageScan struct {
	Root *bool
	Path *string
	Ext  *string
	CDN  *bool
}

func (i imageScan) toRowImage() *models.RowImage {
	if i.Ext == nil || *i.Ext == "" {
		return nil
	}
	img := &models.RowImage{Ext: *i.Ext}
	if i.Path != nil {
		img.Path = *i.Path
	}
	if i.Root != nil {
		img.Root = *i.Root
	}
	if i.CDN != nil {
		img.CDN = *i.CDN
	}
	return img
}
