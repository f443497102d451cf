// Package collection содержит мапперы полей карточки Wildberries.
// Новое поле маркетплейса добавляется новым маппером в этом пакете
// и строкой в Collection; центральный диспетчер не правится.
package collection

import (
	"github.com/athebyme/wbcard-sync/internal/domain/mapper"
)

// Collection перечисляет все известные мапперы для регистрации
// в реестре на старте процесса
func Collection() []mapper.PropertyMapper {
	return []mapper.PropertyMapper{
		TitleProperty{},
		DescriptionProperty{},
		VendorCodeProperty{},
		BrandProperty{},
		CountryProperty{},
		DimensionsProperty{},
		SizesProperty{},
		CharacteristicsProperty{},
	}
}
