package collection

import (
	"github.com/athebyme/wbcard-sync/internal/domain/models"
)

// DescriptionParam — описание карточки
const DescriptionParam = "description"

// Ограничение маркетплейса на длину описания
const maxDescriptionLength = 2000

// DescriptionProperty маппер поля description: анонс товара,
// иначе его название
type DescriptionProperty struct{}

func (DescriptionProperty) Key() string { return DescriptionParam }

func (DescriptionProperty) Priority() int { return 201 }

func (DescriptionProperty) Required() bool { return true }

func (DescriptionProperty) Default() interface{} { return nil }

func (DescriptionProperty) Choices() []string { return nil }

func (DescriptionProperty) IsSetting() bool { return false }

func (DescriptionProperty) Matches(key string) bool { return key == DescriptionParam }

func (DescriptionProperty) Extract(record *models.CardRecord) interface{} {
	if record.Preview != "" {
		return truncate(record.Preview, maxDescriptionLength)
	}

	if record.Name != "" {
		return record.Name
	}

	return nil
}
