package collection

import (
	"github.com/athebyme/wbcard-sync/internal/domain/models"
)

// TitleParam — наименование карточки
const TitleParam = "title"

// Ограничение маркетплейса на длину наименования
const maxTitleLength = 60

// TitleProperty маппер поля title из названия товара
type TitleProperty struct{}

func (TitleProperty) Key() string { return TitleParam }

func (TitleProperty) Priority() int { return 101 }

func (TitleProperty) Required() bool { return true }

func (TitleProperty) Default() interface{} { return nil }

func (TitleProperty) Choices() []string { return nil }

func (TitleProperty) IsSetting() bool { return false }

func (TitleProperty) Matches(key string) bool { return key == TitleParam }

func (TitleProperty) Extract(record *models.CardRecord) interface{} {
	if record.Name == "" {
		return nil
	}
	return truncate(record.Name, maxTitleLength)
}

// truncate обрезает строку до limit рун
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
