package collection

import (
	"github.com/athebyme/wbcard-sync/internal/domain/models"
)

// CountryParam — страна производства
const CountryParam = "countryProduction"

// Ключ свойства в настройках категории
const countryPropertyKey = "country"

// CountryProperty маппер поля countryProduction. Значение ограничено
// закрытым набором стран, принимаемым маркетплейсом.
type CountryProperty struct{}

func (CountryProperty) Key() string { return CountryParam }

func (CountryProperty) Priority() int { return 502 }

func (CountryProperty) Required() bool { return true }

func (CountryProperty) Default() interface{} { return "Россия" }

func (CountryProperty) Choices() []string {
	return []string{
		"Россия",
		"Беларусь",
		"Казахстан",
		"Китай",
		"Турция",
		"Узбекистан",
	}
}

func (CountryProperty) IsSetting() bool { return true }

func (CountryProperty) Matches(key string) bool { return key == CountryParam }

func (CountryProperty) Extract(record *models.CardRecord) interface{} {
	if prop, ok := record.Property(countryPropertyKey); ok && prop.Value != "" {
		return prop.Value
	}

	return nil
}
