package collection

import (
	"sort"

	"github.com/athebyme/wbcard-sync/internal/domain/models"
)

// CharacteristicsParam — характеристики карточки
const CharacteristicsParam = "characteristics"

// Characteristic — одна характеристика в запросе обновления
type Characteristic struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Свойства, которыми владеют отдельные мапперы; в характеристики
// они не дублируются
var claimedProperties = map[string]struct{}{
	BrandParam:         {},
	countryPropertyKey: {},
}

// CharacteristicsProperty маппер поля characteristics из параметров
// и свободных свойств карточки
type CharacteristicsProperty struct{}

func (CharacteristicsProperty) Key() string { return CharacteristicsParam }

func (CharacteristicsProperty) Priority() int { return 801 }

func (CharacteristicsProperty) Required() bool { return false }

func (CharacteristicsProperty) Default() interface{} { return nil }

func (CharacteristicsProperty) Choices() []string { return nil }

func (CharacteristicsProperty) IsSetting() bool { return false }

func (CharacteristicsProperty) Matches(key string) bool { return key == CharacteristicsParam }

func (CharacteristicsProperty) Extract(record *models.CardRecord) interface{} {
	var charcs []Characteristic

	for _, param := range record.Parameters {
		if param.Value == "" {
			continue
		}
		charcs = append(charcs, Characteristic{Name: param.Name, Value: param.Value})
	}

	for _, prop := range record.Properties {
		if prop.Value == "" {
			continue
		}
		if _, ok := claimedProperties[prop.Type]; ok {
			continue
		}
		charcs = append(charcs, Characteristic{Name: prop.Type, Value: prop.Value})
	}

	if len(charcs) == 0 {
		return nil
	}

	// Порядок обхода карт недетерминирован; сортировка по имени
	// обеспечивает идентичный запрос при повторном цикле
	sort.Slice(charcs, func(i, j int) bool {
		return charcs[i].Name < charcs[j].Name
	})

	return charcs
}
