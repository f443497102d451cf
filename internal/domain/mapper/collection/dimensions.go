package collection

import (
	"github.com/athebyme/wbcard-sync/internal/domain/models"
)

// DimensionsParam — габариты упаковки
const DimensionsParam = "dimensions"

// Dimensions — вложенный объект габаритов в запросе обновления:
// длина, ширина, высота в см и вес брутто в кг
type Dimensions struct {
	Length       int `json:"length"`
	Width        int `json:"width"`
	Height       int `json:"height"`
	WeightBrutto int `json:"weightBrutto"`
}

// DimensionsProperty маппер поля dimensions из параметров упаковки
type DimensionsProperty struct{}

func (DimensionsProperty) Key() string { return DimensionsParam }

func (DimensionsProperty) Priority() int { return 601 }

func (DimensionsProperty) Required() bool { return false }

func (DimensionsProperty) Default() interface{} { return nil }

func (DimensionsProperty) Choices() []string { return nil }

func (DimensionsProperty) IsSetting() bool { return false }

func (DimensionsProperty) Matches(key string) bool { return key == DimensionsParam }

func (DimensionsProperty) Extract(record *models.CardRecord) interface{} {
	if record.Length == 0 && record.Width == 0 && record.Height == 0 && record.Weight == 0 {
		return nil
	}

	return Dimensions{
		Length:       record.Length,
		Width:        record.Width,
		Height:       record.Height,
		WeightBrutto: record.Weight,
	}
}
