package collection

import (
	"github.com/athebyme/wbcard-sync/internal/domain/models"
)

// SizesParam — размерный ряд карточки
const SizesParam = "sizes"

// Size — один размер в запросе обновления
type Size struct {
	TechSize string   `json:"techSize"`
	Price    float64  `json:"price,omitempty"`
	Skus     []string `json:"skus"`
}

// SizesProperty маппер поля sizes из агрегата размеров карточки
type SizesProperty struct{}

func (SizesProperty) Key() string { return SizesParam }

func (SizesProperty) Priority() int { return 701 }

func (SizesProperty) Required() bool { return false }

func (SizesProperty) Default() interface{} { return nil }

func (SizesProperty) Choices() []string { return nil }

func (SizesProperty) IsSetting() bool { return false }

func (SizesProperty) Matches(key string) bool { return key == SizesParam }

func (SizesProperty) Extract(record *models.CardRecord) interface{} {
	if len(record.Sizes) == 0 {
		return nil
	}

	sizes := make([]Size, 0, len(record.Sizes))
	for _, s := range record.Sizes {
		size := Size{
			TechSize: s.Value,
			Price:    s.Price.InexactFloat64(),
		}
		if s.Barcode != "" {
			size.Skus = []string{s.Barcode}
		}
		sizes = append(sizes, size)
	}

	return sizes
}
