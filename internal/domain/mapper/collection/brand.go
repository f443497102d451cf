package collection

import (
	"github.com/athebyme/wbcard-sync/internal/domain/models"
)

// BrandParam — название бренда или производителя
const BrandParam = "brand"

// BrandProperty маппер поля brand: явное свойство товара,
// иначе название категории
type BrandProperty struct{}

func (BrandProperty) Key() string { return BrandParam }

// Priority — чем меньше число, тем первым в итерации будет значение
func (BrandProperty) Priority() int { return 501 }

func (BrandProperty) Required() bool { return true }

func (BrandProperty) Default() interface{} { return nil }

func (BrandProperty) Choices() []string { return nil }

func (BrandProperty) IsSetting() bool { return true }

func (BrandProperty) Matches(key string) bool { return key == BrandParam }

func (BrandProperty) Extract(record *models.CardRecord) interface{} {
	if prop, ok := record.Property(BrandParam); ok && prop.Value != "" {
		return prop.Value
	}

	if record.CategoryName != "" {
		return record.CategoryName
	}

	return nil
}
