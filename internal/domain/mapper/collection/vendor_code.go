package collection

import (
	"github.com/athebyme/wbcard-sync/internal/domain/models"
)

// VendorCodeParam — артикул продавца
const VendorCodeParam = "vendorCode"

// VendorCodeProperty маппер поля vendorCode из разрешенного артикула
type VendorCodeProperty struct{}

func (VendorCodeProperty) Key() string { return VendorCodeParam }

func (VendorCodeProperty) Priority() int { return 301 }

func (VendorCodeProperty) Required() bool { return true }

func (VendorCodeProperty) Default() interface{} { return nil }

func (VendorCodeProperty) Choices() []string { return nil }

func (VendorCodeProperty) IsSetting() bool { return false }

func (VendorCodeProperty) Matches(key string) bool { return key == VendorCodeParam }

func (VendorCodeProperty) Extract(record *models.CardRecord) interface{} {
	if record.Article == "" {
		return nil
	}
	return record.Article
}
