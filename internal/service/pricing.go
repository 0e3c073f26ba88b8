package service

import (
	"fmt"
	"strings"

	"items-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// Pure pricing rules. No side effects: no database calls, no I/O, just
// input to output, so they are testable without any setup.

const maxNameLength = 255

var (
	discountNone  = decimal.Zero
	discountTier1 = decimal.RequireFromString("0.05")
	discountTier2 = decimal.RequireFromString("0.10")
	discountTier3 = decimal.RequireFromString("0.15")
)

// ApplyBulkDiscount determines the discount for a quantity. Thresholds are
// inclusive: 10+ items 5%, 50+ items 10%, 100+ items 15%.
func ApplyBulkDiscount(quantity int) decimal.Decimal {
	switch {
	case quantity >= 100:
		return discountTier3
	case quantity >= 50:
		return discountTier2
	case quantity >= 10:
		return discountTier1
	default:
		return discountNone
	}
}

// CalculateItemPrice computes base_price * quantity minus the discount,
// rounded half-up to 2 decimal places. All arithmetic is exact decimal;
// monetary values never touch binary floating point.
func CalculateItemPrice(basePrice decimal.Decimal, quantity int, discountPercent decimal.Decimal) decimal.Decimal {
	subtotal := basePrice.Mul(decimal.NewFromInt(int64(quantity)))
	discount := subtotal.Mul(discountPercent)
	return subtotal.Sub(discount).Round(2)
}

// ValidateItemName checks an item name against the domain rules: non-empty
// after trimming and at most 255 characters.
func ValidateItemName(name string) error {
	if strings.TrimSpace(name) == "" {
		return domain.NewValidation("Name cannot be empty", "name")
	}
	if len(name) > maxNameLength {
		return domain.NewValidation(fmt.Sprintf("Name cannot exceed %d characters", maxNameLength), "name")
	}
	return nil
}
