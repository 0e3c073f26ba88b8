package service

import (
	"context"

	"items-backend/internal/domain"

	"github.com/shopspring/decimal"
)

type pricingService struct{}

// NewPricingService creates a new PricingService.
func NewPricingService() domain.PricingService {
	return &pricingService{}
}

// QuoteItemPrice applies the bulk discount tier for the quantity and computes
// the total with exact decimal arithmetic.
func (s *pricingService) QuoteItemPrice(_ context.Context, basePrice decimal.Decimal, quantity int) (*domain.PriceQuote, error) {
	if quantity < 1 {
		return nil, domain.NewValidation("Quantity must be at least 1", "quantity")
	}
	if basePrice.IsNegative() {
		return nil, domain.NewValidation("Base price must not be negative", "base_price")
	}

	discount := ApplyBulkDiscount(quantity)
	total := CalculateItemPrice(basePrice, quantity, discount)

	return &domain.PriceQuote{
		BasePrice:       basePrice,
		Quantity:        quantity,
		DiscountPercent: discount,
		Total:           total,
	}, nil
}
