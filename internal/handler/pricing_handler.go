package handler

import (
	"net/http"
	"strconv"

	"items-backend/internal/domain"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// PricingHandler exposes the pricing rules over HTTP.
type PricingHandler struct {
	pricingService domain.PricingService
}

// NewPricingHandler creates a new PricingHandler.
func NewPricingHandler(ps domain.PricingService) *PricingHandler {
	return &PricingHandler{pricingService: ps}
}

// QuoteItemPrice handles GET /pricing/quote?base_price=12.50&quantity=3.
// The applicable bulk discount tier is derived from the quantity.
func (h *PricingHandler) QuoteItemPrice(c echo.Context) error {
	basePrice, err := decimal.NewFromString(c.QueryParam("base_price"))
	if err != nil {
		return domain.NewValidation("base_price must be a decimal number", "base_price")
	}

	quantity, err := strconv.Atoi(c.QueryParam("quantity"))
	if err != nil {
		return domain.NewValidation("quantity must be an integer", "quantity")
	}

	quote, err := h.pricingService.QuoteItemPrice(c.Request().Context(), basePrice, quantity)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, quote)
}
