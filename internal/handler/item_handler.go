package handler

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"items-backend/internal/domain"
	"items-backend/pkg/httputil"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// validateNotBlank rejects strings that are empty after trimming whitespace.
func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ItemHandler handles HTTP requests for items. Handlers are thin: they bind
// and validate input, call the service, and return. Errors propagate to the
// central error handler, which maps them through the taxonomy.
type ItemHandler struct {
	itemService domain.ItemService
	validate    *validator.Validate
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(is domain.ItemService) *ItemHandler {
	validate := validator.New()

	if err := validate.RegisterValidation("notblank", validateNotBlank); err != nil {
		// Setup failure: the server must not start without working validation.
		log.Fatalf("Failed to register custom validation: %v", err)
	}

	return &ItemHandler{
		itemService: is,
		validate:    validate,
	}
}

// CreateItem handles POST /items. Returns 201 with the created item.
func (h *ItemHandler) CreateItem(c echo.Context) error {
	var req domain.CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return httputil.BadRequestError("Invalid request payload: " + err.Error())
	}

	if err := h.validate.StructCtx(c.Request().Context(), req); err != nil {
		return httputil.ValidationError("Input validation failed", httputil.ParseValidationErrors(err))
	}

	item, err := h.itemService.CreateItem(c.Request().Context(), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, item)
}

// GetItemByID handles GET /items/:id.
func (h *ItemHandler) GetItemByID(c echo.Context) error {
	id := c.Param("id")

	item, err := h.itemService.GetItem(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, item)
}

// ListItems handles GET /items with skip/limit pagination.
func (h *ItemHandler) ListItems(c echo.Context) error {
	skip, err := strconv.Atoi(c.QueryParam("skip"))
	if err != nil || skip < 0 {
		skip = 0
	}
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit < 1 {
		limit = 100
	}

	ctx := c.Request().Context()
	items, err := h.itemService.ListItems(ctx, skip, limit)
	if err != nil {
		return err
	}
	total, err := h.itemService.CountItems(ctx)
	if err != nil {
		return err
	}

	if items == nil {
		items = []*domain.Item{}
	}
	response := struct {
		Items []*domain.Item `json:"items"`
		Total int            `json:"total"`
		Skip  int            `json:"skip"`
		Limit int            `json:"limit"`
	}{
		Items: items,
		Total: total,
		Skip:  skip,
		Limit: limit,
	}

	return c.JSON(http.StatusOK, response)
}

// UpdateItem handles PATCH /items/:id. Fields absent from the payload are
// left untouched.
func (h *ItemHandler) UpdateItem(c echo.Context) error {
	id := c.Param("id")

	var req domain.UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return httputil.BadRequestError("Invalid request payload: " + err.Error())
	}

	if err := h.validate.StructCtx(c.Request().Context(), req); err != nil {
		return httputil.ValidationError("Input validation failed", httputil.ParseValidationErrors(err))
	}

	item, err := h.itemService.UpdateItem(c.Request().Context(), id, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, item)
}

// DeleteItem handles DELETE /items/:id. Returns 204 on success.
func (h *ItemHandler) DeleteItem(c echo.Context) error {
	id := c.Param("id")

	if err := h.itemService.DeleteItem(c.Request().Context(), id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
