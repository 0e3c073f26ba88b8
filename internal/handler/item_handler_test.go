package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"items-backend/internal/domain"
	"items-backend/internal/repository"
	"items-backend/internal/service"
	"items-backend/pkg/httputil"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer wires the full HTTP surface against the in-memory fake,
// mirroring what cmd/server/main.go does in test mode.
func newTestServer(t *testing.T) (*echo.Echo, *repository.FakeItemRepository) {
	t.Helper()

	repo := repository.NewFakeItemRepository()
	itemSvc := service.NewItemService(repo, nil)
	itemHdlr := NewItemHandler(itemSvc)
	pricingHdlr := NewPricingHandler(service.NewPricingService())

	e := echo.New()
	e.Use(middleware.RequestID())
	e.HTTPErrorHandler = httputil.ErrorHandler

	apiV1 := e.Group("/api/v1")
	itemsGroup := apiV1.Group("/items")
	itemsGroup.POST("", itemHdlr.CreateItem)
	itemsGroup.GET("", itemHdlr.ListItems)
	itemsGroup.GET("/:id", itemHdlr.GetItemByID)
	itemsGroup.PATCH("/:id", itemHdlr.UpdateItem)
	itemsGroup.DELETE("/:id", itemHdlr.DeleteItem)
	apiV1.GET("/pricing/quote", pricingHdlr.QuoteItemPrice)

	return e, repo
}

func doJSON(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCreateItem(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/items", `{"name":"widget","description":"a widget"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var item domain.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "widget", item.Name)
	require.NotNil(t, item.Description)
	assert.Equal(t, "a widget", *item.Description)
	assert.True(t, item.IsActive)
	assert.False(t, item.CreatedAt.IsZero())
}

func TestCreateItem_ValidationFailure(t *testing.T) {
	e, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"description":"no name"}`},
		{"blank name", `{"name":"   "}`},
		{"name too long", `{"name":"` + strings.Repeat("a", 256) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(e, http.MethodPost, "/api/v1/items", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "VALIDATION_ERROR", body["code"])
			assert.NotNil(t, body["details"])
		})
	}
}

func TestGetItem_NotFoundBody(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/v1/items/abc", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.Equal(t, "Item with id 'abc' not found", body["message"])
}

func TestListItems(t *testing.T) {
	e, repo := newTestServer(t)

	for _, name := range []string{"one", "two", "three"} {
		rec := doJSON(e, http.MethodPost, "/api/v1/items", `{"name":"`+name+`"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(e, http.MethodGet, "/api/v1/items?skip=1&limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items []domain.Item `json:"items"`
		Total int           `json:"total"`
		Skip  int           `json:"skip"`
		Limit int           `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Items, 1)
	assert.Equal(t, 3, body.Total)
	assert.Equal(t, 1, body.Skip)
	assert.Equal(t, 1, body.Limit)

	// Empty store yields an empty array, not null.
	repo.Clear()
	rec = doJSON(e, http.MethodGet, "/api/v1/items", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"items":[]`)
}

func TestUpdateItem(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/items", `{"name":"widget","description":"desc"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(e, http.MethodPatch, "/api/v1/items/"+created.ID, `{"is_active":false}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated domain.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.False(t, updated.IsActive)
	assert.Equal(t, "widget", updated.Name, "omitted fields stay untouched")
	require.NotNil(t, updated.Description)
	assert.Equal(t, "desc", *updated.Description)

	rec = doJSON(e, http.MethodPatch, "/api/v1/items/missing", `{"name":"new"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteItem(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/items", `{"name":"ephemeral"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(e, http.MethodDelete, "/api/v1/items/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = doJSON(e, http.MethodDelete, "/api/v1/items/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestIDEchoedBack(t *testing.T) {
	e, _ := newTestServer(t)

	// Inbound X-Request-Id is echoed back.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
	req.Header.Set(echo.HeaderXRequestID, "test-correlation-id")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "test-correlation-id", rec.Header().Get(echo.HeaderXRequestID))

	// Absent X-Request-Id is generated.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestQuoteItemPrice(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/v1/pricing/quote?base_price=100&quantity=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 2, body["quantity"])

	rec = doJSON(e, http.MethodGet, "/api/v1/pricing/quote?base_price=abc&quantity=2", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/v1/pricing/quote?base_price=100&quantity=0", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
