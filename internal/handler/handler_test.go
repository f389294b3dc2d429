package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/promo_api/internal/middleware"
	"github.com/GTDGit/promo_api/internal/models"
	"github.com/GTDGit/promo_api/internal/service"
	"github.com/GTDGit/promo_api/internal/sse"
	"github.com/GTDGit/promo_api/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// stubPromotions implements only the methods a test needs; the embedded
// interface panics on anything else.
type stubPromotions struct {
	promotionService
	created  service.PromotionInput
	imported string
	rule     models.DiscountRule
	err      error
}

func (s *stubPromotions) Create(_ context.Context, in service.PromotionInput) (*models.PromotionEvent, error) {
	s.created = in
	return &models.PromotionEvent{ID: "p1", Name: in.Name, Platform: in.Platform, Items: []models.PromotionItem{}}, s.err
}

func (s *stubPromotions) Get(_ context.Context, id string) (*models.PromotionEvent, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.PromotionEvent{ID: id}, nil
}

func (s *stubPromotions) AddItems(_ context.Context, _ string, req service.ItemRequest) (*service.ItemResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &service.ItemResult{Created: len(req.SKUs)}, nil
}

func (s *stubPromotions) ImportCSV(_ context.Context, _ string, r io.Reader, rule models.DiscountRule) (*service.ImportSummary, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrInvalidCSV, err)
	}
	s.imported = string(b)
	s.rule = rule
	return &service.ImportSummary{}, s.err
}

func (s *stubPromotions) ExportCSV(_ context.Context, _ string, w io.Writer) error {
	_, err := io.WriteString(w, "SKU,Name\nA,Alpha\n")
	return err
}

func (s *stubPromotions) ArchiveExport(context.Context, string) (string, error) {
	return "", s.err
}

func promotionRouter(svc promotionService) *gin.Engine {
	h := NewPromotionHandler(svc)
	r := gin.New()
	r.POST("/promotions", h.CreatePromotion)
	r.GET("/promotions/:id", h.GetPromotion)
	r.POST("/promotions/:id/items", h.AddItems)
	r.POST("/promotions/:id/import", h.ImportCSV)
	r.GET("/promotions/:id/export", h.ExportCSV)
	r.POST("/promotions/:id/export/archive", h.ArchiveExport)
	return r
}

func TestPromotionHandler_Create(t *testing.T) {
	stub := &stubPromotions{}
	r := promotionRouter(stub)

	body := `{"name":"Spring","platform":"Amazon","startDate":"2026-04-01T00:00:00Z","endDate":"2026-04-30T00:00:00Z"}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/promotions", strings.NewReader(body)))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Amazon", stub.created.Platform)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/promotions", strings.NewReader(`{"platform":"x"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", decode(t, w).Error.Code)
}

func TestPromotionHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{utils.ErrPromotionNotFound, http.StatusNotFound, "PROMOTION_NOT_FOUND"},
		{fmt.Errorf("%w: name is required", utils.ErrInvalidPromotion), http.StatusBadRequest, "INVALID_PROMOTION"},
		{utils.ErrPromotionNotEditable, http.StatusConflict, "PROMOTION_NOT_EDITABLE"},
		{errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			r := promotionRouter(&stubPromotions{err: tt.err})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/promotions/abc", nil))
			assert.Equal(t, tt.status, w.Code)
			env := decode(t, w)
			assert.False(t, env.Success)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestPromotionHandler_AddItems(t *testing.T) {
	r := promotionRouter(&stubPromotions{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/promotions/p1/items",
		strings.NewReader(`{"skus":[],"rule":{"type":"PERCENTAGE","value":10}}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/promotions/p1/items",
		strings.NewReader(`{"skus":["A","B"],"rule":{"type":"PERCENTAGE","value":"10"}}`)))
	assert.Equal(t, http.StatusOK, w.Code)

	var res service.ItemResult
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &res))
	assert.Equal(t, 2, res.Created)
}

func TestPromotionHandler_ImportRawBody(t *testing.T) {
	stub := &stubPromotions{}
	r := promotionRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/promotions/p1/import?discountType=fixed&discountValue=2.5", strings.NewReader("sku,price\nA,1\n"))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sku,price\nA,1\n", stub.imported)
	assert.Equal(t, models.DiscountFixed, stub.rule.Type)
	assert.True(t, decimal.RequireFromString("2.5").Equal(stub.rule.Value))

	req = httptest.NewRequest(http.MethodPost, "/promotions/p1/import?discountValue=lots", strings.NewReader(""))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPromotionHandler_ImportRawBodyTooLarge(t *testing.T) {
	stub := &stubPromotions{}
	r := promotionRouter(stub)

	body := "sku,price\n" + strings.Repeat("SKU-A,12.95\n", maxImportSize/12+1)
	req := httptest.NewRequest(http.MethodPost, "/promotions/p1/import", strings.NewReader(body))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_CSV")
	assert.Empty(t, stub.imported)
}

func TestPromotionHandler_ImportMultipart(t *testing.T) {
	stub := &stubPromotions{}
	r := promotionRouter(stub)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "prices.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("sku,promo\nA,9.95\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/promotions/p1/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sku,promo\nA,9.95\n", stub.imported)
}

func TestPromotionHandler_Export(t *testing.T) {
	r := promotionRouter(&stubPromotions{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/promotions/p1/export", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Equal(t, `attachment; filename="promotion-p1.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "SKU,Name\nA,Alpha\n", w.Body.String())

	r = promotionRouter(&stubPromotions{err: utils.ErrExportDisabled})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/promotions/p1/export/archive", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

type stubAuth struct {
	err error
}

func (s *stubAuth) Login(_ context.Context, email, _ string) (*service.LoginResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &service.LoginResult{Token: "tok", User: &models.AdminUser{Email: email}}, nil
}

func TestAuthHandler_LoginRateLimited(t *testing.T) {
	limiter := middleware.NewInvalidAuthRateLimiter(2, 0)
	h := NewAuthHandler(&stubAuth{err: utils.ErrInvalidCredentials}, limiter)
	r := gin.New()
	r.POST("/login", h.Login)

	login := func() int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login",
			strings.NewReader(`{"email":"ops@example.com","password":"x"}`)))
		return w.Code
	}
	assert.Equal(t, http.StatusUnauthorized, login())
	assert.Equal(t, http.StatusUnauthorized, login())
	assert.Equal(t, http.StatusTooManyRequests, login())
}

func TestAuthHandler_Login(t *testing.T) {
	h := NewAuthHandler(&stubAuth{}, nil)
	r := gin.New()
	r.POST("/login", h.Login)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"ops@example.com","password":"x"}`)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"not-an-email","password":"x"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("refused") }

	r := gin.New()
	r.GET("/ok", NewHealthHandler(map[string]Check{"database": ok, "redis": ok}).GetHealth)
	r.GET("/down", NewHealthHandler(map[string]Check{"database": ok, "redis": down}).GetHealth)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/down", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"degraded"`)
}

func TestSSEHandler_RequiresToken(t *testing.T) {
	utils.SetJWTSecret("handler-secret")
	r := gin.New()
	r.GET("/sse", NewSSEHandler(sse.NewHub()).Stream)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sse", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sse?token=garbage", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_TOKEN", decode(t, w).Error.Code)
}
