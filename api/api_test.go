package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"sales_management/internal/config"
	"sales_management/internal/db"
	"sales_management/internal/models"
)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	cfg    config.Config
}

func newTestEnv(t *testing.T, opts ...func(*config.Config)) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.Database = config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
		Name:   "sales_management",
	}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Uploads.Dir = t.TempDir()
	for _, opt := range opts {
		opt(&cfg)
	}

	conn, err := db.Open(cfg.Database, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(conn) })
	require.NoError(t, db.Migrate(conn))

	logger := zaptest.NewLogger(t)
	return &testEnv{
		router: NewRouter(cfg, NewServices(cfg, conn, logger), logger),
		db:     conn,
		cfg:    cfg,
	}
}

// do sends a JSON request. body may be a raw JSON string or any value to marshal.
func (e *testEnv) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type invoiceList struct {
	Success bool                  `json:"success"`
	Data    []models.SalesInvoice `json:"data"`
	Error   string                `json:"error"`
}

const scenarioInvoice = `{
	"CustomerId": 1,
	"Address": "123 Main St",
	"TotalQty": 3,
	"TotalAmount": 150.00,
	"Items": [
		{"ProductID": 1, "Quantity": 1, "Rate": 100, "Discount": 0, "Amount": 100},
		{"ProductID": 2, "Quantity": 2, "Rate": 25, "Discount": 0, "Amount": 50}
	]
}`

func seedCatalog(t *testing.T, conn *gorm.DB) {
	t.Helper()
	require.NoError(t, conn.Create(&models.Customer{ID: 1, Name: "Acme", Address: "123 Main St"}).Error)
	require.NoError(t, conn.Create(&[]models.Product{
		{ID: 1, Name: "Widget", SalesRate: decimal.NewFromInt(100)},
		{ID: 2, Name: "Gadget", SalesRate: decimal.NewFromInt(25)},
	}).Error)
}

func TestSalesInvoiceScenario(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env.db)

	received := time.Now()
	w := env.do(t, http.MethodPost, "/api/sales-invoices", scenarioInvoice)
	sent := time.Now()
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[struct {
		Success bool   `json:"success"`
		TxnNo   uint   `json:"txnNo"`
		Message string `json:"message"`
	}](t, w)
	assert.True(t, created.Success)
	require.NotZero(t, created.TxnNo)

	w = env.do(t, http.MethodGet, "/api/sales-invoices", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"TotalAmount":150`, "amounts are JSON numbers")

	listed := decode[invoiceList](t, w)
	assert.True(t, listed.Success)
	require.Len(t, listed.Data, 1)

	inv := listed.Data[0]
	assert.Equal(t, created.TxnNo, inv.TxnNo)
	assert.Equal(t, uint(1), inv.CustomerID)
	assert.Equal(t, "123 Main St", inv.Address)
	require.NotNil(t, inv.CustomerName)
	assert.Equal(t, "Acme", *inv.CustomerName)
	assert.True(t, inv.TotalAmount.Equal(decimal.RequireFromString("150.00")))
	assert.True(t, inv.TotalQty.Equal(decimal.NewFromInt(3)))
	assert.False(t, inv.TxnDate.Before(received.Add(-time.Microsecond)), "TxnDate %v before request %v", inv.TxnDate, received)
	assert.False(t, inv.TxnDate.After(sent), "TxnDate %v after response %v", inv.TxnDate, sent)

	require.Len(t, inv.Items, 2)
	for i, item := range inv.Items {
		assert.Equal(t, i+1, item.Sno)
		assert.Equal(t, uint(i+1), item.ProductID)
		assert.Equal(t, created.TxnNo, item.TxnNo)
	}
	assert.True(t, inv.Items[1].Amount.Equal(decimal.NewFromInt(50)))

	t.Run("single invoice", func(t *testing.T) {
		w := env.do(t, http.MethodGet, fmt.Sprintf("/api/sales-invoices/%d", created.TxnNo), nil)
		require.Equal(t, http.StatusOK, w.Code)
		one := decode[struct {
			Data models.SalesInvoice `json:"data"`
		}](t, w)
		assert.Len(t, one.Data.Items, 2)

		assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/sales-invoices/9999", nil).Code)
		assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/sales-invoices/abc", nil).Code)
	})

	t.Run("reads are idempotent", func(t *testing.T) {
		first := env.do(t, http.MethodGet, "/api/sales-invoices", nil).Body.String()
		second := env.do(t, http.MethodGet, "/api/sales-invoices", nil).Body.String()
		assert.JSONEq(t, first, second)
	})
}

func TestCreateInvoiceRejections(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env.db)

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{name: "missing customer", body: `{"TotalQty":1,"TotalAmount":1,"Items":[{"ProductID":1,"Quantity":1,"Rate":1,"Discount":0,"Amount":1}]}`, wantCode: http.StatusBadRequest},
		{name: "no items", body: `{"CustomerId":1,"TotalQty":0,"TotalAmount":0,"Items":[]}`, wantCode: http.StatusBadRequest},
		{name: "item without quantity", body: `{"CustomerId":1,"TotalQty":1,"TotalAmount":1,"Items":[{"ProductID":1,"Rate":1,"Discount":0,"Amount":1}]}`, wantCode: http.StatusBadRequest},
		{name: "item without discount", body: `{"CustomerId":1,"TotalQty":1,"TotalAmount":1,"Items":[{"ProductID":1,"Quantity":1,"Rate":1,"Amount":1}]}`, wantCode: http.StatusBadRequest},
		{name: "unknown product rolls back", body: `{"CustomerId":1,"TotalQty":2,"TotalAmount":2,"Items":[{"ProductID":1,"Quantity":1,"Rate":1,"Discount":0,"Amount":1},{"ProductID":77,"Quantity":1,"Rate":1,"Discount":0,"Amount":1}]}`, wantCode: http.StatusInternalServerError},
		{name: "unknown customer", body: `{"CustomerId":42,"TotalQty":1,"TotalAmount":1,"Items":[{"ProductID":1,"Quantity":1,"Rate":1,"Discount":0,"Amount":1}]}`, wantCode: http.StatusInternalServerError},
		{name: "malformed json", body: `{"CustomerId":`, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/sales-invoices", tt.body)
			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())
			assert.Equal(t, false, decode[map[string]any](t, w)["success"])
		})
	}

	listed := decode[invoiceList](t, env.do(t, http.MethodGet, "/api/sales-invoices", nil))
	assert.Empty(t, listed.Data, "no header survives a rejected submission")

	var items int64
	require.NoError(t, env.db.Model(&models.SalesItem{}).Count(&items).Error)
	assert.Zero(t, items)
}

func TestInvoiceTotalsEnforcement(t *testing.T) {
	mismatched := strings.Replace(scenarioInvoice, `"TotalAmount": 150.00`, `"TotalAmount": 149.00`, 1)

	trusted := newTestEnv(t)
	seedCatalog(t, trusted.db)
	assert.Equal(t, http.StatusCreated, trusted.do(t, http.MethodPost, "/api/sales-invoices", mismatched).Code)

	t.Run("enforced", func(t *testing.T) {
		env := newTestEnv(t, func(c *config.Config) { c.App.EnforceInvoiceTotals = true })
		seedCatalog(t, env.db)
		assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/sales-invoices", mismatched).Code)
		assert.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/sales-invoices", scenarioInvoice).Code)
	})
}

func TestInvoicePaging(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env.db)
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/sales-invoices", scenarioInvoice).Code)
	}

	all := decode[invoiceList](t, env.do(t, http.MethodGet, "/api/sales-invoices", nil))
	require.Len(t, all.Data, 3)

	page := decode[invoiceList](t, env.do(t, http.MethodGet, "/api/sales-invoices?limit=2&offset=1", nil))
	require.Len(t, page.Data, 2)
	assert.Equal(t, all.Data[1].TxnNo, page.Data[0].TxnNo)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/sales-invoices?limit=abc", nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/sales-invoices?limit=0", nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/sales-invoices?offset=-1", nil).Code)
}

func TestCustomerEndpoints(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/customers", map[string]any{"Name": "Acme", "Address": "1 Road"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[struct {
		ID      uint   `json:"id"`
		Message string `json:"message"`
	}](t, w)
	assert.Equal(t, "Customer created successfully", created.Message)

	t.Run("missing rows are not found and untouched", func(t *testing.T) {
		w := env.do(t, http.MethodPut, "/api/customers/999", map[string]any{"Name": "Ghost"})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/api/customers/999", nil).Code)

		list := decode[[]models.Customer](t, env.do(t, http.MethodGet, "/api/customers", nil))
		require.Len(t, list, 1)
		assert.Equal(t, "Acme", list[0].Name)
	})

	t.Run("bad input", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPut, "/api/customers/abc", map[string]any{"Name": "x"}).Code)
		assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodDelete, "/api/customers/0", nil).Code)
		assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/customers", map[string]any{"Address": "no name"}).Code)
	})

	path := fmt.Sprintf("/api/customers/%d", created.ID)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodPut, path, map[string]any{"Name": "Acme Ltd"}).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodDelete, path, nil).Code)
	assert.Empty(t, decode[[]models.Customer](t, env.do(t, http.MethodGet, "/api/customers", nil)))
}

func TestProductAndLookupEndpoints(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/brands", map[string]any{"Name": "Acme"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	brand := decode[struct {
		ID uint `json:"id"`
	}](t, w)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPut, "/api/brands/999", map[string]any{"Name": "x"}).Code)
	assert.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/areas", map[string]any{"Name": "North"}).Code)

	dropdowns := decode[struct {
		Success bool `json:"success"`
		Data    struct {
			Categories []models.ProductCategory `json:"categories"`
			Brands     []models.Brand           `json:"brands"`
		} `json:"data"`
	}](t, env.do(t, http.MethodGet, "/api/product-dropdowns", nil))
	assert.True(t, dropdowns.Success)
	assert.Empty(t, dropdowns.Data.Categories)
	require.Len(t, dropdowns.Data.Brands, 1)

	customerDropdowns := decode[map[string]any](t, env.do(t, http.MethodGet, "/api/dropdowns", nil))
	assert.Len(t, customerDropdowns["data"].(map[string]any)["areas"], 1)

	w = env.do(t, http.MethodPost, "/api/products", fmt.Sprintf(`{"Name":"Monitor","BrandID":%d,"PurchaseRate":80.5,"SalesRate":"120.25"}`, brand.ID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	product := decode[struct {
		ID uint `json:"id"`
	}](t, w)

	list := decode[[]models.Product](t, env.do(t, http.MethodGet, "/api/products", nil))
	require.Len(t, list, 1)
	require.NotNil(t, list[0].BrandName)
	assert.Equal(t, "Acme", *list[0].BrandName)
	assert.True(t, list[0].SalesRate.Equal(decimal.RequireFromString("120.25")))

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/products", `{"Name":"Bad","SalesRate":-1}`).Code)

	w = env.do(t, http.MethodPost, "/api/product-images", map[string]any{"productId": product.ID, "imagePath": "/uploads/a.png"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, true, decode[map[string]any](t, w)["success"])
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPost, "/api/product-images", map[string]any{"productId": 999, "imagePath": "/uploads/b.png"}).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/product-images", map[string]any{"productId": product.ID}).Code)

	imagesPath := fmt.Sprintf("/api/product-images/%d", product.ID)
	images := decode[[]models.ProductImage](t, env.do(t, http.MethodGet, imagesPath, nil))
	require.Len(t, images, 1)
	assert.Equal(t, "/uploads/a.png", images[0].ImagePath)

	require.Equal(t, http.StatusOK, env.do(t, http.MethodDelete, fmt.Sprintf("/api/products/%d", product.ID), nil).Code)
	assert.Empty(t, decode[[]models.ProductImage](t, env.do(t, http.MethodGet, imagesPath, nil)))
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, fmt.Sprintf("/api/products/%d", product.ID), nil).Code)
}

func TestTokenGate(t *testing.T) {
	t.Run("off by default", func(t *testing.T) {
		env := newTestEnv(t)
		assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/customers", nil).Code)
	})

	env := newTestEnv(t, func(c *config.Config) { c.Auth.RequireAuth = true })
	require.NoError(t, db.Seed(env.db, "admin", "s3cret"))

	w := env.do(t, http.MethodGet, "/api/customers", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Access token required", decode[map[string]string](t, w)["error"])

	w = env.do(t, http.MethodGet, "/api/customers", nil, "Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Invalid token", decode[map[string]string](t, w)["error"])

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/health", nil).Code, "health stays public")
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/test", nil).Code, "test stays public")

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/api/login", map[string]string{"username": "admin", "password": "wrong"}).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/api/login", map[string]string{"username": "nobody", "password": "s3cret"}).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/login", `{}`).Code)

	w = env.do(t, http.MethodPost, "/api/login", map[string]string{"username": "admin", "password": "s3cret"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	login := decode[struct {
		Token string `json:"token"`
		User  struct {
			ID   uint   `json:"id"`
			Name string `json:"name"`
		} `json:"user"`
	}](t, w)
	require.NotEmpty(t, login.Token)
	assert.Equal(t, "admin", login.User.Name)

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/customers", nil, "Authorization", "Bearer "+login.Token).Code)
}

func multipartImage(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadProductImage(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.Uploads.MaxBytes = 64 })
	png := []byte("\x89PNG\x0D\x0A\x1A\x0A tiny image")

	upload := func(field, filename string, content []byte) *httptest.ResponseRecorder {
		body, contentType := multipartImage(t, field, filename, content)
		req := httptest.NewRequest(http.MethodPost, "/api/upload-product-image", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		return w
	}

	w := upload("image", "photo.png", png)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[struct {
		Success   bool   `json:"success"`
		ImagePath string `json:"imagePath"`
		Message   string `json:"message"`
	}](t, w)
	assert.True(t, res.Success)
	assert.Regexp(t, `^/uploads/\d+-[0-9a-f]{8}\.png$`, res.ImagePath)

	served := env.do(t, http.MethodGet, res.ImagePath, nil)
	require.Equal(t, http.StatusOK, served.Code)
	assert.Equal(t, png, served.Body.Bytes())

	rejections := []struct {
		name     string
		field    string
		filename string
		content  []byte
	}{
		{name: "not an image", field: "image", filename: "notes.txt", content: []byte("plain text")},
		{name: "disguised text", field: "image", filename: "fake.gif", content: []byte("plain text")},
		{name: "too large", field: "image", filename: "big.png", content: append(append([]byte{}, png...), bytes.Repeat([]byte{0}, 128)...)},
		{name: "wrong field", field: "file", filename: "photo.png", content: png},
	}
	for _, tt := range rejections {
		t.Run(tt.name, func(t *testing.T) {
			w := upload(tt.field, tt.filename, tt.content)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := decode[map[string]any](t, w)
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestStoreFailure(t *testing.T) {
	t.Run("demo fallback on reads", func(t *testing.T) {
		env := newTestEnv(t, func(c *config.Config) { c.App.DemoFallback = true })
		require.NoError(t, db.Close(env.db))

		w := env.do(t, http.MethodGet, "/api/sales-invoices", nil)
		require.Equal(t, http.StatusOK, w.Code)
		listed := decode[invoiceList](t, w)
		assert.True(t, listed.Success)
		require.Len(t, listed.Data, 1)
		assert.Equal(t, uint(1), listed.Data[0].TxnNo)
		assert.Len(t, listed.Data[0].Items, 2)

		customers := decode[[]models.Customer](t, env.do(t, http.MethodGet, "/api/customers", nil))
		assert.NotEmpty(t, customers)
		assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/products", nil).Code)
		assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/dropdowns", nil).Code)
		assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/product-dropdowns", nil).Code)

		assert.Equal(t, http.StatusInternalServerError, env.do(t, http.MethodPost, "/api/customers", map[string]any{"Name": "x"}).Code, "writes never fall back")
		assert.Equal(t, http.StatusInternalServerError, env.do(t, http.MethodPost, "/api/sales-invoices", scenarioInvoice).Code)
	})

	t.Run("errors surface without fallback", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, db.Close(env.db))

		w := env.do(t, http.MethodGet, "/api/sales-invoices", nil)
		require.Equal(t, http.StatusInternalServerError, w.Code)
		listed := decode[invoiceList](t, w)
		assert.False(t, listed.Success)
		assert.Contains(t, listed.Error, "database is closed")
		assert.Equal(t, http.StatusInternalServerError, env.do(t, http.MethodGet, "/api/customers", nil).Code)

		health := decode[map[string]any](t, env.do(t, http.MethodGet, "/api/health", nil))
		assert.Equal(t, "down", health["store"])
	})

	t.Run("production hides store errors", func(t *testing.T) {
		env := newTestEnv(t, func(c *config.Config) { c.App.Env = "production" })
		require.NoError(t, db.Close(env.db))

		listed := decode[invoiceList](t, env.do(t, http.MethodGet, "/api/sales-invoices", nil))
		assert.Equal(t, "internal error", listed.Error)
	})
}

func TestSystemEndpoints(t *testing.T) {
	env := newTestEnv(t)

	root := decode[map[string]any](t, env.do(t, http.MethodGet, "/", nil))
	assert.Equal(t, "OK", root["status"])
	assert.Contains(t, root, "endpoints")

	test := decode[map[string]any](t, env.do(t, http.MethodGet, "/api/test", nil))
	assert.Equal(t, true, test["success"])
	assert.Equal(t, "API is working!", test["message"])

	health := decode[map[string]any](t, env.do(t, http.MethodGet, "/api/health", nil))
	assert.Equal(t, "OK", health["status"])
	assert.Equal(t, "sales_management", health["database"])
	assert.Equal(t, "up", health["store"])
	_, err := time.Parse(time.RFC3339Nano, health["timestamp"].(string))
	assert.NoError(t, err)
}
