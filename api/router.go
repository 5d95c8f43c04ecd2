package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sales_management/internal/auth"
	"sales_management/internal/config"
	"sales_management/internal/customers"
	"sales_management/internal/lookups"
	"sales_management/internal/products"
	"sales_management/internal/sales"
	"sales_management/internal/uploads"
)

func init() {
	// Rates and amounts go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Services bundles everything the routes call into.
type Services struct {
	Sales     *sales.Service
	Customers *customers.Service
	Products  *products.Service
	Lookups   *lookups.Service
	Auth      *auth.Authenticator
	Uploads   *uploads.Store

	// Ping reports whether the store is reachable.
	Ping func(ctx context.Context) error
}

// NewServices wires every service onto the given connection pool.
func NewServices(cfg config.Config, conn *gorm.DB, logger *zap.Logger) Services {
	fallback := cfg.App.DemoFallback
	return Services{
		Sales: sales.NewService(sales.NewGormStorage(conn), logger, sales.Options{
			EnforceTotals: cfg.App.EnforceInvoiceTotals,
			DemoFallback:  fallback,
		}),
		Customers: customers.NewService(customers.NewGormStorage(conn), logger, fallback),
		Products:  products.NewService(products.NewGormStorage(conn), logger, fallback),
		Lookups:   lookups.NewService(lookups.NewGormStorage(conn), logger, fallback),
		Auth:      auth.NewAuthenticator(auth.NewGormUserStore(conn), cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, logger),
		Uploads:   uploads.NewStore(cfg.Uploads.Dir, cfg.Uploads.MaxBytes, logger),
		Ping: func(ctx context.Context) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
}

// NewRouter builds the engine with recovery, request logging, CORS and every route.
func NewRouter(cfg config.Config, svc Services, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := gin.New()
	e.Use(gin.Recovery(), requestLogger(logger), corsMiddleware(cfg.Server.CORSOrigins))
	InitRoutes(e, cfg, svc, logger)
	return e
}

// InitRoutes registers the API on the given Gin engine. Login, health and test
// stay public; every other /api route goes through the token gate when
// REQUIRE_AUTH is on.
func InitRoutes(e *gin.Engine, cfg config.Config, svc Services, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	hide := cfg.IsProduction()

	salesHandler := NewSalesHandler(svc.Sales, logger, hide)
	customerHandler := newCustomerHandler(svc.Customers, svc.Lookups, logger, hide)
	productHandler := newProductHandler(svc.Products, svc.Lookups, logger, hide)
	uploadHandler := newUploadHandler(svc.Uploads, logger)
	authHandler := newAuthHandler(svc.Auth, logger, hide)
	system := newSystemHandler(cfg.Database.Name, svc.Ping, logger)

	e.Static("/uploads", svc.Uploads.Dir())
	e.GET("/", system.handleRoot)

	public := e.Group("/api")
	public.POST("/login", authHandler.handleLogin)
	public.GET("/health", system.handleHealth)
	public.GET("/test", system.handleTest)

	protected := e.Group("/api")
	if cfg.Auth.RequireAuth {
		protected.Use(requireToken(svc.Auth))
	}

	protected.GET("/customers", customerHandler.handleList)
	protected.POST("/customers", customerHandler.handleCreate)
	protected.PUT("/customers/:id", customerHandler.handleUpdate)
	protected.DELETE("/customers/:id", customerHandler.handleDelete)
	protected.GET("/dropdowns", customerHandler.handleDropdowns)

	protected.GET("/products", productHandler.handleList)
	protected.POST("/products", productHandler.handleCreate)
	protected.PUT("/products/:id", productHandler.handleUpdate)
	protected.DELETE("/products/:id", productHandler.handleDelete)
	protected.GET("/product-dropdowns", productHandler.handleDropdowns)
	protected.POST("/product-images", productHandler.handleAddImage)
	protected.GET("/product-images/:productId", productHandler.handleListImages)
	protected.POST("/upload-product-image", uploadHandler.handleUpload)

	registerLookup(protected, "/areas", newLookupHandler(svc.Lookups, lookups.Areas, "Area", logger, hide))
	registerLookup(protected, "/customer-categories", newLookupHandler(svc.Lookups, lookups.CustomerCategories, "Customer category", logger, hide))
	registerLookup(protected, "/product-categories", newLookupHandler(svc.Lookups, lookups.ProductCategories, "Product category", logger, hide))
	registerLookup(protected, "/brands", newLookupHandler(svc.Lookups, lookups.Brands, "Brand", logger, hide))

	protected.POST("/sales-invoices", salesHandler.handleCreateInvoice)
	protected.GET("/sales-invoices", salesHandler.handleListInvoices)
	protected.GET("/sales-invoices/:txnNo", salesHandler.handleGetInvoice)
}

func registerLookup(g *gin.RouterGroup, path string, h *lookupHandler) {
	g.GET(path, h.handleList)
	g.POST(path, h.handleCreate)
	g.PUT(path+"/:id", h.handleUpdate)
	g.DELETE(path+"/:id", h.handleDelete)
}

// systemHandler serves the unauthenticated status endpoints.
type systemHandler struct {
	database string
	ping     func(ctx context.Context) error
	logger   *zap.Logger
}

func newSystemHandler(database string, ping func(ctx context.Context) error, logger *zap.Logger) *systemHandler {
	return &systemHandler{database: database, ping: ping, logger: logger}
}

func (h *systemHandler) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "Sales Management API is running!",
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"endpoints": gin.H{
			"login":         "POST /api/login",
			"customers":     "GET /api/customers",
			"products":      "GET /api/products",
			"salesInvoices": "GET /api/sales-invoices",
			"health":        "GET /api/health",
			"test":          "GET /api/test",
		},
	})
}

func (h *systemHandler) handleTest(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "API is working!",
		"data":    gin.H{"test": "This is a test response"},
	})
}

func (h *systemHandler) handleHealth(c *gin.Context) {
	store := "up"
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			h.logger.Warn("store ping failed", zap.Error(err))
			store = "down"
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"database":  h.database,
		"store":     store,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}
