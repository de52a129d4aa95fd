package transport

import (
	"net/http"

	"gaia-mare/internal/domain"
	"gaia-mare/internal/middleware"
	"gaia-mare/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for the product catalogue
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/stock", h.ListProductsWithStock)
		r.Get("/filter", h.FilterProducts)
	})
}

// ListProducts handles GET /api/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithRequestError(w, r, http.StatusInternalServerError, "failed to list products")
		return
	}

	if products == nil {
		products = []domain.Product{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// ListProductsWithStock handles GET /api/products/stock
func (h *ProductHandler) ListProductsWithStock(w http.ResponseWriter, r *http.Request) {
	rows, err := h.productService.ListProductsWithStock(r.Context())
	if err != nil {
		h.logger.Error("Failed to list product stock", zap.Error(err))
		middleware.RespondWithRequestError(w, r, http.StatusInternalServerError, "failed to list product stock")
		return
	}

	if rows == nil {
		rows = []domain.ProductStock{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, rows)
}

// FilterProducts handles GET /api/products/filter?collection=&material=
func (h *ProductHandler) FilterProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := domain.NewProductFilter(query.Get("collection"), query.Get("material"))

	products, err := h.productService.FilterProducts(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to filter products",
			zap.Error(err),
			zap.String("collection", query.Get("collection")),
			zap.String("material", query.Get("material")),
		)
		middleware.RespondWithRequestError(w, r, http.StatusInternalServerError, "failed to filter products")
		return
	}

	if products == nil {
		products = []domain.Product{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}
