package transport

import (
	"errors"
	"net/http"
	"net/url"

	"gaia-mare/internal/domain"
	"gaia-mare/internal/middleware"
	"gaia-mare/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// InventoryHandler handles HTTP requests for physical inventory
type InventoryHandler struct {
	inventoryService service.InventoryService
	logger           *zap.Logger
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService service.InventoryService, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		logger:           logger,
	}
}

// RegisterRoutes registers all inventory routes
func (h *InventoryHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/inventory", func(r chi.Router) {
		r.Get("/", h.ListInventory)
		r.Get("/sku/{sku}", h.GetBySKU)
	})
}

// ListInventory handles GET /api/inventory
func (h *InventoryHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventoryService.ListInventory(r.Context())
	if err != nil {
		h.logger.Error("Failed to list inventory", zap.Error(err))
		middleware.RespondWithRequestError(w, r, http.StatusInternalServerError, "failed to list inventory")
		return
	}

	if items == nil {
		items = []domain.InventoryItem{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, items)
}

// GetBySKU handles GET /api/inventory/sku/{sku}. A miss is a bare 404.
func (h *InventoryHandler) GetBySKU(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")
	// chi routes on RawPath when it is set, leaving the segment escaped
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(sku); err == nil {
			sku = unescaped
		}
	}

	item, err := h.inventoryService.GetBySKU(r.Context(), sku)
	if err != nil {
		if errors.Is(err, service.ErrInventoryItemNotFound) {
			h.logger.Debug("Inventory item not found", zap.String("sku", sku))
			middleware.RespondNotFound(w)
			return
		}

		h.logger.Error("Failed to get inventory item", zap.Error(err), zap.String("sku", sku))
		middleware.RespondWithRequestError(w, r, http.StatusInternalServerError, "failed to get inventory item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, item)
}
