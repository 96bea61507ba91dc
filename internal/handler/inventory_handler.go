package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"tiendapos/internal/domain"
	"tiendapos/internal/port"
)

// InventoryHandler exposes a read-only view of the product store.
type InventoryHandler struct {
	inventory port.InventoryRepository
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(inventory port.InventoryRepository) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// List handles GET /api/v1/inventory
// Optional ?q= filters by a case-insensitive substring of name, product ID or supplier SKU.
func (h *InventoryHandler) List(c *gin.Context) {
	records, err := h.inventory.ListRecords(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	if q == "" {
		RespondOK(c, records)
		return
	}
	filtered := make([]domain.InventoryRecord, 0, len(records))
	for i := range records {
		r := &records[i]
		if strings.Contains(strings.ToLower(r.Name), q) ||
			strings.Contains(strings.ToLower(r.ProductID), q) ||
			strings.Contains(strings.ToLower(r.SupplierSKU), q) {
			filtered = append(filtered, *r)
		}
	}
	RespondOK(c, filtered)
}
