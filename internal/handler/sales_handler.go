package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tiendapos/internal/service"
)

// SalesHandler handles point-of-sale endpoints.
type SalesHandler struct {
	salesService service.SalesService
}

// NewSalesHandler creates a new SalesHandler.
func NewSalesHandler(salesService service.SalesService) *SalesHandler {
	return &SalesHandler{salesService: salesService}
}

// Checkout handles POST /api/v1/sales
// @Summary Record a sale
// @Description Decrements stock for every cart item and appends the sale to the sales log
// @Tags sales
// @Accept json
// @Produce json
// @Param body body service.CheckoutInput true "Cart"
// @Router /sales [post]
func (h *SalesHandler) Checkout(c *gin.Context) {
	var input service.CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	sale, err := h.salesService.Checkout(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, sale)
}
