package handler

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"tiendapos/internal/csvexport"
	"tiendapos/internal/domain"
	"tiendapos/internal/middleware"
	"tiendapos/internal/service"
)

// ReceptionHandler handles the invoice reception workflow endpoints.
type ReceptionHandler struct {
	receptionService service.ReceptionService
	maxUploadBytes   int64
}

// NewReceptionHandler creates a new ReceptionHandler.
func NewReceptionHandler(receptionService service.ReceptionService, maxUploadMB int64) *ReceptionHandler {
	return &ReceptionHandler{receptionService: receptionService, maxUploadBytes: maxUploadMB * 1024 * 1024}
}

// SetReceivedRequest is the body of PUT /receptions/:id/lines/:seq.
type SetReceivedRequest struct {
	Received *decimal.Decimal `json:"received" binding:"required"`
}

// Create handles POST /api/v1/receptions
// @Summary Load a supplier invoice
// @Description Upload a UBL invoice or AttachedDocument XML and reconcile it against the inventory
// @Tags receptions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Invoice XML"
// @Router /receptions [post]
func (h *ReceptionHandler) Create(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	if !isXMLUpload(header.Filename, header.Header.Get("Content-Type")) {
		HandleError(c, domain.ErrUnsupportedFile)
		return
	}
	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		HandleError(c, domain.ErrFileTooLarge)
		return
	}

	var r io.Reader = file
	if h.maxUploadBytes > 0 {
		r = io.LimitReader(file, h.maxUploadBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file")
		return
	}

	view, err := h.receptionService.Start(c.Request.Context(), service.StartReceptionInput{
		FileName: header.Filename,
		Data:     data,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, view)
}

// isXMLUpload accepts a declared XML content type or, for clients that send
// application/octet-stream, an .xml extension.
func isXMLUpload(filename, contentType string) bool {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil && domain.AllowedContentTypes[mt] {
		return true
	}
	return strings.EqualFold(filepath.Ext(filename), ".xml")
}

// Get handles GET /api/v1/receptions/:id
func (h *ReceptionHandler) Get(c *gin.Context) {
	view, err := h.receptionService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, view)
}

// StartCounting handles POST /api/v1/receptions/:id/counting
func (h *ReceptionHandler) StartCounting(c *gin.Context) {
	h.respondView(c)(h.receptionService.StartCounting(c.Request.Context(), c.Param("id")))
}

// SetReceived handles PUT /api/v1/receptions/:id/lines/:seq
// @Summary Record a counted quantity
// @Tags receptions
// @Accept json
// @Produce json
// @Param id path string true "Reception ID"
// @Param seq path int true "Invoice line sequence"
// @Param body body SetReceivedRequest true "Received quantity"
// @Router /receptions/{id}/lines/{seq} [put]
func (h *ReceptionHandler) SetReceived(c *gin.Context) {
	seq, err := strconv.Atoi(c.Param("seq"))
	if err != nil || seq < 1 {
		RespondError(c, http.StatusBadRequest, "INVALID_SEQ", "line sequence must be a positive integer")
		return
	}
	var req SetReceivedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	h.respondView(c)(h.receptionService.SetReceived(c.Request.Context(), c.Param("id"), seq, *req.Received))
}

// AcceptAll handles POST /api/v1/receptions/:id/accept-all
func (h *ReceptionHandler) AcceptAll(c *gin.Context) {
	h.respondView(c)(h.receptionService.AcceptAll(c.Request.Context(), c.Param("id")))
}

// Refresh handles POST /api/v1/receptions/:id/refresh
func (h *ReceptionHandler) Refresh(c *gin.Context) {
	h.respondView(c)(h.receptionService.Refresh(c.Request.Context(), c.Param("id")))
}

// Finalize handles POST /api/v1/receptions/:id/finalize
func (h *ReceptionHandler) Finalize(c *gin.Context) {
	h.respondView(c)(h.receptionService.Finalize(c.Request.Context(), c.Param("id")))
}

// Reopen handles POST /api/v1/receptions/:id/reopen
func (h *ReceptionHandler) Reopen(c *gin.Context) {
	h.respondView(c)(h.receptionService.Reopen(c.Request.Context(), c.Param("id")))
}

// Apply handles POST /api/v1/receptions/:id/apply
// @Summary Apply a finalized reception to the inventory
// @Tags receptions
// @Produce json
// @Param id path string true "Reception ID"
// @Router /receptions/{id}/apply [post]
func (h *ReceptionHandler) Apply(c *gin.Context) {
	h.respondView(c)(h.receptionService.Apply(c.Request.Context(), c.Param("id")))
}

// Cancel handles DELETE /api/v1/receptions/:id
func (h *ReceptionHandler) Cancel(c *gin.Context) {
	if err := h.receptionService.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "reception cancelled"})
}

// Report handles GET /api/v1/receptions/:id/report.csv
func (h *ReceptionHandler) Report(c *gin.Context) {
	view, err := h.receptionService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	hdr := view.Invoice.Header
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", csvexport.BuildFilename(hdr.SupplierName, hdr.Folio)))
	c.Status(http.StatusOK)
	if err := csvexport.WriteReport(c.Writer, view.Lines); err != nil {
		// Headers are already sent.
		middleware.GetLogger(c).Errorf("receptionHandler.Report: %v", err)
	}
}

// Archive handles GET /api/v1/receptions/:id/archive
func (h *ReceptionHandler) Archive(c *gin.Context) {
	url, err := h.receptionService.ArchiveURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}

func (h *ReceptionHandler) respondView(c *gin.Context) func(*service.ReceptionView, error) {
	return func(view *service.ReceptionView, err error) {
		if err != nil {
			HandleError(c, err)
			return
		}
		RespondOK(c, view)
	}
}
