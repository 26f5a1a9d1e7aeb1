package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"docinsight/internal/middleware"
	"docinsight/internal/report"
	"docinsight/internal/service"
)

// CategorizeHandler handles the message categorizer.
type CategorizeHandler struct {
	categorizeService service.CategorizeService
	limits            UploadLimits
	now               func() time.Time
}

// NewCategorizeHandler creates a new CategorizeHandler.
func NewCategorizeHandler(categorizeService service.CategorizeService, limits UploadLimits) *CategorizeHandler {
	return &CategorizeHandler{categorizeService: categorizeService, limits: limits, now: time.Now}
}

// Categorize handles POST /api/v1/categorize
// @Summary Categorize Outlook messages
// @Description Classify .msg files as reporting or tax requests. ?format=csv returns a CSV download.
// @Tags categorize
// @Accept multipart/form-data
// @Produce json
// @Produce text/csv
// @Param files formData file true "Outlook .msg files"
// @Param format query string false "json (default) or csv"
// @Success 200 {object} APIResponse{data=[]domain.CategoryResult}
// @Router /categorize [post]
func (h *CategorizeHandler) Categorize(c *gin.Context) {
	form, err := parseMultipart(c, h.limits)
	if err != nil {
		HandleError(c, err)
		return
	}
	files, err := readFiles(formFiles(form, "files", "files[]"), h.limits)
	if err != nil {
		HandleError(c, err)
		return
	}

	results, err := h.categorizeService.Categorize(c.Request.Context(), &service.CategorizeInput{
		Files:  files,
		Model:  formValue(form, "model"),
		APIKey: requestAPIKey(c, form),
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	if c.Query("format") != "csv" {
		RespondOK(c, results)
		return
	}

	filename := report.BuildFilename("message_categories", "csv", h.now())
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)
	if err := report.WriteCategoryCSV(c.Writer, results); err != nil {
		middleware.LoggerFrom(c).Error("writing category csv", zap.Error(err))
	}
}
