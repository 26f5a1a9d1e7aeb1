package handler

import (
	"github.com/gin-gonic/gin"

	"docinsight/internal/service"
)

// InsightHandler handles the document insights tool.
type InsightHandler struct {
	insightService service.InsightService
	limits         UploadLimits
}

// NewInsightHandler creates a new InsightHandler.
func NewInsightHandler(insightService service.InsightService, limits UploadLimits) *InsightHandler {
	return &InsightHandler{insightService: insightService, limits: limits}
}

// Analyze handles POST /api/v1/insights
// @Summary Analyze uploaded documents
// @Description Upload up to N files (txt, md, csv, json, xlsx, pdf, docx) and get per-file insights
// @Tags insights
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Files to analyze"
// @Param analysis_type formData string false "general, data, summary or custom"
// @Param custom_prompt formData string false "Instructions for custom analysis"
// @Param model formData string false "Model override"
// @Param api_key formData string false "Caller's own provider key"
// @Success 200 {object} APIResponse{data=domain.InsightBatch}
// @Router /insights [post]
func (h *InsightHandler) Analyze(c *gin.Context) {
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

	batch, err := h.insightService.AnalyzeFiles(c.Request.Context(), &service.InsightInput{
		Files:        files,
		AnalysisType: formValue(form, "analysis_type"),
		CustomPrompt: formValue(form, "custom_prompt"),
		Model:        formValue(form, "model"),
		APIKey:       requestAPIKey(c, form),
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, batch)
}
