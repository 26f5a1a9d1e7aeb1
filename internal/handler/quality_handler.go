package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"docinsight/internal/service"
)

// QualityHandler handles the document quality scorer.
type QualityHandler struct {
	qualityService service.QualityService
	limits         UploadLimits
}

// NewQualityHandler creates a new QualityHandler.
func NewQualityHandler(qualityService service.QualityService, limits UploadLimits) *QualityHandler {
	return &QualityHandler{qualityService: qualityService, limits: limits}
}

// Score handles POST /api/v1/quality
// @Summary Score a document against quality criteria
// @Tags quality
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document to score"
// @Param criteria formData []string true "Quality criteria"
// @Success 200 {object} APIResponse{data=domain.QualityReport}
// @Router /quality [post]
func (h *QualityHandler) Score(c *gin.Context) {
	limits := UploadLimits{MaxFileBytes: h.limits.MaxFileBytes, MaxFiles: 1}
	form, err := parseMultipart(c, limits)
	if err != nil {
		HandleError(c, err)
		return
	}
	files, err := readFiles(formFiles(form, "file"), limits)
	if err != nil {
		HandleError(c, err)
		return
	}

	report, err := h.qualityService.Score(c.Request.Context(), &service.QualityInput{
		File:     files[0],
		Criteria: criteriaFrom(form.Value["criteria"], form.Value["criteria[]"]),
		Model:    formValue(form, "model"),
		APIKey:   requestAPIKey(c, form),
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, report)
}

// criteriaFrom accepts repeated fields as well as one newline-separated field.
func criteriaFrom(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		for _, v := range g {
			out = append(out, strings.Split(v, "\n")...)
		}
	}
	return out
}
