package handler

import (
	"github.com/gin-gonic/gin"

	"docinsight/internal/service"
)

// AvatarHandler handles the 3D avatar generator.
type AvatarHandler struct {
	avatarService service.AvatarService
	limits        UploadLimits
}

// NewAvatarHandler creates a new AvatarHandler.
func NewAvatarHandler(avatarService service.AvatarService, limits UploadLimits) *AvatarHandler {
	return &AvatarHandler{avatarService: avatarService, limits: limits}
}

// Generate handles POST /api/v1/avatars
// @Summary Generate a 3D cartoon avatar from a photo
// @Tags avatars
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "JPG or PNG photo"
// @Success 200 {object} APIResponse{data=domain.AvatarResult}
// @Router /avatars [post]
func (h *AvatarHandler) Generate(c *gin.Context) {
	limits := UploadLimits{MaxFileBytes: h.limits.MaxFileBytes, MaxFiles: 1}
	form, err := parseMultipart(c, limits)
	if err != nil {
		HandleError(c, err)
		return
	}
	headers := formFiles(form, "image")
	files, err := readFiles(headers, limits)
	if err != nil {
		HandleError(c, err)
		return
	}

	result, err := h.avatarService.Generate(c.Request.Context(), &service.AvatarInput{
		Image:       files[0].Data,
		ContentType: headers[0].Header.Get("Content-Type"),
		APIKey:      requestAPIKey(c, form),
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}
