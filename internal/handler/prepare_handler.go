package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docinsight/internal/domain"
	"docinsight/internal/pipeline"
)

// DocumentPreparer runs the extract, prepare and assess stages. *pipeline.Pipeline
// satisfies it.
type DocumentPreparer interface {
	Prepare(req pipeline.Request) (*pipeline.Result, error)
}

// PrepareHandler exposes the document preparer on its own.
type PrepareHandler struct {
	preparer DocumentPreparer
	defaults domain.SizePolicy
}

// NewPrepareHandler creates a new PrepareHandler. defaults applies to requests
// that omit max_characters or max_tokens.
func NewPrepareHandler(preparer DocumentPreparer, defaults domain.SizePolicy) *PrepareHandler {
	return &PrepareHandler{preparer: preparer, defaults: defaults}
}

// PrepareRequest is the JSON body of POST /api/v1/prepare.
type PrepareRequest struct {
	Text          string `json:"text"`
	FileName      string `json:"file_name"`
	MaxCharacters *int   `json:"max_characters"`
	MaxTokens     *int   `json:"max_tokens"`
}

// PrepareResponse is the prepared text with its size advisory.
type PrepareResponse struct {
	Document domain.PreparedDocument `json:"document"`
	Advisory domain.SizeAdvisory     `json:"advisory"`
	Warning  string                  `json:"warning,omitempty"`
}

// Prepare handles POST /api/v1/prepare
// @Summary Prepare text for a language model prompt
// @Tags prepare
// @Accept json
// @Produce json
// @Router /prepare [post]
func (h *PrepareHandler) Prepare(c *gin.Context) {
	var req PrepareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid JSON body")
		return
	}

	policy := h.defaults
	if req.MaxCharacters != nil {
		policy.MaxCharacters = *req.MaxCharacters
	}
	if req.MaxTokens != nil {
		policy.MaxTokens = *req.MaxTokens
	}

	res, err := h.preparer.Prepare(pipeline.Request{Text: req.Text, Name: req.FileName, Policy: policy})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, PrepareResponse{
		Document: res.Prepared,
		Advisory: res.Advisory,
		Warning:  res.Warning(),
	})
}
