package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docinsight/internal/domain"
	"docinsight/internal/service"
)

// StockHandler handles the stock tracker chat.
type StockHandler struct {
	stockService service.StockService
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockService service.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// StockAskRequest is the JSON body of POST /api/v1/stocks/ask.
type StockAskRequest struct {
	Symbol   string               `json:"symbol"`
	Question string               `json:"question"`
	History  []domain.ChatMessage `json:"history"`
	Model    string               `json:"model"`
	APIKey   string               `json:"api_key"`
}

// Ask handles POST /api/v1/stocks/ask
// @Summary Ask a question about a stock ticker
// @Tags stocks
// @Accept json
// @Produce json
// @Param body body StockAskRequest true "Question and conversation history"
// @Success 200 {object} APIResponse{data=domain.StockAnswer}
// @Router /stocks/ask [post]
func (h *StockHandler) Ask(c *gin.Context) {
	var req StockAskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid JSON body")
		return
	}

	apiKey := strings.TrimSpace(req.APIKey)
	if apiKey == "" {
		apiKey = requestAPIKey(c, nil)
	}

	answer, err := h.stockService.Ask(c.Request.Context(), &service.StockInput{
		Symbol:   req.Symbol,
		Question: req.Question,
		History:  req.History,
		Model:    req.Model,
		APIKey:   apiKey,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, answer)
}
