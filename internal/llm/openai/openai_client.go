// Package openai implements the completion and image ports on the OpenAI API.
package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"docinsight/internal/config"
	"docinsight/internal/llm"
	"docinsight/internal/port"
)

const (
	defaultModel      = "gpt-4o"
	defaultImageModel = openai.CreateImageModelDallE3
)

// Client implements port.CompletionClient and port.ImageGenerator.
type Client struct {
	client     *openai.Client
	model      string
	imageModel string
}

// NewClient creates an OpenAI client from a provider config.
func NewClient(cfg *config.ProviderConfig) *Client {
	return newClient(cfg, cfg.BaseURL)
}

// NewClientWithEndpoint creates a client pointing at a custom API base URL (for testing).
func NewClientWithEndpoint(cfg *config.ProviderConfig, baseURL string) *Client {
	return newClient(cfg, baseURL)
}

func newClient(cfg *config.ProviderConfig, baseURL string) *Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	if baseURL != "" {
		oc.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	oc.HTTPClient = &http.Client{Timeout: timeout}

	model := cfg.DefaultModel
	if model == "" {
		model = defaultModel
	}
	return &Client{
		client:     openai.NewClientWithConfig(oc),
		model:      model,
		imageModel: defaultImageModel,
	}
}

// WithImageModel sets the model used by Generate when the request names none.
func (c *Client) WithImageModel(model string) *Client {
	if model != "" {
		c.imageModel = model
	}
	return c
}

func (c *Client) Complete(ctx context.Context, req port.CompletionRequest) (*port.CompletionResponse, error) {
	model := c.model
	if req.Model != "" {
		model = req.Model
	}

	oreq := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    buildMessages(req),
		MaxTokens:   req.MaxTokens,
		Temperature: float32(req.Temperature),
	}
	if req.JSONMode {
		oreq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, oreq)
	if err != nil {
		return nil, wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: no choices in response")
	}

	choice := resp.Choices[0]
	return &port.CompletionResponse{
		Text:             choice.Message.Content,
		Model:            resp.Model,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
		FinishReason:     string(choice.FinishReason),
		Truncated:        choice.FinishReason == openai.FinishReasonLength,
	}, nil
}

func (c *Client) Generate(ctx context.Context, req port.ImageRequest) (*port.ImageResponse, error) {
	model := c.imageModel
	if req.Model != "" {
		model = req.Model
	}
	size := req.Size
	if size == "" {
		size = openai.CreateImageSize1024x1024
	}

	resp, err := c.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         req.Prompt,
		Model:          model,
		Size:           size,
		Quality:        req.Quality,
		N:              1,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return nil, wrapError(err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return nil, fmt.Errorf("openai: no image in response")
	}
	return &port.ImageResponse{
		URL:           resp.Data[0].URL,
		RevisedPrompt: resp.Data[0].RevisedPrompt,
	}, nil
}

func buildMessages(req port.CompletionRequest) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.Messages {
		if len(m.Images) == 0 {
			msgs = append(msgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Text})
			continue
		}
		parts := make([]openai.ChatMessagePart, 0, len(m.Images)+1)
		if m.Text != "" {
			parts = append(parts, openai.ChatMessagePart{Type: openai.ChatMessagePartTypeText, Text: m.Text})
		}
		for _, img := range m.Images {
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    dataURI(img),
					Detail: openai.ImageURLDetailAuto,
				},
			})
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: m.Role, MultiContent: parts})
	}
	return msgs
}

func dataURI(img port.Image) string {
	return "data:" + img.ContentType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

func wrapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		baseErr := fmt.Errorf("openai API error (status %d): %s", apiErr.HTTPStatusCode, apiErr.Message)
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return llm.NewRateLimitError("openai", baseErr, 0)
		}
		return baseErr
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode == http.StatusTooManyRequests {
			return llm.NewRateLimitError("openai", err, 0)
		}
		return fmt.Errorf("openai request failed (status %d): %w", reqErr.HTTPStatusCode, err)
	}
	return fmt.Errorf("calling openai API: %w", err)
}
