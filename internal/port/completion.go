package port

import "context"

// Image is an inline image attached to a chat message.
type Image struct {
	ContentType string
	Data        []byte
}

// Message is one chat turn sent to a language model.
type Message struct {
	Role   string
	Text   string
	Images []Image
}

// CompletionRequest is a provider-neutral chat completion request.
type CompletionRequest struct {
	Model       string // overrides the provider's default model when set
	System      string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	JSONMode    bool
}

// CompletionResponse is the text reply and usage of a completion.
type CompletionResponse struct {
	Text             string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	FinishReason     string
	Truncated        bool // provider stopped at the output token limit
}

// CompletionClient abstracts a remote language model.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// ImageRequest asks an image model to render a picture.
type ImageRequest struct {
	Prompt  string
	Model   string
	Size    string
	Quality string
}

// ImageResponse references a generated image.
type ImageResponse struct {
	URL           string
	RevisedPrompt string
}

// ImageGenerator abstracts a remote image model.
type ImageGenerator interface {
	Generate(ctx context.Context, req ImageRequest) (*ImageResponse, error)
}

// ClientResolver returns the clients to use for a request. A non-empty apiKey
// is the caller's own key and takes precedence over configured credentials.
type ClientResolver interface {
	Completion(apiKey string) (CompletionClient, error)
	Images(apiKey string) (ImageGenerator, error)
}
