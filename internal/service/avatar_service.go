package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"docinsight/internal/domain"
	"docinsight/internal/llm"
	"docinsight/internal/port"
	"docinsight/internal/prompt"
)

const (
	avatarDescribeMaxTokens = 300
	avatarSize              = "1024x1024"
	avatarQuality           = "hd"
	maxAvatarDownloadBytes  = 20 << 20
)

// AvatarInput is the DTO for generating an avatar from a photo.
type AvatarInput struct {
	Image       []byte
	ContentType string
	APIKey      string
}

// AvatarConfig holds avatar model settings.
type AvatarConfig struct {
	VisionModel string
	ImageModel  string
}

// AvatarService turns a photo into a cartoon avatar.
type AvatarService interface {
	Generate(ctx context.Context, input *AvatarInput) (*domain.AvatarResult, error)
}

type avatarService struct {
	resolver port.ClientResolver
	http     *http.Client
	cfg      AvatarConfig
	log      *zap.Logger
	now      func() time.Time
}

// NewAvatarService creates a new AvatarService implementation. httpClient is
// used to download the rendered image; nil means http.DefaultClient.
func NewAvatarService(resolver port.ClientResolver, httpClient *http.Client, cfg AvatarConfig, log *zap.Logger) AvatarService {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &avatarService{
		resolver: resolver,
		http:     httpClient,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

func (s *avatarService) Generate(ctx context.Context, input *AvatarInput) (*domain.AvatarResult, error) {
	contentType, err := imageContentType(input)
	if err != nil {
		return nil, err
	}
	client, err := s.resolver.Completion(input.APIKey)
	if err != nil {
		return nil, err
	}
	images, err := s.resolver.Images(input.APIKey)
	if err != nil {
		return nil, err
	}

	described, err := client.Complete(ctx, port.CompletionRequest{
		Model: s.cfg.VisionModel,
		Messages: []port.Message{{
			Role:   string(domain.ChatRoleUser),
			Text:   prompt.AvatarAnalysis,
			Images: []port.Image{{ContentType: contentType, Data: input.Image}},
		}},
		MaxTokens: avatarDescribeMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("describing photo: %w", llm.WrapError(err))
	}
	description := strings.TrimSpace(described.Text)

	rendered, err := images.Generate(ctx, port.ImageRequest{
		Prompt:  prompt.Avatar(description),
		Model:   s.cfg.ImageModel,
		Size:    avatarSize,
		Quality: avatarQuality,
	})
	if err != nil {
		return nil, fmt.Errorf("generating avatar: %w", llm.WrapError(err))
	}

	result := &domain.AvatarResult{
		Description: description,
		ImageURL:    rendered.URL,
		FileName:    fmt.Sprintf("3d_avatar_%s.png", s.now().Format("20060102_150405")),
	}

	data, err := s.download(ctx, rendered.URL)
	if err != nil {
		// The URL stays usable for a while; return it without the inline copy.
		s.log.Warn("downloading avatar failed", zap.Error(err))
		return result, nil
	}
	result.ImageBase64 = base64.StdEncoding.EncodeToString(data)
	return result, nil
}

func (s *avatarService) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching image: status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxAvatarDownloadBytes))
}

// imageContentType validates the upload and returns its MIME type, sniffing
// the bytes when the caller did not say.
func imageContentType(input *AvatarInput) (string, error) {
	if len(input.Image) == 0 {
		return "", domain.ErrNoFiles
	}
	ct := strings.ToLower(strings.TrimSpace(input.ContentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch ct {
	case "", "application/octet-stream":
		ct = mimetype.Detect(input.Image).String()
	case "image/jpg":
		ct = "image/jpeg"
	}
	for _, allowed := range domain.ImageContentTypes {
		if ct == allowed {
			return ct, nil
		}
	}
	return "", fmt.Errorf("image type %q: %w", ct, domain.ErrUnsupportedFileType)
}
