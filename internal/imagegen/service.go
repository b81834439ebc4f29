package imagegen

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Supported output sizes. 1K maps to the provider's standard quality, the
// larger sizes request HD rendering.
const (
	Size1K = "1K"
	Size2K = "2K"
	Size4K = "4K"
)

type GenerateRequest struct {
	Prompt string `json:"prompt" binding:"required,max=4000"`
	Size   string `json:"size" binding:"omitempty,oneof=1K 2K 4K"`
}

type GenerateResult struct {
	// Base64-encoded PNG payload.
	ImageB64 string `json:"image_b64"`
}

// Service generates product illustration images from text prompts.
type Service interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
}

type service struct {
	client *openai.Client
}

// NewService returns a generation service backed by the OpenAI image API, or
// an error when no API key is configured.
func NewService(apiKey string) (Service, error) {
	if apiKey == "" {
		return nil, wrapGenError("NewService", ErrInvalidCredential, "no API key configured")
	}
	return &service{client: openai.NewClient(apiKey)}, nil
}

// NewServiceWithClient is used by tests to inject a configured client.
func NewServiceWithClient(client *openai.Client) Service {
	return &service{client: client}
}

func (s *service) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, wrapGenError("Generate", ErrUnknown, "empty prompt")
	}

	quality := openai.CreateImageQualityStandard
	if req.Size == Size2K || req.Size == Size4K {
		quality = openai.CreateImageQualityHD
	}

	resp, err := s.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          openai.CreateImageModelDallE3,
		Size:           openai.CreateImageSize1024x1024,
		Quality:        quality,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
		N:              1,
	})
	if err != nil {
		return nil, wrapGenError("Generate", classify(err), err.Error())
	}
	if len(resp.Data) == 0 {
		return nil, wrapGenError("Generate", ErrUnknown, "provider returned no image")
	}

	return &GenerateResult{ImageB64: resp.Data[0].B64JSON}, nil
}

// classify maps a provider error onto the failure categories shown to users.
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return ErrInvalidCredential
		case http.StatusTooManyRequests, http.StatusPaymentRequired:
			return ErrQuotaExceeded
		case http.StatusBadRequest:
			if strings.Contains(strings.ToLower(apiErr.Message), "safety") ||
				strings.Contains(strings.ToLower(apiErr.Message), "content policy") {
				return ErrSafetyBlocked
			}
			return ErrUnknown
		default:
			return ErrUnknown
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return ErrNetwork
	}
	return ErrUnknown
}
