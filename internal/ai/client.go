package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/Rashdan16/Event-sorter/pkg/config"
	"go.uber.org/zap"
)

// Provider errors surfaced to callers. Handlers translate these to HTTP.
var (
	ErrProviderTimeout = errors.New("ai: provider request timed out")
	ErrEmptyCompletion = errors.New("ai: provider returned no content")
)

// Message is a single chat turn. Content is a plain string for text turns
// and a []ContentPart for multimodal turns.
type Message struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

// ContentPart is one element of a multimodal message.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

type ImageURL struct {
	URL string `json:"url"`
}

// TextPart builds a text content part.
func TextPart(text string) ContentPart {
	return ContentPart{Type: "text", Text: text}
}

// ImagePart builds an image content part from raw bytes. The provider
// receives the image inline as a base64 data URL.
func ImagePart(data []byte, mimeType string) ContentPart {
	encoded := base64.StdEncoding.EncodeToString(data)
	return ContentPart{
		Type:     "image_url",
		ImageURL: &ImageURL{URL: fmt.Sprintf("data:%s;base64,%s", mimeType, encoded)},
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	model       string
	visionModel string
	log         *zap.Logger
}

// NewClient creates a provider client from configuration.
func NewClient(cfg config.AIConfig, log *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	visionModel := cfg.VisionModel
	if visionModel == "" {
		visionModel = cfg.Model
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		visionModel: visionModel,
		log:         log,
	}
}

// Complete runs a text chat completion and returns the assistant content.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	return c.complete(ctx, c.model, messages)
}

// CompleteVision runs a chat completion using the vision-capable model.
func (c *Client) CompleteVision(ctx context.Context, messages []Message) (string, error) {
	return c.complete(ctx, c.visionModel, messages)
}

func (c *Client) complete(ctx context.Context, model string, messages []Message) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.log.Warn("AI provider request timed out",
				zap.String("model", model),
				zap.Duration("elapsed", time.Since(start)))
			return "", ErrProviderTimeout
		}
		return "", fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read provider response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode provider response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := "unknown provider error"
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return "", fmt.Errorf("provider returned status %d: %s", resp.StatusCode, msg)
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}

	c.log.Debug("AI completion finished",
		zap.String("model", model),
		zap.Duration("elapsed", time.Since(start)))

	return parsed.Choices[0].Message.Content, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
