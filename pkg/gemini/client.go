package gemini

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sethvargo/go-retry"
	"google.golang.org/genai"

	"github.com/agrisetu/agrisetu-backend/pkg/config"
	"github.com/agrisetu/agrisetu-backend/pkg/errors"
	"github.com/agrisetu/agrisetu-backend/pkg/logger"
)

// CompletionClient is the surface the aggregation layer depends on. All
// failures cross this boundary as typed errors, never raw transport errors.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteVision(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
	CompleteGrounded(ctx context.Context, prompt string) (*GroundedCompletion, error)
}

// GroundedCompletion carries a completion plus the web sources the model
// consulted while producing it.
type GroundedCompletion struct {
	Text    string
	Sources []string
}

// Client wraps the Gemini SDK with timeouts, a single transient retry, and
// error normalization.
type Client struct {
	api  *genai.Client
	cfg  config.GeminiConfig
	logg *logger.Logger
}

// New builds a Gemini client from configuration.
func New(ctx context.Context, cfg config.GeminiConfig, logg *logger.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	api, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &Client{api: api, cfg: cfg, logg: logg}, nil
}

// Complete sends a text-only prompt and returns the raw completion text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.New(errors.CodeValidation, "prompt is required")
	}
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := c.generate(ctx, c.cfg.TextModel, contents, nil)
	if err != nil {
		return "", err
	}
	return completionText(resp)
}

// CompleteVision sends a prompt together with an inline image.
func (c *Client) CompleteVision(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.New(errors.CodeValidation, "prompt is required")
	}
	if len(image) == 0 {
		return "", errors.New(errors.CodeValidation, "image payload is required")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	parts := []*genai.Part{
		genai.NewPartFromBytes(image, mimeType),
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := c.generate(ctx, c.cfg.VisionModel, contents, nil)
	if err != nil {
		return "", err
	}
	return completionText(resp)
}

// CompleteGrounded runs the prompt with Google Search grounding enabled and
// returns the answer together with the source URIs the model cited.
func (c *Client) CompleteGrounded(ctx context.Context, prompt string) (*GroundedCompletion, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, errors.New(errors.CodeValidation, "prompt is required")
	}
	cfg := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := c.generate(ctx, c.cfg.TextModel, contents, cfg)
	if err != nil {
		return nil, err
	}
	text, err := completionText(resp)
	if err != nil {
		return nil, err
	}
	return &GroundedCompletion{Text: text, Sources: groundingSources(resp)}, nil
}

func (c *Client) generate(ctx context.Context, model string, contents []*genai.Content, genCfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && c.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.RequestTimeout)
		defer cancel()
	}

	var resp *genai.GenerateContentResponse
	backoff := retry.WithMaxRetries(1, retry.NewConstant(c.cfg.RetryBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var callErr error
		resp, callErr = c.api.Models.GenerateContent(ctx, model, contents, genCfg)
		if callErr == nil {
			return nil
		}
		typed := classify(callErr)
		if errors.MetadataFor(typed.Code()).Retryable {
			if c.logg != nil {
				c.logg.Warn(ctx, "gemini call failed, retrying once")
			}
			return retry.RetryableError(typed)
		}
		return typed
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// classify converts SDK and transport failures into the shared taxonomy.
func classify(err error) *errors.Error {
	var apiErr genai.APIError
	if stdErrors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return errors.Wrap(errors.CodeProviderRejected, err, "provider quota exhausted")
		case apiErr.Code == http.StatusBadRequest || apiErr.Code == http.StatusForbidden:
			return errors.Wrap(errors.CodeProviderRejected, err, "provider rejected the request")
		case apiErr.Code >= 500:
			return errors.Wrap(errors.CodeTransient, err, "provider temporarily unavailable")
		}
	}
	if stdErrors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(errors.CodeTransient, err, "completion request timed out")
	}
	return errors.Wrap(errors.CodeTransient, err, "completion request failed")
}

func completionText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New(errors.CodeProviderRejected, "empty completion response")
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New(errors.CodeProviderRejected, "completion contained no text")
	}
	return text, nil
}

func groundingSources(resp *genai.GenerateContentResponse) []string {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	gm := resp.Candidates[0].GroundingMetadata
	if gm == nil {
		return nil
	}
	var sources []string
	for _, chunk := range gm.GroundingChunks {
		if chunk.Web != nil && chunk.Web.URI != "" {
			sources = append(sources, chunk.Web.URI)
		}
	}
	return sources
}
