package plan

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/neexbeast/trekmate/internal/metrics"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1/"
	DefaultModel   = "llama-3.1-8b-instant"

	temperature     = 0.6
	maxOutputTokens = 900
	requestTimeout  = 60 * time.Second
)

var errEmptyCompletion = errors.New("completion returned empty content")

// Options configures the completion provider.
type Options struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// Generator writes trek plans and follow-up answers with an OpenAI-compatible
// chat completion endpoint (Groq by default).
type Generator struct {
	client openai.Client
	model  string
	log    *slog.Logger
}

// NewGenerator creates a Generator. A missing API key or model is a
// *ConfigError and should stop the process at startup.
func NewGenerator(opts Options, log *slog.Logger) (*Generator, error) {
	if opts.APIKey == "" {
		return nil, &ConfigError{Setting: "GROQ_API_KEY"}
	}
	if opts.Model == "" {
		return nil, &ConfigError{Setting: "GROQ_MODEL"}
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}

	client := openai.NewClient(
		option.WithAPIKey(opts.APIKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	)

	return &Generator{client: client, model: opts.Model, log: log}, nil
}

// Generate issues one completion for req and returns the trimmed reply.
// Provider failures and empty replies are *GenerationError; an unconfigured
// Generator returns *ConfigError.
func (g *Generator) Generate(ctx context.Context, req Request) (string, error) {
	if g == nil || g.model == "" {
		return "", &ConfigError{Setting: "GROQ_API_KEY"}
	}

	prompt, err := BuildPrompt(req)
	if err != nil {
		return "", &GenerationError{Err: err}
	}

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.System),
			openai.UserMessage(prompt.User),
		},
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(maxOutputTokens),
	})
	if err != nil {
		status := 0
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
		metrics.CompletionCallsTotal.WithLabelValues(statusLabel(status)).Inc()
		g.log.Error("completion request failed", "destination", req.Destination, "status", status, "err", err)
		return "", &GenerationError{Status: status, Err: err}
	}
	metrics.CompletionCallsTotal.WithLabelValues("200").Inc()

	if len(resp.Choices) == 0 {
		return "", &GenerationError{Err: errEmptyCompletion}
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", &GenerationError{Err: errEmptyCompletion}
	}

	g.log.Debug("completion generated",
		"destination", req.Destination,
		"japanese", prompt.Japanese,
		"follow_up", req.Question != "",
	)
	return content, nil
}

func statusLabel(status int) string {
	if status == 0 {
		return "error"
	}
	return strconv.Itoa(status)
}
