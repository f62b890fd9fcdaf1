package llmclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"

	"github.com/ghostpath/sessionrt/internal/ideaerrors"
	"github.com/ghostpath/sessionrt/internal/observability"
)

// Config configures the LLM client wrapper.
type Config struct {
	APIKey  string
	BaseURL string

	// DefaultModel is used when a Request leaves Model empty.
	DefaultModel string

	// MaxRetries bounds rate-limit and transient-fault retries (spec §4.2
	// default 3, i.e. up to 4 total attempts).
	MaxRetries int

	// BaseDelay and MaxDelay parameterize the exponential backoff formula
	// min(max_delay, 2^attempt * base_delay).
	BaseDelay time.Duration
	MaxDelay  time.Duration

	// Timeout bounds a single call; expiry fails hard with LLM_API_ERROR
	// kind=timeout (spec §4.2, §5).
	Timeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = 500 * time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 30 * time.Second
	}
	if c.Timeout <= 0 {
		c.Timeout = 120 * time.Second
	}
	if c.DefaultModel == "" {
		c.DefaultModel = "claude-sonnet-4-5"
	}
	return c
}

// Client wraps the Anthropic Messages API with the retry policy of spec §4.2.
type Client struct {
	anthropic anthropic.Client
	cfg       Config
	logger    *observability.Logger
	metrics   *observability.Metrics
}

// New builds a Client. logger and metrics may be nil, in which case
// activity simply isn't recorded.
func New(cfg Config, logger *observability.Logger, metrics *observability.Metrics) *Client {
	cfg = cfg.withDefaults()
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Client{
		anthropic: anthropic.NewClient(opts...),
		cfg:       cfg,
		logger:    logger,
		metrics:   metrics,
	}
}

// faultKind classifies a transport failure for the retry policy.
type faultKind int

const (
	faultNone faultKind = iota
	faultRateLimit
	faultTransient
	faultTimeout
	faultClient
	faultUnknown
)

// Complete sends the conversation and returns the next assistant response,
// retrying per spec §4.2. The returned error, when non-nil, is always an
// *ideaerrors.Error with code LLM_API_ERROR.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, *ideaerrors.Error) {
	model := req.Model
	if model == "" {
		model = c.cfg.DefaultModel
	}

	var lastErr error
	var lastRetryAfter time.Duration
	start := time.Now()

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		resp, err := c.attempt(callCtx, req, model)
		cancel()

		if err == nil {
			c.record(model, "ok", time.Since(start))
			return resp, nil
		}

		kind, retryAfter := classify(err)
		lastErr = err
		lastRetryAfter = retryAfter

		if ctx.Err() != nil {
			return nil, ideaerrors.New(ideaerrors.CodeLLMAPIError, "context cancelled during LLM call").
				WithCause(ctx.Err()).WithDebug("kind", "cancelled")
		}

		switch kind {
		case faultTimeout:
			c.record(model, "timeout", time.Since(start))
			return nil, ideaerrors.New(ideaerrors.CodeLLMAPIError, "LLM call timed out").
				WithCause(err).WithDebug("kind", "timeout")
		case faultClient:
			c.record(model, "client_error", time.Since(start))
			return nil, ideaerrors.New(ideaerrors.CodeLLMAPIError, "LLM rejected the request").
				WithCause(err).WithDebug("kind", "client")
		case faultRateLimit, faultTransient:
			if attempt >= c.cfg.MaxRetries {
				break
			}
			reason := "transient"
			if kind == faultRateLimit {
				reason = "rate_limit"
			}
			if c.metrics != nil {
				c.metrics.RecordLLMRetry(model, reason)
			}
			sleep := c.backoffFor(kind, attempt, retryAfter)
			if c.logger != nil {
				c.logger.Warn(ctx, "retrying LLM call", "attempt", attempt+1, "reason", reason, "sleep_ms", sleep.Milliseconds())
			}
			select {
			case <-ctx.Done():
				return nil, ideaerrors.New(ideaerrors.CodeLLMAPIError, "context cancelled while waiting to retry").
					WithCause(ctx.Err())
			case <-time.After(sleep):
			}
			continue
		default:
			c.record(model, "unknown_error", time.Since(start))
			if c.logger != nil {
				c.logger.Error(ctx, "unclassified LLM error", "error", err)
			}
			return nil, ideaerrors.New(ideaerrors.CodeLLMAPIError, "unexpected LLM client failure").
				WithCause(err).WithDebug("kind", "unknown")
		}
	}

	c.record(model, "exhausted", time.Since(start))
	llmErr := ideaerrors.New(ideaerrors.CodeLLMAPIError, fmt.Sprintf("LLM call failed after %d retries", c.cfg.MaxRetries)).
		WithCause(lastErr)
	if lastRetryAfter > 0 {
		llmErr = llmErr.WithRetryAfterMs(lastRetryAfter.Milliseconds())
	}
	return nil, llmErr
}

// backoffFor computes the sleep duration before the next attempt.
// Rate-limit faults honor a server-provided retry-after verbatim; every
// other retryable fault uses min(max_delay, 2^attempt*base_delay) times a
// uniform jitter in [0.75, 1.25] (spec §4.2).
func (c *Client) backoffFor(kind faultKind, attempt int, retryAfter time.Duration) time.Duration {
	if kind == faultRateLimit && retryAfter > 0 {
		return retryAfter
	}
	base := float64(c.cfg.BaseDelay) * math.Pow(2, float64(attempt))
	if max := float64(c.cfg.MaxDelay); base > max {
		base = max
	}
	jitter := 0.75 + rand.Float64()*0.5 // #nosec G404 -- jitter does not require cryptographic randomness
	return time.Duration(base * jitter)
}

func (c *Client) record(model, status string, d time.Duration) {
	if c.metrics != nil {
		c.metrics.RecordLLMRequest(model, status, d.Seconds())
	}
}

func (c *Client) attempt(ctx context.Context, req Request, model string) (*Response, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokensOrDefault(req.MaxTokens)),
		Messages:  convertMessages(req.Messages),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if tools, err := convertTools(req.Tools); err != nil {
		return nil, err
	} else if len(tools) > 0 {
		params.Tools = tools
	}

	stream := c.anthropic.Messages.NewStreaming(ctx, params)
	resp, err := consumeStream(stream)
	if err != nil {
		return nil, err
	}
	if c.metrics != nil {
		c.metrics.RecordLLMTokens(model, resp.Usage.InputTokens, resp.Usage.OutputTokens)
	}
	return resp, nil
}

func maxTokensOrDefault(n int) int {
	if n <= 0 {
		return 4096
	}
	return n
}

func convertMessages(msgs []ConversationMessage) []anthropic.MessageParam {
	result := make([]anthropic.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		var blocks []anthropic.ContentBlockParamUnion
		if m.Text != "" {
			blocks = append(blocks, anthropic.NewTextBlock(m.Text))
		}
		for _, tu := range m.ToolUses {
			blocks = append(blocks, anthropic.NewToolUseBlock(tu.ID, json.RawMessage(tu.Input), tu.Name))
		}
		for _, tr := range m.ToolResults {
			blocks = append(blocks, anthropic.NewToolResultBlock(tr.ToolCallID, tr.Content, tr.IsError))
		}
		if len(blocks) == 0 {
			continue
		}
		if m.Role == RoleAssistant {
			result = append(result, anthropic.NewAssistantMessage(blocks...))
		} else {
			result = append(result, anthropic.NewUserMessage(blocks...))
		}
	}
	return result
}

func convertTools(specs []ToolSpec) ([]anthropic.ToolUnionParam, error) {
	result := make([]anthropic.ToolUnionParam, 0, len(specs))
	for _, spec := range specs {
		var props map[string]any
		if len(spec.InputSchema) > 0 {
			if err := json.Unmarshal(spec.InputSchema, &props); err != nil {
				return nil, fmt.Errorf("llmclient: invalid schema for tool %s: %w", spec.Name, err)
			}
		}
		schema := anthropic.ToolInputSchemaParam{Properties: props["properties"]}
		tool := anthropic.ToolUnionParamOfTool(schema, spec.Name)
		tool.OfTool.Description = anthropic.String(spec.Description)
		result = append(result, tool)
	}
	return result, nil
}

func consumeStream(stream *ssestream.Stream[anthropic.MessageStreamEventUnion]) (*Response, error) {
	resp := &Response{}
	var textBuilder strings.Builder
	var haveText bool
	var currentToolUse *ToolUse
	var currentToolInput strings.Builder

	flushText := func() {
		if haveText {
			resp.Blocks = append(resp.Blocks, ContentBlock{Type: BlockText, Text: textBuilder.String()})
			textBuilder.Reset()
			haveText = false
		}
	}

	for stream.Next() {
		event := stream.Current()
		switch event.Type {
		case "message_start":
			ms := event.AsMessageStart()
			resp.Usage.InputTokens = int(ms.Message.Usage.InputTokens)
		case "content_block_start":
			cb := event.AsContentBlockStart().ContentBlock
			if cb.Type == "tool_use" {
				flushText()
				tu := cb.AsToolUse()
				currentToolUse = &ToolUse{ID: tu.ID, Name: tu.Name}
				currentToolInput.Reset()
			}
		case "content_block_delta":
			delta := event.AsContentBlockDelta().Delta
			switch delta.Type {
			case "text_delta":
				textBuilder.WriteString(delta.Text)
				haveText = true
			case "input_json_delta":
				currentToolInput.WriteString(delta.PartialJSON)
			}
		case "content_block_stop":
			if currentToolUse != nil {
				currentToolUse.Input = json.RawMessage(currentToolInput.String())
				resp.Blocks = append(resp.Blocks, ContentBlock{Type: BlockToolUse, ToolUse: currentToolUse})
				currentToolUse = nil
			} else {
				flushText()
			}
		case "message_delta":
			md := event.AsMessageDelta()
			if md.Usage.OutputTokens > 0 {
				resp.Usage.OutputTokens = int(md.Usage.OutputTokens)
			}
			if md.Delta.StopReason != "" {
				resp.StopReason = StopReason(md.Delta.StopReason)
			}
		case "message_stop":
			flushText()
			return resp, nil
		}
	}
	flushText()
	if err := stream.Err(); err != nil {
		return nil, err
	}
	return resp, nil
}

// classify inspects a transport error and returns its fault kind and any
// server-provided retry-after duration.
func classify(err error) (faultKind, time.Duration) {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		status := apiErr.StatusCode
		var retryAfter time.Duration
		if apiErr.Response != nil {
			if v := apiErr.Response.Header.Get("Retry-After"); v != "" {
				if secs, perr := time.ParseDuration(v + "s"); perr == nil {
					retryAfter = secs
				}
			}
		}
		switch {
		case status == 429:
			return faultRateLimit, retryAfter
		case status >= 500:
			return faultTransient, 0
		case status >= 400:
			return faultClient, 0
		}
		return faultUnknown, 0
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return faultTimeout, 0
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate_limit") || strings.Contains(msg, "429") || strings.Contains(msg, "too many requests"):
		return faultRateLimit, 0
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded"):
		return faultTimeout, 0
	case strings.Contains(msg, "connection reset") || strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") || strings.Contains(msg, "502") ||
		strings.Contains(msg, "503") || strings.Contains(msg, "504") || strings.Contains(msg, "internal server error"):
		return faultTransient, 0
	}
	return faultUnknown, 0
}
