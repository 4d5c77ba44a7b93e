package gemini

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/mak3d/quotedesk/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const providerName = "gemini"

// Conversation roles understood by the Gemini API.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Generation kinds reported to the Observer.
const (
	KindStructured = "structured"
	KindImage      = "image"
	KindChat       = "chat"
)

// Config configures the client.
type Config struct {
	APIKey      string
	BaseURL     string
	Temperature float64
	HTTPClient  *http.Client
}

// Observer receives one call per finished generation request.
type Observer interface {
	ObserveGeneration(kind, model, status string, duration time.Duration)
}

// StructuredRequest asks a model for a JSON object whose listed fields are
// all strings.
type StructuredRequest struct {
	Model  string
	Prompt string
	Fields []string
}

// ImageRequest asks a model for an image.
type ImageRequest struct {
	Model  string
	Prompt string
}

// InlineImage is binary image data returned inline by the model.
type InlineImage struct {
	MIMEType string
	Data     []byte
}

// DataURI renders the image as data:<mime>;base64,<payload>.
func (i *InlineImage) DataURI() string {
	return "data:" + i.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// Message is one conversation turn.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// ChatRequest is a streamed conversation turn. History ends with the new
// user message.
type ChatRequest struct {
	Model   string
	System  string
	History []Message
}

// Client wraps the genai SDK with typed errors, tracing, and an optional observer.
type Client struct {
	models      *genai.Models
	temperature *float32
	observer    Observer
	tracer      trace.Tracer
	requests    metric.Int64Counter
	latency     metric.Float64Histogram
	logger      *zap.Logger
}

// NewClient creates a Gemini API client.
func NewClient(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, types.NewError(types.ErrInternalError, "create gemini client").
			WithCause(err).
			WithProvider(providerName)
	}

	c := &Client{
		models: client.Models,
		tracer: otel.Tracer("quotedesk/llm/gemini"),
		logger: logger.With(zap.String("component", "gemini")),
	}
	if err := c.initInstruments(otel.Meter("quotedesk/llm/gemini")); err != nil {
		c.logger.Warn("gemini otel instruments unavailable", zap.Error(err))
	}
	if cfg.Temperature > 0 {
		c.temperature = genai.Ptr(float32(cfg.Temperature))
	}
	return c, nil
}

// WithObserver attaches an observer for request outcomes.
func (c *Client) WithObserver(o Observer) *Client {
	c.observer = o
	return c
}

// GenerateStructured returns the raw JSON text of a schema-constrained response.
func (c *Client) GenerateStructured(ctx context.Context, req StructuredRequest) (string, error) {
	ctx, span := c.startSpan(ctx, KindStructured, req.Model)
	defer span.End()
	start := time.Now()

	props := make(map[string]*genai.Schema, len(req.Fields))
	for _, f := range req.Fields {
		props[f] = &genai.Schema{Type: genai.TypeString}
	}
	cfg := &genai.GenerateContentConfig{
		Temperature:      c.temperature,
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type:             genai.TypeObject,
			Properties:       props,
			Required:         req.Fields,
			PropertyOrdering: req.Fields,
		},
	}

	resp, err := c.models.GenerateContent(ctx, req.Model, userPrompt(req.Prompt), cfg)
	if err == nil {
		err = blocked(resp)
	}
	if err != nil {
		return "", c.fail(span, KindStructured, req.Model, start, err)
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", c.fail(span, KindStructured, req.Model, start,
			types.NewSchemaError("model returned no text", nil).WithProvider(providerName))
	}
	c.succeed(KindStructured, req.Model, start)
	return text, nil
}

// GenerateImage returns the first inline image of the response, or nil when
// the model answered without one.
func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) (*InlineImage, error) {
	ctx, span := c.startSpan(ctx, KindImage, req.Model)
	defer span.End()
	start := time.Now()

	cfg := &genai.GenerateContentConfig{Temperature: c.temperature}
	resp, err := c.models.GenerateContent(ctx, req.Model, userPrompt(req.Prompt), cfg)
	if err != nil {
		return nil, c.fail(span, KindImage, req.Model, start, err)
	}

	img := firstInlineImage(resp)
	span.SetAttributes(attribute.Bool("gemini.image_present", img != nil))
	c.succeed(KindImage, req.Model, start)
	return img, nil
}

// StreamChat streams a reply. onDelta is called for every non-empty chunk;
// returning an error from it aborts the stream. The full reply is returned.
func (c *Client) StreamChat(ctx context.Context, req ChatRequest, onDelta func(string) error) (string, error) {
	ctx, span := c.startSpan(ctx, KindChat, req.Model)
	defer span.End()
	start := time.Now()

	contents := make([]*genai.Content, 0, len(req.History))
	for _, m := range req.History {
		contents = append(contents, &genai.Content{
			Role:  m.Role,
			Parts: []*genai.Part{{Text: m.Text}},
		})
	}
	cfg := &genai.GenerateContentConfig{Temperature: c.temperature}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}

	var full strings.Builder
	for resp, err := range c.models.GenerateContentStream(ctx, req.Model, contents, cfg) {
		if err != nil {
			return full.String(), c.fail(span, KindChat, req.Model, start, err)
		}
		delta := responseText(resp)
		if delta == "" {
			continue
		}
		full.WriteString(delta)
		if onDelta != nil {
			if err := onDelta(delta); err != nil {
				return full.String(), c.fail(span, KindChat, req.Model, start, err)
			}
		}
	}

	c.succeed(KindChat, req.Model, start)
	return full.String(), nil
}

func (c *Client) startSpan(ctx context.Context, kind, model string) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, "gemini."+kind, trace.WithAttributes(
		attribute.String("gemini.kind", kind),
		attribute.String("gemini.model", model),
	))
}

func (c *Client) fail(span trace.Span, kind, model string, start time.Time, err error) error {
	mapped := MapError(err)
	span.RecordError(mapped)
	span.SetStatus(codes.Error, string(mapped.Code))
	c.observe(kind, model, string(mapped.Code), start)
	c.logger.Warn("generation failed",
		zap.String("kind", kind),
		zap.String("model", model),
		zap.String("code", string(mapped.Code)),
		zap.Error(err),
	)
	return mapped
}

func (c *Client) succeed(kind, model string, start time.Time) {
	c.observe(kind, model, "ok", start)
}

func (c *Client) initInstruments(meter metric.Meter) error {
	var err error
	c.requests, err = meter.Int64Counter("gemini.requests",
		metric.WithDescription("Gemini generation requests by kind, model and status"))
	if err != nil {
		return err
	}
	c.latency, err = meter.Float64Histogram("gemini.request.duration",
		metric.WithDescription("Gemini generation request duration"),
		metric.WithUnit("s"))
	return err
}

func (c *Client) observe(kind, model, status string, start time.Time) {
	elapsed := time.Since(start)
	if c.requests != nil && c.latency != nil {
		attrs := metric.WithAttributes(
			attribute.String("gemini.kind", kind),
			attribute.String("gemini.model", model),
			attribute.String("gemini.status", status),
		)
		ctx := context.Background()
		c.requests.Add(ctx, 1, attrs)
		c.latency.Record(ctx, elapsed.Seconds(), attrs)
	}
	if c.observer != nil {
		c.observer.ObserveGeneration(kind, model, status, elapsed)
	}
}

func userPrompt(prompt string) []*genai.Content {
	return []*genai.Content{{
		Role:  RoleUser,
		Parts: []*genai.Part{{Text: prompt}},
	}}
}

// responseText concatenates the non-thought text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}

func firstInlineImage(resp *genai.GenerateContentResponse) *InlineImage {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil && p.InlineData != nil {
			return &InlineImage{MIMEType: p.InlineData.MIMEType, Data: p.InlineData.Data}
		}
	}
	return nil
}

func blocked(resp *genai.GenerateContentResponse) error {
	if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return types.NewError(types.ErrContentFiltered, "prompt blocked: "+string(resp.PromptFeedback.BlockReason)).
			WithHTTPStatus(http.StatusUnprocessableEntity).
			WithProvider(providerName)
	}
	return nil
}
