package analysis

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/mak3d/quotedesk/llm/gemini"
	"github.com/mak3d/quotedesk/pricing"
	"github.com/mak3d/quotedesk/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrEmptyReference is returned when the reference is blank after trimming.
var ErrEmptyReference = types.NewInvalidRequestError("model reference is required")

// TextGenerator produces schema-constrained JSON text.
type TextGenerator interface {
	GenerateStructured(ctx context.Context, req gemini.StructuredRequest) (string, error)
}

// ImageGenerator produces an inline image, or nil when the model returned none.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req gemini.ImageRequest) (*gemini.InlineImage, error)
}

// Recorder receives the outcome of every analysis cycle.
type Recorder interface {
	RecordAnalysis(outcome string, duration time.Duration)
}

// Result is the merged outcome of one successful analysis.
type Result struct {
	Reference      string `json:"reference"`
	Analysis       string `json:"analysis"`
	Risks          string `json:"risks"`
	Settings       string `json:"settings"`
	FairPrice      string `json:"fair_price"`
	GeneratedImage string `json:"generated_image,omitempty"`
}

// Models names the models used per request kind.
type Models struct {
	Text  string
	Image string
}

// Config configures an Orchestrator.
type Config struct {
	Models Models
	Rule   pricing.Rule
	// Timeout bounds one whole cycle; zero means no bound.
	Timeout time.Duration
}

// Orchestrator runs the text and image requests for a reference concurrently
// and merges them into a single Result.
type Orchestrator struct {
	text     TextGenerator
	image    ImageGenerator
	cfg      Config
	recorder Recorder
	tracer   trace.Tracer
	logger   *zap.Logger
}

// NewOrchestrator creates an orchestrator.
func NewOrchestrator(text TextGenerator, image ImageGenerator, cfg Config, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		text:   text,
		image:  image,
		cfg:    cfg,
		tracer: otel.Tracer("quotedesk/analysis"),
		logger: logger.With(zap.String("component", "analysis")),
	}
}

// WithRecorder attaches an outcome recorder.
func (o *Orchestrator) WithRecorder(r Recorder) *Orchestrator {
	o.recorder = r
	return o
}

// report is the text model's JSON answer.
type report struct {
	Analysis  string `json:"analysis"`
	Risks     string `json:"risks"`
	Settings  string `json:"settings"`
	FairPrice string `json:"fairPrice"`
}

// Analyze issues one text and one image request for reference and waits for
// both. Either failing fails the whole cycle; no partial result is returned.
// A blank reference returns ErrEmptyReference without issuing any request.
func (o *Orchestrator) Analyze(ctx context.Context, reference string) (*Result, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, ErrEmptyReference
	}

	start := time.Now()
	ctx, span := o.tracer.Start(ctx, "analysis.analyze",
		trace.WithAttributes(attribute.String("analysis.reference", reference)))
	defer span.End()

	if o.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.Timeout)
		defer cancel()
	}

	var (
		rawText string
		image   *gemini.InlineImage
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		text, err := o.text.GenerateStructured(gctx, gemini.StructuredRequest{
			Model:  o.cfg.Models.Text,
			Prompt: TextPrompt(reference, o.cfg.Rule),
			Fields: ReportFields,
		})
		if err != nil {
			return err
		}
		rawText = text
		return nil
	})
	g.Go(func() error {
		img, err := o.image.GenerateImage(gctx, gemini.ImageRequest{
			Model:  o.cfg.Models.Image,
			Prompt: ImagePrompt(DisplayName(reference)),
		})
		if err != nil {
			return err
		}
		image = img
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, o.failed(span, reference, start, gemini.MapError(err))
	}

	var rep report
	if err := json.Unmarshal([]byte(rawText), &rep); err != nil {
		return nil, o.failed(span, reference, start, types.NewSchemaError("analysis response is not valid JSON", err))
	}
	if rep == (report{}) {
		return nil, o.failed(span, reference, start, types.NewSchemaError("analysis response has no fields", nil))
	}

	res := &Result{
		Reference: reference,
		Analysis:  rep.Analysis,
		Risks:     rep.Risks,
		Settings:  rep.Settings,
		FairPrice: rep.FairPrice,
	}
	if image != nil {
		res.GeneratedImage = image.DataURI()
	}

	span.SetAttributes(attribute.Bool("analysis.image", image != nil))
	o.record("ok", start)
	o.logger.Info("analysis completed",
		zap.String("reference", reference),
		zap.String("fair_price", res.FairPrice),
		zap.Bool("image", image != nil),
		zap.Duration("duration", time.Since(start)),
	)
	return res, nil
}

// Run analyzes reference on behalf of slot. A blank reference leaves the slot
// untouched. When a newer Run started on the same slot before this one
// finished, the result is discarded and a SUPERSEDED error is returned.
func (o *Orchestrator) Run(ctx context.Context, slot *Slot, reference string) (*Result, error) {
	if strings.TrimSpace(reference) == "" {
		return nil, ErrEmptyReference
	}

	gen := slot.Begin(strings.TrimSpace(reference))
	res, err := o.Analyze(ctx, reference)
	if !slot.Complete(gen, res, err) {
		o.logger.Debug("discarding stale analysis", zap.Uint64("generation", gen))
		return nil, types.NewSupersededError()
	}
	return res, err
}

func (o *Orchestrator) failed(span trace.Span, reference string, start time.Time, err *types.Error) *types.Error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(err.Code))
	o.record(string(err.Code), start)
	o.logger.Warn("analysis failed",
		zap.String("reference", reference),
		zap.String("code", string(err.Code)),
		zap.Bool("retryable", err.Retryable),
		zap.Error(err),
	)
	return err
}

func (o *Orchestrator) record(outcome string, start time.Time) {
	if o.recorder != nil {
		o.recorder.RecordAnalysis(outcome, time.Since(start))
	}
}
