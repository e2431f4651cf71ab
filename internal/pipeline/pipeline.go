// Package pipeline provides the orchestration facade over analysis,
// synthesis, asset upload, and launch execution.
package pipeline

import (
	"context"
	"errors"
	"log"
	"time"

	"solana-launch-pilot/internal/analysis"
	"solana-launch-pilot/internal/domain"
	"solana-launch-pilot/internal/mentions"
	"solana-launch-pilot/internal/monitor"
	"solana-launch-pilot/internal/observability"
	"solana-launch-pilot/internal/storage"
	"solana-launch-pilot/internal/synthesis"
)

// LaunchClient executes trades against the launch service. Satisfied by
// *launch.Client.
type LaunchClient interface {
	Create(ctx context.Context, req domain.LaunchRequest) (*domain.LaunchResult, error)
	Buy(ctx context.Context, mint string, solAmount float64, slippageBps int) (string, error)
	Sell(ctx context.Context, mint string, tokenAmount float64, slippageBps int) (string, error)
}

// ImageUploader pushes raw image bytes to content-addressed storage.
// Satisfied by *ipfs.Client.
type ImageUploader interface {
	UploadImage(ctx context.Context, data []byte, filename string) (string, error)
}

// Pipeline coordinates the launch flow end to end. Record and event
// stores are optional collaborators; nil disables recording.
type Pipeline struct {
	synth    *synthesis.Synthesizer
	launcher LaunchClient
	images   ImageUploader
	records  storage.LaunchRecordStore
	events   storage.PipelineEventStore
	metrics  *observability.Metrics
	logger   *log.Logger

	monitor *monitor.Monitor
}

// Options contains configuration for creating a Pipeline.
type Options struct {
	Synthesizer *synthesis.Synthesizer
	Launcher    LaunchClient
	Images      ImageUploader
	Records     storage.LaunchRecordStore  // optional
	Events      storage.PipelineEventStore // optional
	Metrics     *observability.Metrics     // optional
	Logger      *log.Logger
}

// Compile-time interface check.
var _ monitor.Launcher = (*Pipeline)(nil)

// New creates a new Pipeline.
func New(opts Options) *Pipeline {
	synth := opts.Synthesizer
	if synth == nil {
		synth = synthesis.New()
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Pipeline{
		synth:    synth,
		launcher: opts.Launcher,
		images:   opts.Images,
		records:  opts.Records,
		events:   opts.Events,
		metrics:  opts.Metrics,
		logger:   logger,
	}
}

// AttachMonitor wires the ingestion monitor for the monitor control
// operations. The monitor is constructed with the pipeline as its
// Launcher, so attachment happens after New.
func (p *Pipeline) AttachMonitor(m *monitor.Monitor) {
	p.monitor = m
}

// AnalyzePrompt extracts themes, sentiment, and keywords from free text.
func (p *Pipeline) AnalyzePrompt(text string) domain.PromptAnalysis {
	return analysis.Analyze(text)
}

// SynthesizeSuggestions produces count token suggestions for a prompt.
func (p *Pipeline) SynthesizeSuggestions(text string, count int) []domain.TokenSuggestion {
	return p.synth.Synthesize(text, analysis.Analyze(text), count)
}

// TestParse runs the mention command parser against arbitrary text.
func (p *Pipeline) TestParse(text string) (domain.ParsedCommand, bool) {
	return mentions.Parse(text)
}

// Launch validates the request, uploads pending image data, and drives
// the creation through the launch service. Stages run strictly in
// order: validate, upload, then transaction construction and broadcast
// inside the launch client.
func (p *Pipeline) Launch(ctx context.Context, req domain.LaunchRequest) (*domain.LaunchResult, error) {
	var events []*storage.PipelineEvent

	start := time.Now()
	if err := req.Validate(); err != nil {
		events = append(events, p.event(req.SourceMentionID, "create", "validate", err, "", start))
		p.flush(ctx, events)
		p.countLaunch("error")
		return nil, err
	}
	events = append(events, p.event(req.SourceMentionID, "create", "validate", nil, "", start))

	if len(req.ImageData) > 0 && req.ImageURI == "" {
		if p.images == nil {
			err := &domain.UploadError{Kind: "image", Err: errors.New("no image uploader configured")}
			events = append(events, p.event(req.SourceMentionID, "create", "upload", err, "", time.Now()))
			p.flush(ctx, events)
			p.countLaunch("error")
			return nil, err
		}

		start = time.Now()
		uri, err := p.images.UploadImage(ctx, req.ImageData, req.Symbol+".png")
		if err != nil {
			events = append(events, p.event(req.SourceMentionID, "create", "upload", err, "", start))
			p.flush(ctx, events)
			p.countLaunch("error")
			return nil, err
		}
		req.ImageURI = uri
		events = append(events, p.event(req.SourceMentionID, "create", "upload", nil, "", start))
	}

	start = time.Now()
	result, err := p.launcher.Create(ctx, req)
	if err != nil {
		events = append(events, p.event(req.SourceMentionID, "create", "broadcast", err, "", start))
		p.flush(ctx, events)
		p.countLaunch("error")
		return nil, err
	}
	events = append(events, p.event(req.SourceMentionID, "create", "broadcast", nil, result.Mint, start))
	p.flush(ctx, events)
	p.countLaunch("ok")

	p.recordLaunch(ctx, req, result)
	return result, nil
}

// Buy executes a bonding-curve buy for an existing mint.
func (p *Pipeline) Buy(ctx context.Context, mint string, solAmount float64, slippageBps int) (string, error) {
	start := time.Now()
	sig, err := p.launcher.Buy(ctx, mint, solAmount, slippageBps)
	p.flush(ctx, []*storage.PipelineEvent{p.event("", "buy", "broadcast", err, mint, start)})
	p.countTrade("buy", err)
	return sig, err
}

// Sell executes a bonding-curve sell for an existing mint.
func (p *Pipeline) Sell(ctx context.Context, mint string, tokenAmount float64, slippageBps int) (string, error) {
	start := time.Now()
	sig, err := p.launcher.Sell(ctx, mint, tokenAmount, slippageBps)
	p.flush(ctx, []*storage.PipelineEvent{p.event("", "sell", "broadcast", err, mint, start)})
	p.countTrade("sell", err)
	return sig, err
}

// LaunchFromMention builds a launch request from a parsed mention
// command and executes it. Implements monitor.Launcher.
func (p *Pipeline) LaunchFromMention(ctx context.Context, m domain.Mention, cmd domain.ParsedCommand) (*domain.LaunchResult, error) {
	req := domain.LaunchRequest{
		Name:            cmd.Name,
		Symbol:          cmd.Symbol,
		Description:     m.Text,
		ImageData:       m.ImageData,
		SourceMentionID: m.ID,
	}
	return p.Launch(ctx, req)
}

// ErrNoMonitor is returned by monitor control operations when no
// monitor is attached.
var ErrNoMonitor = errors.New("no monitor attached")

// StartMonitor starts the ingestion monitor.
func (p *Pipeline) StartMonitor(ctx context.Context) error {
	if p.monitor == nil {
		return ErrNoMonitor
	}
	p.monitor.Start(ctx)
	if p.metrics != nil {
		p.metrics.MonitorRunning.Set(1)
	}
	return nil
}

// StopMonitor stops the ingestion monitor.
func (p *Pipeline) StopMonitor() error {
	if p.monitor == nil {
		return ErrNoMonitor
	}
	p.monitor.Stop()
	if p.metrics != nil {
		p.metrics.MonitorRunning.Set(0)
	}
	return nil
}

// MonitorStatus returns the monitor state snapshot.
func (p *Pipeline) MonitorStatus() domain.MonitorStatus {
	if p.monitor == nil {
		return domain.MonitorStatus{}
	}
	return p.monitor.Status()
}

// event builds one stage outcome record.
func (p *Pipeline) event(mentionID, operation, stage string, err error, mint string, start time.Time) *storage.PipelineEvent {
	e := &storage.PipelineEvent{
		MentionID:  mentionID,
		Operation:  operation,
		Stage:      stage,
		Status:     "ok",
		Mint:       mint,
		DurationMS: time.Since(start).Milliseconds(),
		OccurredAt: time.Now().UTC(),
	}
	if err != nil {
		e.Status = "error"
		e.Detail = err.Error()
	}
	if p.metrics != nil {
		p.metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	}
	return e
}

// flush writes events best-effort. Analytics failures never fail the
// operation.
func (p *Pipeline) flush(ctx context.Context, events []*storage.PipelineEvent) {
	if p.events == nil || len(events) == 0 {
		return
	}
	if err := p.events.InsertBulk(ctx, events); err != nil {
		p.logger.Printf("[pipeline] record events: %v", err)
	}
}

// recordLaunch persists the completed launch best-effort.
func (p *Pipeline) recordLaunch(ctx context.Context, req domain.LaunchRequest, result *domain.LaunchResult) {
	if p.records == nil {
		return
	}

	rec := &domain.LaunchRecord{
		Signature:              result.Signature,
		Mint:                   result.Mint,
		BondingCurve:           result.BondingCurve,
		AssociatedBondingCurve: result.AssociatedBondingCurve,
		Name:                   req.Name,
		Symbol:                 req.Symbol,
		MetadataURI:            req.MetadataURI,
		LaunchedAt:             time.Now().UTC(),
	}
	if req.SourceMentionID != "" {
		id := req.SourceMentionID
		rec.SourceMentionID = &id
	}

	if err := p.records.Insert(ctx, rec); err != nil {
		p.logger.Printf("[pipeline] record launch %s: %v", result.Signature, err)
	}
}

func (p *Pipeline) countLaunch(status string) {
	if p.metrics != nil {
		p.metrics.LaunchesTotal.WithLabelValues(status).Inc()
	}
	if p.metrics != nil && status == "ok" {
		p.metrics.LastSuccessfulLaunch.Set(float64(time.Now().Unix()))
	}
}

func (p *Pipeline) countTrade(operation string, err error) {
	if p.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	p.metrics.TradesTotal.WithLabelValues(operation, status).Inc()
}
