// Package monitor runs the ingestion loop: poll the mention stream,
// parse launch commands, drive them through the pipeline.
package monitor

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"solana-launch-pilot/internal/domain"
	"solana-launch-pilot/internal/mentions"
	"solana-launch-pilot/internal/observability"
	"solana-launch-pilot/internal/storage"
)

// DefaultPollInterval is used when Options.PollInterval is zero.
const DefaultPollInterval = 30 * time.Second

// Launcher executes a parsed launch command. The pipeline implements
// this; tests inject fakes.
type Launcher interface {
	LaunchFromMention(ctx context.Context, m domain.Mention, cmd domain.ParsedCommand) (*domain.LaunchResult, error)
}

// Monitor polls a mention source and launches tokens for parsed
// commands. Stopped until Start; Start and Stop are idempotent.
type Monitor struct {
	source       mentions.Source
	launcher     Launcher
	processed    storage.ProcessedMentionStore
	pollInterval time.Duration
	metrics      *observability.Metrics
	logger       *log.Logger

	mu             sync.Mutex
	running        bool
	stop           chan struct{}
	done           chan struct{}
	processedCount int
	lastError      string
}

// Options contains configuration for creating a Monitor.
type Options struct {
	Source       mentions.Source
	Launcher     Launcher
	Processed    storage.ProcessedMentionStore
	PollInterval time.Duration
	Metrics      *observability.Metrics // optional
	Logger       *log.Logger
}

// New creates a new Monitor.
func New(opts Options) *Monitor {
	pollInterval := opts.PollInterval
	if pollInterval == 0 {
		pollInterval = DefaultPollInterval
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Monitor{
		source:       opts.Source,
		launcher:     opts.Launcher,
		processed:    opts.Processed,
		pollInterval: pollInterval,
		metrics:      opts.Metrics,
		logger:       logger,
	}
}

// Start begins polling. Calling Start on a running monitor is a no-op.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	m.running = true
	m.stop = make(chan struct{})
	m.done = make(chan struct{})

	go m.run(ctx, m.stop, m.done)
	m.logger.Printf("[monitor] started, poll interval %v", m.pollInterval)
}

// Stop halts polling between ticks. The in-flight tick finishes its
// whole mention batch first: launches already started are not aborted
// and fetched mentions are never dropped unmarked. Calling Stop on a
// stopped monitor is a no-op.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	stop := m.stop
	done := m.done
	m.stop = nil
	m.done = nil
	m.mu.Unlock()

	close(stop)
	<-done
	m.logger.Println("[monitor] stopped")
}

// Status returns a snapshot of the monitor state. Never blocks on the
// polling loop.
func (m *Monitor) Status() domain.MonitorStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	return domain.MonitorStatus{
		IsMonitoring:   m.running,
		ProcessedCount: m.processedCount,
		LastError:      m.lastError,
	}
}

// run is the polling loop. One tick runs at a time; the ticker drops
// fires while a tick is in flight. The stop channel is only checked
// between ticks, so Stop never cancels a tick's context.
func (m *Monitor) run(ctx context.Context, stop, done chan struct{}) {
	defer close(done)

	// First tick immediately so a fresh monitor does not idle for a
	// full interval.
	m.tick(ctx)

	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.tick(ctx)
		}
	}
}

// tick fetches pending mentions and processes each one.
func (m *Monitor) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	batch, err := m.source.Fetch(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		m.recordError("fetch", "fetch mentions: "+err.Error())
		return
	}

	if m.metrics != nil {
		m.metrics.MentionsFetched.Add(float64(len(batch)))
		m.metrics.LastSuccessfulPoll.Set(float64(time.Now().Unix()))
	}

	for _, mention := range batch {
		if ctx.Err() != nil {
			return
		}
		m.processMention(ctx, mention)
	}
}

// processMention handles one mention: dedup check, parse, launch.
// The mention is marked processed exactly once regardless of outcome,
// so a failing launch is never retried on the next tick.
func (m *Monitor) processMention(ctx context.Context, mention domain.Mention) {
	seen, err := m.processed.Seen(ctx, mention.ID)
	if err != nil {
		m.recordError("store", "check mention "+mention.ID+": "+err.Error())
		return
	}
	if seen {
		return
	}

	cmd, ok := mentions.Parse(mention.Text)
	if ok {
		if m.metrics != nil {
			m.metrics.CommandsParsed.Inc()
		}
		result, err := m.launcher.LaunchFromMention(ctx, mention, cmd)
		if err != nil {
			m.recordError("launch", "launch "+cmd.Symbol+" from mention "+mention.ID+": "+err.Error())
		} else {
			m.logger.Printf("[monitor] launched %s (%s) from mention %s: mint %s",
				cmd.Name, cmd.Symbol, mention.ID, result.Mint)
		}
	}

	if err := m.processed.Mark(ctx, mention.ID); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		m.recordError("store", "mark mention "+mention.ID+": "+err.Error())
		return
	}

	m.mu.Lock()
	m.processedCount++
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.MentionsProcessed.Inc()
	}
}

func (m *Monitor) recordError(errType, msg string) {
	m.logger.Printf("[monitor] %s", msg)

	if m.metrics != nil {
		m.metrics.MonitorErrors.WithLabelValues(errType).Inc()
	}

	m.mu.Lock()
	m.lastError = msg
	m.mu.Unlock()
}
