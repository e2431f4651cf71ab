// Package main provides the launch-pilot server:
// - HTTP API: prompt analysis, suggestion synthesis, launch/buy/sell
// - Ingestion monitor: polls the mention stream for launch commands
// - Observability: health, status, Prometheus metrics
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"solana-launch-pilot/internal/domain"
	"solana-launch-pilot/internal/ipfs"
	"solana-launch-pilot/internal/launch"
	"solana-launch-pilot/internal/mentions"
	"solana-launch-pilot/internal/monitor"
	"solana-launch-pilot/internal/observability"
	"solana-launch-pilot/internal/pipeline"
	"solana-launch-pilot/internal/solana"
	"solana-launch-pilot/internal/storage"
	chstore "solana-launch-pilot/internal/storage/clickhouse"
	"solana-launch-pilot/internal/storage/memory"
	"solana-launch-pilot/internal/storage/migrations"
	pgstore "solana-launch-pilot/internal/storage/postgres"
	"solana-launch-pilot/internal/synthesis"
	"solana-launch-pilot/internal/wallet"
)

// Server holds the HTTP API and its collaborators.
type Server struct {
	pipeline *pipeline.Pipeline
	rpc      solana.RPCClient
	logger   *log.Logger
	started  time.Time
}

// allStores holds the storage implementations behind the pipeline.
type allStores struct {
	processed storage.ProcessedMentionStore
	records   storage.LaunchRecordStore
	events    storage.PipelineEventStore
}

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	rpcEndpoint := flag.String("rpc-endpoint", os.Getenv("SOLANA_RPC_ENDPOINT"), "Solana RPC HTTP endpoint")
	tradeEndpoint := flag.String("trade-endpoint", os.Getenv("TRADE_LOCAL_ENDPOINT"), "Launch service /trade-local URL")
	ipfsEndpoint := flag.String("ipfs-endpoint", os.Getenv("IPFS_ENDPOINT"), "IPFS upload endpoint")
	mentionEndpoint := flag.String("mention-endpoint", os.Getenv("MENTION_ENDPOINT"), "Mention stream endpoint (http(s):// or ws(s)://)")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	pollInterval := flag.Duration("poll-interval", 30*time.Second, "Mention poll interval")
	confirmTimeout := flag.Duration("confirm-timeout", 90*time.Second, "Transaction confirmation wait (0 disables)")
	autoStart := flag.Bool("auto-start-monitor", false, "Start the ingestion monitor at boot")
	listenAddr := flag.String("listen-addr", ":8080", "HTTP API listen address")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	// Validate required flags
	if *rpcEndpoint == "" {
		logger.Fatal("--rpc-endpoint is required")
	}
	if *tradeEndpoint == "" {
		logger.Fatal("--trade-endpoint is required")
	}
	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	secretKey := os.Getenv("WALLET_SECRET_KEY")
	if secretKey == "" {
		logger.Fatal("WALLET_SECRET_KEY environment variable is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create stores
	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	// Create wallet and launch client
	rpc := solana.NewHTTPClient(*rpcEndpoint, solana.WithMetrics(observability.DefaultMetrics))
	w, err := wallet.New(secretKey, rpc, wallet.WithConfirmation(*confirmTimeout))
	if err != nil {
		logger.Fatalf("Failed to create wallet: %v", err)
	}
	logger.Printf("Wallet loaded: %s", w.PublicKey())

	var ipfsClient *ipfs.Client
	launchOpts := []launch.ClientOption{}
	if *ipfsEndpoint != "" {
		ipfsClient = ipfs.NewClient(*ipfsEndpoint, ipfs.WithMetrics(observability.DefaultMetrics))
		launchOpts = append(launchOpts, launch.WithUploader(ipfsClient))
	}
	launchClient := launch.NewClient(*tradeEndpoint, w, launchOpts...)

	// Create pipeline
	p := pipeline.New(pipeline.Options{
		Synthesizer: synthesis.New(),
		Launcher:    launchClient,
		Images:      imageUploader(ipfsClient),
		Records:     stores.records,
		Events:      stores.events,
		Metrics:     observability.DefaultMetrics,
		Logger:      log.New(os.Stdout, "[pipeline] ", log.LstdFlags),
	})

	// Create mention source and monitor
	if *mentionEndpoint != "" {
		source, closeSource, err := createSource(ctx, *mentionEndpoint)
		if err != nil {
			logger.Fatalf("Failed to create mention source: %v", err)
		}
		defer closeSource()

		mon := monitor.New(monitor.Options{
			Source:       source,
			Launcher:     p,
			Processed:    stores.processed,
			PollInterval: *pollInterval,
			Metrics:      observability.DefaultMetrics,
			Logger:       log.New(os.Stdout, "[monitor] ", log.LstdFlags),
		})
		p.AttachMonitor(mon)

		if *autoStart {
			if err := p.StartMonitor(ctx); err != nil {
				logger.Fatalf("Failed to start monitor: %v", err)
			}
			defer p.StopMonitor()
		}
	}

	server := &Server{
		pipeline: p,
		rpc:      rpc,
		logger:   logger,
		started:  time.Now(),
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	httpServer := &http.Server{
		Addr:    *listenAddr,
		Handler: server.routes(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Printf("Starting HTTP server on %s", *listenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		select {
		case sig := <-sigCh:
			logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		case <-gctx.Done():
		}
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatalf("Server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// imageUploader adapts a possibly-nil ipfs client to the pipeline's
// optional uploader collaborator.
func imageUploader(c *ipfs.Client) pipeline.ImageUploader {
	if c == nil {
		return nil
	}
	return c
}

// createStores creates the store set, running migrations for durable
// backends.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (*allStores, func(), error) {
	if useMemory {
		stores := &allStores{
			processed: memory.NewProcessedMentionStore(),
			records:   memory.NewLaunchRecordStore(),
			events:    memory.NewPipelineEventStore(),
		}
		return stores, func() {}, nil
	}

	// PostgreSQL
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("migrate postgres: %w", err)
	}

	// ClickHouse (migrations return a connection to the target database)
	chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("migrate clickhouse: %w", err)
	}

	stores := &allStores{
		processed: pgstore.NewProcessedMentionStore(pool),
		records:   pgstore.NewLaunchRecordStore(pool),
		events:    chstore.NewPipelineEventStore(chConn),
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}

	return stores, cleanup, nil
}

// createSource builds a mention source from the endpoint scheme.
func createSource(ctx context.Context, endpoint string) (mentions.Source, func(), error) {
	if strings.HasPrefix(endpoint, "ws://") || strings.HasPrefix(endpoint, "wss://") {
		ws, err := mentions.NewWSSource(ctx, endpoint, nil)
		if err != nil {
			return nil, nil, err
		}
		return ws, func() { ws.Close() }, nil
	}
	return mentions.NewHTTPSource(endpoint), func() {}, nil
}

// routes builds the HTTP API mux.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/suggest", s.handleSuggest)
	mux.HandleFunc("POST /api/launch", s.handleLaunch)
	mux.HandleFunc("POST /api/buy", s.handleBuy)
	mux.HandleFunc("POST /api/sell", s.handleSell)
	mux.HandleFunc("POST /api/parse", s.handleParse)
	mux.HandleFunc("POST /api/monitor/start", s.handleMonitorStart)
	mux.HandleFunc("POST /api/monitor/stop", s.handleMonitorStop)
	mux.HandleFunc("GET /api/monitor/status", s.handleMonitorStatus)

	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/status", s.handleStatus)

	return mux
}

type promptRequest struct {
	Prompt string `json:"prompt"`
	Count  int    `json:"count,omitempty"`
}

// handleAnalyze returns the prompt analysis.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req promptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	writeJSON(w, http.StatusOK, s.pipeline.AnalyzePrompt(req.Prompt))
}

// handleSuggest returns token suggestions for a prompt.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req promptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	count := req.Count
	if count <= 0 {
		count = 3
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"suggestions": s.pipeline.SynthesizeSuggestions(req.Prompt, count),
	})
}

// handleLaunch creates a token from a full launch request.
func (s *Server) handleLaunch(w http.ResponseWriter, r *http.Request) {
	var req domain.LaunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.pipeline.Launch(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type tradeRequest struct {
	Mint        string  `json:"mint"`
	Amount      float64 `json:"amount"`
	SlippageBps int     `json:"slippageBps,omitempty"`
}

// handleBuy buys an existing token. Amount is denominated in SOL.
func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	s.handleTrade(w, r, s.pipeline.Buy)
}

// handleSell sells an existing token. Amount is the token quantity.
func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	s.handleTrade(w, r, s.pipeline.Sell)
}

func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request, trade func(context.Context, string, float64, int) (string, error)) {
	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Mint == "" {
		writeError(w, http.StatusBadRequest, "mint is required")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	sig, err := trade(r.Context(), req.Mint, req.Amount, req.SlippageBps)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"signature": sig})
}

type parseRequest struct {
	Text string `json:"text"`
}

// handleParse runs the mention command parser for debugging.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	cmd, ok := s.pipeline.TestParse(req.Text)
	resp := map[string]any{"isValid": ok}
	if ok {
		resp["parsed"] = cmd
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleMonitorStart starts the ingestion monitor. The monitor outlives
// the request, so it runs under the server lifetime rather than the
// request context.
func (s *Server) handleMonitorStart(w http.ResponseWriter, r *http.Request) {
	if err := s.pipeline.StartMonitor(context.Background()); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.pipeline.MonitorStatus())
}

// handleMonitorStop stops the ingestion monitor.
func (s *Server) handleMonitorStop(w http.ResponseWriter, r *http.Request) {
	if err := s.pipeline.StopMonitor(); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.pipeline.MonitorStatus())
}

// handleMonitorStatus returns the monitor state snapshot.
func (s *Server) handleMonitorStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.pipeline.MonitorStatus())
}

// handleHealth reports liveness. With an RPC client attached it also
// probes the cluster, so a dead endpoint shows up here instead of on
// the first launch.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.rpc != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if _, err := s.rpc.GetLatestBlockhash(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"rpc":    err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status  string               `json:"status"`
	Uptime  string               `json:"uptime"`
	Slot    int64                `json:"slot,omitempty"`
	Monitor domain.MonitorStatus `json:"monitor"`
}

// handleStatus returns server status as JSON. The slot is filled in
// best-effort from the RPC endpoint.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Status:  "running",
		Uptime:  time.Since(s.started).String(),
		Monitor: s.pipeline.MonitorStatus(),
	}

	if s.rpc != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if slot, err := s.rpc.GetSlot(ctx); err == nil {
			resp.Slot = slot
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// writeDomainError maps domain error types to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	var (
		verr *domain.ValidationError
		uerr *domain.UploadError
		serr *domain.ServiceError
		gerr *domain.SigningError
	)

	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.As(err, &uerr):
		writeError(w, http.StatusBadGateway, uerr.Error())
	case errors.As(err, &serr):
		writeError(w, http.StatusBadGateway, serr.Error())
	case errors.As(err, &gerr):
		writeError(w, http.StatusInternalServerError, gerr.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
