// Package main provides a one-shot CLI for launching a token from the
// command line: analyze a prompt, print suggestions, or create a token
// against the launch service.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"solana-launch-pilot/internal/domain"
	"solana-launch-pilot/internal/ipfs"
	"solana-launch-pilot/internal/launch"
	"solana-launch-pilot/internal/pipeline"
	"solana-launch-pilot/internal/solana"
	"solana-launch-pilot/internal/storage/memory"
	"solana-launch-pilot/internal/synthesis"
	"solana-launch-pilot/internal/wallet"
)

func main() {
	prompt := flag.String("prompt", "", "Free-text prompt: analyze and print suggestions, then exit")
	name := flag.String("name", "", "Token name to launch")
	symbol := flag.String("symbol", "", "Token symbol to launch")
	description := flag.String("description", "", "Token description")
	imagePath := flag.String("image", "", "Path to token image file")
	initialBuy := flag.Float64("initial-buy", 0, "Initial dev buy in SOL")
	slippageBps := flag.Int("slippage-bps", 0, "Slippage tolerance in basis points (0 = default)")
	count := flag.Int("count", 3, "Number of suggestions for --prompt mode")
	rpcEndpoint := flag.String("rpc-endpoint", os.Getenv("SOLANA_RPC_ENDPOINT"), "Solana RPC HTTP endpoint")
	tradeEndpoint := flag.String("trade-endpoint", os.Getenv("TRADE_LOCAL_ENDPOINT"), "Launch service /trade-local URL")
	ipfsEndpoint := flag.String("ipfs-endpoint", os.Getenv("IPFS_ENDPOINT"), "IPFS upload endpoint")
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall operation timeout")
	confirmTimeout := flag.Duration("confirm-timeout", 90*time.Second, "Transaction confirmation wait (0 disables)")
	flag.Parse()

	// Suggestion mode needs no credentials or endpoints.
	if *prompt != "" {
		p := pipeline.New(pipeline.Options{Synthesizer: synthesis.New()})
		printJSON(map[string]any{
			"analysis":    p.AnalyzePrompt(*prompt),
			"suggestions": p.SynthesizeSuggestions(*prompt, *count),
		})
		return
	}

	if *name == "" || *symbol == "" || *description == "" {
		fmt.Fprintln(os.Stderr, "Error: --name, --symbol, and --description are required (or use --prompt for suggestions)")
		os.Exit(1)
	}
	if *rpcEndpoint == "" || *tradeEndpoint == "" {
		fmt.Fprintln(os.Stderr, "Error: --rpc-endpoint and --trade-endpoint are required")
		os.Exit(1)
	}
	secretKey := os.Getenv("WALLET_SECRET_KEY")
	if secretKey == "" {
		fmt.Fprintln(os.Stderr, "Error: WALLET_SECRET_KEY environment variable is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	rpc := solana.NewHTTPClient(*rpcEndpoint)
	w, err := wallet.New(secretKey, rpc, wallet.WithConfirmation(*confirmTimeout))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading wallet: %v\n", err)
		os.Exit(1)
	}

	var (
		ipfsClient *ipfs.Client
		images     pipeline.ImageUploader
		launchOpts []launch.ClientOption
	)
	if *ipfsEndpoint != "" {
		ipfsClient = ipfs.NewClient(*ipfsEndpoint)
		images = ipfsClient
		launchOpts = append(launchOpts, launch.WithUploader(ipfsClient))
	}

	p := pipeline.New(pipeline.Options{
		Launcher: launch.NewClient(*tradeEndpoint, w, launchOpts...),
		Images:   images,
		Records:  memory.NewLaunchRecordStore(),
	})

	req := domain.LaunchRequest{
		Name:          *name,
		Symbol:        *symbol,
		Description:   *description,
		InitialBuySOL: *initialBuy,
		SlippageBps:   *slippageBps,
	}

	if *imagePath != "" {
		data, err := os.ReadFile(*imagePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading image: %v\n", err)
			os.Exit(1)
		}
		req.ImageData = data
	}

	result, err := p.Launch(ctx, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Launch failed: %v\n", err)
		os.Exit(1)
	}

	printJSON(result)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
