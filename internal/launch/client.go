// Package launch talks to the external launch-service API to create,
// buy, and sell tokens against a bonding curve. It turns the service's
// base64 transaction payloads into signed broadcasts via a
// caller-supplied wallet capability.
package launch

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"solana-launch-pilot/internal/domain"
)

// DefaultTimeout bounds each launch-service request.
const DefaultTimeout = 30 * time.Second

// Wallet is the signing capability supplied by the caller. The client
// never manages wallet lifecycle.
type Wallet interface {
	// PublicKey returns the wallet's base58 public identity.
	PublicKey() string

	// SignAndSend signs the serialized transaction and broadcasts it,
	// returning the transaction signature.
	SignAndSend(ctx context.Context, tx []byte) (string, error)
}

// Uploader pushes metadata documents to content-addressed storage.
// Satisfied by *ipfs.Client.
type Uploader interface {
	UploadMetadata(ctx context.Context, doc any) (string, error)
}

// Client implements the launch-service /trade-local API.
type Client struct {
	endpoint string
	wallet   Wallet
	uploader Uploader
	client   *http.Client
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithUploader sets the metadata uploader used by Create.
func WithUploader(u Uploader) ClientOption {
	return func(c *Client) {
		c.uploader = u
	}
}

// NewClient creates a launch-service client. endpoint is the full
// /trade-local URL.
func NewClient(endpoint string, wallet Wallet, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: endpoint,
		wallet:   wallet,
		client:   &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// createPayload is the /trade-local request body for token creation.
type createPayload struct {
	PublicKey   string         `json:"publicKey"`
	Action      string         `json:"action"`
	Name        string         `json:"name"`
	Symbol      string         `json:"symbol"`
	Description string         `json:"description"`
	ImageURL    string         `json:"imageUrl,omitempty"`
	Options     *createOptions `json:"options,omitempty"`
	InitialBuy  float64        `json:"initialBuy,omitempty"`
	SlippageBps int            `json:"slippageBps"`
	PriorityFee float64        `json:"priorityFee"`
	Pool        string         `json:"pool"`
}

type createOptions struct {
	MetadataURI string `json:"metadataUri,omitempty"`
	Twitter     string `json:"twitter,omitempty"`
	Telegram    string `json:"telegram,omitempty"`
	Website     string `json:"website,omitempty"`
}

// tradePayload is the /trade-local request body for buy and sell.
type tradePayload struct {
	PublicKey        string  `json:"publicKey"`
	Action           string  `json:"action"`
	Mint             string  `json:"mint"`
	Amount           float64 `json:"amount"`
	DenominatedInSol bool    `json:"denominatedInSol"`
	Slippage         int     `json:"slippage"` // basis points
	PriorityFee      float64 `json:"priorityFee"`
	Pool             string  `json:"pool"`
}

// tradeResponse is the /trade-local response for all actions.
type tradeResponse struct {
	Transaction            string `json:"transaction"` // base64 unsigned tx
	Mint                   string `json:"mint"`
	BondingCurve           string `json:"bondingCurve"`
	AssociatedBondingCurve string `json:"associatedBondingCurve"`
}

// Create requests an unsigned creation transaction, signs, and
// broadcasts it. When the request carries image data or an image URI,
// the metadata document is uploaded first; upload failure
// short-circuits before the service is contacted.
func (c *Client) Create(ctx context.Context, req domain.LaunchRequest) (*domain.LaunchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.Normalize()

	if req.MetadataURI == "" && req.ImageURI != "" {
		if c.uploader == nil {
			return nil, &domain.UploadError{Kind: "metadata", Err: fmt.Errorf("no uploader configured")}
		}
		uri, err := c.uploader.UploadMetadata(ctx, req.Metadata())
		if err != nil {
			return nil, err
		}
		req.MetadataURI = uri
	}

	payload := createPayload{
		PublicKey:   c.wallet.PublicKey(),
		Action:      "create",
		Name:        req.Name,
		Symbol:      req.Symbol,
		Description: req.Description,
		ImageURL:    req.ImageURI,
		InitialBuy:  req.InitialBuySOL,
		SlippageBps: req.SlippageBps,
		PriorityFee: req.PriorityFeeSOL,
		Pool:        req.Pool,
	}
	if req.MetadataURI != "" || req.Twitter != "" || req.Telegram != "" || req.Website != "" {
		payload.Options = &createOptions{
			MetadataURI: req.MetadataURI,
			Twitter:     req.Twitter,
			Telegram:    req.Telegram,
			Website:     req.Website,
		}
	}

	resp, err := c.trade(ctx, "create", payload)
	if err != nil {
		return nil, err
	}

	signature, err := c.signAndSend(ctx, "create", resp.Transaction)
	if err != nil {
		return nil, err
	}

	result := &domain.LaunchResult{
		Signature:              signature,
		Mint:                   resp.Mint,
		BondingCurve:           resp.BondingCurve,
		AssociatedBondingCurve: resp.AssociatedBondingCurve,
	}

	// Fill in curve accounts locally when the service omits them.
	if result.Mint != "" && result.BondingCurve == "" {
		if curve, err := DeriveBondingCurve(result.Mint); err == nil {
			result.BondingCurve = curve
		}
	}
	if result.Mint != "" && result.BondingCurve != "" && result.AssociatedBondingCurve == "" {
		if ata, err := DeriveAssociatedBondingCurve(result.Mint, result.BondingCurve); err == nil {
			result.AssociatedBondingCurve = ata
		}
	}

	return result, nil
}

// Buy requests, signs, and broadcasts a bonding-curve buy. solAmount is
// denominated in SOL; slippage in basis points (0 uses the default).
func (c *Client) Buy(ctx context.Context, mint string, solAmount float64, slippageBps int) (string, error) {
	return c.executeTrade(ctx, "buy", mint, solAmount, true, slippageBps)
}

// Sell requests, signs, and broadcasts a bonding-curve sell. tokenAmount
// is denominated in tokens; slippage in basis points (0 uses the default).
func (c *Client) Sell(ctx context.Context, mint string, tokenAmount float64, slippageBps int) (string, error) {
	return c.executeTrade(ctx, "sell", mint, tokenAmount, false, slippageBps)
}

func (c *Client) executeTrade(ctx context.Context, action, mint string, amount float64, inSol bool, slippageBps int) (string, error) {
	if err := ValidateAddress(mint); err != nil {
		return "", &domain.ValidationError{Field: "Mint", Reason: err.Error()}
	}
	if slippageBps == 0 {
		slippageBps = domain.DefaultSlippageBps
	}

	payload := tradePayload{
		PublicKey:        c.wallet.PublicKey(),
		Action:           action,
		Mint:             mint,
		Amount:           amount,
		DenominatedInSol: inSol,
		Slippage:         slippageBps,
		PriorityFee:      domain.DefaultPriorityFeeSOL,
		Pool:             domain.DefaultPool,
	}

	resp, err := c.trade(ctx, action, payload)
	if err != nil {
		return "", err
	}

	return c.signAndSend(ctx, action, resp.Transaction)
}

// trade posts one payload to /trade-local and decodes the response.
// Non-2xx statuses and missing transaction fields are ServiceErrors; no
// retry is attempted here.
func (c *Client) trade(ctx context.Context, operation string, payload any) (*tradeResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.ServiceError{Operation: operation, Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.ServiceError{Operation: operation, Message: fmt.Sprintf("read response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.ServiceError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}

	var parsed tradeResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &domain.ServiceError{Operation: operation, Message: fmt.Sprintf("unmarshal response: %v", err)}
	}

	if parsed.Transaction == "" {
		return nil, &domain.ServiceError{Operation: operation, Message: "response missing transaction field"}
	}

	return &parsed, nil
}

// signAndSend decodes the base64 transaction and hands it to the wallet.
// A wallet failure discards the unsigned transaction; nothing reaches
// the chain.
func (c *Client) signAndSend(ctx context.Context, operation, encoded string) (string, error) {
	txBytes, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", &domain.ServiceError{Operation: operation, Message: fmt.Sprintf("decode transaction: %v", err)}
	}

	signature, err := c.wallet.SignAndSend(ctx, txBytes)
	if err != nil {
		return "", &domain.SigningError{Err: err}
	}
	return signature, nil
}
