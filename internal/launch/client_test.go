package launch

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"solana-launch-pilot/internal/domain"
)

// fakeWallet implements Wallet for tests.
type fakeWallet struct {
	pubkey  string
	signErr error
	signed  [][]byte
}

func (w *fakeWallet) PublicKey() string { return w.pubkey }

func (w *fakeWallet) SignAndSend(_ context.Context, tx []byte) (string, error) {
	if w.signErr != nil {
		return "", w.signErr
	}
	w.signed = append(w.signed, tx)
	return "sig-" + fmt.Sprint(len(w.signed)), nil
}

// fakeUploader implements Uploader for tests.
type fakeUploader struct {
	uri   string
	err   error
	calls int
}

func (u *fakeUploader) UploadMetadata(context.Context, any) (string, error) {
	u.calls++
	if u.err != nil {
		return "", u.err
	}
	return u.uri, nil
}

const testMint = "So11111111111111111111111111111111111111112"

func tradeServer(t *testing.T, calls *atomic.Int64, resp tradeResponse) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestClient_Create(t *testing.T) {
	tx := base64.StdEncoding.EncodeToString([]byte("unsigned-create-tx"))

	var gotPayload createPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(tradeResponse{
			Transaction:            tx,
			Mint:                   testMint,
			BondingCurve:           "curve111",
			AssociatedBondingCurve: "ata111",
		})
	}))
	defer server.Close()

	wallet := &fakeWallet{pubkey: "wallet-pub"}
	uploader := &fakeUploader{uri: "ipfs://QmMeta"}
	client := NewClient(server.URL, wallet, WithUploader(uploader))

	result, err := client.Create(context.Background(), domain.LaunchRequest{
		Name:        "Moon Rocket",
		Symbol:      "MOOROC",
		Description: "to the moon",
		ImageURI:    "ipfs://QmImage",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if result.Signature != "sig-1" {
		t.Errorf("expected sig-1, got %s", result.Signature)
	}
	if result.Mint != testMint {
		t.Errorf("unexpected mint %s", result.Mint)
	}
	if uploader.calls != 1 {
		t.Errorf("expected 1 metadata upload, got %d", uploader.calls)
	}
	if len(wallet.signed) != 1 || string(wallet.signed[0]) != "unsigned-create-tx" {
		t.Errorf("wallet did not receive decoded transaction")
	}

	// Defaults applied
	if gotPayload.SlippageBps != domain.DefaultSlippageBps {
		t.Errorf("expected default slippage, got %d", gotPayload.SlippageBps)
	}
	if gotPayload.Pool != domain.DefaultPool {
		t.Errorf("expected default pool, got %s", gotPayload.Pool)
	}
	if gotPayload.Options == nil || gotPayload.Options.MetadataURI != "ipfs://QmMeta" {
		t.Errorf("metadata uri not forwarded: %+v", gotPayload.Options)
	}
}

func TestClient_Create_ValidationRejectsBeforeNetwork(t *testing.T) {
	var calls atomic.Int64
	server := tradeServer(t, &calls, tradeResponse{})
	defer server.Close()

	uploader := &fakeUploader{uri: "ipfs://QmMeta"}
	client := NewClient(server.URL, &fakeWallet{pubkey: "pk"}, WithUploader(uploader))

	_, err := client.Create(context.Background(), domain.LaunchRequest{
		Name:        "Too Long",
		Symbol:      "ELEVENCHARS", // 11 chars
		Description: "d",
	})

	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if calls.Load() != 0 {
		t.Errorf("service called %d times for invalid request", calls.Load())
	}
	if uploader.calls != 0 {
		t.Errorf("uploader called %d times for invalid request", uploader.calls)
	}
}

func TestClient_Create_UploadFailureShortCircuits(t *testing.T) {
	var calls atomic.Int64
	server := tradeServer(t, &calls, tradeResponse{})
	defer server.Close()

	uploader := &fakeUploader{err: &domain.UploadError{Kind: "metadata", Err: errors.New("boom")}}
	client := NewClient(server.URL, &fakeWallet{pubkey: "pk"}, WithUploader(uploader))

	_, err := client.Create(context.Background(), domain.LaunchRequest{
		Name:        "Moon Rocket",
		Symbol:      "MOOROC",
		Description: "d",
		ImageURI:    "ipfs://QmImage",
	})

	var uploadErr *domain.UploadError
	if !errors.As(err, &uploadErr) {
		t.Fatalf("expected UploadError, got %T: %v", err, err)
	}
	if calls.Load() != 0 {
		t.Errorf("trade-local called %d times after upload failure", calls.Load())
	}
}

func TestClient_Create_MissingTransactionField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"mint": testMint})
	}))
	defer server.Close()

	client := NewClient(server.URL, &fakeWallet{pubkey: "pk"})

	_, err := client.Create(context.Background(), domain.LaunchRequest{
		Name:        "n",
		Symbol:      "S",
		Description: "d",
	})

	var serviceErr *domain.ServiceError
	if !errors.As(err, &serviceErr) {
		t.Fatalf("expected ServiceError, got %T: %v", err, err)
	}
}

func TestClient_Create_SigningFailureDiscardsTransaction(t *testing.T) {
	tx := base64.StdEncoding.EncodeToString([]byte("unsigned"))
	var calls atomic.Int64
	server := tradeServer(t, &calls, tradeResponse{Transaction: tx, Mint: testMint})
	defer server.Close()

	wallet := &fakeWallet{pubkey: "pk", signErr: errors.New("user rejected")}
	client := NewClient(server.URL, wallet)

	result, err := client.Create(context.Background(), domain.LaunchRequest{
		Name:        "n",
		Symbol:      "S",
		Description: "d",
	})

	var signingErr *domain.SigningError
	if !errors.As(err, &signingErr) {
		t.Fatalf("expected SigningError, got %T: %v", err, err)
	}
	if result != nil {
		t.Errorf("expected nil result after signing failure, got %+v", result)
	}
}

func TestClient_Buy(t *testing.T) {
	tx := base64.StdEncoding.EncodeToString([]byte("buy-tx"))

	var gotPayload tradePayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(tradeResponse{Transaction: tx})
	}))
	defer server.Close()

	client := NewClient(server.URL, &fakeWallet{pubkey: "pk"})

	sig, err := client.Buy(context.Background(), testMint, 0.5, 300)
	if err != nil {
		t.Fatalf("Buy: %v", err)
	}
	if sig != "sig-1" {
		t.Errorf("expected sig-1, got %s", sig)
	}

	if gotPayload.Action != "buy" {
		t.Errorf("expected buy action, got %s", gotPayload.Action)
	}
	if !gotPayload.DenominatedInSol {
		t.Error("buy must be denominated in SOL")
	}
	if gotPayload.Slippage != 300 {
		t.Errorf("expected slippage 300, got %d", gotPayload.Slippage)
	}
}

func TestClient_Sell_DefaultSlippage(t *testing.T) {
	tx := base64.StdEncoding.EncodeToString([]byte("sell-tx"))

	var gotPayload tradePayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(tradeResponse{Transaction: tx})
	}))
	defer server.Close()

	client := NewClient(server.URL, &fakeWallet{pubkey: "pk"})

	if _, err := client.Sell(context.Background(), testMint, 1000, 0); err != nil {
		t.Fatalf("Sell: %v", err)
	}

	if gotPayload.Action != "sell" {
		t.Errorf("expected sell action, got %s", gotPayload.Action)
	}
	if gotPayload.DenominatedInSol {
		t.Error("sell must be denominated in tokens")
	}
	if gotPayload.Slippage != domain.DefaultSlippageBps {
		t.Errorf("expected default slippage, got %d", gotPayload.Slippage)
	}
}

func TestClient_Buy_InvalidMint(t *testing.T) {
	var calls atomic.Int64
	server := tradeServer(t, &calls, tradeResponse{})
	defer server.Close()

	client := NewClient(server.URL, &fakeWallet{pubkey: "pk"})

	_, err := client.Buy(context.Background(), "not-a-mint", 0.5, 0)

	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if calls.Load() != 0 {
		t.Errorf("service called for invalid mint")
	}
}

func TestClient_Trade_ServiceStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "out of curve range", http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(server.URL, &fakeWallet{pubkey: "pk"})

	_, err := client.Buy(context.Background(), testMint, 0.5, 0)

	var serviceErr *domain.ServiceError
	if !errors.As(err, &serviceErr) {
		t.Fatalf("expected ServiceError, got %T: %v", err, err)
	}
	if serviceErr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", serviceErr.StatusCode)
	}
}
