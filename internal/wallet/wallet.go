// Package wallet implements the signing capability consumed by the
// launch client: a local ed25519 keypair that signs serialized
// transactions and broadcasts them over Solana JSON-RPC.
package wallet

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/mr-tron/base58"

	"solana-launch-pilot/internal/solana"
)

// confirmPollInterval spaces the signature-status polls while waiting
// for cluster confirmation.
const confirmPollInterval = 500 * time.Millisecond

// LocalWallet signs transactions with an in-process ed25519 key and
// submits them through an RPC client.
type LocalWallet struct {
	priv           ed25519.PrivateKey
	pubkey         string
	rpc            solana.RPCClient
	confirmTimeout time.Duration
}

// Option configures LocalWallet.
type Option func(*LocalWallet)

// WithConfirmation makes SignAndSend wait until the cluster reports the
// transaction confirmed, up to the given timeout. Zero disables the
// wait and returns right after broadcast.
func WithConfirmation(timeout time.Duration) Option {
	return func(w *LocalWallet) {
		w.confirmTimeout = timeout
	}
}

// New creates a LocalWallet from a base58-encoded 64-byte keypair
// (the standard Solana secret key export format).
func New(secretKey string, rpc solana.RPCClient, opts ...Option) (*LocalWallet, error) {
	decoded, err := base58.Decode(secretKey)
	if err != nil {
		return nil, fmt.Errorf("decode secret key: %w", err)
	}
	if len(decoded) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("secret key must be %d bytes, got %d", ed25519.PrivateKeySize, len(decoded))
	}

	priv := ed25519.PrivateKey(decoded)
	pub := priv.Public().(ed25519.PublicKey)

	w := &LocalWallet{
		priv:   priv,
		pubkey: base58.Encode(pub),
		rpc:    rpc,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// PublicKey returns the wallet's base58 public key.
func (w *LocalWallet) PublicKey() string {
	return w.pubkey
}

// SignAndSend signs the serialized transaction as its fee payer and
// broadcasts it. The transaction wire format is a compact-u16 signature
// count, the signature slots, then the message; the fee-payer signature
// occupies slot zero.
func (w *LocalWallet) SignAndSend(ctx context.Context, tx []byte) (string, error) {
	sigCount, offset, err := decodeCompactU16(tx)
	if err != nil {
		return "", fmt.Errorf("parse transaction: %w", err)
	}
	if sigCount < 1 {
		return "", fmt.Errorf("transaction has no signature slots")
	}

	sigBytes := sigCount * ed25519.SignatureSize
	if len(tx) < offset+sigBytes {
		return "", fmt.Errorf("transaction truncated: %d bytes", len(tx))
	}
	message := tx[offset+sigBytes:]

	signature := ed25519.Sign(w.priv, message)

	signed := make([]byte, len(tx))
	copy(signed, tx)
	copy(signed[offset:], signature)

	sig, err := w.rpc.SendTransaction(ctx, base64.StdEncoding.EncodeToString(signed))
	if err != nil {
		return "", fmt.Errorf("send transaction: %w", err)
	}

	if w.confirmTimeout > 0 {
		if err := w.awaitConfirmation(ctx, sig); err != nil {
			return "", err
		}
	}
	return sig, nil
}

// awaitConfirmation polls the signature status until the cluster
// reports the transaction confirmed or finalized. Status lookup errors
// are treated as transient and retried until the timeout.
func (w *LocalWallet) awaitConfirmation(ctx context.Context, sig string) error {
	ctx, cancel := context.WithTimeout(ctx, w.confirmTimeout)
	defer cancel()

	ticker := time.NewTicker(confirmPollInterval)
	defer ticker.Stop()

	for {
		status, err := w.rpc.GetSignatureStatus(ctx, sig)
		if err == nil && (status == "confirmed" || status == "finalized") {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("transaction %s not confirmed within %v", sig, w.confirmTimeout)
		case <-ticker.C:
		}
	}
}

// decodeCompactU16 reads a Solana compact-u16 length prefix.
func decodeCompactU16(data []byte) (value, size int, err error) {
	for i := 0; i < 3; i++ {
		if i >= len(data) {
			return 0, 0, fmt.Errorf("truncated compact-u16")
		}
		b := int(data[i])
		value |= (b & 0x7f) << (7 * i)
		if b&0x80 == 0 {
			return value, i + 1, nil
		}
	}
	return 0, 0, fmt.Errorf("compact-u16 too long")
}
