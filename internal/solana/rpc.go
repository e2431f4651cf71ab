// Package solana provides a minimal JSON-RPC client for signing-wallet
// broadcasts: blockhash lookup, transaction submission, and confirmation.
package solana

import "context"

// RPCClient is the subset of the Solana JSON-RPC API the wallet needs.
type RPCClient interface {
	// GetLatestBlockhash returns the current blockhash for transaction
	// signing.
	GetLatestBlockhash(ctx context.Context) (string, error)

	// SendTransaction broadcasts a base64-encoded signed transaction and
	// returns its signature.
	SendTransaction(ctx context.Context, txBase64 string) (string, error)

	// GetSignatureStatus returns the confirmation status for a
	// signature, or empty when unknown.
	GetSignatureStatus(ctx context.Context, signature string) (string, error)

	// GetSlot returns the current slot. Used as a health probe.
	GetSlot(ctx context.Context) (int64, error)
}
