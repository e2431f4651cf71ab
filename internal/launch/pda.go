package launch

import (
	"crypto/sha256"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// On-chain program IDs used for local account derivation.
const (
	// PumpFunProgram is the bonding-curve launch program.
	PumpFunProgram = "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P"

	// TokenProgram is the SPL token program.
	TokenProgram = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

	// AssociatedTokenProgram derives associated token accounts.
	AssociatedTokenProgram = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"
)

// ValidateAddress checks that s is a base58-encoded 32-byte key.
func ValidateAddress(s string) error {
	decoded, err := base58.Decode(s)
	if err != nil {
		return fmt.Errorf("decode address: %w", err)
	}
	if len(decoded) != 32 {
		return fmt.Errorf("address must decode to 32 bytes, got %d", len(decoded))
	}
	return nil
}

// DeriveBondingCurve derives the bonding-curve account for a mint.
// Seeds: ["bonding-curve", mint] under the launch program.
func DeriveBondingCurve(mint string) (string, error) {
	mintBytes, err := decodeKey(mint)
	if err != nil {
		return "", fmt.Errorf("mint: %w", err)
	}
	programBytes, err := decodeKey(PumpFunProgram)
	if err != nil {
		return "", err
	}

	pda := derivePDA([][]byte{[]byte("bonding-curve"), mintBytes}, programBytes)
	if pda == "" {
		return "", fmt.Errorf("no valid bump for bonding curve of %s", mint)
	}
	return pda, nil
}

// DeriveAssociatedBondingCurve derives the bonding curve's associated
// token account. Seeds: [bondingCurve, tokenProgram, mint] under the
// associated token program.
func DeriveAssociatedBondingCurve(mint, bondingCurve string) (string, error) {
	mintBytes, err := decodeKey(mint)
	if err != nil {
		return "", fmt.Errorf("mint: %w", err)
	}
	curveBytes, err := decodeKey(bondingCurve)
	if err != nil {
		return "", fmt.Errorf("bonding curve: %w", err)
	}
	tokenProgramBytes, err := decodeKey(TokenProgram)
	if err != nil {
		return "", err
	}
	ataProgramBytes, err := decodeKey(AssociatedTokenProgram)
	if err != nil {
		return "", err
	}

	pda := derivePDA([][]byte{curveBytes, tokenProgramBytes, mintBytes}, ataProgramBytes)
	if pda == "" {
		return "", fmt.Errorf("no valid bump for associated bonding curve of %s", mint)
	}
	return pda, nil
}

func decodeKey(s string) ([]byte, error) {
	decoded, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", s, err)
	}
	if len(decoded) != 32 {
		return nil, fmt.Errorf("key %q must be 32 bytes, got %d", s, len(decoded))
	}
	return decoded, nil
}

// derivePDA finds the first bump (from 255 down) whose
// sha256(seeds || bump || programID || marker) hash is off the ed25519
// curve, per the Solana PDA algorithm.
func derivePDA(seeds [][]byte, programID []byte) string {
	for bump := byte(255); bump > 0; bump-- {
		data := make([]byte, 0)
		for _, seed := range seeds {
			data = append(data, seed...)
		}
		data = append(data, bump)
		data = append(data, programID...)
		data = append(data, []byte("ProgramDerivedAddress")...)

		hash := sha256.Sum256(data)
		if !isOnCurve(hash[:]) {
			return base58.Encode(hash[:])
		}
	}
	return ""
}

func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}
