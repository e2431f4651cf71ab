package launch

import (
	"testing"

	"github.com/mr-tron/base58"
)

func TestValidateAddress(t *testing.T) {
	if err := ValidateAddress(testMint); err != nil {
		t.Errorf("valid mint rejected: %v", err)
	}
	if err := ValidateAddress("not-a-mint"); err == nil {
		t.Error("expected error for non-base58 input")
	}
	if err := ValidateAddress("abc"); err == nil {
		t.Error("expected error for short input")
	}
}

func TestDeriveBondingCurve_Deterministic(t *testing.T) {
	first, err := DeriveBondingCurve(testMint)
	if err != nil {
		t.Fatalf("DeriveBondingCurve: %v", err)
	}
	second, err := DeriveBondingCurve(testMint)
	if err != nil {
		t.Fatalf("DeriveBondingCurve: %v", err)
	}

	if first != second {
		t.Errorf("derivation not deterministic: %s vs %s", first, second)
	}

	// Result must be a valid 32-byte base58 key that is off-curve.
	decoded, err := base58.Decode(first)
	if err != nil {
		t.Fatalf("decode derived address: %v", err)
	}
	if len(decoded) != 32 {
		t.Errorf("derived address is %d bytes, want 32", len(decoded))
	}
	if isOnCurve(decoded) {
		t.Error("derived PDA must be off the ed25519 curve")
	}
}

func TestDeriveAssociatedBondingCurve(t *testing.T) {
	curve, err := DeriveBondingCurve(testMint)
	if err != nil {
		t.Fatalf("DeriveBondingCurve: %v", err)
	}

	ata, err := DeriveAssociatedBondingCurve(testMint, curve)
	if err != nil {
		t.Fatalf("DeriveAssociatedBondingCurve: %v", err)
	}
	if ata == curve {
		t.Error("associated account must differ from bonding curve")
	}
	if err := ValidateAddress(ata); err != nil {
		t.Errorf("derived associated account invalid: %v", err)
	}
}

func TestDeriveBondingCurve_InvalidMint(t *testing.T) {
	if _, err := DeriveBondingCurve("bogus"); err == nil {
		t.Error("expected error for invalid mint")
	}
}
