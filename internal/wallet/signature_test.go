package wallet

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/membership-service/internal/types"
)

// signAs signs message the way a browser wallet provider does
// (personal_sign with V offset by 27).
func signAs(t *testing.T, message string) (address, signature string) {
	t.Helper()

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}

	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
	sig[crypto.RecoveryIDOffset] += 27

	return crypto.PubkeyToAddress(key.PublicKey).Hex(), hexutil.Encode(sig)
}

func TestVerify_RoundTrip(t *testing.T) {
	message := ChallengeMessage("Link wallet to membership account", "abc123")
	address, signature := signAs(t, message)

	if err := Verify(message, signature, address); err != nil {
		t.Errorf("Verify() error = %v, want nil", err)
	}
}

func TestVerify_CaseInsensitiveAddress(t *testing.T) {
	message := "sign me"
	address, signature := signAs(t, message)

	if err := Verify(message, signature, strings.ToUpper(address)); err != nil {
		t.Errorf("Verify() with uppercased address error = %v, want nil", err)
	}
	if err := Verify(message, signature, strings.ToLower(address)); err != nil {
		t.Errorf("Verify() with lowercased address error = %v, want nil", err)
	}
}

func TestVerify_WrongAddress(t *testing.T) {
	message := "sign me"
	_, signature := signAs(t, message)
	otherAddress, _ := signAs(t, message)

	err := Verify(message, signature, otherAddress)
	if !types.IsCode(err, types.CodeSignatureMismatch) {
		t.Errorf("Verify() error = %v, want %s", err, types.CodeSignatureMismatch)
	}
}

func TestVerify_TamperedMessage(t *testing.T) {
	address, signature := signAs(t, "original message")

	err := Verify("tampered message", signature, address)
	if !types.IsCode(err, types.CodeSignatureMismatch) {
		t.Errorf("Verify() error = %v, want %s", err, types.CodeSignatureMismatch)
	}
}

func TestRecoverSigner_InvalidSignature(t *testing.T) {
	tests := []struct {
		name      string
		signature string
		wantCode  string
	}{
		{
			name:      "not hex",
			signature: "not-a-signature",
			wantCode:  types.CodeInvalidInput,
		},
		{
			name:      "wrong length",
			signature: "0xdeadbeef",
			wantCode:  types.CodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RecoverSigner("message", tt.signature)
			if !types.IsCode(err, tt.wantCode) {
				t.Errorf("RecoverSigner() error = %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestValidAddress(t *testing.T) {
	if !ValidAddress("0x1234567890123456789012345678901234567890") {
		t.Error("ValidAddress() = false for well-formed address")
	}
	if ValidAddress("0x1234") {
		t.Error("ValidAddress() = true for short address")
	}
	if ValidAddress("") {
		t.Error("ValidAddress() = true for empty address")
	}
}
