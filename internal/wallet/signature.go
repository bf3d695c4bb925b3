// Package wallet provides wallet address validation and signature
// verification for the wallet-linking workflow. The browser wallet provider
// itself is an external collaborator; this package only handles its
// artifacts: addresses, signed messages, and signatures.
package wallet

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/membership-service/internal/types"
)

// ProviderErrUserRejected is the EIP-1193 error code wallet providers return
// when the user declines a connection or signing request.
const ProviderErrUserRejected = 4001

// ValidAddress reports whether s is a well-formed hex wallet address.
func ValidAddress(s string) bool {
	return common.IsHexAddress(s)
}

// Normalize lowercases a wallet address for storage and comparison.
func Normalize(address string) string {
	return strings.ToLower(address)
}

// ChallengeMessage builds the canonical message a wallet signs to prove
// control of its address.
func ChallengeMessage(label, nonce string) string {
	return fmt.Sprintf("%s\nNonce: %s", label, nonce)
}

// RecoverSigner recovers the signer address from an EIP-191 personal_sign
// signature over message. The signature is the 65-byte hex blob wallet
// providers return, with V as either 0/1 or 27/28.
func RecoverSigner(message, signature string) (string, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return "", types.NewServiceError(types.CodeInvalidInput, "signature is not valid hex")
	}
	if len(sig) != crypto.SignatureLength {
		return "", types.NewServiceError(types.CodeInvalidInput,
			fmt.Sprintf("signature must be %d bytes", crypto.SignatureLength))
	}

	// Providers return V as 27/28; crypto.SigToPub expects 0/1.
	sigCopy := make([]byte, len(sig))
	copy(sigCopy, sig)
	if sigCopy[crypto.RecoveryIDOffset] >= 27 {
		sigCopy[crypto.RecoveryIDOffset] -= 27
	}

	pubKey, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sigCopy)
	if err != nil {
		return "", types.NewServiceError(types.CodeSignatureMismatch, "could not recover signer from signature")
	}

	return crypto.PubkeyToAddress(*pubKey).Hex(), nil
}

// Verify checks that signature over message recovers to claimedAddress,
// comparing case-insensitively. Returns the proof error taxonomy:
// SIGNATURE_MISMATCH when recovery succeeds but addresses differ.
func Verify(message, signature, claimedAddress string) error {
	recovered, err := RecoverSigner(message, signature)
	if err != nil {
		return err
	}

	if !strings.EqualFold(recovered, claimedAddress) {
		return &types.ServiceError{
			Code:    types.CodeSignatureMismatch,
			Message: "signature does not recover to the claimed wallet address",
			Details: map[string]interface{}{
				"claimedAddress":   claimedAddress,
				"recoveredAddress": recovered,
			},
		}
	}

	return nil
}
