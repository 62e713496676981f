package pool

import (
	"fmt"

	"github.com/veilpool/VeilPool-sdk/keys"

	"github.com/algorand/go-algorand-sdk/v2/types"
)

// Validate checks the request shape before any network or derivation
// call. It is local and side-effect free.
func Validate(request *WithdrawalRequest) error {
	if request.Note == nil || request.Note.Commitment == nil ||
		request.Note.Commitment.Sign() == 0 {
		return ErrInvalidNote
	}

	withdraw, err := ParseAmount(request.WithdrawAmount)
	if err != nil {
		return err
	}
	if withdraw == 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}
	balance, err := ParseAmount(request.Note.Amount)
	if err != nil {
		return fmt.Errorf("%w: bad note balance: %v", ErrInvalidNote, err)
	}
	if withdraw > balance {
		return fmt.Errorf("%w: %s exceeds note balance %s",
			ErrInvalidAmount, request.WithdrawAmount, request.Note.Amount)
	}

	if _, err := types.DecodeAddress(request.RecipientAddress); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidRecipient, request.RecipientAddress)
	}

	if len(request.Credential.PrivateKey) == 0 &&
		request.Credential.Mnemonic == "" && len(request.Credential.Words) == 0 {
		return keys.ErrMissingCredential
	}
	return nil
}
