package pool

import (
	"errors"
	"math/big"
	"testing"

	"github.com/veilpool/VeilPool-sdk/keys"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
)

func validRequest() *WithdrawalRequest {
	account := crypto.GenerateAccount()
	return &WithdrawalRequest{
		Note: &Note{
			Commitment: big.NewInt(123456),
			Amount:     "1.0",
			Label:      big.NewInt(42),
			NoteIndex:  0,
		},
		WithdrawAmount:   "0.5",
		RecipientAddress: account.Address.String(),
		Credential:       keys.Credential{PrivateKey: account.PrivateKey},
	}
}

func TestValidateAcceptsGoodRequest(t *testing.T) {
	if err := Validate(validRequest()); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
}

func TestValidateRejectsEmptyCommitment(t *testing.T) {
	request := validRequest()
	request.Note.Commitment = nil
	if err := Validate(request); !errors.Is(err, ErrInvalidNote) {
		t.Fatalf("got %v, want ErrInvalidNote", err)
	}

	request = validRequest()
	request.Note.Commitment = big.NewInt(0)
	if err := Validate(request); !errors.Is(err, ErrInvalidNote) {
		t.Fatalf("got %v, want ErrInvalidNote", err)
	}
}

func TestValidateRejectsBadAmounts(t *testing.T) {
	request := validRequest()
	request.WithdrawAmount = "0"
	if err := Validate(request); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("got %v, want ErrInvalidAmount for zero amount", err)
	}

	request = validRequest()
	request.WithdrawAmount = "2.0" // note holds 1.0
	if err := Validate(request); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("got %v, want ErrInvalidAmount for overdraw", err)
	}

	request = validRequest()
	request.WithdrawAmount = "abc"
	if err := Validate(request); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("got %v, want ErrInvalidAmount for non-numeric amount", err)
	}
}

func TestValidateRejectsBadRecipient(t *testing.T) {
	request := validRequest()
	request.RecipientAddress = "not-an-address"
	if err := Validate(request); !errors.Is(err, ErrInvalidRecipient) {
		t.Fatalf("got %v, want ErrInvalidRecipient", err)
	}
}

func TestValidateRejectsMissingCredential(t *testing.T) {
	request := validRequest()
	request.Credential = keys.Credential{}
	if err := Validate(request); !errors.Is(err, keys.ErrMissingCredential) {
		t.Fatalf("got %v, want ErrMissingCredential", err)
	}
}
