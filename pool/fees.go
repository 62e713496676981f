package pool

import "github.com/veilpool/VeilPool-sdk/config"

// Amounts is the fee breakdown shown to the caller before committing a
// withdrawal on-chain.
type Amounts struct {
	WithdrawAmount      string
	ExecutionFee        string
	YouReceive          string
	RelayFeeBasisPoints uint64
}

// CalculateAmounts computes the relay fee and the net amount for a
// withdrawal. The arithmetic runs on microalgos with truncating integer
// division, matching the contract's basis-point arithmetic bit-for-bit,
// so the preview never disagrees with the chain.
func CalculateAmounts(withdrawAmount string) (*Amounts, error) {
	micro, err := ParseAmount(withdrawAmount)
	if err != nil {
		return nil, err
	}
	fee := micro * config.RelayFeeBasisPoints / 10_000
	return &Amounts{
		WithdrawAmount:      FormatAmount(micro),
		ExecutionFee:        FormatAmount(fee),
		YouReceive:          FormatAmount(micro - fee),
		RelayFeeBasisPoints: config.RelayFeeBasisPoints,
	}, nil
}
