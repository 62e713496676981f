package pool

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/veilpool/VeilPool-sdk/config"
)

// ParseAmount converts a decimal Algo string to microalgos. The
// conversion is exact: more than six fractional digits, a negative
// sign, or anything non-numeric is rejected.
func ParseAmount(amount string) (uint64, error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return 0, fmt.Errorf("%w: empty amount", ErrInvalidAmount)
	}
	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) > 6 {
		return 0, fmt.Errorf("%w: %q has more than 6 decimal places",
			ErrInvalidAmount, amount)
	}
	// pad the fraction to microalgo precision
	fracPart += strings.Repeat("0", 6-len(fracPart))

	whole, err := strconv.ParseUint(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a positive decimal number",
			ErrInvalidAmount, amount)
	}
	frac, err := strconv.ParseUint(fracPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a positive decimal number",
			ErrInvalidAmount, amount)
	}
	if whole > (1<<64-1-frac)/config.MicroUnit {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalidAmount, amount)
	}
	return whole*config.MicroUnit + frac, nil
}

// FormatAmount converts microalgos back to a decimal Algo string,
// trimming trailing zeros from the fraction.
func FormatAmount(micro uint64) string {
	whole := micro / config.MicroUnit
	frac := micro % config.MicroUnit
	if frac == 0 {
		return strconv.FormatUint(whole, 10)
	}
	fracStr := strings.TrimRight(fmt.Sprintf("%06d", frac), "0")
	return fmt.Sprintf("%d.%s", whole, fracStr)
}
