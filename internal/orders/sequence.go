package orders

import (
	"fmt"
	"time"
)

// Order id prefixes. The choice is an explicit caller decision carried on the
// request (isTestMode), never inferred from anything else.
const (
	PrefixReal = "ORD"
	PrefixTest = "SAM"
)

func OrderPrefix(testMode bool) string {
	if testMode {
		return PrefixTest
	}
	return PrefixReal
}

func PaymentMode(testMode bool) string {
	if testMode {
		return "Test Mode"
	}
	return "Razorpay"
}

// FormatOrderID builds the human-legible, day-scoped order identifier, e.g.
// ORD-20250107-03. seq is the per-day per-prefix ordinal, zero-padded to at
// least two digits; the 100th order of a day becomes ORD-20250107-100.
func FormatOrderID(prefix string, day time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%02d", prefix, day.Format("20060102"), seq)
}
