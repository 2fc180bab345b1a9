package model

const (
	PaymentUnpaid        = "UNPAID"
	PaymentDepositPaid   = "DEPOSIT_PAID"
	PaymentPartiallyPaid = "PARTIALLY_PAID"
	PaymentFullyPaid     = "FULLY_PAID"
	PaymentFailed        = "FAILED"
	PaymentRefunded      = "REFUNDED"
)

var paymentTransitions = map[string][]string{
	PaymentUnpaid:        {PaymentDepositPaid, PaymentPartiallyPaid, PaymentFullyPaid, PaymentFailed},
	PaymentDepositPaid:   {PaymentPartiallyPaid, PaymentFullyPaid, PaymentRefunded, PaymentFailed},
	PaymentPartiallyPaid: {PaymentFullyPaid, PaymentRefunded, PaymentFailed},
	PaymentFullyPaid:     {PaymentRefunded},
	PaymentFailed:        {PaymentUnpaid, PaymentDepositPaid, PaymentPartiallyPaid, PaymentFullyPaid},
	PaymentRefunded:      {},
}

// CanTransition reports whether a payment may move from one status to another.
// Re-recording the current status is always allowed.
func CanTransition(from, to string) bool {
	if _, ok := paymentTransitions[to]; !ok {
		return false
	}

	if from == to {
		return true
	}

	for _, next := range paymentTransitions[from] {
		if next == to {
			return true
		}
	}

	return false
}
