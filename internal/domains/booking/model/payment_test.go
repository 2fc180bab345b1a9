package model_test

import (
	"testing"

	"smashroom/internal/domains/booking/model"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{from: model.PaymentUnpaid, to: model.PaymentDepositPaid, want: true},
		{from: model.PaymentUnpaid, to: model.PaymentFullyPaid, want: true},
		{from: model.PaymentUnpaid, to: model.PaymentRefunded, want: false},
		{from: model.PaymentDepositPaid, to: model.PaymentFullyPaid, want: true},
		{from: model.PaymentDepositPaid, to: model.PaymentUnpaid, want: false},
		{from: model.PaymentPartiallyPaid, to: model.PaymentPartiallyPaid, want: true},
		{from: model.PaymentFullyPaid, to: model.PaymentRefunded, want: true},
		{from: model.PaymentFullyPaid, to: model.PaymentDepositPaid, want: false},
		{from: model.PaymentFailed, to: model.PaymentUnpaid, want: true},
		{from: model.PaymentRefunded, to: model.PaymentFullyPaid, want: false},
		{from: model.PaymentRefunded, to: model.PaymentRefunded, want: true},
		{from: model.PaymentUnpaid, to: "PAID", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, model.CanTransition(tt.from, tt.to))
		})
	}
}
