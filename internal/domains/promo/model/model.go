package model

import (
	"math"
	"time"

	"smashroom/shared/model"
)

const (
	TableName  = "promo_codes"
	EntityName = "promo code"

	FieldID       = "id"
	FieldCode     = "code"
	FieldIsActive = "is_active"
)

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

type PromoCode struct {
	ID           int64      `db:"id"`
	Code         string     `db:"code"`
	DiscountType string     `db:"discount_type"`
	Value        float64    `db:"value"`
	IsActive     bool       `db:"is_active"`
	ValidFrom    *time.Time `db:"valid_from"`
	ValidUntil   *time.Time `db:"valid_until"`
	model.Metadata
}

// Usable reports whether the code is active and inside its validity window at now.
func (p PromoCode) Usable(now time.Time) bool {
	if !p.IsActive {
		return false
	}

	if p.ValidFrom != nil && now.Before(*p.ValidFrom) {
		return false
	}

	if p.ValidUntil != nil && now.After(*p.ValidUntil) {
		return false
	}

	return true
}

// Apply discounts price. The result never drops below zero and is rounded to cents.
func (p PromoCode) Apply(price float64) float64 {
	discounted := price

	switch p.DiscountType {
	case DiscountPercentage:
		discounted = price * (1 - p.Value/100)
	case DiscountFixed:
		discounted = price - p.Value
	}

	if discounted < 0 {
		discounted = 0
	}

	return math.Round(discounted*100) / 100
}
