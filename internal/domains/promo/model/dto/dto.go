package dto

import (
	"strings"
	"time"

	"smashroom/internal/domains/promo/model"
	"smashroom/shared"
	"smashroom/shared/constant"
	gDto "smashroom/shared/dto"
	"smashroom/shared/failure"
	gModel "smashroom/shared/model"
	"smashroom/shared/timezone"
)

type CreatePromoCodeRequest struct {
	Code         string     `json:"code"         validate:"required,alphanum,max=32"`
	DiscountType string     `json:"discountType" validate:"required,oneof=percentage fixed"`
	Value        float64    `json:"value"        validate:"gt=0"`
	IsActive     *bool      `json:"isActive"`
	ValidFrom    *time.Time `json:"validFrom"`
	ValidUntil   *time.Time `json:"validUntil"`
}

func (c *CreatePromoCodeRequest) Validate() error {
	if c.DiscountType == model.DiscountPercentage && c.Value > 100 {
		return failure.Validation("value", "must not exceed 100 for percentage codes") //nolint:wrapcheck
	}

	if c.ValidFrom != nil && c.ValidUntil != nil && c.ValidUntil.Before(*c.ValidFrom) {
		return failure.Validation("validUntil", "must not be before validFrom") //nolint:wrapcheck
	}

	return nil
}

func (c *CreatePromoCodeRequest) ToModel(id int64, user string) model.PromoCode {
	active := true
	if c.IsActive != nil {
		active = *c.IsActive
	}

	return model.PromoCode{
		ID:           id,
		Code:         NormalizeCode(c.Code),
		DiscountType: c.DiscountType,
		Value:        c.Value,
		IsActive:     active,
		ValidFrom:    c.ValidFrom,
		ValidUntil:   c.ValidUntil,
		Metadata:     gModel.NewMetadata(timezone.Now(), user),
	}
}

// NormalizeCode makes codes case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type PromoCodeResponse struct {
	ID           int64   `json:"id"`
	Code         string  `json:"code"`
	DiscountType string  `json:"discountType"`
	Value        float64 `json:"value"`
	IsActive     bool    `json:"isActive"`
	ValidFrom    string  `json:"validFrom,omitempty"`
	ValidUntil   string  `json:"validUntil,omitempty"`
	gDto.Metadata
}

func (r *PromoCodeResponse) FromModel(model model.PromoCode) {
	r.ID = model.ID
	r.Code = model.Code
	r.DiscountType = model.DiscountType
	r.Value = model.Value
	r.IsActive = model.IsActive

	if model.ValidFrom != nil {
		r.ValidFrom = timezone.Format(*model.ValidFrom, constant.DateFormat)
	}

	if model.ValidUntil != nil {
		r.ValidUntil = timezone.Format(*model.ValidUntil, constant.DateFormat)
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetPromoCodesResponse struct {
	PromoCodes []PromoCodeResponse `json:"promoCodes"`
	TotalPage  int                 `json:"totalPage"`
	TotalData  int                 `json:"totalData"`
}

func (r *GetPromoCodesResponse) FromModels(models []model.PromoCode, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.PromoCodes = make([]PromoCodeResponse, len(models))
	for i, mod := range models {
		r.PromoCodes[i].FromModel(mod)
	}
}
