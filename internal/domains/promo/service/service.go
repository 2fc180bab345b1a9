package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"smashroom/infras/otel"
	"smashroom/internal/domains/promo/model"
	"smashroom/internal/domains/promo/model/dto"
	"smashroom/internal/domains/promo/repository"
	"smashroom/shared/constant"
	gDto "smashroom/shared/dto"
	"smashroom/shared/timezone"

	"github.com/rs/zerolog/log"
)

type PromoCode interface {
	Create(ctx context.Context, req dto.CreatePromoCodeRequest) (dto.PromoCodeResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetPromoCodesResponse, error)
	Apply(ctx context.Context, code string, price float64) (float64, bool, error)
}

type serviceImpl struct {
	repo repository.PromoCode
	otel otel.Otel
}

func New(repo repository.PromoCode, otel otel.Otel) PromoCode {
	return &serviceImpl{
		repo: repo,
		otel: otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreatePromoCodeRequest) (res dto.PromoCodeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreatePromoCode")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	id, err := s.repo.NextID(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to allocate promo code id: %w", err)
	}

	promo := req.ToModel(id, user)

	if err = s.repo.Insert(ctx, promo); err != nil {
		log.Error().Err(err).Str("code", promo.Code).Msg("failed to create promo code")

		return res, fmt.Errorf("failed to create promo code: %w", err)
	}

	res.FromModel(promo)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetPromoCodesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAllPromoCodes")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return res, fmt.Errorf("failed to count promo codes: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		return res, fmt.Errorf("failed to get promo codes: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

// Apply returns the discounted price and whether a code took effect.
// Unknown, inactive and expired codes leave the price untouched and are not an error.
func (s *serviceImpl) Apply(ctx context.Context, code string, price float64) (discounted float64, applied bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ApplyPromoCode")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	code = dto.NormalizeCode(code)
	if code == constant.Empty {
		return price, false, nil
	}

	promo, err := s.repo.Get(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldCode, Operator: gDto.FilterOperatorEq, Value: code, Table: model.TableName},
		},
	})
	if err != nil {
		return price, false, fmt.Errorf("failed to look up promo code: %w", err)
	}

	if promo.ID == 0 || !promo.Usable(timezone.Now()) {
		log.Info().Str("code", code).Msg("promo code ignored")

		return price, false, nil
	}

	return promo.Apply(price), true, nil
}
