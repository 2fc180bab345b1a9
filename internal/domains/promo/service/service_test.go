package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"smashroom/infras/otel/mocks"
	promoMocks "smashroom/internal/domains/promo/mocks"
	"smashroom/internal/domains/promo/model"
	"smashroom/internal/domains/promo/model/dto"
	"smashroom/internal/domains/promo/service"
)

func TestPromoService_Apply(t *testing.T) {
	tests := []struct {
		name        string
		code        string
		setupMock   func(repo *promoMocks.MockPromoCode)
		wantPrice   float64
		wantApplied bool
		wantErr     bool
	}{
		{
			name: "RABAT10 takes 10 percent off",
			code: "rabat10",
			setupMock: func(repo *promoMocks.MockPromoCode) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).
					Return(model.PromoCode{ID: 1, Code: "RABAT10", DiscountType: model.DiscountPercentage, Value: 10, IsActive: true}, nil)
			},
			wantPrice:   450,
			wantApplied: true,
		},
		{
			name: "unknown code leaves price",
			code: "NOPE",
			setupMock: func(repo *promoMocks.MockPromoCode) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.PromoCode{}, nil)
			},
			wantPrice: 500,
		},
		{
			name: "inactive code leaves price",
			code: "OLD",
			setupMock: func(repo *promoMocks.MockPromoCode) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).
					Return(model.PromoCode{ID: 2, Code: "OLD", DiscountType: model.DiscountFixed, Value: 100}, nil)
			},
			wantPrice: 500,
		},
		{
			name:      "empty code skips lookup",
			code:      "  ",
			setupMock: func(*promoMocks.MockPromoCode) {},
			wantPrice: 500,
		},
		{
			name: "lookup failure",
			code: "RABAT10",
			setupMock: func(repo *promoMocks.MockPromoCode) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.PromoCode{}, errors.New("database error"))
			},
			wantPrice: 500,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := promoMocks.NewMockPromoCode(ctrl)
			tt.setupMock(repo)

			price, applied, err := service.New(repo, mocks.NewOtel()).Apply(context.Background(), tt.code, 500)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			assert.InDelta(t, tt.wantPrice, price, 0.001)
			assert.Equal(t, tt.wantApplied, applied)
		})
	}
}

func TestPromoService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := promoMocks.NewMockPromoCode(ctrl)

	repo.EXPECT().NextID(gomock.Any()).Return(int64(3), nil)
	repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, promo model.PromoCode) error {
		assert.Equal(t, "SUMMER", promo.Code)
		assert.True(t, promo.IsActive)

		return nil
	})

	res, err := service.New(repo, mocks.NewOtel()).Create(context.Background(), dto.CreatePromoCodeRequest{
		Code:         "summer",
		DiscountType: model.DiscountFixed,
		Value:        50,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), res.ID)
}
