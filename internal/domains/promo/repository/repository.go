package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"smashroom/infras/otel"
	"smashroom/infras/postgres"
	"smashroom/internal/domains/promo/model"
	gDto "smashroom/shared/dto"
	gRepo "smashroom/shared/repository"
)

type PromoCode interface {
	NextID(ctx context.Context) (int64, error)
	Insert(ctx context.Context, model model.PromoCode) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.PromoCode, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.PromoCode, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.PromoCode]
}

func New(db *postgres.Connection, otel otel.Otel) PromoCode {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.PromoCode](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
