package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"strings"

	"smashroom/infras/otel"
	"smashroom/infras/postgres"
	"smashroom/internal/domains/customer/model"
	"smashroom/shared/constant"
	gDto "smashroom/shared/dto"
	"smashroom/shared/logger"
	gRepo "smashroom/shared/repository"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type Customer interface {
	UpsertByEmailTx(ctx context.Context, sqltx *sqlx.Tx, customer model.Customer) (int64, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Customer, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Customer, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Customer]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Customer {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Customer](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

// UpsertByEmailTx matches customers on a case-insensitive e-mail and refreshes their contact details.
func (r *repositoryImpl) UpsertByEmailTx(ctx context.Context, sqltx *sqlx.Tx, customer model.Customer) (id int64, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".customer.UpsertByEmailTx")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	query, args, err := sq.Insert(model.TableName).
		Columns(model.FieldName, model.FieldEmail, model.FieldPhone,
			constant.FieldCreatedAt, constant.FieldModifiedAt, constant.FieldCreatedBy, constant.FieldModifiedBy).
		Values(customer.Name, strings.ToLower(customer.Email), customer.Phone,
			customer.CreatedAt, customer.ModifiedAt, customer.CreatedBy, customer.ModifiedBy).
		Suffix("ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, phone = EXCLUDED.phone, " +
			"modified_at = EXCLUDED.modified_at, modified_by = EXCLUDED.modified_by RETURNING id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build customer upsert: %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = sqltx.GetContext(ctx, &id, query, args...); err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to upsert customer: %w", err)
	}

	return id, nil
}
