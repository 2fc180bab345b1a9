package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"smashroom/infras/otel"
	"smashroom/infras/postgres"
	"smashroom/internal/domains/booking/model"
	roomModel "smashroom/internal/domains/room/model"
	"smashroom/shared/constant"
	gDto "smashroom/shared/dto"
	"smashroom/shared/failure"
	"smashroom/shared/logger"
	gRepo "smashroom/shared/repository"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type Booking interface {
	WithTransaction(ctx context.Context, fn postgres.TxFunc) error
	NextIDTx(ctx context.Context, sqltx *sqlx.Tx) (int64, error)
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	LockRoom(ctx context.Context, sqltx *sqlx.Tx, roomID int64) error
	ListForRoomsOnDate(ctx context.Context, date string, roomIDs ...int64) ([]model.Booking, error)
	ListForRoomsOnDateTx(ctx context.Context, sqltx *sqlx.Tx, date string, roomIDs ...int64) ([]model.Booking, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// LockRoom takes the room row lock that serializes booking writes per room until sqltx ends.
func (r *repositoryImpl) LockRoom(ctx context.Context, sqltx *sqlx.Tx, roomID int64) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.LockRoom")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	query, args, err := sq.Select(roomModel.FieldID).
		From(roomModel.TableName).
		Where(sq.Eq{roomModel.FieldID: roomID}).
		Suffix("FOR UPDATE").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build room lock: %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var locked []int64
	if err = sqltx.SelectContext(ctx, &locked, query, args...); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to lock room: %w", err)
	}

	if len(locked) == 0 {
		return failure.NotFound("room not found") //nolint:wrapcheck
	}

	return nil
}

func (r *repositoryImpl) ListForRoomsOnDate(ctx context.Context, date string, roomIDs ...int64) ([]model.Booking, error) {
	return r.listForRoomsOnDate(ctx, r.db.Read, date, roomIDs)
}

func (r *repositoryImpl) ListForRoomsOnDateTx(ctx context.Context, sqltx *sqlx.Tx, date string, roomIDs ...int64) ([]model.Booking, error) {
	return r.listForRoomsOnDate(ctx, sqltx, date, roomIDs)
}

// listForRoomsOnDate loads the occupying bookings of a day. No room ids means every room.
func (r *repositoryImpl) listForRoomsOnDate(ctx context.Context, db sqlx.QueryerContext, date string, roomIDs []int64) (bookings []model.Booking, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ListForRoomsOnDate")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	builder := sq.Select(
		model.FieldID,
		model.FieldRoomID,
		model.FieldBookingDate,
		model.FieldStartTime,
		model.FieldEndTime,
		model.FieldStatus,
	).
		From(model.TableName).
		Where(sq.Eq{model.FieldBookingDate: date}).
		Where(sq.NotEq{model.FieldStatus: model.StatusCancelled}).
		OrderBy(model.FieldRoomID, model.FieldStartTime).
		PlaceholderFormat(sq.Dollar)

	if len(roomIDs) > 0 {
		builder = builder.Where(sq.Eq{model.FieldRoomID: roomIDs})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build booking query: %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = sqlx.SelectContext(ctx, db, &bookings, query, args...); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return bookings, nil
}
