package service_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"smashroom/config"
	"smashroom/infras/otel/mocks"
	"smashroom/infras/postgres"
	"smashroom/internal/domains/availability/engine"
	"smashroom/internal/domains/booking/event"
	bookingMocks "smashroom/internal/domains/booking/mocks"
	"smashroom/internal/domains/booking/model"
	"smashroom/internal/domains/booking/model/dto"
	"smashroom/internal/domains/booking/service"
	catalogMocks "smashroom/internal/domains/catalog/mocks"
	catalogModel "smashroom/internal/domains/catalog/model"
	customerMocks "smashroom/internal/domains/customer/mocks"
	customerModel "smashroom/internal/domains/customer/model"
	promoMocks "smashroom/internal/domains/promo/service/mocks"
	roomMocks "smashroom/internal/domains/room/mocks"
	roomModel "smashroom/internal/domains/room/model"
	cacheMocks "smashroom/shared/cache/mocks"
	"smashroom/shared/clock"
	"smashroom/shared/constant"
	"smashroom/shared/failure"
	"smashroom/shared/timezone"
)

const testDate = "2025-06-10"

type fixture struct {
	repo      *bookingMocks.MockBooking
	rooms     *roomMocks.MockRoom
	packages  *catalogMocks.MockPackage
	customers *customerMocks.MockCustomer
	promo     *promoMocks.MockPromoCode
	publisher *bookingMocks.MockPublisher
	cache     *cacheMocks.MockRedisCache
	svc       service.Booking
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f := fixture{
		repo:      bookingMocks.NewMockBooking(ctrl),
		rooms:     roomMocks.NewMockRoom(ctrl),
		packages:  catalogMocks.NewMockPackage(ctrl),
		customers: customerMocks.NewMockCustomer(ctrl),
		promo:     promoMocks.NewMockPromoCode(ctrl),
		publisher: bookingMocks.NewMockPublisher(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
	}
	f.svc = service.New(f.repo, f.rooms, f.packages, f.customers, f.promo, f.publisher, cfg, f.cache, mocks.NewOtel())

	f.repo.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn postgres.TxFunc) error { return fn(ctx, nil) }).
		AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Incr(gomock.Any(), gomock.Any()).Return(int64(1), nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func userCtx() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "1")
}

func sredni() catalogModel.Package {
	return catalogModel.Package{
		ID:            1,
		Name:          "ŚREDNI",
		Price:         500,
		DepositAmount: 100,
		Duration:      120,
		MaxPeople:     8,
		IsActive:      true,
	}
}

func room(id int64) roomModel.Room {
	return roomModel.Room{
		ID:        id,
		Name:      fmt.Sprintf("Room %d", id),
		MaxPeople: 8,
		Available: true,
		IsActive:  true,
		Schedule:  roomModel.DefaultSchedule("10:00", "22:00"),
	}
}

func stored(t *testing.T, id, roomID int64, start, end string) model.Booking {
	t.Helper()

	day, err := engine.ParseDate(testDate)
	require.NoError(t, err)

	from, err := clock.Parse(start)
	require.NoError(t, err)

	to, err := clock.Parse(end)
	require.NoError(t, err)

	return model.Booking{
		ID:            id,
		RoomID:        roomID,
		RoomName:      room(roomID).Name,
		PackageID:     1,
		PackageName:   "ŚREDNI",
		BookingDate:   day,
		StartTime:     clock.On(day, from),
		EndTime:       clock.On(day, to),
		NumPeople:     4,
		CustomerID:    3,
		Status:        model.StatusPending,
		PaymentStatus: model.PaymentUnpaid,
		TotalAmount:   500,
		DepositAmount: 100,
	}
}

func createRequest() dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		PackageID: 1,
		RoomID:    2,
		Date:      testDate,
		StartTime: "14:00",
		NumPeople: 4,
		Customer: dto.CustomerRequest{
			Name:  "Jan Kowalski",
			Email: "jan@example.com",
			Phone: "+48 600 100 200",
		},
	}
}

func TestBookingService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       func() dto.CreateBookingRequest
		setupMock func(t *testing.T, f fixture)
		wantCode  int
		check     func(t *testing.T, res dto.BookingResponse)
	}{
		{
			name: "books a free slot with promo code",
			req: func() dto.CreateBookingRequest {
				req := createRequest()
				req.PromoCode = "RABAT10"

				return req
			},
			setupMock: func(t *testing.T, f fixture) {
				f.packages.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sredni(), nil)
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room(2), nil)
				f.repo.EXPECT().LockRoom(gomock.Any(), gomock.Any(), int64(2)).Return(nil)
				f.repo.EXPECT().ListForRoomsOnDateTx(gomock.Any(), gomock.Any(), testDate, int64(2)).
					Return([]model.Booking{stored(t, 5, 2, "10:00", "12:00")}, nil)
				f.promo.EXPECT().Apply(gomock.Any(), "RABAT10", float64(500)).Return(float64(450), true, nil)
				f.customers.EXPECT().UpsertByEmailTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, customer customerModel.Customer) (int64, error) {
						assert.Equal(t, "jan@example.com", customer.Email)

						return 3, nil
					})
				f.repo.EXPECT().NextIDTx(gomock.Any(), gomock.Any()).Return(int64(7), nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, booking model.Booking) error {
						assert.Equal(t, int64(7), booking.ID)
						assert.Equal(t, int64(3), booking.CustomerID)
						assert.Equal(t, "Room 2", booking.RoomName)
						assert.Equal(t, "ŚREDNI", booking.PackageName)
						assert.Equal(t, 14*60, clock.FromTime(booking.StartTime))
						assert.Equal(t, 16*60, clock.FromTime(booking.EndTime))
						assert.Equal(t, "1", booking.CreatedBy)

						return nil
					})
				f.publisher.EXPECT().Publish(gomock.Any(), event.TypeCreated, gomock.Any())
			},
			check: func(t *testing.T, res dto.BookingResponse) {
				assert.Equal(t, int64(7), res.ID)
				assert.Equal(t, testDate, res.Date)
				assert.Equal(t, "14:00", res.StartTime)
				assert.Equal(t, "16:00", res.EndTime)
				assert.Equal(t, model.StatusPending, res.Status)
				assert.Equal(t, model.PaymentUnpaid, res.PaymentStatus)
				assert.InDelta(t, 450, res.TotalAmount, 0.001)
				assert.InDelta(t, 100, res.DepositAmount, 0.001)
				assert.Zero(t, res.PaidAmount)
				assert.Equal(t, "RABAT10", res.PromoCode)
			},
		},
		{
			name: "unknown promo code keeps price and is not stored",
			req: func() dto.CreateBookingRequest {
				req := createRequest()
				req.PromoCode = "NOPE"

				return req
			},
			setupMock: func(_ *testing.T, f fixture) {
				f.packages.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sredni(), nil)
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room(2), nil)
				f.repo.EXPECT().LockRoom(gomock.Any(), gomock.Any(), int64(2)).Return(nil)
				f.repo.EXPECT().ListForRoomsOnDateTx(gomock.Any(), gomock.Any(), testDate, int64(2)).Return(nil, nil)
				f.promo.EXPECT().Apply(gomock.Any(), "NOPE", float64(500)).Return(float64(500), false, nil)
				f.customers.EXPECT().UpsertByEmailTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(3), nil)
				f.repo.EXPECT().NextIDTx(gomock.Any(), gomock.Any()).Return(int64(8), nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.publisher.EXPECT().Publish(gomock.Any(), event.TypeCreated, gomock.Any())
			},
			check: func(t *testing.T, res dto.BookingResponse) {
				assert.InDelta(t, 500, res.TotalAmount, 0.001)
				assert.Empty(t, res.PromoCode)
			},
		},
		{
			name: "room 2 already taken",
			req: func() dto.CreateBookingRequest {
				req := createRequest()
				req.StartTime = "15:00"

				return req
			},
			setupMock: func(t *testing.T, f fixture) {
				f.packages.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sredni(), nil)
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room(2), nil)
				f.repo.EXPECT().LockRoom(gomock.Any(), gomock.Any(), int64(2)).Return(nil)
				f.repo.EXPECT().ListForRoomsOnDateTx(gomock.Any(), gomock.Any(), testDate, int64(2)).
					Return([]model.Booking{stored(t, 5, 2, "14:00", "16:00")}, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "cancelled booking does not block",
			req:  createRequest,
			setupMock: func(t *testing.T, f fixture) {
				cancelled := stored(t, 5, 2, "14:00", "16:00")
				cancelled.Status = model.StatusCancelled

				f.packages.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sredni(), nil)
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room(2), nil)
				f.repo.EXPECT().LockRoom(gomock.Any(), gomock.Any(), int64(2)).Return(nil)
				f.repo.EXPECT().ListForRoomsOnDateTx(gomock.Any(), gomock.Any(), testDate, int64(2)).
					Return([]model.Booking{cancelled}, nil)
				f.promo.EXPECT().Apply(gomock.Any(), "", float64(500)).Return(float64(500), false, nil)
				f.customers.EXPECT().UpsertByEmailTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(3), nil)
				f.repo.EXPECT().NextIDTx(gomock.Any(), gomock.Any()).Return(int64(9), nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.publisher.EXPECT().Publish(gomock.Any(), event.TypeCreated, gomock.Any())
			},
		},
		{
			name: "outside room hours",
			req: func() dto.CreateBookingRequest {
				req := createRequest()
				req.StartTime = "21:00"

				return req
			},
			setupMock: func(_ *testing.T, f fixture) {
				f.packages.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sredni(), nil)
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room(2), nil)
				f.repo.EXPECT().LockRoom(gomock.Any(), gomock.Any(), int64(2)).Return(nil)
				f.repo.EXPECT().ListForRoomsOnDateTx(gomock.Any(), gomock.Any(), testDate, int64(2)).Return(nil, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "past midnight",
			req: func() dto.CreateBookingRequest {
				req := createRequest()
				req.StartTime = "23:00"

				return req
			},
			setupMock: func(_ *testing.T, f fixture) {
				f.packages.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sredni(), nil)
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room(2), nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "too many people for package",
			req: func() dto.CreateBookingRequest {
				req := createRequest()
				req.NumPeople = 9

				return req
			},
			setupMock: func(_ *testing.T, f fixture) {
				f.packages.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sredni(), nil)
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room(2), nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "room too small for the package",
			req:  createRequest,
			setupMock: func(_ *testing.T, f fixture) {
				small := room(2)
				small.MaxPeople = 2

				f.packages.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sredni(), nil)
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(small, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "room closed for bookings",
			req:  createRequest,
			setupMock: func(_ *testing.T, f fixture) {
				closed := room(2)
				closed.Available = false

				f.packages.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sredni(), nil)
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(closed, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "invalid date",
			req: func() dto.CreateBookingRequest {
				req := createRequest()
				req.Date = "2025-02-30"

				return req
			},
			setupMock: func(*testing.T, fixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "unknown package",
			req:  createRequest,
			setupMock: func(_ *testing.T, f fixture) {
				f.packages.EXPECT().Get(gomock.Any(), gomock.Any()).Return(catalogModel.Package{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "inactive package",
			req:  createRequest,
			setupMock: func(_ *testing.T, f fixture) {
				pkg := sredni()
				pkg.IsActive = false

				f.packages.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pkg, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "unknown room",
			req:  createRequest,
			setupMock: func(_ *testing.T, f fixture) {
				f.packages.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sredni(), nil)
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "insert failure",
			req:  createRequest,
			setupMock: func(_ *testing.T, f fixture) {
				f.packages.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sredni(), nil)
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room(2), nil)
				f.repo.EXPECT().LockRoom(gomock.Any(), gomock.Any(), int64(2)).Return(nil)
				f.repo.EXPECT().ListForRoomsOnDateTx(gomock.Any(), gomock.Any(), testDate, int64(2)).Return(nil, nil)
				f.promo.EXPECT().Apply(gomock.Any(), "", float64(500)).Return(float64(500), false, nil)
				f.customers.EXPECT().UpsertByEmailTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(3), nil)
				f.repo.EXPECT().NextIDTx(gomock.Any(), gomock.Any()).Return(int64(10), nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(failure.Conflict("booking already exists"))
			},
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(t, f)

			res, err := f.svc.Create(userCtx(), tt.req())

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)

			if tt.check != nil {
				tt.check(t, res)
			}

			time.Sleep(10 * time.Millisecond)
		})
	}
}

func TestBookingService_CreateOnDaylightSavingDay(t *testing.T) {
	previous := timezone.GetLocation().String()
	require.NoError(t, timezone.SetLocation("Europe/Warsaw"))
	t.Cleanup(func() { _ = timezone.SetLocation(previous) })

	const springForward = "2025-03-30"

	f := newFixture(t)
	f.packages.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sredni(), nil)
	f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room(1), nil)
	f.repo.EXPECT().LockRoom(gomock.Any(), gomock.Any(), int64(1)).Return(nil)
	f.repo.EXPECT().ListForRoomsOnDateTx(gomock.Any(), gomock.Any(), springForward, int64(1)).Return(nil, nil)
	f.promo.EXPECT().Apply(gomock.Any(), "", float64(500)).Return(float64(500), false, nil)
	f.customers.EXPECT().UpsertByEmailTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(3), nil)
	f.repo.EXPECT().NextIDTx(gomock.Any(), gomock.Any()).Return(int64(11), nil)
	f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, booking model.Booking) error {
			assert.Equal(t, 10, booking.StartTime.Hour())
			assert.Equal(t, 12, booking.EndTime.Hour())

			return nil
		})
	f.publisher.EXPECT().Publish(gomock.Any(), event.TypeCreated, gomock.Any())

	req := createRequest()
	req.RoomID = 1
	req.Date = springForward
	req.StartTime = "10:00"

	res, err := f.svc.Create(userCtx(), req)
	require.NoError(t, err)

	assert.Equal(t, "10:00", res.StartTime)
	assert.Equal(t, "12:00", res.EndTime)

	time.Sleep(10 * time.Millisecond)
}

func TestBookingService_TracesReturnedErrors(t *testing.T) {
	f := newFixture(t)
	recorder := mocks.NewRecorder()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	svc := service.New(f.repo, f.rooms, f.packages, f.customers, f.promo, f.publisher, cfg, f.cache, recorder)

	f.packages.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sredni(), nil)
	f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room(2), nil)
	f.repo.EXPECT().LockRoom(gomock.Any(), gomock.Any(), int64(2)).Return(nil)
	f.repo.EXPECT().ListForRoomsOnDateTx(gomock.Any(), gomock.Any(), testDate, int64(2)).
		Return([]model.Booking{stored(t, 5, 2, "14:00", "16:00")}, nil)

	_, err := svc.Create(userCtx(), createRequest())
	require.Error(t, err)

	traced := recorder.Errors()
	require.NotEmpty(t, traced)
	assert.Equal(t, http.StatusConflict, failure.GetCode(traced[len(traced)-1]))
	assert.Contains(t, recorder.Scopes(), constant.OtelServiceScopeName+".CreateBooking")
}

func TestBookingService_Update(t *testing.T) {
	str := func(s string) *string { return &s }

	tests := []struct {
		name      string
		req       dto.UpdateBookingRequest
		setupMock func(t *testing.T, f fixture)
		wantCode  int
		check     func(t *testing.T, res dto.BookingResponse)
	}{
		{
			name: "moving within its own slot excludes itself",
			req:  dto.UpdateBookingRequest{ID: 5, StartTime: str("15:00")},
			setupMock: func(t *testing.T, f fixture) {
				current := stored(t, 5, 2, "14:00", "16:00")
				moved := stored(t, 5, 2, "15:00", "17:00")

				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil)
				f.packages.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sredni(), nil)
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room(2), nil)
				f.repo.EXPECT().LockRoom(gomock.Any(), gomock.Any(), int64(2)).Return(nil)
				f.repo.EXPECT().ListForRoomsOnDateTx(gomock.Any(), gomock.Any(), testDate, int64(2)).
					Return([]model.Booking{current}, nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
						assert.Equal(t, 15*60, clock.FromTime(fields[model.FieldStartTime].(time.Time)))
						assert.Equal(t, 17*60, clock.FromTime(fields[model.FieldEndTime].(time.Time)))
						assert.Equal(t, "Room 2", fields[model.FieldRoomName])
						assert.Equal(t, "1", fields[constant.FieldModifiedBy])

						return nil
					})
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(moved, nil)
				f.publisher.EXPECT().Publish(gomock.Any(), event.TypeUpdated, gomock.Any())
			},
			check: func(t *testing.T, res dto.BookingResponse) {
				assert.Equal(t, "15:00", res.StartTime)
				assert.Equal(t, "17:00", res.EndTime)
			},
		},
		{
			name: "moving onto another booking",
			req:  dto.UpdateBookingRequest{ID: 5, StartTime: str("17:00")},
			setupMock: func(t *testing.T, f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored(t, 5, 2, "12:00", "14:00"), nil)
				f.packages.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sredni(), nil)
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room(2), nil)
				f.repo.EXPECT().LockRoom(gomock.Any(), gomock.Any(), int64(2)).Return(nil)
				f.repo.EXPECT().ListForRoomsOnDateTx(gomock.Any(), gomock.Any(), testDate, int64(2)).
					Return([]model.Booking{stored(t, 5, 2, "12:00", "14:00"), stored(t, 6, 2, "18:00", "20:00")}, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "reviving a cancelled booking re-checks the room",
			req:  dto.UpdateBookingRequest{ID: 5, Status: str(model.StatusConfirmed)},
			setupMock: func(t *testing.T, f fixture) {
				current := stored(t, 5, 2, "14:00", "16:00")
				current.Status = model.StatusCancelled

				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil)
				f.packages.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sredni(), nil)
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room(2), nil)
				f.repo.EXPECT().LockRoom(gomock.Any(), gomock.Any(), int64(2)).Return(nil)
				f.repo.EXPECT().ListForRoomsOnDateTx(gomock.Any(), gomock.Any(), testDate, int64(2)).
					Return([]model.Booking{stored(t, 6, 2, "15:00", "17:00")}, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "moving to a room too small for the package",
			req:  dto.UpdateBookingRequest{ID: 5, RoomID: func(v int64) *int64 { return &v }(3)},
			setupMock: func(t *testing.T, f fixture) {
				small := room(3)
				small.MaxPeople = 4

				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored(t, 5, 2, "14:00", "16:00"), nil)
				f.packages.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sredni(), nil)
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(small, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "changing group size keeps the slot",
			req:  dto.UpdateBookingRequest{ID: 5, NumPeople: func(v int) *int { return &v }(6)},
			setupMock: func(t *testing.T, f fixture) {
				current := stored(t, 5, 2, "14:00", "16:00")
				updated := current
				updated.NumPeople = 6

				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil)
				f.packages.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sredni(), nil)
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room(2), nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
						assert.Equal(t, 6, fields[model.FieldNumPeople])
						assert.NotContains(t, fields, model.FieldStartTime)

						return nil
					})
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(updated, nil)
				f.publisher.EXPECT().Publish(gomock.Any(), event.TypeUpdated, gomock.Any())
			},
			check: func(t *testing.T, res dto.BookingResponse) {
				assert.Equal(t, 6, res.NumPeople)
				assert.Equal(t, "14:00", res.StartTime)
			},
		},
		{
			name: "comment only skips the guard",
			req:  dto.UpdateBookingRequest{ID: 5, AdminComment: str("called back")},
			setupMock: func(t *testing.T, f fixture) {
				current := stored(t, 5, 2, "14:00", "16:00")
				updated := current
				updated.AdminComment = "called back"

				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
						assert.Equal(t, "called back", fields[model.FieldAdminComment])
						assert.NotContains(t, fields, model.FieldStartTime)

						return nil
					})
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(updated, nil)
				f.publisher.EXPECT().Publish(gomock.Any(), event.TypeUpdated, gomock.Any())
			},
			check: func(t *testing.T, res dto.BookingResponse) {
				assert.Equal(t, "called back", res.AdminComment)
			},
		},
		{
			name: "cancelling skips the guard",
			req:  dto.UpdateBookingRequest{ID: 5, Status: str(model.StatusCancelled)},
			setupMock: func(t *testing.T, f fixture) {
				current := stored(t, 5, 2, "14:00", "16:00")
				cancelled := current
				cancelled.Status = model.StatusCancelled

				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cancelled, nil)
				f.publisher.EXPECT().Publish(gomock.Any(), event.TypeUpdated, gomock.Any())
			},
			check: func(t *testing.T, res dto.BookingResponse) {
				assert.Equal(t, model.StatusCancelled, res.Status)
			},
		},
		{
			name: "missing booking",
			req:  dto.UpdateBookingRequest{ID: 99, Comment: str("x")},
			setupMock: func(_ *testing.T, f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(t, f)

			res, err := f.svc.Update(userCtx(), tt.req)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			tt.check(t, res)

			time.Sleep(10 * time.Millisecond)
		})
	}
}

func TestBookingService_UpdatePaymentStatus(t *testing.T) {
	amount := func(v float64) *float64 { return &v }

	tests := []struct {
		name     string
		from     string
		paid     float64
		req      dto.UpdatePaymentStatusRequest
		wantCode int
		wantPaid float64
	}{
		{
			name:     "deposit defaults to deposit amount",
			from:     model.PaymentUnpaid,
			req:      dto.UpdatePaymentStatusRequest{PaymentStatus: model.PaymentDepositPaid},
			wantPaid: 100,
		},
		{
			name:     "fully paid defaults to total",
			from:     model.PaymentDepositPaid,
			paid:     100,
			req:      dto.UpdatePaymentStatusRequest{PaymentStatus: model.PaymentFullyPaid},
			wantPaid: 500,
		},
		{
			name:     "partial payment keeps amount",
			from:     model.PaymentUnpaid,
			req:      dto.UpdatePaymentStatusRequest{PaymentStatus: model.PaymentPartiallyPaid, PaidAmount: amount(250)},
			wantPaid: 250,
		},
		{
			name:     "same status updates amount",
			from:     model.PaymentPartiallyPaid,
			paid:     250,
			req:      dto.UpdatePaymentStatusRequest{PaymentStatus: model.PaymentPartiallyPaid, PaidAmount: amount(300)},
			wantPaid: 300,
		},
		{
			name:     "refund records zero",
			from:     model.PaymentFullyPaid,
			paid:     500,
			req:      dto.UpdatePaymentStatusRequest{PaymentStatus: model.PaymentRefunded},
			wantPaid: 0,
		},
		{
			name:     "refunded is terminal",
			from:     model.PaymentRefunded,
			req:      dto.UpdatePaymentStatusRequest{PaymentStatus: model.PaymentUnpaid},
			wantCode: http.StatusConflict,
		},
		{
			name:     "fully paid cannot go back to deposit",
			from:     model.PaymentFullyPaid,
			req:      dto.UpdatePaymentStatusRequest{PaymentStatus: model.PaymentDepositPaid},
			wantCode: http.StatusConflict,
		},
		{
			name:     "partial payment needs an amount",
			from:     model.PaymentUnpaid,
			req:      dto.UpdatePaymentStatusRequest{PaymentStatus: model.PaymentPartiallyPaid},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "fully paid must match total",
			from:     model.PaymentUnpaid,
			req:      dto.UpdatePaymentStatusRequest{PaymentStatus: model.PaymentFullyPaid, PaidAmount: amount(400)},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "amount above total",
			from:     model.PaymentUnpaid,
			req:      dto.UpdatePaymentStatusRequest{PaymentStatus: model.PaymentDepositPaid, PaidAmount: amount(600)},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			current := stored(t, 5, 2, "14:00", "16:00")
			current.PaymentStatus = tt.from
			current.PaidAmount = tt.paid

			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(current, nil)

			if tt.wantCode == 0 {
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
						assert.Equal(t, tt.req.PaymentStatus, fields[model.FieldPaymentStatus])
						assert.InDelta(t, tt.wantPaid, fields[model.FieldPaidAmount], 0.001)

						return nil
					})
				f.publisher.EXPECT().Publish(gomock.Any(), event.TypePaymentChanged, gomock.Any())
			}

			res, err := f.svc.UpdatePaymentStatus(userCtx(), 5, tt.req)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.req.PaymentStatus, res.PaymentStatus)
			assert.InDelta(t, tt.wantPaid, res.PaidAmount, 0.001)

			time.Sleep(10 * time.Millisecond)
		})
	}
}

func TestBookingService_UpdatePaymentStatusMissing(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

	_, err := f.svc.UpdatePaymentStatus(userCtx(), 42, dto.UpdatePaymentStatusRequest{PaymentStatus: model.PaymentFullyPaid})

	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestBookingService_Get(t *testing.T) {
	t.Run("cache hit", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), "booking:get:5", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				value.(*dto.BookingResponse).ID = 5

				return nil
			})

		res, err := f.svc.Get(context.Background(), 5)

		require.NoError(t, err)
		assert.Equal(t, int64(5), res.ID)
	})

	t.Run("from repository", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored(t, 5, 2, "14:00", "16:00"), nil)

		res, err := f.svc.Get(context.Background(), 5)

		require.NoError(t, err)
		assert.Equal(t, "Room 2", res.RoomName)
		assert.Equal(t, "16:00", res.EndTime)

		time.Sleep(10 * time.Millisecond)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := f.svc.Get(context.Background(), 5)

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBookingService_Delete(t *testing.T) {
	t.Run("deletes and publishes", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored(t, 5, 2, "14:00", "16:00"), nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
		f.publisher.EXPECT().Publish(gomock.Any(), event.TypeDeleted, gomock.Any())

		require.NoError(t, f.svc.Delete(userCtx(), 5))

		time.Sleep(10 * time.Millisecond)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		err := f.svc.Delete(userCtx(), 5)

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("repository failure", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored(t, 5, 2, "14:00", "16:00"), nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(errors.New("database error"))

		err := f.svc.Delete(userCtx(), 5)

		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}
