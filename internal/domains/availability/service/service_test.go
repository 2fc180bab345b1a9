package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"smashroom/config"
	"smashroom/infras/otel/mocks"
	"smashroom/internal/domains/availability/model/dto"
	"smashroom/internal/domains/availability/service"
	bookingMocks "smashroom/internal/domains/booking/mocks"
	bookingModel "smashroom/internal/domains/booking/model"
	catalogMocks "smashroom/internal/domains/catalog/mocks"
	catalogModel "smashroom/internal/domains/catalog/model"
	roomMocks "smashroom/internal/domains/room/mocks"
	roomModel "smashroom/internal/domains/room/model"
	cacheMocks "smashroom/shared/cache/mocks"
	"smashroom/shared/clock"
	"smashroom/shared/constant"
	"smashroom/shared/failure"
)

const tuesday = "2024-07-16"

type fixture struct {
	rooms    *roomMocks.MockRoom
	packages *catalogMocks.MockPackage
	bookings *bookingMocks.MockBooking
	cache    *cacheMocks.MockRedisCache
	svc      service.Availability
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	f := newBareFixture(t)
	f.cache.EXPECT().Get(gomock.Any(), constant.CacheKeyAvailabilityVersion, gomock.Any()).
		Return(errors.New("miss")).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

// newBareFixture leaves the availability version counter unmocked.
func newBareFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Booking.SlotStepMinutes = 30
	cfg.Booking.WindowOpen = "10:00"
	cfg.Booking.WindowClose = "22:00"
	cfg.Cache.AvailabilityTTL = 60

	f := fixture{
		rooms:    roomMocks.NewMockRoom(ctrl),
		packages: catalogMocks.NewMockPackage(ctrl),
		bookings: bookingMocks.NewMockBooking(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
	}
	f.svc = service.New(f.rooms, f.packages, f.bookings, cfg, f.cache, mocks.NewOtel())

	return f
}

func sredni() catalogModel.Package {
	return catalogModel.Package{ID: 2, Name: "ŚREDNI", Duration: 120, MaxPeople: 8, Price: 500, IsActive: true}
}

func room(id int64, maxPeople int) roomModel.Room {
	return roomModel.Room{
		ID:        id,
		Name:      "Room",
		MaxPeople: maxPeople,
		Available: true,
		IsActive:  true,
		Schedule:  roomModel.DefaultSchedule("10:00", "22:00"),
	}
}

func booking(t *testing.T, id, roomID int64, start, end string) bookingModel.Booking {
	t.Helper()

	day, err := time.Parse("2006-01-02", tuesday)
	require.NoError(t, err)

	from, err := clock.Parse(start)
	require.NoError(t, err)

	to, err := clock.Parse(end)
	require.NoError(t, err)

	return bookingModel.Booking{
		ID:          id,
		RoomID:      roomID,
		BookingDate: day,
		StartTime:   clock.On(day, from),
		EndTime:     clock.On(day, to),
		Status:      bookingModel.StatusConfirmed,
	}
}

func slotAt(slots []dto.SlotResponse, start string) (dto.SlotResponse, bool) {
	for _, slot := range slots {
		if slot.StartTime == start {
			return slot, true
		}
	}

	return dto.SlotResponse{}, false
}

func TestAvailabilityService_ComputeAvailableSlots(t *testing.T) {
	t.Run("sredni around an afternoon booking", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), "availability:2024-07-16:2", gomock.Any()).Return(errors.New("miss"))
		f.packages.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sredni(), nil)
		f.rooms.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]roomModel.Room{room(1, 8)}, nil)
		f.bookings.EXPECT().ListForRoomsOnDate(gomock.Any(), tuesday).
			Return([]bookingModel.Booking{booking(t, 1, 1, "16:00", "17:30")}, nil)

		slots, err := f.svc.ComputeAvailableSlots(context.Background(), tuesday, 2)
		require.NoError(t, err)

		before, ok := slotAt(slots, "14:00")
		require.True(t, ok)
		assert.Equal(t, "16:00", before.EndTime)
		assert.Equal(t, []int64{1}, before.AvailableRoomIDs)

		_, ok = slotAt(slots, "15:30")
		assert.False(t, ok)

		after, ok := slotAt(slots, "17:30")
		require.True(t, ok)
		assert.Equal(t, "19:30", after.EndTime)

		last := slots[len(slots)-1]
		assert.Equal(t, "20:00", last.StartTime)

		time.Sleep(10 * time.Millisecond)
	})

	t.Run("cache hit skips repositories", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), "availability:2024-07-16:2", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				*value.(*[]dto.SlotResponse) = []dto.SlotResponse{{StartTime: "10:00", EndTime: "12:00", AvailableRoomIDs: []int64{1}}}

				return nil
			})

		slots, err := f.svc.ComputeAvailableSlots(context.Background(), tuesday, 2)

		require.NoError(t, err)
		assert.Len(t, slots, 1)
	})

	t.Run("no eligible room is empty, not an error", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		f.packages.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sredni(), nil)
		f.rooms.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]roomModel.Room{room(1, 4)}, nil)
		f.bookings.EXPECT().ListForRoomsOnDate(gomock.Any(), tuesday).Return(nil, nil)

		slots, err := f.svc.ComputeAvailableSlots(context.Background(), tuesday, 2)

		require.NoError(t, err)
		assert.NotNil(t, slots)
		assert.Empty(t, slots)

		time.Sleep(10 * time.Millisecond)
	})

	t.Run("invalid date", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.ComputeAvailableSlots(context.Background(), "16-07-2024", 2)

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("inactive package", func(t *testing.T) {
		f := newFixture(t)
		pkg := sredni()
		pkg.IsActive = false

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		f.packages.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pkg, nil)

		_, err := f.svc.ComputeAvailableSlots(context.Background(), tuesday, 2)

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("booking lookup failure", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		f.packages.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sredni(), nil)
		f.rooms.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]roomModel.Room{room(1, 8)}, nil)
		f.bookings.EXPECT().ListForRoomsOnDate(gomock.Any(), tuesday).Return(nil, errors.New("database error"))

		_, err := f.svc.ComputeAvailableSlots(context.Background(), tuesday, 2)

		require.Error(t, err)
	})
}

func TestAvailabilityService_ComputeAvailableSlotsCaching(t *testing.T) {
	const slotsKey = "availability:2024-07-16:2"

	// versions lists the counter values seen by successive reads.
	tests := []struct {
		name       string
		versions   []int64
		wantSave   bool
		wantDelete bool
	}{
		{name: "stable version is cached", versions: []int64{3, 3, 3}, wantSave: true},
		{name: "invalidated while computing is not cached", versions: []int64{3, 4}},
		{name: "invalidated during save is dropped", versions: []int64{3, 3, 4}, wantSave: true, wantDelete: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBareFixture(t)
			reads := 0

			f.cache.EXPECT().Get(gomock.Any(), slotsKey, gomock.Any()).Return(errors.New("miss"))
			f.cache.EXPECT().Get(gomock.Any(), constant.CacheKeyAvailabilityVersion, gomock.Any()).
				DoAndReturn(func(_ context.Context, _ string, value any) error {
					*value.(*int64) = tt.versions[reads]
					reads++

					return nil
				}).
				Times(len(tt.versions))
			f.packages.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sredni(), nil)
			f.rooms.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]roomModel.Room{room(1, 8)}, nil)
			f.bookings.EXPECT().ListForRoomsOnDate(gomock.Any(), tuesday).Return(nil, nil)

			if tt.wantSave {
				f.cache.EXPECT().Save(gomock.Any(), slotsKey, gomock.Any(), 60).Return(nil)
			}

			if tt.wantDelete {
				f.cache.EXPECT().Delete(gomock.Any(), slotsKey).Return(nil)
			}

			slots, err := f.svc.ComputeAvailableSlots(context.Background(), tuesday, 2)

			require.NoError(t, err)
			assert.NotEmpty(t, slots)
		})
	}
}

func TestAvailabilityService_IsRoomAvailable(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		excludeID int64
		room      roomModel.Room
		want      bool
		wantCode  int
	}{
		{name: "free after booking", start: "17:30", end: "19:30", room: room(2, 8), want: true},
		{name: "overlaps booking", start: "15:00", end: "17:00", room: room(2, 8)},
		{name: "own booking excluded", start: "15:00", end: "17:00", excludeID: 7, room: room(2, 8), want: true},
		{name: "outside hours", start: "21:00", end: "23:00", room: room(2, 8)},
		{name: "inverted interval", start: "17:00", end: "15:00", room: room(2, 8)},
		{name: "unknown room", start: "10:00", end: "12:00", wantCode: http.StatusNotFound},
		{name: "malformed time", start: "9am", end: "12:00", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			if tt.start != "9am" {
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.room, nil)
			}

			if tt.room.ID != 0 {
				f.bookings.EXPECT().ListForRoomsOnDate(gomock.Any(), tuesday, int64(2)).
					Return([]bookingModel.Booking{booking(t, 7, 2, "15:30", "17:30")}, nil)
			}

			ok, err := f.svc.IsRoomAvailable(context.Background(), 2, tuesday, tt.start, tt.end, tt.excludeID)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestAvailabilityService_AvailableRooms(t *testing.T) {
	t.Run("derives end from package and skips busy rooms", func(t *testing.T) {
		f := newFixture(t)
		f.packages.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sredni(), nil)
		f.rooms.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]roomModel.Room{room(3, 10), room(2, 8), room(1, 8), room(4, 2)}, nil)
		f.bookings.EXPECT().ListForRoomsOnDate(gomock.Any(), tuesday).
			Return([]bookingModel.Booking{booking(t, 1, 2, "14:00", "16:00")}, nil)

		res, err := f.svc.AvailableRooms(context.Background(), tuesday, "15:00", "", 2)
		require.NoError(t, err)

		assert.Equal(t, "15:00", res.StartTime)
		assert.Equal(t, "17:00", res.EndTime)
		require.Len(t, res.Rooms, 2)
		assert.Equal(t, int64(1), res.Rooms[0].ID)
		assert.Equal(t, int64(3), res.Rooms[1].ID)
	})

	t.Run("explicit end", func(t *testing.T) {
		f := newFixture(t)
		f.packages.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sredni(), nil)
		f.rooms.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]roomModel.Room{room(2, 8)}, nil)
		f.bookings.EXPECT().ListForRoomsOnDate(gomock.Any(), tuesday).
			Return([]bookingModel.Booking{booking(t, 1, 2, "14:00", "16:00")}, nil)

		res, err := f.svc.AvailableRooms(context.Background(), tuesday, "16:00", "18:00", 2)
		require.NoError(t, err)

		require.Len(t, res.Rooms, 1)
		assert.Equal(t, int64(2), res.Rooms[0].ID)
	})

	t.Run("missing start time", func(t *testing.T) {
		f := newFixture(t)
		f.packages.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sredni(), nil)

		_, err := f.svc.AvailableRooms(context.Background(), tuesday, "", "", 2)

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("unknown package", func(t *testing.T) {
		f := newFixture(t)
		f.packages.EXPECT().Get(gomock.Any(), gomock.Any()).Return(catalogModel.Package{}, nil)

		_, err := f.svc.AvailableRooms(context.Background(), tuesday, "15:00", "", 9)

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
