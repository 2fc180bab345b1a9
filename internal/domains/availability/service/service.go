package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"smashroom/config"
	"smashroom/infras/metrics"
	"smashroom/infras/otel"
	"smashroom/internal/domains/availability/engine"
	"smashroom/internal/domains/availability/model/dto"
	bookingModel "smashroom/internal/domains/booking/model"
	bookingRepo "smashroom/internal/domains/booking/repository"
	catalogModel "smashroom/internal/domains/catalog/model"
	catalogRepo "smashroom/internal/domains/catalog/repository"
	roomModel "smashroom/internal/domains/room/model"
	roomRepo "smashroom/internal/domains/room/repository"
	"smashroom/shared"
	"smashroom/shared/cache"
	"smashroom/shared/clock"
	"smashroom/shared/constant"
	gDto "smashroom/shared/dto"
	"smashroom/shared/failure"

	"github.com/rs/zerolog/log"
)

type Availability interface {
	ComputeAvailableSlots(ctx context.Context, date string, packageID int64) ([]dto.SlotResponse, error)
	IsRoomAvailable(ctx context.Context, roomID int64, date, start, end string, excludeID int64) (bool, error)
	AvailableRooms(ctx context.Context, date, start, end string, packageID int64) (dto.AvailableRoomsResponse, error)
}

type serviceImpl struct {
	roomRepo    roomRepo.Room
	packageRepo catalogRepo.Package
	bookingRepo bookingRepo.Booking
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	roomRepo roomRepo.Room,
	packageRepo catalogRepo.Package,
	bookingRepo bookingRepo.Booking,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Availability {
	return &serviceImpl{
		roomRepo:    roomRepo,
		packageRepo: packageRepo,
		bookingRepo: bookingRepo,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

// SlotsCacheKey is invalidated by date prefix whenever a booking on that date changes.
func SlotsCacheKey(date string, packageID int64) string {
	return fmt.Sprintf("%s:%s:%d", constant.CacheKeyAvailability, date, packageID)
}

// window is the global opening clamp. A misconfigured window disables the clamp.
func (s *serviceImpl) window() clock.Interval {
	window, err := clock.NewInterval(s.cfg.Booking.WindowOpen, s.cfg.Booking.WindowClose)
	if err != nil {
		log.Warn().Err(err).Msg("invalid booking window, falling back to room schedules")

		return clock.Interval{}
	}

	return window
}

func (s *serviceImpl) activePackage(ctx context.Context, id int64) (catalogModel.Package, error) {
	pkg, err := s.packageRepo.Get(ctx, shared.FilterByID(id, catalogModel.FieldID, catalogModel.TableName))
	if err != nil {
		return pkg, fmt.Errorf("failed to get package: %w", err)
	}

	if pkg.ID == 0 || !pkg.IsActive {
		return pkg, failure.NotFound("package not found") //nolint:wrapcheck
	}

	return pkg, nil
}

func (s *serviceImpl) activeRooms(ctx context.Context) ([]roomModel.Room, error) {
	rooms, err := s.roomRepo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    roomModel.FieldIsActive,
				Value:    true,
				Operator: gDto.FilterOperatorEq,
				Table:    roomModel.TableName,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get rooms: %w", err)
	}

	return rooms, nil
}

func (s *serviceImpl) ComputeAvailableSlots(ctx context.Context, date string, packageID int64) (res []dto.SlotResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ComputeAvailableSlots")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	started := time.Now()

	day, err := engine.ParseDate(date)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	cacheKey := SlotsCacheKey(date, packageID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		metrics.ObserveAvailability(constant.AvailabilityTypeSlots, true, started)

		return res, nil
	}

	pkg, err := s.activePackage(ctx, packageID)
	if err != nil {
		return nil, err
	}

	rooms, err := s.activeRooms(ctx)
	if err != nil {
		return nil, err
	}

	version := s.version(ctx)

	bookings, err := s.bookingRepo.ListForRoomsOnDate(ctx, date)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("failed to load bookings for availability")

		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}

	slots := engine.ComputeSlots(day, pkg, rooms, bookingModel.Occupancy(bookings), s.window(), s.cfg.Booking.SlotStepMinutes)
	res = dto.FromSlots(slots)

	metrics.ObserveAvailability(constant.AvailabilityTypeSlots, false, started)

	s.store(context.WithoutCancel(ctx), cacheKey, res, version)

	return res, nil
}

// version reads the availability invalidation counter. A missing counter reads as 0.
func (s *serviceImpl) version(ctx context.Context) int64 {
	var version int64

	if err := s.cache.Get(ctx, constant.CacheKeyAvailabilityVersion, &version); err != nil {
		return 0
	}

	return version
}

// store caches slots computed from a ledger read at version. Nothing is kept when an invalidation
// ran in between; the check after Save covers one that cleared the keys before the Save landed.
func (s *serviceImpl) store(ctx context.Context, key string, slots []dto.SlotResponse, version int64) {
	if s.version(ctx) != version {
		log.Debug().Str("key", key).Msg("availability changed while computing, not caching")

		return
	}

	if err := s.cache.Save(ctx, key, slots, s.cfg.Cache.AvailabilityTTL); err != nil {
		log.Error().Err(err).Msg("failed to save availability to cache")

		return
	}

	if s.version(ctx) != version {
		if err := s.cache.Delete(ctx, key); err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to drop stale availability")
		}
	}
}

func (s *serviceImpl) IsRoomAvailable(ctx context.Context, roomID int64, date, start, end string, excludeID int64) (available bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".IsRoomAvailable")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	day, err := engine.ParseDate(date)
	if err != nil {
		return false, err //nolint:wrapcheck
	}

	span, err := clock.NewInterval(start, end)
	if err != nil {
		return false, failure.Validation("startTime", "and endTime must be in HH:MM format") //nolint:wrapcheck
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		return false, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == 0 {
		return false, failure.NotFound("room not found") //nolint:wrapcheck
	}

	bookings, err := s.bookingRepo.ListForRoomsOnDate(ctx, date, roomID)
	if err != nil {
		return false, fmt.Errorf("failed to get bookings: %w", err)
	}

	return engine.IsRoomAvailable(room, day, span, bookingModel.Occupancy(bookings), excludeID), nil
}

func (s *serviceImpl) AvailableRooms(ctx context.Context, date, start, end string, packageID int64) (res dto.AvailableRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AvailableRooms")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	started := time.Now()
	defer func() { metrics.ObserveAvailability(constant.AvailabilityTypeRooms, false, started) }()

	day, err := engine.ParseDate(date)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	pkg, err := s.activePackage(ctx, packageID)
	if err != nil {
		return res, err
	}

	from, err := clock.Parse(start)
	if err != nil {
		return res, failure.Validation("startTime", "must be a time in HH:MM format") //nolint:wrapcheck
	}

	span := clock.Interval{Start: from, End: from + pkg.Duration}

	if end != constant.Empty {
		if span.End, err = clock.Parse(end); err != nil {
			return res, failure.Validation("endTime", "must be a time in HH:MM format") //nolint:wrapcheck
		}
	}

	rooms, err := s.activeRooms(ctx)
	if err != nil {
		return res, err
	}

	bookings, err := s.bookingRepo.ListForRoomsOnDate(ctx, date)
	if err != nil {
		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	occupied := bookingModel.Occupancy(bookings)
	free := make([]roomModel.Room, 0, len(rooms))

	for _, room := range rooms {
		if engine.RoomEligible(room, pkg) && engine.IsRoomAvailable(room, day, span, occupied, 0) {
			free = append(free, room)
		}
	}

	slices.SortFunc(free, func(a, b roomModel.Room) int { return cmp.Compare(a.ID, b.ID) })

	res.FromModels(date, span, free)

	return res, nil
}
