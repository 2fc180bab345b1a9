package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"smashroom/config"
	"smashroom/infras/metrics"
	"smashroom/infras/otel"
	"smashroom/internal/domains/availability/engine"
	"smashroom/internal/domains/booking/event"
	"smashroom/internal/domains/booking/model"
	"smashroom/internal/domains/booking/model/dto"
	"smashroom/internal/domains/booking/repository"
	catalogModel "smashroom/internal/domains/catalog/model"
	catalogRepo "smashroom/internal/domains/catalog/repository"
	customerModel "smashroom/internal/domains/customer/model"
	customerRepo "smashroom/internal/domains/customer/repository"
	promoService "smashroom/internal/domains/promo/service"
	roomModel "smashroom/internal/domains/room/model"
	roomRepo "smashroom/internal/domains/room/repository"
	"smashroom/shared"
	"smashroom/shared/cache"
	"smashroom/shared/clock"
	"smashroom/shared/constant"
	gDto "smashroom/shared/dto"
	"smashroom/shared/failure"
	gModel "smashroom/shared/model"
	"smashroom/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"

	amountTolerance = 0.005
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id int64) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest) (dto.BookingResponse, error)
	UpdatePaymentStatus(ctx context.Context, id int64, req dto.UpdatePaymentStatusRequest) (dto.BookingResponse, error)
	Delete(ctx context.Context, id int64) error
}

type serviceImpl struct {
	repo         repository.Booking
	roomRepo     roomRepo.Room
	packageRepo  catalogRepo.Package
	customerRepo customerRepo.Customer
	promo        promoService.PromoCode
	publisher    event.Publisher
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	repo repository.Booking,
	roomRepo roomRepo.Room,
	packageRepo catalogRepo.Package,
	customerRepo customerRepo.Customer,
	promo promoService.PromoCode,
	publisher event.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:         repo,
		roomRepo:     roomRepo,
		packageRepo:  packageRepo,
		customerRepo: customerRepo,
		promo:        promo,
		publisher:    publisher,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}

	return strconv.Itoa(failure.GetCode(err))
}

func (s *serviceImpl) loadPackage(ctx context.Context, id int64) (catalogModel.Package, error) {
	pkg, err := s.packageRepo.Get(ctx, shared.FilterByID(id, catalogModel.FieldID, catalogModel.TableName))
	if err != nil {
		return pkg, fmt.Errorf("failed to get package: %w", err)
	}

	if pkg.ID == 0 || !pkg.IsActive {
		return pkg, failure.NotFound("package not found") //nolint:wrapcheck
	}

	return pkg, nil
}

func (s *serviceImpl) loadRoom(ctx context.Context, id int64) (roomModel.Room, error) {
	room, err := s.roomRepo.Get(ctx, shared.FilterByID(id, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		return room, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == 0 {
		return room, failure.NotFound("room not found") //nolint:wrapcheck
	}

	return room, nil
}

// slotFor derives the booked range from the start time and the package duration.
func slotFor(startTime string, pkg catalogModel.Package, numPeople int) (clock.Interval, error) {
	start, err := clock.Parse(startTime)
	if err != nil {
		return clock.Interval{}, failure.Validation("startTime", "must be a time in HH:MM format") //nolint:wrapcheck
	}

	if numPeople > pkg.MaxPeople {
		return clock.Interval{}, failure.Validation("numPeople", fmt.Sprintf("must not exceed %d for this package", pkg.MaxPeople)) //nolint:wrapcheck
	}

	span := clock.Interval{Start: start, End: start + pkg.Duration}
	if span.End >= clock.MinutesPerDay {
		return clock.Interval{}, failure.Validation("startTime", "booking must end before midnight") //nolint:wrapcheck
	}

	return span, nil
}

// fits rejects rooms the availability search would never offer for this package and group.
func fits(room roomModel.Room, pkg catalogModel.Package, numPeople int) error {
	if !engine.RoomEligible(room, pkg) || !room.Fits(numPeople) {
		log.Info().Int64("roomId", room.ID).Int64("packageId", pkg.ID).Int("numPeople", numPeople).Msg("booking rejected, room does not fit")

		return failure.Conflict(fmt.Sprintf("room %s cannot host package %s for %d people", room.Name, pkg.Name, numPeople)) //nolint:wrapcheck
	}

	return nil
}

// guard re-checks the room inside the transaction after taking the room lock.
func (s *serviceImpl) guard(ctx context.Context, sqltx *sqlx.Tx, room roomModel.Room, date string, span clock.Interval, excludeID int64) error {
	if err := s.repo.LockRoom(ctx, sqltx, room.ID); err != nil {
		return err //nolint:wrapcheck
	}

	day, err := engine.ParseDate(date)
	if err != nil {
		return err //nolint:wrapcheck
	}

	existing, err := s.repo.ListForRoomsOnDateTx(ctx, sqltx, date, room.ID)
	if err != nil {
		return fmt.Errorf("failed to load bookings: %w", err)
	}

	if !engine.IsRoomAvailable(room, day, span, model.Occupancy(existing), excludeID) {
		log.Info().Int64("roomId", room.ID).Str("date", date).Str("slot", span.String()).Msg("booking rejected, room taken")

		return failure.Conflict("room is not available for the requested time") //nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer func() { metrics.IncBookingMutation("create", outcome(err)) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		user = constant.ContextGuest
	}

	day, err := engine.ParseDate(req.Date)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	pkg, err := s.loadPackage(ctx, req.PackageID)
	if err != nil {
		return res, err
	}

	room, err := s.loadRoom(ctx, req.RoomID)
	if err != nil {
		return res, err
	}

	span, err := slotFor(req.StartTime, pkg, req.NumPeople)
	if err != nil {
		return res, err
	}

	if err = fits(room, pkg, req.NumPeople); err != nil {
		return res, err
	}

	scope.SetAttributes(map[string]any{
		"booking.room_id":    room.ID,
		"booking.package_id": pkg.ID,
		"booking.date":       day,
		"booking.slot":       span,
	})

	now := timezone.Now()
	booking := model.Booking{
		RoomID:        room.ID,
		RoomName:      room.Name,
		PackageID:     pkg.ID,
		PackageName:   pkg.Name,
		BookingDate:   day,
		StartTime:     clock.On(day, span.Start),
		EndTime:       clock.On(day, span.End),
		NumPeople:     req.NumPeople,
		CustomerName:  req.Customer.Name,
		CustomerEmail: req.Customer.Email,
		CustomerPhone: req.Customer.Phone,
		Status:        model.StatusPending,
		PaymentStatus: model.PaymentUnpaid,
		Comment:       req.Comment,
		Metadata:      gModel.NewMetadata(now, user),
	}

	err = s.repo.WithTransaction(ctx, func(ctx context.Context, sqltx *sqlx.Tx) error {
		if err := s.guard(ctx, sqltx, room, req.Date, span, 0); err != nil {
			return err
		}

		total, applied, err := s.promo.Apply(ctx, req.PromoCode, pkg.Price)
		if err != nil {
			return fmt.Errorf("failed to apply promo code: %w", err)
		}

		if applied {
			booking.PromoCode = req.PromoCode
		}

		booking.TotalAmount = total
		booking.DepositAmount = math.Min(pkg.DepositAmount, total)

		booking.CustomerID, err = s.customerRepo.UpsertByEmailTx(ctx, sqltx, customerModel.Customer{
			Name:     req.Customer.Name,
			Email:    req.Customer.Email,
			Phone:    req.Customer.Phone,
			Metadata: gModel.NewMetadata(now, user),
		})
		if err != nil {
			return err //nolint:wrapcheck
		}

		booking.ID, err = s.repo.NextIDTx(ctx, sqltx)
		if err != nil {
			return err //nolint:wrapcheck
		}

		return s.repo.InsertTx(ctx, sqltx, booking) //nolint:wrapcheck
	})
	if err != nil {
		log.Error().Err(err).Int64("roomId", req.RoomID).Str("date", req.Date).Str("startTime", req.StartTime).Msg("failed to create booking")

		return res, err //nolint:wrapcheck
	}

	res.FromModel(booking)

	s.invalidate(ctx, 0, req.Date)
	s.publisher.Publish(ctx, event.TypeCreated, res)

	log.Info().Int64("bookingId", booking.ID).Int64("roomId", room.ID).Str("date", req.Date).Str("slot", span.String()).Msg("booking created")

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAllBookings")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CountBookings")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id int64) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id int64) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Int64("bookingId", id).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == 0 {
		return booking, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	return booking, nil
}

// patch is the merged state of an update plus the columns that change.
type patch struct {
	fields map[string]any
	guard  bool
	room   roomModel.Room
	date   string
	span   clock.Interval
}

// merge applies the request onto the stored booking. Moving a live booking, or reviving a
// cancelled one, needs the availability guard again.
func (s *serviceImpl) merge(ctx context.Context, current model.Booking, req dto.UpdateBookingRequest, user string) (patch, error) {
	p := patch{
		fields: map[string]any{
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		},
		date: current.Day(),
		span: current.Span(),
	}

	roomID, packageID := current.RoomID, current.PackageID
	startTime := clock.Format(current.Span().Start)
	numPeople := current.NumPeople
	status := current.Status
	moved := false

	if req.RoomID != nil && *req.RoomID != roomID {
		roomID, moved = *req.RoomID, true
	}

	if req.PackageID != nil && *req.PackageID != packageID {
		packageID, moved = *req.PackageID, true
	}

	if req.Date != nil && *req.Date != p.date {
		p.date, moved = *req.Date, true
	}

	if req.StartTime != nil && *req.StartTime != startTime {
		startTime, moved = *req.StartTime, true
	}

	if req.NumPeople != nil {
		numPeople = *req.NumPeople
		p.fields[model.FieldNumPeople] = numPeople
	}

	if req.Status != nil {
		status = *req.Status
		p.fields[model.FieldStatus] = status
	}

	if req.Comment != nil {
		p.fields[model.FieldComment] = *req.Comment
	}

	if req.AdminComment != nil {
		p.fields[model.FieldAdminComment] = *req.AdminComment
	}

	revived := current.Cancelled() && status != model.StatusCancelled
	if !moved && !revived && req.NumPeople == nil {
		return p, nil
	}

	day, err := engine.ParseDate(p.date)
	if err != nil {
		return p, err //nolint:wrapcheck
	}

	pkg, err := s.loadPackage(ctx, packageID)
	if err != nil {
		return p, err
	}

	p.span, err = slotFor(startTime, pkg, numPeople)
	if err != nil {
		return p, err
	}

	p.room, err = s.loadRoom(ctx, roomID)
	if err != nil {
		return p, err
	}

	if status != model.StatusCancelled {
		if err = fits(p.room, pkg, numPeople); err != nil {
			return p, err
		}
	}

	p.guard = (moved || revived) && status != model.StatusCancelled
	if !p.guard && !moved {
		return p, nil
	}

	p.fields[model.FieldRoomID] = p.room.ID
	p.fields[model.FieldRoomName] = p.room.Name
	p.fields[model.FieldPackageID] = pkg.ID
	p.fields[model.FieldPackageName] = pkg.Name
	p.fields[model.FieldBookingDate] = day
	p.fields[model.FieldStartTime] = clock.On(day, p.span.Start)
	p.fields[model.FieldEndTime] = clock.On(day, p.span.End)

	return p, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer func() { metrics.IncBookingMutation("update", outcome(err)) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	current, err := s.find(ctx, req.ID)
	if err != nil {
		return res, err
	}

	p, err := s.merge(ctx, current, req, user)
	if err != nil {
		return res, err
	}

	filter := shared.FilterByID(req.ID, model.FieldID, model.TableName)

	err = s.repo.WithTransaction(ctx, func(ctx context.Context, sqltx *sqlx.Tx) error {
		if p.guard {
			if err := s.guard(ctx, sqltx, p.room, p.date, p.span, req.ID); err != nil {
				return err
			}
		}

		if req.Customer != nil {
			customerID, err := s.customerRepo.UpsertByEmailTx(ctx, sqltx, customerModel.Customer{
				Name:     req.Customer.Name,
				Email:    req.Customer.Email,
				Phone:    req.Customer.Phone,
				Metadata: gModel.NewMetadata(timezone.Now(), user),
			})
			if err != nil {
				return err //nolint:wrapcheck
			}

			p.fields[model.FieldCustomerID] = customerID
		}

		return s.repo.UpdateTx(ctx, sqltx, p.fields, filter) //nolint:wrapcheck
	})
	if err != nil {
		log.Error().Err(err).Int64("bookingId", req.ID).Msg("failed to update booking")

		return res, err //nolint:wrapcheck
	}

	updated, err := s.find(ctx, req.ID)
	if err != nil {
		return res, err
	}

	res.FromModel(updated)

	s.invalidate(ctx, req.ID, current.Day(), p.date)
	s.publisher.Publish(ctx, event.TypeUpdated, res)

	return res, nil
}

// paidAmount settles the amount recorded for a payment status.
func paidAmount(status string, requested *float64, booking model.Booking) (float64, error) {
	total := booking.TotalAmount

	if requested != nil && (*requested < 0 || *requested > total+amountTolerance) {
		return 0, failure.Validation("paidAmount", "must be between 0 and totalAmount") //nolint:wrapcheck
	}

	switch status {
	case model.PaymentDepositPaid:
		if requested == nil {
			return booking.DepositAmount, nil
		}

		return *requested, nil
	case model.PaymentPartiallyPaid:
		if requested == nil || *requested <= 0 || *requested >= total {
			return 0, failure.Validation("paidAmount", "must be greater than 0 and less than totalAmount for PARTIALLY_PAID") //nolint:wrapcheck
		}

		return *requested, nil
	case model.PaymentFullyPaid:
		if requested != nil && math.Abs(*requested-total) > amountTolerance {
			return 0, failure.Validation("paidAmount", "must equal totalAmount for FULLY_PAID") //nolint:wrapcheck
		}

		return total, nil
	default:
		return 0, nil
	}
}

func (s *serviceImpl) UpdatePaymentStatus(ctx context.Context, id int64, req dto.UpdatePaymentStatusRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdatePaymentStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer func() { metrics.IncBookingMutation("payment", outcome(err)) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	var booking model.Booking

	err = s.repo.WithTransaction(ctx, func(ctx context.Context, sqltx *sqlx.Tx) error {
		current, err := s.repo.GetForUpdateTx(ctx, sqltx, filter)
		if err != nil {
			return fmt.Errorf("failed to get booking: %w", err)
		}

		if current.ID == 0 {
			return failure.NotFound("booking not found") //nolint:wrapcheck
		}

		if !model.CanTransition(current.PaymentStatus, req.PaymentStatus) {
			return failure.Conflict(fmt.Sprintf("cannot change payment status from %s to %s", current.PaymentStatus, req.PaymentStatus)) //nolint:wrapcheck
		}

		paid, err := paidAmount(req.PaymentStatus, req.PaidAmount, current)
		if err != nil {
			return err
		}

		now := timezone.Now()

		err = s.repo.UpdateTx(ctx, sqltx, map[string]any{
			model.FieldPaymentStatus: req.PaymentStatus,
			model.FieldPaidAmount:    paid,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: user,
		}, filter)
		if err != nil {
			return err //nolint:wrapcheck
		}

		booking = current
		booking.PaymentStatus = req.PaymentStatus
		booking.PaidAmount = paid
		booking.ModifiedAt = now
		booking.ModifiedBy = user

		return nil
	})
	if err != nil {
		log.Error().Err(err).Int64("bookingId", id).Str("paymentStatus", req.PaymentStatus).Msg("failed to update payment status")

		return res, err //nolint:wrapcheck
	}

	metrics.IncPaymentTransition(req.PaymentStatus)

	res.FromModel(booking)

	s.invalidate(ctx, id)
	s.publisher.Publish(ctx, event.TypePaymentChanged, res)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer func() { metrics.IncBookingMutation("delete", outcome(err)) }()

	booking, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Int64("bookingId", id).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	var res dto.BookingResponse
	res.FromModel(booking)

	s.invalidate(ctx, id, booking.Day())
	s.publisher.Publish(ctx, event.TypeDeleted, res)

	return nil
}

// invalidate drops cached reads of the booking and availability answers of the touched dates.
func (s *serviceImpl) invalidate(ctx context.Context, id int64, dates ...string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != 0 {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete booking cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)

		seen := map[string]bool{}

		for _, date := range dates {
			if date == constant.Empty || seen[date] {
				continue
			}

			seen[date] = true

			shared.InvalidateAvailability(c, s.cache, shared.BuildCacheKey(constant.CacheKeyAvailability, date))
		}
	}()
}
