package booking

import (
	"net/http"

	"smashroom/infras/otel"
	availabilityDto "smashroom/internal/domains/availability/model/dto"
	availabilityService "smashroom/internal/domains/availability/service"
	"smashroom/internal/domains/booking/model"
	"smashroom/internal/domains/booking/model/dto"
	"smashroom/internal/domains/booking/service"
	"smashroom/shared"
	"smashroom/shared/constant"
	gDto "smashroom/shared/dto"
	"smashroom/shared/failure"
	"smashroom/shared/validator"
	"smashroom/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service      service.Booking
	availability availabilityService.Availability
	otel         otel.Otel
}

func New(service service.Booking, availability availabilityService.Availability, otel otel.Otel) Handler {
	return Handler{
		service:      service,
		availability: availability,
		otel:         otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Put("/", handler.UpdateBooking)
		routerGroup.Get("/availability", handler.GetAvailability)
		routerGroup.Patch("/{id}/payment", handler.UpdatePaymentStatus)
		routerGroup.Delete("/{id}", handler.DeleteBooking)
	})

	router.Get("/booking/{id}", handler.GetBookingByID)
}

func pathID(r *http.Request) (int64, error) {
	id, err := shared.ConvertStringToInt64(chi.URLParam(r, constant.RequestParamID))
	if err != nil || id < 1 {
		return 0, failure.Validation("id", "must be a positive integer") //nolint:wrapcheck
	}

	return id, nil
}

// CreateBooking handles the creation of a new booking.
// @Summary Create a new booking
// @Description Book a room for a package. The room must be free for the whole package duration.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /api/bookings [post]
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	booking, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking created successfully")

	response.WithJSON(writer, http.StatusCreated, booking)
}

// GetBookings retrieves bookings based on query parameters.
// @Summary Get all bookings
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param roomId query integer false "Filter by room ID"
// @Param packageId query integer false "Filter by package ID"
// @Param status query string false "Filter by status (pending, confirmed, cancelled, completed)"
// @Param paymentStatus query string false "Filter by payment status"
// @Param dateFrom query string false "Bookings on or after this date (YYYY-MM-DD)"
// @Param dateTo query string false "Bookings on or before this date (YYYY-MM-DD)"
// @Param date query string false "Filter by booking date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Failure 400 {object} response.Error
// @Router /api/bookings [get]
// @Security CookieAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for param, field := range map[string]string{
		constant.RequestParamRoomID:    model.FieldRoomID,
		constant.RequestParamPackageID: model.FieldPackageID,
	} {
		raw := query.Get(param)
		if raw == constant.Empty {
			continue
		}

		id, err := shared.ConvertStringToInt64(raw)
		if err != nil {
			response.WithError(w, failure.Validation(param, "must be an integer"))

			return
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    field,
			Operator: gDto.FilterOperatorEq,
			Value:    id,
			Table:    model.TableName,
		})
	}

	for param, field := range map[string]string{
		constant.RequestParamStatus:        model.FieldStatus,
		constant.RequestParamPaymentStatus: model.FieldPaymentStatus,
	} {
		if value := query.Get(param); value != constant.Empty {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	for _, bound := range []struct {
		param    string
		operator string
	}{
		{param: constant.RequestParamDate, operator: gDto.FilterOperatorEq},
		{param: constant.RequestParamDateFrom, operator: gDto.FilterOperatorGreaterEq},
		{param: constant.RequestParamDateTo, operator: gDto.FilterOperatorLessEq},
	} {
		date := query.Get(bound.param)
		if date == constant.Empty {
			continue
		}

		if err := validator.ValidateVar(date, "date"); err != nil {
			response.WithError(w, failure.Validation(bound.param, "must be YYYY-MM-DD"))

			return
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			ArgName:  bound.param,
			Field:    model.FieldBookingDate,
			Operator: bound.operator,
			Value:    date,
			Table:    model.TableName,
		})
	}

	bookings, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetBookingByID retrieves a booking by its ID.
// @Summary Get a booking by ID
// @Tags Booking
// @Produce json
// @Param id path integer true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 404 {object} response.Error
// @Router /api/booking/{id} [get]
// @Security CookieAuth
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	id, err := pathID(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	booking, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// UpdateBooking applies a partial update. Moving a booking re-checks the target room.
// @Summary Update a booking
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.UpdateBookingRequest true "Update Booking Request"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /api/bookings [put]
// @Security CookieAuth
func (handler *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBooking")
	defer scope.End()

	req := dto.UpdateBookingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.Update(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("id", req.ID).Msg("failed to update booking")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking updated successfully by user " + user)

	response.WithJSON(w, http.StatusOK, booking)
}

// UpdatePaymentStatus moves a booking along the payment state machine.
// @Summary Update the payment status of a booking
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path integer true "Booking ID"
// @Param request body dto.UpdatePaymentStatusRequest true "Payment Status Request"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /api/bookings/{id}/payment [patch]
// @Security CookieAuth
func (handler *Handler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdatePaymentStatus")
	defer scope.End()

	id, err := pathID(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.UpdatePaymentStatusRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.UpdatePaymentStatus(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("id", id).Msg("failed to update payment status")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// DeleteBooking removes a booking and frees its slot.
// @Summary Delete a booking by ID
// @Tags Booking
// @Produce json
// @Param id path integer true "Booking ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /api/bookings/{id} [delete]
// @Security CookieAuth
func (handler *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteBooking")
	defer scope.End()

	id, err := pathID(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("id", id).Msg("failed to delete booking")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Booking deleted successfully")
}

// GetAvailability returns the free slots of a package on a date, or with type=rooms the rooms free
// for a given start time.
// @Summary Get availability
// @Tags Booking
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param packageId query integer true "Package ID"
// @Param startTime query string false "Start time (HH:MM), required with type=rooms"
// @Param endTime query string false "End time (HH:MM), defaults to start plus package duration"
// @Param type query string false "slots (default) or rooms"
// @Success 200 {object} response.Data[[]availabilityDto.SlotResponse] "slots, or AvailableRoomsResponse with type=rooms"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /api/bookings/availability [get]
func (handler *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailability")
	defer scope.End()

	req := availabilityDto.AvailabilityRequest{}
	req.FromRequest(r)

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if req.WantsRooms() {
		rooms, err := handler.availability.AvailableRooms(ctx, req.Date, req.StartTime, req.EndTime, req.PackageID)
		if err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to get available rooms")

			response.WithError(w, err)

			return
		}

		response.WithJSON(w, http.StatusOK, rooms)

		return
	}

	slots, err := handler.availability.ComputeAvailableSlots(ctx, req.Date, req.PackageID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to compute available slots")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, slots)
}
