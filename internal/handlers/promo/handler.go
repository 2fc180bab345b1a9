package promo

import (
	"net/http"

	"smashroom/infras/otel"
	"smashroom/internal/domains/promo/model"
	"smashroom/internal/domains/promo/model/dto"
	"smashroom/internal/domains/promo/service"
	"smashroom/shared/constant"
	gDto "smashroom/shared/dto"
	"smashroom/shared/validator"
	"smashroom/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.PromoCode
	otel    otel.Otel
}

func New(service service.PromoCode, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/promo-codes", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreatePromoCode)
		routerGroup.Get("/", handler.GetPromoCodes)
	})
}

// CreatePromoCode registers a discount code. Codes are stored upper-cased.
// @Summary Create a promo code
// @Tags PromoCode
// @Accept json
// @Produce json
// @Param request body dto.CreatePromoCodeRequest true "Create Promo Code Request"
// @Success 201 {object} response.Data[dto.PromoCodeResponse]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /api/promo-codes [post]
// @Security CookieAuth
func (handler *Handler) CreatePromoCode(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreatePromoCode")
	defer scope.End()

	req := dto.CreatePromoCodeRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	promo, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create promo code")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, promo)
}

// GetPromoCodes lists promo codes.
// @Summary Get all promo codes
// @Tags PromoCode
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by code"
// @Success 200 {object} response.Data[dto.GetPromoCodesResponse]
// @Router /api/promo-codes [get]
// @Security CookieAuth
func (handler *Handler) GetPromoCodes(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPromoCodes")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldCode,
				Operator: gDto.FilterOperatorLike,
				Value:    dto.NormalizeCode(r.URL.Query().Get(constant.RequestParamName)),
				Table:    model.TableName,
			},
		},
	}

	promos, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get promo codes")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, promos)
}
