//go:build wireinject
// +build wireinject

package di

import (
	"smashroom/config"
	"smashroom/infras/jwt"
	"smashroom/infras/kafka"
	"smashroom/infras/otel"
	"smashroom/infras/postgres"
	"smashroom/infras/redis"
	"smashroom/infras/s3"
	"smashroom/permissions"
	"smashroom/shared/cache"
	"smashroom/transport/http"
	"smashroom/transport/http/middleware"
	"smashroom/transport/http/router"

	"github.com/google/wire"

	authService "smashroom/internal/domains/auth/service"
	availabilityService "smashroom/internal/domains/availability/service"
	"smashroom/internal/domains/booking/event"
	bookingRepository "smashroom/internal/domains/booking/repository"
	bookingService "smashroom/internal/domains/booking/service"
	catalogRepository "smashroom/internal/domains/catalog/repository"
	catalogService "smashroom/internal/domains/catalog/service"
	customerRepository "smashroom/internal/domains/customer/repository"
	customerService "smashroom/internal/domains/customer/service"
	promoRepository "smashroom/internal/domains/promo/repository"
	promoService "smashroom/internal/domains/promo/service"
	roomRepository "smashroom/internal/domains/room/repository"
	roomService "smashroom/internal/domains/room/service"
	userRepository "smashroom/internal/domains/user/repository"
	authHandler "smashroom/internal/handlers/auth"
	bookingHandler "smashroom/internal/handlers/booking"
	catalogHandler "smashroom/internal/handlers/catalog"
	customerHandler "smashroom/internal/handlers/customer"
	promoHandler "smashroom/internal/handlers/promo"
	roomHandler "smashroom/internal/handlers/room"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var catalogDomain = wire.NewSet(
	catalogRepository.New,
	catalogService.New,
)

var customerDomain = wire.NewSet(
	customerRepository.New,
	customerService.New,
)

var promoDomain = wire.NewSet(
	promoRepository.New,
	promoService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
	availabilityService.New,
	event.NewPublisher,
	event.NewListener,
)

var domains = wire.NewSet(
	authDomain,
	roomDomain,
	catalogDomain,
	customerDomain,
	promoDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	roomHandler.New,
	catalogHandler.New,
	customerHandler.New,
	promoHandler.New,
	bookingHandler.New,
	router.New,
)

func InitializeService() *Service {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
		wire.Struct(new(Service), "*"),
	)

	return &Service{}
}
