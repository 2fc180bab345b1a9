package router

import (
	"smashroom/internal/handlers/auth"
	"smashroom/internal/handlers/booking"
	"smashroom/internal/handlers/catalog"
	"smashroom/internal/handlers/customer"
	"smashroom/internal/handlers/promo"
	"smashroom/internal/handlers/room"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth     auth.Handler
	Room     room.Handler
	Package  catalog.Handler
	Customer customer.Handler
	Promo    promo.Handler
	Booking  booking.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

// SetupRoutes registers every domain under router, which the server mounts at /api.
func (r *Router) SetupRoutes(router chi.Router) {
	r.DomainHandlers.Auth.Router(router)
	r.DomainHandlers.Room.Router(router)
	r.DomainHandlers.Package.Router(router)
	r.DomainHandlers.Customer.Router(router)
	r.DomainHandlers.Promo.Router(router)
	r.DomainHandlers.Booking.Router(router)
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
