package router

import (
	"skybook/internal/handlers/auth"
	"skybook/internal/handlers/banner"
	"skybook/internal/handlers/booking"
	"skybook/internal/handlers/flight"
	"skybook/internal/handlers/statistics"
	"skybook/internal/handlers/user"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth       auth.Handler
	User       user.Handler
	Flight     flight.Handler
	Booking    booking.Handler
	Statistics statistics.Handler
	Banner     banner.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Flight.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Statistics.Router(routerGroup)
		r.DomainHandlers.Banner.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
