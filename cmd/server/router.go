package main

import (
	"net/http"

	"ceylon-tours-be/internal/auth"
	"ceylon-tours-be/internal/handler"
	"ceylon-tours-be/internal/logger"
	"ceylon-tours-be/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type routes struct {
	tours    *handler.TourHandler
	blog     *handler.BlogHandler
	bookings *handler.BookingHandler
	auth     *handler.AuthHandler
	admin    *handler.AdminHandler
	notify   http.HandlerFunc

	sessions    *auth.Sessions
	general     middleware.Limiter
	login       middleware.Limiter
	corsOrigins []string
	publicDir   string
}

func setupRouter(rt routes) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Metrics)

	r.HandleFunc("/health", handler.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	public := api.NewRoute().Subrouter()
	public.Use(middleware.RateLimit(rt.general, middleware.TierGeneral))
	public.HandleFunc("/tours", rt.tours.ListTours).Methods(http.MethodGet)
	public.HandleFunc("/tours/{slug}", rt.tours.GetTour).Methods(http.MethodGet)
	public.HandleFunc("/destinations", rt.tours.ListDestinations).Methods(http.MethodGet)
	public.HandleFunc("/destinations/{slug}", rt.tours.GetDestination).Methods(http.MethodGet)
	public.HandleFunc("/blog", rt.blog.List).Methods(http.MethodGet)
	public.HandleFunc("/blog/{slug}", rt.blog.Get).Methods(http.MethodGet)
	public.HandleFunc("/bookings", rt.bookings.Create).Methods(http.MethodPost)
	public.HandleFunc("/bookings/{reference}", rt.bookings.Get).Methods(http.MethodGet)
	public.HandleFunc("/auth/logout", rt.auth.Logout).Methods(http.MethodPost)

	strict := api.NewRoute().Subrouter()
	strict.Use(middleware.RateLimit(rt.general, middleware.TierStrict))
	strict.HandleFunc("/payments/checkout", rt.bookings.Checkout).Methods(http.MethodPost)

	// Notifications are signature checked and not rate limited.
	api.HandleFunc("/payments/notify", rt.notify).Methods(http.MethodPost)

	login := api.NewRoute().Subrouter()
	login.Use(middleware.RateLimit(rt.login, middleware.TierStrict))
	login.HandleFunc("/auth/login", rt.auth.Login).Methods(http.MethodPost)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/me", rt.auth.Me).Methods(http.MethodGet)
	admin.HandleFunc("/bookings", rt.bookings.List).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{reference}", rt.bookings.Detail).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{reference}/payment", rt.bookings.Payment).Methods(http.MethodGet)
	admin.HandleFunc("/tours/{slug}", rt.tours.SaveTour).Methods(http.MethodPut)
	admin.HandleFunc("/tours/{slug}", rt.tours.DeleteTour).Methods(http.MethodDelete)
	admin.HandleFunc("/destinations/{slug}", rt.tours.SaveDestination).Methods(http.MethodPut)
	admin.HandleFunc("/destinations/{slug}", rt.tours.DeleteDestination).Methods(http.MethodDelete)
	admin.HandleFunc("/blog/{slug}", rt.blog.Save).Methods(http.MethodPut)
	admin.HandleFunc("/media/usage", rt.admin.MediaUsage).Methods(http.MethodGet)
	admin.HandleFunc("/settings", rt.admin.Settings).Methods(http.MethodGet)
	admin.HandleFunc("/settings/{key}", rt.admin.SaveSetting).Methods(http.MethodPut)

	if rt.publicDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(rt.publicDir))).Methods(http.MethodGet, http.MethodHead)
	}

	var h http.Handler = r
	h = middleware.Auth(rt.sessions)(h)
	h = middleware.CORS(rt.corsOrigins)(h)
	h = logger.LoggingMiddleware(h)
	h = logger.RequestIDMiddleware(h)
	return h
}
