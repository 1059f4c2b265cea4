package rest

import (
	"context"
	"fmt"
	"net/http"

	core_port "miniapp-service/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server - REST API сервер Mini App.
type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

// NewServer создает новый экземпляр сервера и настраивает роутинг.
func NewServer(
	port string,
	allowedOrigins []string,
	analytics *AnalyticsHandler,
	invest *InvestHandler,
	collections *CollectionsHandler,
	leads *LeadsHandler,
	baseLogger core_port.LoggerPort,
) *Server {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(baseLogger))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		// Запросы приходят из WebView Telegram, origin задается конфигом
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-User-ID", "X-User-Tier", "X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           300, // 5 минут
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Все API требуют идентификации пользователя от API Gateway
		r.Use(AuthMiddleware)

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/address", analytics.SearchByAddress)
			r.Get("/district", analytics.SearchByDistrict)
			r.Get("/city", analytics.SearchByCity)
			r.Get("/cities", analytics.ListCities)
		})

		r.Route("/suggest", func(r chi.Router) {
			r.Get("/addresses", analytics.SuggestAddresses)
			r.Get("/cities", analytics.SuggestCities)
		})

		r.Route("/invest", func(r chi.Router) {
			r.Get("/top", invest.GetTopInvestments)
			r.Post("/auth", invest.Authorize)
			r.Get("/auth/status", invest.AuthStatus)
		})

		r.Route("/history", func(r chi.Router) {
			r.Get("/", collections.GetHistory)
			r.Post("/", collections.AddHistory)
			r.Delete("/", collections.ClearHistory)
			r.Delete("/{itemID}", collections.RemoveHistoryItem)
		})

		r.Route("/mandates", func(r chi.Router) {
			r.Get("/", collections.GetMandates)
			r.Post("/", collections.SaveMandate)
			r.Delete("/{mandateID}", collections.DeleteMandate)
		})

		r.Route("/deals", func(r chi.Router) {
			r.Get("/", collections.GetDeals)
			r.Post("/", collections.SaveDeal)
			r.Get("/tracks", collections.GetDealTracks)
			r.Delete("/{dealID}", collections.RemoveDeal)
			r.Put("/{dealID}/track", collections.UpsertDealTrack)
		})

		r.Route("/preferences", func(r chi.Router) {
			r.Get("/theme", collections.GetTheme)
			r.Put("/theme", collections.SetTheme)
		})

		r.Post("/leads/urgent-sale", leads.SubmitUrgentSale)
		r.Post("/forecast", leads.RequestForecast)
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	return &Server{
		httpServer: srv,
		logger:     baseLogger,
	}
}

// Start запускает HTTP-сервер.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", core_port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop корректно останавливает сервер.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
