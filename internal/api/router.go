package api

import (
	"net/http"
	"time"

	"github.com/athebyme/wbcard-sync/internal/api/handlers"
	"github.com/athebyme/wbcard-sync/internal/api/middleware"
	"github.com/athebyme/wbcard-sync/internal/domain/mapper"
	"github.com/athebyme/wbcard-sync/internal/domain/services"
	"github.com/athebyme/wbcard-sync/pkg/interfaces"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// SetupRouter настраивает маршрутизатор
func SetupRouter(
	messaging interfaces.MessagingPort,
	cardUpdateTopic string,
	resolver services.CardResolver,
	cardMapper *mapper.CardMapper,
	registry *mapper.Registry,
	logger interfaces.LoggerPort,
) *chi.Mux {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Method(http.MethodGet, "/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}))
	r.Method(http.MethodHead, "/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	cardHandler := handlers.NewCardHandler(messaging, cardUpdateTopic, resolver, cardMapper, registry, logger)

	r.Route("/api/v1", func(r chi.Router) {
		// Маршруты для карточек
		r.Route("/cards", func(r chi.Router) {
			// Постановка обновления карточки в очередь
			r.Post("/update", cardHandler.UpdateCard)

			// Сборка карточки без отправки в маркетплейс
			r.Post("/preview", cardHandler.PreviewCard)
		})

		// Зарегистрированные мапперы свойств
		r.Get("/mappers", cardHandler.ListMappers)
	})

	return r
}
