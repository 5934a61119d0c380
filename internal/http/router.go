package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/europemission/martha/internal/http/backup"
	"github.com/europemission/martha/internal/http/circuit"
	"github.com/europemission/martha/internal/http/event"
	"github.com/europemission/martha/internal/http/inventory"
	"github.com/europemission/martha/internal/http/report"
	"github.com/europemission/martha/internal/http/transaction"
)

func New(
	transactionsV1 *transaction.Handler,
	circuitsV1 *circuit.Handler,
	inventoryV1 *inventory.Handler,
	eventsV1 *event.Handler,
	reportsV1 *report.Handler,
	backupV1 *backup.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r)
		})

		r.Route("/circuits", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			circuitsV1.Routes(r)
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			inventoryV1.Routes(r)
		})

		r.Route("/events", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			eventsV1.Routes(r)
		})

		r.Route("/reports", reportsV1.Routes)

		r.Route("/backup", backupV1.Routes)
	})

	return router
}
