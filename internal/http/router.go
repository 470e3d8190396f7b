package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/tallyapp/tally/internal/http/exportcsv"
	"github.com/tallyapp/tally/internal/http/importcsv"
	"github.com/tallyapp/tally/internal/http/summary"
	"github.com/tallyapp/tally/internal/http/transaction"
)

func New(
	transactionsV1 *transaction.Handler,
	importV1 *importcsv.Handler,
	exportV1 *exportcsv.Handler,
	summaryV1 *summary.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r)
		})

		r.Route("/import", importV1.Routes)
		r.Route("/export", exportV1.Routes)
		r.Route("/summary", summaryV1.Routes)
	})

	return router
}
