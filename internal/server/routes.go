package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"auction_scout/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			// unauthorized zone
			r.Route("/products", func(r chi.Router) {
				r.Get("/", handler(s.getV1Products))
				r.Get("/{upc}", handler(s.getV1Product))
				r.Get("/{upc}/estimate", handler(s.getV1ProductEstimate))
			})
			r.Post("/research", handler(s.postV1Research))
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
