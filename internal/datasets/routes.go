package datasets

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/DataAtlasHQ/DA-Backend/internal/middleware"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := SessionInfo{}

	r.Get("/", ListDatasets)
	r.Get("/{id}", GetDataset)
	r.Get("/{id}/annotations", GetAnnotations)
	r.Get("/{id}/annotations/flat", GetFlatAnnotations)
	r.Get("/{id}/columns/{column}/defaults", GetColumnDefaults)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Post("/", CreateDataset)
		r.Put("/{id}/annotations", UpdateAnnotations)
		r.Post("/{id}/annotations/validate", ValidateColumn)
		r.Patch("/{id}/publish", PublishDataset)
	})

	return r
}
