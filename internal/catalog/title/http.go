package title

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kritika-app/kritika/internal/access"
	requestutil "github.com/kritika-app/kritika/internal/platform/request"
	"github.com/kritika-app/kritika/internal/platform/respond"
	"github.com/kritika-app/kritika/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{titleID}", handler.get)
	router.Patch("/{titleID}", handler.update)
	router.Delete("/{titleID}", handler.delete)

	return router
}

/*
GET /api/v1/titles.

Description: Lists titles ordered by name with their live mean rating.
Filters: ?name= (substring), ?year= (exact), ?category= (slug), ?genre= (slug).

Response:
  - 200: []Title with pagination meta
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	year := 0
	if raw := query.Get("year"); raw != "" {
		// Non-numeric years simply match nothing rather than erroring.
		year, _ = strconv.Atoi(raw)
	}

	filter := Filter{
		Name:         query.Get("name"),
		Year:         year,
		CategorySlug: query.Get("category"),
		GenreSlug:    query.Get("genre"),
	}

	titles, meta, err := handler.service.List(request.Context(), filter, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, titles, meta)
}

/*
POST /api/v1/titles.

Description: Adds a title to the catalog. Admin only.

Request:
  - body: CreateInput (category and genres referenced by slug)

Response:
  - 201: Title: The created entry, rating null
  - 400: Validation failure or unknown category/genre slug
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	actor := access.FromClaims(requestutil.Claims(request))

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.Create(request.Context(), actor, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
GET /api/v1/titles/{titleID}.

Response:
  - 200: Title with rating, category, and genres
  - 404: No such title
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	titleID := requestutil.Param(request, "titleID")

	found, err := handler.service.Get(request.Context(), titleID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}

/*
PATCH /api/v1/titles/{titleID}.

Description: Applies a partial update. Admin only.

Response:
  - 200: Title: The updated entry
  - 400: Validation failure or unknown category/genre slug
  - 404: No such title
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	actor := access.FromClaims(requestutil.Claims(request))
	titleID := requestutil.Param(request, "titleID")

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.Update(request.Context(), actor, titleID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
DELETE /api/v1/titles/{titleID}.

Response:
  - 204: Title removed along with its reviews and comments
  - 404: No such title
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	actor := access.FromClaims(requestutil.Claims(request))
	titleID := requestutil.Param(request, "titleID")

	if err := handler.service.Delete(request.Context(), actor, titleID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
