package review

import (
	"net/http"

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

// Routes is mounted under /titles/{titleID}/reviews by the server.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{reviewID}", handler.get)
	router.Patch("/{reviewID}", handler.update)
	router.Delete("/{reviewID}", handler.delete)

	return router
}

/*
GET /api/v1/titles/{titleID}/reviews.

Response:
  - 200: []Review in publication order with pagination meta
  - 404: No such title
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	titleID := requestutil.Param(request, "titleID")

	reviews, meta, err := handler.service.List(request.Context(), titleID, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, reviews, meta)
}

/*
POST /api/v1/titles/{titleID}/reviews.

Request:
  - body: CreateInput (text, score 1-10)

Response:
  - 201: Review
  - 400: Validation failure
  - 401: Authentication required
  - 404: No such title
  - 409: Caller already reviewed this title
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	actor := access.FromClaims(requestutil.Claims(request))
	titleID := requestutil.Param(request, "titleID")

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.Create(request.Context(), actor, titleID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
GET /api/v1/titles/{titleID}/reviews/{reviewID}.

Response:
  - 200: Review
  - 404: No such review under this title
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")

	found, err := handler.service.Get(request.Context(), titleID, reviewID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}

/*
PATCH /api/v1/titles/{titleID}/reviews/{reviewID}.

Description: Edits text and/or score. Author, moderator, or admin.

Response:
  - 200: Review
  - 400: Validation failure
  - 403: Caller is neither author nor moderator
  - 404: No such review
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	actor := access.FromClaims(requestutil.Claims(request))
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.Update(request.Context(), actor, titleID, reviewID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
DELETE /api/v1/titles/{titleID}/reviews/{reviewID}.

Response:
  - 204: Review and its comments removed
  - 403: Caller is neither author nor moderator
  - 404: No such review
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	actor := access.FromClaims(requestutil.Claims(request))
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")

	if err := handler.service.Delete(request.Context(), actor, titleID, reviewID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
