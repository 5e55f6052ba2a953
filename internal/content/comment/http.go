package comment

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

// Routes is mounted under /titles/{titleID}/reviews/{reviewID}/comments.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{commentID}", handler.get)
	router.Patch("/{commentID}", handler.update)
	router.Delete("/{commentID}", handler.delete)

	return router
}

/*
GET /api/v1/titles/{titleID}/reviews/{reviewID}/comments.

Response:
  - 200: []Comment in publication order with pagination meta
  - 404: No such review under this title
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")

	comments, meta, err := handler.service.List(request.Context(), titleID, reviewID, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, meta)
}

/*
POST /api/v1/titles/{titleID}/reviews/{reviewID}/comments.

Request:
  - body: CreateInput (text)

Response:
  - 201: Comment
  - 400: Validation failure
  - 401: Authentication required
  - 404: No such review
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	actor := access.FromClaims(requestutil.Claims(request))
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.Create(request.Context(), actor, titleID, reviewID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
GET /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}.

Response:
  - 200: Comment
  - 404: No such comment under this review
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")
	commentID := requestutil.Param(request, "commentID")

	found, err := handler.service.Get(request.Context(), titleID, reviewID, commentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}

/*
PATCH /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}.

Description: Edits the text. Author, moderator, or admin.

Response:
  - 200: Comment
  - 400: Validation failure
  - 403: Caller is neither author nor moderator
  - 404: No such comment
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	actor := access.FromClaims(requestutil.Claims(request))
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")
	commentID := requestutil.Param(request, "commentID")

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.Update(request.Context(), actor, titleID, reviewID, commentID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
DELETE /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}.

Response:
  - 204: Comment removed
  - 403: Caller is neither author nor moderator
  - 404: No such comment
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	actor := access.FromClaims(requestutil.Claims(request))
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")
	commentID := requestutil.Param(request, "commentID")

	if err := handler.service.Delete(request.Context(), actor, titleID, reviewID, commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
