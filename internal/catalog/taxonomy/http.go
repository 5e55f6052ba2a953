package taxonomy

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kritika-app/kritika/internal/access"
	requestutil "github.com/kritika-app/kritika/internal/platform/request"
	"github.com/kritika-app/kritika/internal/platform/respond"
	"github.com/kritika-app/kritika/pkg/pagination"
)

// Handler serves one vocabulary. The server mounts two instances, one for
// categories and one for genres.
type Handler struct {
	service *Service
	kind    Kind
}

func NewHandler(service *Service, kind Kind) *Handler {
	return &Handler{service: service, kind: kind}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Delete("/{slug}", handler.delete)

	return router
}

// GET /api/v1/{categories|genres}. Public, searchable, paginated.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	search := request.URL.Query().Get("search")
	params := pagination.FromRequest(request)

	terms, meta, err := handler.service.List(request.Context(), handler.kind, search, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, terms, meta)
}

// POST /api/v1/{categories|genres}. Admin only.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	actor := access.FromClaims(requestutil.Claims(request))

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	term, err := handler.service.Create(request.Context(), actor, handler.kind, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, term)
}

// DELETE /api/v1/{categories|genres}/{slug}. Admin only.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	actor := access.FromClaims(requestutil.Claims(request))
	termSlug := requestutil.Param(request, "slug")

	if err := handler.service.Delete(request.Context(), actor, handler.kind, termSlug); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
